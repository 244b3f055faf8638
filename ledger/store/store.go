// Package store keeps ledger snapshots in a bolt database between runs.
package store

import (
	"context"
	"encoding/binary"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"askora/ledger"
)

const fileMode = 0600

var (
	instancesBucket = []byte("instances")
	metaBucket      = []byte("meta")

	ltKey      = []byte("lt")
	nowKey     = []byte("now")
	pendingKey = []byte("pending")
)

var ErrIO = errors.New("ledger store io failure")

type Store struct {
	db   *bolt.DB
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Start opens the database, creating the file if it does not exist.
func (s *Store) Start(_ context.Context) error {
	db, err := bolt.Open(s.path, fileMode, nil)
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	s.db = db
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{instancesBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Stop(_ context.Context) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// Save replaces the stored snapshot with snap.
func (s *Store) Save(snap ledger.Snapshot) error {
	pending, err := ledger.EncodeState(snap.Pending)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(instancesBucket); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		instances, err := tx.CreateBucket(instancesBucket)
		if err != nil {
			return err
		}
		for _, addr := range snap.SortedAddresses() {
			value, err := ledger.EncodeState(snap.Instances[addr])
			if err != nil {
				return err
			}
			key := addr
			if err := instances.Put(key[:], value); err != nil {
				return errors.Wrapf(err, "put %s", addr)
			}
		}
		meta := tx.Bucket(metaBucket)
		if err := meta.Put(ltKey, uint64Bytes(snap.LT)); err != nil {
			return err
		}
		if err := meta.Put(nowKey, uint64Bytes(uint64(snap.Now))); err != nil {
			return err
		}
		return meta.Put(pendingKey, pending)
	})
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// Load reads the stored snapshot. An empty store yields an empty snapshot.
func (s *Store) Load() (ledger.Snapshot, error) {
	snap := ledger.Snapshot{Instances: make(map[ledger.Address]ledger.InstanceState)}
	err := s.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(metaBucket)
		if v := meta.Get(ltKey); v != nil {
			snap.LT = binary.BigEndian.Uint64(v)
		}
		if v := meta.Get(nowKey); v != nil {
			snap.Now = int64(binary.BigEndian.Uint64(v))
		}
		if v := meta.Get(pendingKey); v != nil {
			if err := ledger.DecodeState(v, &snap.Pending); err != nil {
				return err
			}
		}
		return tx.Bucket(instancesBucket).ForEach(func(k, v []byte) error {
			var addr ledger.Address
			if len(k) != len(addr) {
				return errors.Errorf("bad key length %d", len(k))
			}
			copy(addr[:], k)
			var state ledger.InstanceState
			if err := ledger.DecodeState(v, &state); err != nil {
				return errors.Wrapf(err, "instance %s", addr)
			}
			snap.Instances[addr] = state
			return nil
		})
	})
	if err != nil {
		return snap, errors.Wrap(ErrIO, err.Error())
	}
	return snap, nil
}

func uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
