package ledger

import (
	"encoding/binary"
	"sort"

	"github.com/mohae/deepcopy"

	"askora/engine/library"
)

// Snapshot is a detached copy of everything the ledger holds.
type Snapshot struct {
	LT        uint64
	Now       int64
	Instances map[Address]InstanceState
	Pending   []Message
}

func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := Snapshot{
		LT:        l.lt,
		Now:       l.now,
		Instances: make(map[Address]InstanceState, len(l.instances)),
	}
	for addr, inst := range l.instances {
		s.Instances[addr] = inst.InstanceState
	}
	for _, addr := range l.pendingAddresses() {
		s.Pending = append(s.Pending, l.mailboxes[addr].Items()...)
	}
	return deepcopy.Copy(s).(Snapshot)
}

// Restore replaces the ledger contents with s. Registered codes, fees and clock are kept.
func (l *Ledger) Restore(s Snapshot) {
	s = deepcopy.Copy(s).(Snapshot)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lt = s.LT
	l.now = s.Now
	l.instances = make(map[Address]*instance, len(s.Instances))
	for addr, state := range s.Instances {
		inst := newInstance()
		inst.InstanceState = state
		l.instances[addr] = inst
	}
	l.mailboxes = make(map[Address]*library.Stack[Message])
	for _, m := range s.Pending {
		l.enqueue(m)
	}
}

// SortedAddresses lists the snapshot's actors in address order.
func (s Snapshot) SortedAddresses() []Address {
	out := make([]Address, 0, len(s.Instances))
	for addr := range s.Instances {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Hash fingerprints the snapshot: logical time, every actor in address order and the pending mail.
// Two ledgers that processed the same messages hash the same.
func (s Snapshot) Hash() (library.Sha256, error) {
	var buf []byte
	buf = binary.BigEndian.AppendUint64(buf, s.LT)
	for _, addr := range s.SortedAddresses() {
		state, err := EncodeState(s.Instances[addr])
		if err != nil {
			return "", err
		}
		buf = append(buf, addr[:]...)
		buf = append(buf, state...)
	}
	pending, err := EncodeState(s.Pending)
	if err != nil {
		return "", err
	}
	return library.Sha256Sum(append(buf, pending...)), nil
}
