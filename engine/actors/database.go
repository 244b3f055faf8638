package actors

import (
	"context"
	"os"

	"askora/engine/library"
	"askora/ledger"
	"askora/ledger/store"
)

// DatabasePath is where the ledger store lives, under rootDir/flatFileDir.
func DatabasePath() string {
	dir := directory()
	if err := os.MkdirAll(dir, 0777); err != nil {
		library.LogCLI(err.Error(), 0)
	}
	return dir + MakeOrGetConfig().GetString("ledgerFile")
}

// OpenStore starts the ledger store and restores its snapshot into l.
// The caller stops the store when done.
func OpenStore(ctx context.Context, l *ledger.Ledger) (*store.Store, error) {
	s := store.New(DatabasePath())
	if err := s.Start(ctx); err != nil {
		return nil, err
	}
	snap, err := s.Load()
	if err != nil {
		_ = s.Stop(ctx)
		return nil, err
	}
	if len(snap.Instances) > 0 {
		l.Restore(snap)
		library.LogCLI("restored ledger snapshot from "+DatabasePath(), 4)
	}
	return s, nil
}

func Persist(s *store.Store, l *ledger.Ledger) {
	if err := s.Save(l.Snapshot()); err != nil {
		library.LogCLI(err.Error(), 1)
	}
}

func directory() string {
	dir := MakeOrGetConfig().GetString("rootDir")
	dir = dir + MakeOrGetConfig().GetString("flatFileDir")
	return dir
}
