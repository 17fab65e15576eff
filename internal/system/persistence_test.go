package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tankgo/sim/internal/progress"
	"go.uber.org/zap"
)

type fakeStore struct {
	saves []progress.Snapshot
	err   error
}

func (f *fakeStore) SaveProfile(_ context.Context, snap progress.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	f.saves = append(f.saves, snap)
	return nil
}

type fixedSnapshot progress.Snapshot

func (s fixedSnapshot) Snapshot() progress.Snapshot { return progress.Snapshot(s) }

func TestFirstTickWritesProfile(t *testing.T) {
	store := &fakeStore{}
	src := fixedSnapshot{Gold: 100, Zone: 1}
	sys := NewPersistenceSystem(zap.NewNop(), store, src, time.Minute)

	// the profile row must exist after one tick — wave records reference it,
	// and the first wave completes long before the flush interval elapses
	sys.Update(50 * time.Millisecond)
	if len(store.saves) != 1 {
		t.Fatalf("saves = %d after first tick, want 1", len(store.saves))
	}
	if store.saves[0].Gold != 100 {
		t.Fatalf("saved gold = %d, want 100", store.saves[0].Gold)
	}

	// after that, flushes follow the interval
	for i := 0; i < 10; i++ {
		sys.Update(time.Second)
	}
	if len(store.saves) != 1 {
		t.Fatalf("saves = %d before interval elapses, want still 1", len(store.saves))
	}
	sys.Update(time.Minute)
	if len(store.saves) != 2 {
		t.Fatalf("saves = %d after interval, want 2", len(store.saves))
	}
}

func TestFlushFailureRetriedNextInterval(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	sys := NewPersistenceSystem(zap.NewNop(), store, fixedSnapshot{}, time.Minute)

	sys.Update(50 * time.Millisecond)
	if len(store.saves) != 0 {
		t.Fatalf("saves = %d, want 0 while the store errors", len(store.saves))
	}

	store.err = nil
	sys.Update(time.Minute)
	if len(store.saves) != 1 {
		t.Fatalf("saves = %d after recovery, want 1", len(store.saves))
	}
}

func TestNilStoreIsNoop(t *testing.T) {
	sys := NewPersistenceSystem(zap.NewNop(), nil, fixedSnapshot{}, time.Minute)
	sys.Update(time.Minute)
	sys.Flush(context.Background()) // must not panic
}
