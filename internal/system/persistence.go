package system

import (
	"context"
	"time"

	coresys "github.com/tankgo/sim/internal/core/system"
	"github.com/tankgo/sim/internal/progress"
	"go.uber.org/zap"
)

// ProfileStore is the durable side of progression. persist.ProgressRepo
// implements it; a nil store turns persistence into a no-op.
type ProfileStore interface {
	SaveProfile(ctx context.Context, snap progress.Snapshot) error
}

// SnapshotSource yields the current persistable profile state.
type SnapshotSource interface {
	Snapshot() progress.Snapshot
}

// PersistenceSystem flushes the progression snapshot to the store on a fixed
// interval (Phase 3, Persist). The first tick flushes immediately so the
// profile row exists before anything references it (wave records carry a
// foreign key to the profile). Write failures are logged and retried on the
// next interval; the simulation never blocks on the database.
type PersistenceSystem struct {
	log      *zap.Logger
	store    ProfileStore
	source   SnapshotSource
	interval time.Duration
	elapsed  time.Duration
}

func NewPersistenceSystem(log *zap.Logger, store ProfileStore, source SnapshotSource, interval time.Duration) *PersistenceSystem {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &PersistenceSystem{
		log:      log,
		store:    store,
		source:   source,
		interval: interval,
		elapsed:  interval, // first Update flushes right away
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(dt time.Duration) {
	if s.store == nil {
		return
	}
	s.elapsed += dt
	if s.elapsed < s.interval {
		return
	}
	s.elapsed = 0
	s.Flush(context.Background())
}

// Flush writes the snapshot immediately. Also called once on shutdown.
func (s *PersistenceSystem) Flush(ctx context.Context) {
	if s.store == nil {
		return
	}
	snap := s.source.Snapshot()
	if err := s.store.SaveProfile(ctx, snap); err != nil {
		s.log.Error("profile flush failed", zap.Error(err))
		return
	}
	s.log.Debug("profile flushed",
		zap.Int("zone", snap.Zone),
		zap.Int("gold", snap.Gold),
		zap.Int("xp", snap.XP))
}
