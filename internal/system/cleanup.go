package system

import (
	"time"

	coresys "github.com/tankgo/sim/internal/core/system"
	"github.com/tankgo/sim/internal/world"
)

// CleanupSystem 回收屍體（Phase 4, Cleanup）。死亡的敵人保留若干 tick
// 供呈現層播放死亡演出，倒數歸零才釋放回池。
type CleanupSystem struct {
	deps *Deps
}

func NewCleanupSystem(deps *Deps) *CleanupSystem {
	return &CleanupSystem{deps: deps}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(time.Duration) {
	var done []*world.Enemy

	s.deps.State.Enemies.ForEachActive(func(e *world.Enemy) {
		if e.Alive {
			return
		}
		e.DeleteTicks--
		if e.DeleteTicks <= 0 {
			done = append(done, e)
		}
	})

	for _, e := range done {
		s.deps.State.Enemies.Release(e)
	}
}
