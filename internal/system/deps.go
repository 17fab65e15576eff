package system

import (
	"math/rand"

	"github.com/tankgo/sim/internal/combat"
	"github.com/tankgo/sim/internal/config"
	"github.com/tankgo/sim/internal/core/ecs"
	"github.com/tankgo/sim/internal/core/event"
	"github.com/tankgo/sim/internal/data"
	"github.com/tankgo/sim/internal/progress"
	"github.com/tankgo/sim/internal/world"
	"go.uber.org/zap"
)

// ScalingSource supplies the Lua-driven tuning formulas. scripting.Engine
// implements it; tests stub it.
type ScalingSource interface {
	EnemyScaling(tier string, zone, act int) (hpMult, damageMult float64, err error)
	KillReward(tier string, zone, baseXP, baseGold int) (xp, gold int, err error)
}

// CollisionSink receives the overlap pairs the movement pass detects. The
// combat system implements it; the queued pairs are resolved on the next
// tick's combat phase.
type CollisionSink interface {
	QueueOverlap(projectile, enemy ecs.Handle)
}

// Deps is the shared context object passed into system constructors.
// No singletons: everything a system touches arrives here explicitly.
type Deps struct {
	Cfg     *config.Config
	Log     *zap.Logger
	Bus     *event.Bus
	State   *world.State
	Oracle  *combat.Oracle
	Sink    progress.Sink
	Enemies *data.EnemyTable
	Scaling ScalingSource
	Rng     *rand.Rand
}
