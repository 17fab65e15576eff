package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tankgo/sim/internal/combat"
	"github.com/tankgo/sim/internal/config"
	"github.com/tankgo/sim/internal/core/event"
	"github.com/tankgo/sim/internal/data"
	"github.com/tankgo/sim/internal/progress"
	"github.com/tankgo/sim/internal/world"
	"go.uber.org/zap"
)

// stubScaling is a deterministic ScalingSource: no Lua VM in unit tests.
type stubScaling struct {
	hpMult  float64
	dmgMult float64
	err     error
}

func (s *stubScaling) EnemyScaling(tier string, zone, act int) (float64, float64, error) {
	if s.err != nil {
		return 0, 0, s.err
	}
	return s.hpMult, s.dmgMult, nil
}

func (s *stubScaling) KillReward(tier string, zone, baseXP, baseGold int) (int, int, error) {
	if s.err != nil {
		return 0, 0, s.err
	}
	return baseXP, baseGold, nil
}

const testEnemyYAML = `
enemies:
  - category: imp
    name: imp
    tier: fodder
    hp: 40
    damage: 6
    speed: 90
    attack_range: 40
    attack_cooldown_ms: 1200
    xp: 5
    gold: 3
  - category: orc
    name: orc
    tier: elite
    hp: 180
    damage: 18
    speed: 70
    attack_range: 55
    attack_cooldown_ms: 1600
    xp: 25
    gold: 15
  - category: ogre
    name: ogre
    tier: super_elite
    hp: 600
    damage: 40
    speed: 55
    attack_range: 70
    attack_cooldown_ms: 2000
    xp: 120
    gold: 80
  - category: dragon
    name: dragon
    tier: boss
    hp: 2000
    damage: 80
    speed: 45
    attack_range: 90
    attack_cooldown_ms: 2400
    xp: 500
    gold: 350
`

func loadTestEnemyTable(t *testing.T) *data.EnemyTable {
	t.Helper()
	path := filepath.Join(t.TempDir(), "enemy_list.yaml")
	if err := os.WriteFile(path, []byte(testEnemyYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := data.LoadEnemyTable(path)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

// newTestDeps builds a Deps wired to an in-memory world: nop logger, no
// variance (deterministic damage), default config.
func newTestDeps(t *testing.T, enemyCap, projectileCap int) *Deps {
	t.Helper()
	cfg := config.Defaults()
	cfg.Combat.ApplyVariance = false
	cfg.Pool.EnemyCapacity = enemyCap
	cfg.Pool.ProjectileCapacity = projectileCap

	log := zap.NewNop()
	bus := event.NewBus()
	tank := world.NewTank(0, 1000)
	state := world.NewState(enemyCap, projectileCap, tank)
	tracker := progress.NewTracker(log, bus, tank, cfg.Wave.ZonesPerAct)

	return &Deps{
		Cfg:     cfg,
		Log:     log,
		Bus:     bus,
		State:   state,
		Oracle:  combat.NewOracle(data.NewHitboxTable(), cfg.Combat.MeleeTolerance),
		Sink:    tracker,
		Enemies: loadTestEnemyTable(t),
		Scaling: &stubScaling{hpMult: 1, dmgMult: 1},
		Rng:     nil,
	}
}

// trackerOf unwraps the concrete tracker behind the sink interface.
func trackerOf(t *testing.T, deps *Deps) *progress.Tracker {
	t.Helper()
	tr, ok := deps.Sink.(*progress.Tracker)
	if !ok {
		t.Fatalf("sink is %T, want *progress.Tracker", deps.Sink)
	}
	return tr
}

// spawnTestEnemy activates an enemy directly in the pool, bypassing the wave
// scheduler, for combat-level tests.
func spawnTestEnemy(t *testing.T, deps *Deps, category string, hp int, side world.Side, x float64) *world.Enemy {
	t.Helper()
	tpl := deps.Enemies.Get(category)
	if tpl == nil {
		t.Fatalf("no template for category %q", category)
	}
	e, err := deps.State.Enemies.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	e.Activate(tpl, world.ScaledStats{HP: hp, Damage: tpl.Damage, XP: tpl.XP, Gold: tpl.Gold}, side, x)
	return e
}
