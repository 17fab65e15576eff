package system

import (
	"math/rand"
	"testing"
	"time"

	"github.com/tankgo/sim/internal/data"
	"github.com/tankgo/sim/internal/world"
)

func testModule(id string, homing bool) *data.ModuleTemplate {
	return &data.ModuleTemplate{
		ID:         id,
		KindName:   "bullet",
		Damage:     20,
		CooldownMs: 1000,
		Range:      500,
		Speed:      800,
		Homing:     homing,
		Kind:       data.KindBullet,
	}
}

func TestModuleFiresAtClosestEnemyAfterCooldown(t *testing.T) {
	deps := newTestDeps(t, 8, 8)
	sys := NewModuleFireSystem(deps)
	sys.Equip(testModule("mg", false), 2)

	near := spawnTestEnemy(t, deps, "imp", 100, world.SideLeft, -100)
	spawnTestEnemy(t, deps, "imp", 100, world.SideRight, 300)

	// cooldown starts full: nothing on the first tick
	sys.Update(50 * time.Millisecond)
	if deps.State.Projectiles.ActiveCount() != 0 {
		t.Fatal("must not fire before the first cooldown elapses")
	}

	sys.Update(time.Second)
	if deps.State.Projectiles.ActiveCount() != 1 {
		t.Fatalf("projectiles = %d, want 1", deps.State.Projectiles.ActiveCount())
	}

	var p *world.Projectile
	deps.State.Projectiles.ForEachActive(func(pr *world.Projectile) { p = pr })
	if p.VX >= 0 {
		t.Fatalf("VX = %v, want negative (toward the closer, left-side enemy at %v)", p.VX, near.X)
	}
	if p.SlotLevel != 2 {
		t.Fatalf("SlotLevel = %d, want 2", p.SlotLevel)
	}
	if !p.HomingTarget.IsZero() {
		t.Fatal("non-homing module must not carry a target handle")
	}
}

func TestModuleHoldsFireWithNoTargetInRange(t *testing.T) {
	deps := newTestDeps(t, 8, 8)
	sys := NewModuleFireSystem(deps)
	sys.Equip(testModule("mg", false), 1)

	spawnTestEnemy(t, deps, "imp", 100, world.SideRight, 900) // beyond 500 range

	for i := 0; i < 40; i++ {
		sys.Update(100 * time.Millisecond)
	}
	if deps.State.Projectiles.ActiveCount() != 0 {
		t.Fatal("must not fire with every enemy out of range")
	}
}

func TestHomingModuleTracksTarget(t *testing.T) {
	deps := newTestDeps(t, 8, 8)
	sys := NewModuleFireSystem(deps)
	sys.Equip(testModule("pod", true), 1)

	e := spawnTestEnemy(t, deps, "imp", 100, world.SideLeft, -200)

	sys.Update(time.Second + time.Millisecond)
	var p *world.Projectile
	deps.State.Projectiles.ForEachActive(func(pr *world.Projectile) { p = pr })
	if p == nil {
		t.Fatal("expected a projectile")
	}
	if p.HomingTarget != e.Handle {
		t.Fatal("homing projectile must carry the target's handle")
	}
}

func TestCritRollUsesConfiguredChance(t *testing.T) {
	deps := newTestDeps(t, 8, 64)
	deps.Rng = rand.New(rand.NewSource(1))
	deps.State.Tank.Stats.CritChance = 1.0 // every shot crits
	sys := NewModuleFireSystem(deps)
	sys.Equip(testModule("mg", false), 1)

	spawnTestEnemy(t, deps, "imp", 100, world.SideLeft, -100)

	sys.Update(time.Second + time.Millisecond)
	var p *world.Projectile
	deps.State.Projectiles.ForEachActive(func(pr *world.Projectile) { p = pr })
	if p == nil || !p.Crit {
		t.Fatal("with crit chance 1.0 every projectile must be a crit")
	}
}
