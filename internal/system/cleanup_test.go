package system

import (
	"testing"
	"time"

	"github.com/tankgo/sim/internal/world"
)

func TestCorpseReleasedAfterDelay(t *testing.T) {
	deps := newTestDeps(t, 8, 8)
	sys := NewCleanupSystem(deps)

	e := spawnTestEnemy(t, deps, "imp", 100, world.SideLeft, -100)
	h := e.Handle
	e.Alive = false
	e.DeleteTicks = 3

	dt := 50 * time.Millisecond
	sys.Update(dt)
	sys.Update(dt)
	if deps.State.Enemies.Lookup(h) == nil {
		t.Fatal("corpse released too early")
	}

	sys.Update(dt)
	if deps.State.Enemies.Lookup(h) != nil {
		t.Fatal("corpse should be released once the countdown hits zero")
	}
	if deps.State.Enemies.ActiveCount() != 0 {
		t.Fatalf("active = %d, want 0", deps.State.Enemies.ActiveCount())
	}
}

func TestLivingEnemiesUntouchedByCleanup(t *testing.T) {
	deps := newTestDeps(t, 8, 8)
	sys := NewCleanupSystem(deps)

	spawnTestEnemy(t, deps, "imp", 100, world.SideLeft, -100)
	for i := 0; i < 100; i++ {
		sys.Update(50 * time.Millisecond)
	}
	if deps.State.Enemies.ActiveCount() != 1 {
		t.Fatal("cleanup must never touch living enemies")
	}
}
