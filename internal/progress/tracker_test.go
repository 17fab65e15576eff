package progress

import (
	"testing"
	"time"

	"github.com/tankgo/sim/internal/core/event"
	"github.com/tankgo/sim/internal/world"
	"go.uber.org/zap"
)

func newTestTracker() (*Tracker, *world.Tank, *event.Bus) {
	bus := event.NewBus()
	tank := world.NewTank(0, 1000)
	return NewTracker(zap.NewNop(), bus, tank, 10), tank, bus
}

func TestAccumulatorsIgnoreNonPositiveAmounts(t *testing.T) {
	tr, _, _ := newTestTracker()

	tr.AddXP(10, "imp#1")
	tr.AddXP(0, "imp#2")
	tr.AddXP(-5, "imp#3")
	tr.AddGold(7, "imp#1")

	gold, xp, _, _ := tr.Totals()
	if xp != 10 || gold != 7 {
		t.Fatalf("xp/gold = %d/%d, want 10/7", xp, gold)
	}
}

func TestZoneAdvanceDerivesAct(t *testing.T) {
	tr, _, bus := newTestTracker()

	var changes []event.ZoneChanged
	event.Subscribe(bus, func(ev event.ZoneChanged) { changes = append(changes, ev) })

	for i := 0; i < 10; i++ {
		tr.AdvanceZone()
	}
	bus.SwapBuffers()
	bus.DispatchAll()

	if tr.CurrentZone() != 11 {
		t.Fatalf("zone = %d, want 11", tr.CurrentZone())
	}
	// zones 2..10 are act 1, zone 11 opens act 2
	if tr.CurrentAct() != 2 {
		t.Fatalf("act = %d, want 2", tr.CurrentAct())
	}
	if len(changes) != 10 {
		t.Fatalf("ZoneChanged events = %d, want 10", len(changes))
	}
	if changes[9].FromZone != 10 || changes[9].ToZone != 11 {
		t.Fatalf("last change = %d→%d, want 10→11", changes[9].FromZone, changes[9].ToZone)
	}
}

func TestWaveRingIsBounded(t *testing.T) {
	tr, _, _ := newTestTracker()

	for i := 0; i < recentWaveCap+8; i++ {
		tr.CompleteWave(time.Second, 5, 25, 15)
	}
	if len(tr.RecentWaves()) != recentWaveCap {
		t.Fatalf("ring = %d, want %d", len(tr.RecentWaves()), recentWaveCap)
	}

	_, _, waves, kills := tr.Totals()
	if waves != recentWaveCap+8 {
		t.Fatalf("waves = %d, want %d", waves, recentWaveCap+8)
	}
	if kills != (recentWaveCap+8)*5 {
		t.Fatalf("kills = %d", kills)
	}
}

func TestDamageAndHealingBookkeeping(t *testing.T) {
	tr, tank, _ := newTestTracker()

	tr.TakeDamage(300, "imp#1", "imp")
	tr.Heal(50)

	if tank.HP != 750 {
		t.Fatalf("tank HP = %d, want 750", tank.HP)
	}
	taken, healed := tr.DamageTotals()
	if taken != 300 || healed != 50 {
		t.Fatalf("taken/healed = %d/%d, want 300/50", taken, healed)
	}

	// overheal clamps at max but still counts toward the total
	tr.Heal(10000)
	if tank.HP != tank.MaxHP {
		t.Fatalf("tank HP = %d, want clamped at %d", tank.HP, tank.MaxHP)
	}
}

func TestRestoreSeedsCounters(t *testing.T) {
	tr, _, _ := newTestTracker()
	tr.Restore(500, 1200, 4, 1, 21, 130)

	gold, xp, waves, kills := tr.Totals()
	if gold != 500 || xp != 1200 || waves != 21 || kills != 130 {
		t.Fatalf("restored totals = %d/%d/%d/%d", gold, xp, waves, kills)
	}
	if tr.CurrentZone() != 4 {
		t.Fatalf("zone = %d, want 4", tr.CurrentZone())
	}
}
