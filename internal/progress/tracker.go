package progress

import (
	"time"

	"github.com/tankgo/sim/internal/core/event"
	"github.com/tankgo/sim/internal/world"
	"go.uber.org/zap"
)

// Snapshot is the persistable slice of tracker state.
type Snapshot struct {
	Gold       int
	XP         int
	Zone       int
	Act        int
	WavesDone  int
	TotalKills int
	TankHP     int
}

// WaveRecord is the metrics row reported on each wave completion.
type WaveRecord struct {
	Zone     int
	Act      int
	Duration time.Duration
	Kills    int
	XP       int
	Gold     int
}

// Tracker is the in-process Sink implementation: gold/XP accumulation, tank
// HP bookkeeping, zone/act counters, and a bounded ring of recent wave
// metrics. Game-loop goroutine only.
type Tracker struct {
	log  *zap.Logger
	bus  *event.Bus
	tank *world.Tank

	zonesPerAct int

	gold        int
	xp          int
	zone        int
	act         int
	wavesDone   int
	totalKills  int
	damageTaken int
	healed      int

	recentWaves []WaveRecord // ring, newest last
}

const recentWaveCap = 32

func NewTracker(log *zap.Logger, bus *event.Bus, tank *world.Tank, zonesPerAct int) *Tracker {
	if zonesPerAct < 1 {
		zonesPerAct = 10
	}
	return &Tracker{
		log:         log,
		bus:         bus,
		tank:        tank,
		zonesPerAct: zonesPerAct,
		zone:        1,
		act:         1,
	}
}

// Restore seeds the tracker from a persisted profile.
func (t *Tracker) Restore(gold, xp, zone, act, wavesDone, totalKills int) {
	t.gold = gold
	t.xp = xp
	if zone >= 1 {
		t.zone = zone
	}
	if act >= 1 {
		t.act = act
	}
	t.wavesDone = wavesDone
	t.totalKills = totalKills
}

func (t *Tracker) AddXP(amount int, source string) {
	if amount <= 0 {
		return
	}
	t.xp += amount
	t.log.Debug("經驗入帳", zap.Int("amount", amount), zap.String("source", source))
}

func (t *Tracker) AddGold(amount int, source string) {
	if amount <= 0 {
		return
	}
	t.gold += amount
	t.log.Debug("金幣入帳", zap.Int("amount", amount), zap.String("source", source))
}

func (t *Tracker) CurrentZone() int { return t.zone }
func (t *Tracker) CurrentAct() int  { return t.act }

func (t *Tracker) CompleteWave(duration time.Duration, kills, xp, gold int) {
	t.wavesDone++
	t.totalKills += kills
	rec := WaveRecord{
		Zone:     t.zone,
		Act:      t.act,
		Duration: duration,
		Kills:    kills,
		XP:       xp,
		Gold:     gold,
	}
	t.recentWaves = append(t.recentWaves, rec)
	if len(t.recentWaves) > recentWaveCap {
		t.recentWaves = t.recentWaves[1:]
	}
	t.log.Info("波次結算",
		zap.Int("zone", t.zone),
		zap.Duration("duration", duration),
		zap.Int("kills", kills),
		zap.Int("xp", xp),
		zap.Int("gold", gold))
}

func (t *Tracker) TakeDamage(amount int, sourceID, sourceCategory string) {
	if amount <= 0 {
		return
	}
	t.tank.ApplyDamage(amount)
	t.damageTaken += amount
	t.log.Debug("坦克受擊",
		zap.Int("amount", amount),
		zap.String("source", sourceID),
		zap.String("category", sourceCategory),
		zap.Int("hp", t.tank.HP))
}

func (t *Tracker) Heal(amount int) {
	if amount <= 0 {
		return
	}
	t.tank.Heal(amount)
	t.healed += amount
}

// AdvanceZone moves to the next zone (wrapping into the next act) and emits
// ZoneChanged so the wave scheduler resets. Wired to ZoneCompleted in main.
func (t *Tracker) AdvanceZone() {
	from := t.zone
	t.zone++
	// Zone counter is global; act derives from it.
	t.act = (t.zone-1)/t.zonesPerAct + 1
	t.log.Info("進入新區域", zap.Int("zone", t.zone), zap.Int("act", t.act))
	if t.bus != nil {
		event.Emit(t.bus, event.ZoneChanged{FromZone: from, ToZone: t.zone, ActNumber: t.act})
	}
}

// Snapshot captures the persistable profile state at this instant.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Gold:       t.gold,
		XP:         t.xp,
		Zone:       t.zone,
		Act:        t.act,
		WavesDone:  t.wavesDone,
		TotalKills: t.totalKills,
		TankHP:     t.tank.HP,
	}
}

// Totals returns the lifetime accumulators (gold, xp, waves, kills).
func (t *Tracker) Totals() (gold, xp, waves, kills int) {
	return t.gold, t.xp, t.wavesDone, t.totalKills
}

// DamageTotals returns tank damage taken and healing received.
func (t *Tracker) DamageTotals() (taken, healed int) {
	return t.damageTaken, t.healed
}

// RecentWaves returns the retained wave metrics, oldest first.
func (t *Tracker) RecentWaves() []WaveRecord {
	return t.recentWaves
}
