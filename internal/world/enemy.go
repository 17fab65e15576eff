package world

import (
	"fmt"
	"sync/atomic"

	"github.com/tankgo/sim/internal/core/ecs"
	"github.com/tankgo/sim/internal/data"
)

// enemySerial generates the per-activation suffix for enemy IDs. A slot's ID
// is regenerated on every activation so a stale string ID can never be
// confused with the slot's new occupant.
var enemySerial atomic.Int64

// NextEnemyID returns a fresh string ID for an enemy activation.
func NextEnemyID(category string) string {
	return fmt.Sprintf("%s#%d", category, enemySerial.Add(1))
}

// Side is the screen side an enemy spawned from.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideRight {
		return SideLeft
	}
	return SideRight
}

// ScaledStats is the zone-scaled config an enemy is activated with.
type ScaledStats struct {
	HP     int
	Damage int
	XP     int
	Gold   int
}

// Enemy is a pooled mutable entity. Slots are allocated once at pool creation
// and recycled via Activate/Deactivate; never reallocated during a session.
// Accessed only from the game-loop goroutine — no locks.
type Enemy struct {
	Handle ecs.Handle // set by the pool on acquire

	ID       string // stable per activation, e.g. "imp#42"
	Category string
	Tier     data.Tier

	HP     int
	MaxHP  int
	Damage int
	XP     int // reward on kill
	Gold   int

	X     float64 // world x; ground entities keep y = 0
	Speed float64 // units per second, toward the tank
	Scale float64 // render scale, feeds hitbox sizing
	Side  Side

	AttackRange      float64
	AttackCooldownMs int
	CooldownLeftMs   float64 // elapsed-ms countdown until next melee swing

	Alive  bool
	Active bool

	DeleteTicks int // corpse slot hold after death, counted down by cleanup
}

// Activate resets every field from the template + scaled config and marks the
// slot active. Calling it on an active slot is a programming error.
func (e *Enemy) Activate(tpl *data.EnemyTemplate, scaled ScaledStats, side Side, x float64) {
	if e.Active {
		panic(fmt.Sprintf("world: Activate on active enemy slot %q", e.ID))
	}
	e.ID = NextEnemyID(tpl.Category)
	e.Category = tpl.Category
	e.Tier = tpl.Tier
	e.HP = scaled.HP
	e.MaxHP = scaled.HP
	e.Damage = scaled.Damage
	e.XP = scaled.XP
	e.Gold = scaled.Gold
	e.X = x
	e.Speed = tpl.Speed
	e.Scale = tpl.Scale
	e.Side = side
	e.AttackRange = tpl.AttackRange
	e.AttackCooldownMs = tpl.AttackCooldownMs
	e.CooldownLeftMs = float64(tpl.AttackCooldownMs) // cannot swing on spawn frame
	e.Alive = true
	e.Active = true
	e.DeleteTicks = 0
}

// Deactivate zeroes identity and state. The pool bumps the slot generation on
// release, so collaborators holding the old Handle resolve to nil afterwards.
func (e *Enemy) Deactivate() {
	e.ID = ""
	e.Category = ""
	e.Tier = 0
	e.HP = 0
	e.MaxHP = 0
	e.Damage = 0
	e.XP = 0
	e.Gold = 0
	e.X = 0
	e.Speed = 0
	e.Scale = 0
	e.Side = SideLeft
	e.AttackRange = 0
	e.AttackCooldownMs = 0
	e.CooldownLeftMs = 0
	e.Alive = false
	e.Active = false
	e.DeleteTicks = 0
}
