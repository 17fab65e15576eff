package world

import (
	"github.com/tankgo/sim/internal/core/ecs"
	"github.com/tankgo/sim/internal/data"
)

// Projectile is a pooled mutable entity fired by a weapon module. Lifecycle
// mirrors Enemy: Activate/Deactivate, slots recycled for the session.
type Projectile struct {
	Handle ecs.Handle // set by the pool on acquire

	Kind      data.ProjectileKind
	Damage    int  // base damage before resolution
	SlotLevel int  // module slot/level scaling fed to the resolver
	Crit      bool // rolled at fire time; variance still rolls per hit
	AoERadius float64
	Piercing  bool
	HitsLeft  int // remaining pierce budget; non-piercing shots carry 1

	// HitEnemies records enemy string IDs already struck, so a piercing shot
	// never hits the same target twice.
	HitEnemies map[string]struct{}

	// HomingTarget is a weak generational reference — lookup only, never
	// ownership. A stale handle means "no target".
	HomingTarget ecs.Handle

	X      float64
	VX     float64 // units per second, sign is direction
	Speed  float64
	Active bool
}

// ProjectileConfig is everything Activate needs from the firing module.
type ProjectileConfig struct {
	Kind         data.ProjectileKind
	Damage       int
	SlotLevel    int
	Crit         bool
	AoERadius    float64
	Piercing     bool
	MaxHits      int
	HomingTarget ecs.Handle
	X            float64
	VX           float64
}

// Activate resets all fields and marks the slot active. Calling it on an
// active slot is a programming error.
func (p *Projectile) Activate(cfg ProjectileConfig) {
	if p.Active {
		panic("world: Activate on active projectile slot")
	}
	p.Kind = cfg.Kind
	p.Damage = cfg.Damage
	p.SlotLevel = cfg.SlotLevel
	p.Crit = cfg.Crit
	p.AoERadius = cfg.AoERadius
	p.Piercing = cfg.Piercing
	if cfg.Piercing {
		p.HitsLeft = cfg.MaxHits
	} else {
		p.HitsLeft = 1
	}
	if p.HitEnemies == nil {
		p.HitEnemies = make(map[string]struct{}, 4)
	} else {
		clear(p.HitEnemies)
	}
	p.HomingTarget = cfg.HomingTarget
	p.X = cfg.X
	p.VX = cfg.VX
	p.Speed = cfg.VX
	if p.Speed < 0 {
		p.Speed = -p.Speed
	}
	p.Active = true
}

// Deactivate zeroes state and returns the slot to inactive.
func (p *Projectile) Deactivate() {
	p.Kind = 0
	p.Damage = 0
	p.SlotLevel = 0
	p.Crit = false
	p.AoERadius = 0
	p.Piercing = false
	p.HitsLeft = 0
	clear(p.HitEnemies)
	p.HomingTarget = 0
	p.X = 0
	p.VX = 0
	p.Speed = 0
	p.Active = false
}

// HasHit reports whether the projectile already struck the given enemy ID.
func (p *Projectile) HasHit(enemyID string) bool {
	_, ok := p.HitEnemies[enemyID]
	return ok
}

// RegisterHit records a struck enemy and decrements the pierce budget.
func (p *Projectile) RegisterHit(enemyID string) {
	p.HitEnemies[enemyID] = struct{}{}
	p.HitsLeft--
}

// Spent reports whether the projectile has no pierce budget left.
func (p *Projectile) Spent() bool {
	return p.HitsLeft <= 0
}
