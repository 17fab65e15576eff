package combat

import (
	"math"

	"github.com/tankgo/sim/internal/data"
	"github.com/tankgo/sim/internal/world"
)

// Bounds is an axis-aligned box in world space. Enemies use the pooled visual
// origin convention: horizontal center, vertical bottom, ground at y = 0.
type Bounds struct {
	CenterX, CenterY float64
	HalfW, HalfH     float64
	Left, Right      float64
	Top, Bottom      float64
}

// Oracle answers the range and overlap questions combat and spawning ask.
// It is pure computation over the current pool state; it mutates nothing.
type Oracle struct {
	hitboxes       *data.HitboxTable
	meleeTolerance float64
}

func NewOracle(hitboxes *data.HitboxTable, meleeTolerance float64) *Oracle {
	return &Oracle{hitboxes: hitboxes, meleeTolerance: meleeTolerance}
}

// Bounds computes the enemy's current bounding box: the category's configured
// box scaled by render scale, shifted by the configured offset.
func (o *Oracle) Bounds(e *world.Enemy) Bounds {
	cfg := o.hitboxes.Get(e.Category)
	scale := e.Scale
	if scale <= 0 {
		scale = 1
	}
	halfW := cfg.Width * scale / 2
	h := cfg.Height * scale
	cx := e.X + cfg.OffsetX*scale
	bottom := cfg.OffsetY * scale
	return Bounds{
		CenterX: cx,
		CenterY: bottom + h/2,
		HalfW:   halfW,
		HalfH:   h / 2,
		Left:    cx - halfW,
		Right:   cx + halfW,
		Top:     bottom + h,
		Bottom:  bottom,
	}
}

// InMeleeRange reports whether the enemy can swing at the tank: horizontal
// distance within attack range plus a fixed tolerance (absorbs discrete
// movement-step overshoot), AND the enemy sits on the side it spawned from.
// An enemy that overshot past the tank does not hit until its side flip is
// resolved by movement — intentional, see DESIGN.md.
func (o *Oracle) InMeleeRange(e *world.Enemy, tankX float64) bool {
	dist := math.Abs(e.X - tankX)
	if dist > e.AttackRange+o.meleeTolerance {
		return false
	}
	if e.Side == world.SideRight {
		return e.X >= tankX
	}
	return e.X <= tankX
}

// ClosestEnemy linearly scans active, alive enemies and returns the nearest
// to fromX within maxRange, or nil. Ties break by pool iteration order
// (first found wins) — stable for a given pool ordering, not gameplay
// load-bearing.
func (o *Oracle) ClosestEnemy(pool *world.EnemyPool, fromX, maxRange float64) *world.Enemy {
	var best *world.Enemy
	bestDist := maxRange
	pool.ForEachActive(func(e *world.Enemy) {
		if !e.Alive {
			return
		}
		d := math.Abs(e.X - fromX)
		if d < bestDist || (best == nil && d <= maxRange) {
			best = e
			bestDist = d
		}
	})
	return best
}

// EnemiesWithin visits every active, alive enemy whose center is within
// radius of x, excluding the given enemy ID (the AoE primary target). The
// visit order is pool order.
func (o *Oracle) EnemiesWithin(pool *world.EnemyPool, x, radius float64, excludeID string, fn func(e *world.Enemy, dist float64)) {
	pool.ForEachActive(func(e *world.Enemy) {
		if !e.Alive || e.ID == excludeID {
			return
		}
		d := math.Abs(e.X - x)
		if d <= radius {
			fn(e, d)
		}
	})
}

// Overlaps is the collision predicate between a projectile point and an
// enemy's bounds. The core consumes this as a boolean; anything fancier
// (swept volumes, physics engines) stays outside.
func (o *Oracle) Overlaps(p *world.Projectile, e *world.Enemy) bool {
	b := o.Bounds(e)
	return p.X >= b.Left && p.X <= b.Right
}
