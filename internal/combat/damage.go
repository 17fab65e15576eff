// Package combat holds the pure pieces of the damage pipeline: the damage
// resolver and the hitbox/proximity oracle. No side effects, no logging —
// systems decide what to do with the numbers.
package combat

import (
	"math"
	"math/rand"
)

// CritBaseMultiplier is the fixed crit base: a crit deals (2.0 + bonus)×.
const CritBaseMultiplier = 2.0

// Variance bounds: every varianced hit rolls uniformly in [0.9, 1.1).
const (
	VarianceMin = 0.9
	VarianceMax = 1.1
)

// Resolve computes final integer damage.
//
//	damage = base * (1 + scalingLevel*0.01)
//	damage *= (1 + statBonus)
//	if crit:     damage *= (2.0 + critBonus)
//	if rng != nil: damage *= uniform(0.9, 1.1)
//	result = floor(damage)
//
// Passing rng == nil disables variance; variance is drawn independently per
// hit. Negative or NaN inputs are a caller contract violation — Resolve
// clamps them to zero (callers under strict_math panic before reaching here).
func Resolve(base float64, scalingLevel int, statBonus float64, crit bool, critBonus float64, rng *rand.Rand) int {
	if math.IsNaN(base) || base < 0 {
		return 0
	}
	dmg := base * (1 + float64(scalingLevel)*0.01)
	dmg *= 1 + statBonus
	if crit {
		dmg *= CritBaseMultiplier + critBonus
	}
	if rng != nil {
		dmg *= VarianceMin + rng.Float64()*(VarianceMax-VarianceMin)
	}
	if math.IsNaN(dmg) || dmg < 0 {
		return 0
	}
	return int(math.Floor(dmg))
}

// SplashDamage computes AoE secondary damage with linear falloff:
//
//	falloff = 1 - (dist/radius)*0.5
//	result  = floor(base * 0.5 * falloff)
//
// At distance 0 the splash is half the direct hit; at the radius edge, a
// quarter. Distances beyond the radius return 0 (the oracle should not hand
// those in, but the formula stays total).
func SplashDamage(base float64, dist, radius float64) int {
	if radius <= 0 || dist < 0 || dist > radius {
		return 0
	}
	if math.IsNaN(base) || base < 0 {
		return 0
	}
	falloff := 1 - (dist/radius)*0.5
	return int(math.Floor(base * 0.5 * falloff))
}

// Lifesteal converts dealt damage to tank healing:
//
//	heal = floor(damage * level * 0.5 / 100)
//
// Level 0 or non-positive damage heals nothing.
func Lifesteal(damage, level int) int {
	if damage <= 0 || level <= 0 {
		return 0
	}
	return int(math.Floor(float64(damage) * float64(level) * 0.5 / 100))
}

// ValidDamageInput reports whether a base damage value honors the caller
// contract (finite, non-negative). Systems under strict_math panic on false.
func ValidDamageInput(base float64) bool {
	return !math.IsNaN(base) && !math.IsInf(base, 0) && base >= 0
}
