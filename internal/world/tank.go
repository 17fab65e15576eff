package world

// TankStats are the upgrade-driven combat stats the damage pipeline reads.
// Fractions are additive bonuses (0.25 = +25%); levels feed fixed formulas.
type TankStats struct {
	DamageBonus    float64 // stat bonus fraction applied to all module damage
	CritChance     float64 // 0..1 per-shot crit roll
	CritBonus      float64 // added to the fixed 2.0 crit base multiplier
	LifestealLevel int     // heal = floor(damage * level * 0.5 / 100)
}

// Tank is the stationary player unit. One per session.
type Tank struct {
	X     float64 // fixed world position, screen center
	HP    int
	MaxHP int
	Stats TankStats
}

func NewTank(x float64, maxHP int) *Tank {
	return &Tank{X: x, HP: maxHP, MaxHP: maxHP}
}

// ApplyDamage reduces HP, clamped at zero.
func (t *Tank) ApplyDamage(amount int) {
	if amount <= 0 {
		return
	}
	t.HP -= amount
	if t.HP < 0 {
		t.HP = 0
	}
}

// Heal raises HP, clamped at MaxHP.
func (t *Tank) Heal(amount int) {
	if amount <= 0 {
		return
	}
	t.HP += amount
	if t.HP > t.MaxHP {
		t.HP = t.MaxHP
	}
}
