package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tier is an enemy strength tier. Spawn frequency and stat scale increase in
// declaration order.
type Tier int

const (
	TierFodder Tier = iota
	TierElite
	TierSuperElite
	TierBoss
)

func (t Tier) String() string {
	switch t {
	case TierFodder:
		return "fodder"
	case TierElite:
		return "elite"
	case TierSuperElite:
		return "super_elite"
	case TierBoss:
		return "boss"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// ParseTier maps the YAML tier string to a Tier.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "fodder":
		return TierFodder, nil
	case "elite":
		return TierElite, nil
	case "super_elite":
		return TierSuperElite, nil
	case "boss":
		return TierBoss, nil
	}
	return 0, fmt.Errorf("unknown tier %q", s)
}

// EnemyTemplate holds static data for an enemy category loaded from YAML.
type EnemyTemplate struct {
	Category         string  `yaml:"category"`
	Name             string  `yaml:"name"`
	TierName         string  `yaml:"tier"`
	HP               int     `yaml:"hp"`
	Damage           int     `yaml:"damage"`
	Speed            float64 `yaml:"speed"` // world units per second
	AttackRange      float64 `yaml:"attack_range"`
	AttackCooldownMs int     `yaml:"attack_cooldown_ms"`
	XP               int     `yaml:"xp"`
	Gold             int     `yaml:"gold"`
	Scale            float64 `yaml:"scale"` // render scale, feeds hitbox sizing

	Tier Tier `yaml:"-"` // parsed from TierName at load
}

type enemyListFile struct {
	Enemies []EnemyTemplate `yaml:"enemies"`
}

// EnemyTable holds all enemy templates indexed by category, plus per-tier
// rosters in file order (roster order decides which category a zone uses).
type EnemyTable struct {
	templates map[string]*EnemyTemplate
	byTier    map[Tier][]*EnemyTemplate
}

// LoadEnemyTable loads enemy templates from a YAML file.
func LoadEnemyTable(path string) (*EnemyTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read enemy_list: %w", err)
	}
	var f enemyListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse enemy_list: %w", err)
	}
	t := &EnemyTable{
		templates: make(map[string]*EnemyTemplate, len(f.Enemies)),
		byTier:    make(map[Tier][]*EnemyTemplate, 4),
	}
	for i := range f.Enemies {
		e := &f.Enemies[i]
		tier, err := ParseTier(e.TierName)
		if err != nil {
			return nil, fmt.Errorf("enemy %q: %w", e.Category, err)
		}
		e.Tier = tier
		if e.Scale == 0 {
			e.Scale = 1
		}
		if _, dup := t.templates[e.Category]; dup {
			return nil, fmt.Errorf("enemy %q: duplicate category", e.Category)
		}
		t.templates[e.Category] = e
		t.byTier[tier] = append(t.byTier[tier], e)
	}
	return t, nil
}

// Get returns an enemy template by category, or nil if not found.
func (t *EnemyTable) Get(category string) *EnemyTemplate {
	return t.templates[category]
}

// ByTier returns the templates of a tier in file order.
func (t *EnemyTable) ByTier(tier Tier) []*EnemyTemplate {
	return t.byTier[tier]
}

// RosterFor deterministically picks the category a zone uses for a tier:
// zones cycle through the tier's templates in file order. Returns nil when
// the tier has no templates at all.
func (t *EnemyTable) RosterFor(tier Tier, zone int) *EnemyTemplate {
	list := t.byTier[tier]
	if len(list) == 0 {
		return nil
	}
	if zone < 1 {
		zone = 1
	}
	return list[(zone-1)%len(list)]
}

// Count returns the number of loaded templates.
func (t *EnemyTable) Count() int {
	return len(t.templates)
}
