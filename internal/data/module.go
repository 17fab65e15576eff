package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectileKind is the projectile class a weapon module fires.
type ProjectileKind int

const (
	KindBullet ProjectileKind = iota
	KindMissile
	KindShell
)

func (k ProjectileKind) String() string {
	switch k {
	case KindBullet:
		return "bullet"
	case KindMissile:
		return "missile"
	case KindShell:
		return "shell"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseProjectileKind(s string) (ProjectileKind, error) {
	switch s {
	case "bullet":
		return KindBullet, nil
	case "missile":
		return KindMissile, nil
	case "shell":
		return KindShell, nil
	}
	return 0, fmt.Errorf("unknown projectile kind %q", s)
}

// ModuleTemplate describes a weapon module the tank can equip.
type ModuleTemplate struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	KindName      string  `yaml:"kind"`
	Damage        int     `yaml:"damage"`
	CooldownMs    int     `yaml:"cooldown_ms"`
	Range         float64 `yaml:"range"`
	Speed         float64 `yaml:"speed"` // projectile speed, units per second
	AoERadius     float64 `yaml:"aoe_radius"`
	Piercing      bool    `yaml:"piercing"`
	MaxPierceHits int     `yaml:"max_pierce_hits"`
	Homing        bool    `yaml:"homing"`

	Kind ProjectileKind `yaml:"-"`
}

type moduleListFile struct {
	Modules []ModuleTemplate `yaml:"modules"`
}

// ModuleTable holds weapon module templates indexed by ID.
type ModuleTable struct {
	templates map[string]*ModuleTemplate
	order     []*ModuleTemplate
}

// LoadModuleTable loads weapon module templates from a YAML file.
func LoadModuleTable(path string) (*ModuleTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module_list: %w", err)
	}
	var f moduleListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse module_list: %w", err)
	}
	t := &ModuleTable{templates: make(map[string]*ModuleTemplate, len(f.Modules))}
	for i := range f.Modules {
		m := &f.Modules[i]
		kind, err := ParseProjectileKind(m.KindName)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", m.ID, err)
		}
		m.Kind = kind
		if m.Piercing && m.MaxPierceHits < 1 {
			return nil, fmt.Errorf("module %q: piercing without max_pierce_hits", m.ID)
		}
		t.templates[m.ID] = m
		t.order = append(t.order, m)
	}
	return t, nil
}

// Get returns a module template by ID, or nil if not found.
func (t *ModuleTable) Get(id string) *ModuleTemplate {
	return t.templates[id]
}

// All returns module templates in file order.
func (t *ModuleTable) All() []*ModuleTemplate {
	return t.order
}

// Count returns the number of loaded templates.
func (t *ModuleTable) Count() int {
	return len(t.templates)
}
