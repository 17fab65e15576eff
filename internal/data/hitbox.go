package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HitboxConfig describes the unscaled bounding box for an enemy category.
// Origin convention: horizontal center, vertical bottom.
type HitboxConfig struct {
	Category string  `yaml:"category"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	OffsetX  float64 `yaml:"offset_x"`
	OffsetY  float64 `yaml:"offset_y"`
}

// DefaultHitbox is the explicit fallback for categories with no entry.
// Total mapping: Get never returns a zero box.
var DefaultHitbox = HitboxConfig{
	Category: "default",
	Width:    48,
	Height:   48,
}

type hitboxListFile struct {
	Hitboxes []HitboxConfig `yaml:"hitboxes"`
}

// HitboxTable maps enemy categories to hitbox configs.
type HitboxTable struct {
	configs map[string]*HitboxConfig
}

// LoadHitboxTable loads hitbox configs from a YAML file. A "default" entry in
// the file overrides the built-in DefaultHitbox.
func LoadHitboxTable(path string) (*HitboxTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hitbox_list: %w", err)
	}
	var f hitboxListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse hitbox_list: %w", err)
	}
	t := &HitboxTable{configs: make(map[string]*HitboxConfig, len(f.Hitboxes))}
	for i := range f.Hitboxes {
		h := &f.Hitboxes[i]
		if h.Width <= 0 || h.Height <= 0 {
			return nil, fmt.Errorf("hitbox %q: non-positive dimensions", h.Category)
		}
		t.configs[h.Category] = h
	}
	return t, nil
}

// NewHitboxTable builds an empty table (everything resolves to the default).
func NewHitboxTable() *HitboxTable {
	return &HitboxTable{configs: make(map[string]*HitboxConfig)}
}

// Get returns the hitbox config for a category, falling back to the explicit
// default entry — never an accidental zero value.
func (t *HitboxTable) Get(category string) *HitboxConfig {
	if h, ok := t.configs[category]; ok {
		return h
	}
	if h, ok := t.configs["default"]; ok {
		return h
	}
	return &DefaultHitbox
}

// Count returns the number of loaded configs.
func (t *HitboxTable) Count() int {
	return len(t.configs)
}
