package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SkillDef describes one modular skill. Kinds are resolved by the skill
// factory; the loader only checks the shape.
type SkillDef struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Invocation InvocationDef  `yaml:"invocation"`
	Components []ComponentDef `yaml:"components"`
}

// InvocationDef: kind is instant, delayed, gestured or pulsed.
type InvocationDef struct {
	Kind              string  `yaml:"kind"`
	DurationMs        int     `yaml:"duration_ms"`         // delayed, gestured
	FrequencyHz       float64 `yaml:"frequency_hz"`        // pulsed
	Animation         uint16  `yaml:"animation"`           // gestured
	InterruptOnMove   *bool   `yaml:"interrupt_on_move"`   // default true
	InterruptOnAttack *bool   `yaml:"interrupt_on_attack"` // default true
}

type ComponentDef struct {
	Selector   SelectorDef   `yaml:"selector"`
	Applicator ApplicatorDef `yaml:"applicator"`
	Effects    []EffectDef   `yaml:"effects"`
}

// SelectorDef: kind is self, friendly or enemy.
type SelectorDef struct {
	Kind       string `yaml:"kind"`
	Range      int32  `yaml:"range"`
	Radius     int32  `yaml:"radius"`
	MaxTargets int    `yaml:"max_targets"`
}

// ApplicatorDef: kind is direct (default) or projectile.
type ApplicatorDef struct {
	Kind  string  `yaml:"kind"`
	Speed float64 `yaml:"speed"`
}

// EffectDef: kind is heal, damage, buff, multiplier or chance.
type EffectDef struct {
	Kind          string  `yaml:"kind"`
	Value         int     `yaml:"value"`
	Effectiveness float64 `yaml:"effectiveness"`
	DamageType    string  `yaml:"damage_type"`
	Property      string  `yaml:"property"`
	Category      string  `yaml:"category"`
	DurationMs    int     `yaml:"duration_ms"`
	Percent       int     `yaml:"percent"`
}

// SkillCatalog holds every skill definition by id, in file order.
type SkillCatalog struct {
	byID  map[string]*SkillDef
	order []string
}

// Get returns a definition by id, or nil if not found.
func (c *SkillCatalog) Get(id string) *SkillDef {
	return c.byID[id]
}

// Count returns total loaded definitions.
func (c *SkillCatalog) Count() int {
	return len(c.order)
}

// All returns every definition in file order.
func (c *SkillCatalog) All() []*SkillDef {
	out := make([]*SkillDef, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// --- YAML loading ---

type skillListFile struct {
	Skills []SkillDef `yaml:"skills"`
}

// LoadSkillCatalog loads modular skill definitions from YAML.
func LoadSkillCatalog(path string) (*SkillCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skills: %w", err)
	}
	return ParseSkillCatalog(raw)
}

// ParseSkillCatalog parses the YAML catalogue.
func ParseSkillCatalog(raw []byte) (*SkillCatalog, error) {
	var f skillListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse skills: %w", err)
	}
	c := &SkillCatalog{byID: make(map[string]*SkillDef, len(f.Skills))}
	for i := range f.Skills {
		def := &f.Skills[i]
		if def.ID == "" {
			return nil, fmt.Errorf("skill #%d: missing id", i)
		}
		if _, dup := c.byID[def.ID]; dup {
			return nil, fmt.Errorf("skill %s: duplicate id", def.ID)
		}
		if len(def.Components) == 0 {
			return nil, fmt.Errorf("skill %s: no components", def.ID)
		}
		if def.Name == "" {
			def.Name = def.ID
		}
		c.byID[def.ID] = def
		c.order = append(c.order, def.ID)
	}
	return c, nil
}
