package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LivingTemplate is a living placed in the world at startup.
type LivingTemplate struct {
	Name   string         `yaml:"name"`
	Role   string         `yaml:"role"`  // player, npc, pet
	Realm  int            `yaml:"realm"` // 0 none, 1 albion, 2 midgard, 3 hibernia
	Owner  string         `yaml:"owner"` // pets: owner name
	Region uint32         `yaml:"region"`
	X      int32          `yaml:"x"`
	Y      int32          `yaml:"y"`
	Z      int32          `yaml:"z"`
	Bases  map[string]int `yaml:"bases"`  // property name -> base value
	Skills []string       `yaml:"skills"` // skill catalogue ids granted as talents
}

type livingListFile struct {
	Livings []LivingTemplate `yaml:"livings"`
}

// LoadLivingTemplates loads the startup population from YAML.
func LoadLivingTemplates(path string) ([]LivingTemplate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read livings: %w", err)
	}
	var f livingListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse livings: %w", err)
	}
	for i, t := range f.Livings {
		if t.Name == "" {
			return nil, fmt.Errorf("living #%d: missing name", i)
		}
	}
	return f.Livings, nil
}
