package catalog

import (
	"encoding/json"
	"fmt"
)

// load reads and unmarshals an embedded JSON catalog file.
func load[T any](filename string) ([]T, error) {
	content, err := dataFS.ReadFile("data/" + filename)
	if err != nil {
		return nil, fmt.Errorf("read embedded %s: %w", filename, err)
	}

	var defs []T
	if err := json.Unmarshal(content, &defs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%s: no definitions", filename)
	}
	return defs, nil
}

// Catalog bundles every definition registry. It is immutable after Load.
type Catalog struct {
	Upgrades     *Registry[UpgradeDef]
	Cosmetics    *Registry[CosmeticDef]
	Corgis       *Registry[CorgiDef]
	Achievements *Registry[AchievementDef]
}

// Load reads all embedded catalogs.
func Load() (*Catalog, error) {
	upgrades, err := load[UpgradeDef]("upgrades.json")
	if err != nil {
		return nil, err
	}
	cosmetics, err := load[CosmeticDef]("cosmetics.json")
	if err != nil {
		return nil, err
	}
	corgis, err := load[CorgiDef]("corgis.json")
	if err != nil {
		return nil, err
	}
	achievements, err := load[AchievementDef]("achievements.json")
	if err != nil {
		return nil, err
	}

	return &Catalog{
		Upgrades:     NewRegistry(upgrades, func(d UpgradeDef) string { return d.ID }),
		Cosmetics:    NewRegistry(cosmetics, func(d CosmeticDef) string { return d.ID }),
		Corgis:       NewRegistry(corgis, func(d CorgiDef) string { return d.ID }),
		Achievements: NewRegistry(achievements, func(d AchievementDef) string { return d.ID }),
	}, nil
}

// MustLoad loads all catalogs, panicking on error. The embedded data must
// be present for the game to function.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}
