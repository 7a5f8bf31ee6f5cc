package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12, c.Upgrades.Count())
	assert.Equal(t, 15, c.Cosmetics.Count())
	assert.Equal(t, 7, c.Corgis.Count())
	assert.Equal(t, 8, c.Achievements.Count())

	diet := c.Upgrades.ByID("better-diet")
	require.NotNil(t, diet)
	assert.Equal(t, 10.0, diet.BaseCost)
	assert.Equal(t, EffectAdditive, diet.Effect.Kind)
	assert.Nil(t, diet.Unlock)

	bed := c.Upgrades.ByID("comfy-bed")
	require.NotNil(t, bed)
	require.NotNil(t, bed.Unlock)
	assert.Equal(t, RequirementUpgrade, bed.Unlock.Kind)
	assert.Equal(t, "belly-rubs", bed.Unlock.Ref)

	rubs := c.Upgrades.ByID("belly-rubs")
	require.NotNil(t, rubs)
	require.NotNil(t, rubs.Unlock)
	assert.Equal(t, RequirementClicks, rubs.Unlock.Kind)
	assert.Equal(t, 25.0, rubs.Unlock.Threshold)

	assert.Nil(t, c.Upgrades.ByID("no-such-upgrade"))
}

func TestCorgiCost(t *testing.T) {
	c := MustLoad()

	beans := c.Corgis.ByID("princess-beans")
	require.NotNil(t, beans)
	cost, ok := beans.Cost()
	assert.True(t, ok)
	assert.Equal(t, 1000.0, cost)

	starter := c.Corgis.ByID(CorgiSirFluffington)
	require.NotNil(t, starter)
	_, ok = starter.Cost()
	assert.False(t, ok)
}

func TestUpgradeCost(t *testing.T) {
	def := &UpgradeDef{BaseCost: 10, CostMultiplier: 1.5, MaxLevel: 50}

	assert.Equal(t, 10.0, UpgradeCost(def, 0))
	assert.Equal(t, 15.0, UpgradeCost(def, 1))
	assert.Equal(t, 22.0, UpgradeCost(def, 2)) // floor(10 * 1.5^2)
	assert.Equal(t, 10.0, UpgradeCost(def, -1))

	// Monotone up to max level.
	prev := -1.0
	for lvl := 0; lvl <= def.MaxLevel; lvl++ {
		cost := UpgradeCost(def, lvl)
		assert.Greater(t, cost, prev, "level %d", lvl)
		prev = cost
	}

	// Saturates instead of overflowing.
	huge := &UpgradeDef{BaseCost: 1e300, CostMultiplier: 10, MaxLevel: 100}
	cost := UpgradeCost(huge, 100)
	assert.False(t, math.IsInf(cost, 1))
	assert.GreaterOrEqual(t, UpgradeCost(huge, 100), UpgradeCost(huge, 99))
}

func TestAffordable(t *testing.T) {
	assert.True(t, Affordable(10, 10))
	assert.True(t, Affordable(10, 11))
	assert.False(t, Affordable(10, 9.99))
}

func TestRequirementMet(t *testing.T) {
	p := Progress{
		Level:         10,
		TotalClicks:   200,
		Currency:      5000,
		PrestigeLevel: 1,
		Upgrades:      map[string]int{"belly-rubs": 3},
		Achievements:  map[string]bool{"first-toot": true},
	}

	tests := []struct {
		name string
		req  *Requirement
		want bool
	}{
		{"nil requirement", nil, true},
		{"default", &Requirement{Kind: RequirementDefault}, true},
		{"level met", &Requirement{Kind: RequirementLevel, Threshold: 10}, true},
		{"level unmet", &Requirement{Kind: RequirementLevel, Threshold: 11}, false},
		{"clicks met", &Requirement{Kind: RequirementClicks, Threshold: 200}, true},
		{"clicks unmet", &Requirement{Kind: RequirementClicks, Threshold: 201}, false},
		{"currency met", &Requirement{Kind: RequirementCurrency, Threshold: 5000}, true},
		{"currency unmet", &Requirement{Kind: RequirementCurrency, Threshold: 5001}, false},
		{"prestige met", &Requirement{Kind: RequirementPrestige, Threshold: 1}, true},
		{"prestige unmet", &Requirement{Kind: RequirementPrestige, Threshold: 2}, false},
		{"upgrade owned", &Requirement{Kind: RequirementUpgrade, Ref: "belly-rubs"}, true},
		{"upgrade missing", &Requirement{Kind: RequirementUpgrade, Ref: "spa-day"}, false},
		{"achievement owned", &Requirement{Kind: RequirementAchievement, Ref: "first-toot"}, true},
		{"achievement missing", &Requirement{Kind: RequirementAchievement, Ref: "century"}, false},
		{"secret never via resolver", &Requirement{Kind: RequirementSecret, Ref: "konami"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequirementMet(tt.req, p))
		})
	}
}

func TestConditionMet(t *testing.T) {
	p := Progress{TotalClicks: 150, Currency: 2000, PrestigeLevel: 3}

	assert.True(t, ConditionMet(Condition{Kind: ConditionClicks, Value: 100}, p, 0, 0))
	assert.False(t, ConditionMet(Condition{Kind: ConditionClicks, Value: 151}, p, 0, 0))
	assert.True(t, ConditionMet(Condition{Kind: ConditionCurrency, Value: 2000}, p, 0, 0))
	assert.True(t, ConditionMet(Condition{Kind: ConditionCosmetics, Value: 5}, p, 5, 0))
	assert.False(t, ConditionMet(Condition{Kind: ConditionCosmetics, Value: 5}, p, 4, 0))
	assert.True(t, ConditionMet(Condition{Kind: ConditionCorgis, Value: 4}, p, 0, 4))
	assert.True(t, ConditionMet(Condition{Kind: ConditionPrestige, Value: 3}, p, 0, 0))
}

func TestRequirementUnmarshal(t *testing.T) {
	var numeric Requirement
	require.NoError(t, numeric.UnmarshalJSON([]byte(`{"type":"level","value":5}`)))
	assert.Equal(t, RequirementLevel, numeric.Kind)
	assert.Equal(t, 5.0, numeric.Threshold)

	var ref Requirement
	require.NoError(t, ref.UnmarshalJSON([]byte(`{"type":"upgrade","value":"belly-rubs"}`)))
	assert.Equal(t, "belly-rubs", ref.Ref)

	var bare Requirement
	require.NoError(t, bare.UnmarshalJSON([]byte(`{"type":"default"}`)))
	assert.Equal(t, RequirementDefault, bare.Kind)

	var bad Requirement
	assert.Error(t, bad.UnmarshalJSON([]byte(`{"type":"level","value":true}`)))
}
