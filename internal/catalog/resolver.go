package catalog

import "math"

// Progress is the snapshot of player state the resolver evaluates
// requirements against. The game package builds one from its state; the
// catalog never sees the mutable aggregate itself.
type Progress struct {
	Level         int
	TotalClicks   int64
	Currency      float64
	PrestigeLevel int
	Upgrades      map[string]int // owned upgrade ID → level
	Achievements  map[string]bool
}

// UpgradeCost returns the price of the next purchase of an upgrade given
// how many levels are already owned. Monotonically increasing in
// ownedLevel; saturates instead of overflowing.
func UpgradeCost(def *UpgradeDef, ownedLevel int) float64 {
	if ownedLevel < 0 {
		ownedLevel = 0
	}
	cost := def.BaseCost * math.Pow(def.CostMultiplier, float64(ownedLevel))
	if math.IsInf(cost, 1) || cost > math.MaxFloat64/2 {
		return math.MaxFloat64 / 2
	}
	return math.Floor(cost)
}

// Affordable reports whether a balance covers a cost.
func Affordable(cost, currency float64) bool {
	return currency >= cost
}

// RequirementMet evaluates an unlock requirement against a progress
// snapshot. A nil requirement is always satisfied. Secret requirements are
// never satisfied through this path; secret unlocks come from an
// out-of-band trigger that calls the store directly.
func RequirementMet(req *Requirement, p Progress) bool {
	if req == nil {
		return true
	}

	switch req.Kind {
	case RequirementDefault:
		return true
	case RequirementLevel:
		return float64(p.Level) >= req.Threshold
	case RequirementClicks:
		return float64(p.TotalClicks) >= req.Threshold
	case RequirementCurrency:
		return p.Currency >= req.Threshold
	case RequirementPrestige:
		return float64(p.PrestigeLevel) >= req.Threshold
	case RequirementUpgrade:
		return p.Upgrades[req.Ref] > 0
	case RequirementAchievement:
		return p.Achievements[req.Ref]
	case RequirementSecret:
		return false
	default:
		return false
	}
}

// ConditionMet evaluates an achievement condition against a progress
// snapshot. Cosmetic and corgi counts are passed alongside because they
// live in unlock sets, not in Progress.
func ConditionMet(cond Condition, p Progress, cosmeticsOwned, corgisOwned int) bool {
	switch cond.Kind {
	case ConditionClicks:
		return float64(p.TotalClicks) >= cond.Value
	case ConditionCurrency:
		return p.Currency >= cond.Value
	case ConditionCosmetics:
		return float64(cosmeticsOwned) >= cond.Value
	case ConditionCorgis:
		return float64(corgisOwned) >= cond.Value
	case ConditionPrestige:
		return float64(p.PrestigeLevel) >= cond.Value
	default:
		return false
	}
}
