// Package progression holds the pure leveling and prestige formulas.
// Everything here is stateless; callers pass validated non-negative
// finite numbers.
package progression

import "math"

const (
	// BaseThreshold is the earnings required for level 1.
	BaseThreshold = 100.0

	// ScalingFactor steepens the curve: threshold(L) = floor(100 * L^1.5).
	ScalingFactor = 1.5

	// MaxLevel caps the level curve.
	MaxLevel = 100

	// PrestigeLevelRequirement is the minimum level to prestige.
	PrestigeLevelRequirement = 50

	// PrestigeBonusPerLevel is the permanent multiplier gained per prestige.
	PrestigeBonusPerLevel = 0.1
)

// LevelThreshold returns the cumulative earnings required to reach a level.
// Level 0 requires nothing; the function is strictly increasing for level >= 1.
func LevelThreshold(level int) float64 {
	if level <= 0 {
		return 0
	}
	return math.Floor(BaseThreshold * math.Pow(float64(level), ScalingFactor))
}

// ComputeLevel returns the highest level whose threshold has been earned,
// capped at MaxLevel. Binary search over the monotone threshold function.
func ComputeLevel(totalEarned float64) int {
	if totalEarned < BaseThreshold {
		return 0
	}

	low, high := 1, MaxLevel
	for low < high {
		mid := (low + high + 1) / 2
		if LevelThreshold(mid) <= totalEarned {
			low = mid
		} else {
			high = mid - 1
		}
	}
	return low
}

// LevelProgress returns the fraction of the way from currentLevel to the
// next level, clamped to [0, 1]. Level 0 is special-cased because its
// threshold is the degenerate 0.
func LevelProgress(totalEarned float64, currentLevel int) float64 {
	if currentLevel <= 0 {
		return math.Min(totalEarned/BaseThreshold, 1)
	}

	current := LevelThreshold(currentLevel)
	next := LevelThreshold(currentLevel + 1)
	progress := (totalEarned - current) / (next - current)
	return math.Min(math.Max(progress, 0), 1)
}

// PrestigeMultiplier returns the permanent earnings multiplier for a
// prestige count. Linear, uncapped: each prestige adds 10%.
func PrestigeMultiplier(prestigeLevel int) float64 {
	return 1 + float64(prestigeLevel)*PrestigeBonusPerLevel
}

// CanPrestige reports whether a level satisfies the prestige gate.
func CanPrestige(level int) bool {
	return level >= PrestigeLevelRequirement
}

// PrestigePoints returns points earned for progress beyond the prestige
// gate. Zero below the gate.
func PrestigePoints(totalEarned float64, level int) int {
	if level < PrestigeLevelRequirement {
		return 0
	}
	return int(math.Floor(float64(level-49) * math.Sqrt(totalEarned/1_000_000)))
}

// LevelTitle returns the flavor title for a level.
func LevelTitle(level int) string {
	switch {
	case level >= 50:
		return "Legendary Toots"
	case level >= 40:
		return "Master Blaster"
	case level >= 30:
		return "Gas Giant"
	case level >= 20:
		return "Wind Warrior"
	case level >= 10:
		return "Toot Trainee"
	case level >= 5:
		return "Gassy Pup"
	case level >= 1:
		return "Beginner"
	default:
		return "New Sniffer"
	}
}
