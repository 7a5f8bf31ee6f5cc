// Package game owns the mutable game state and the action set that
// transitions it. All mutation goes through Store methods; each action is
// atomic and either applies fully or leaves the state unchanged.
package game

import (
	"time"

	"github.com/michaelhills23/corgi-clicker/internal/catalog"
	"github.com/michaelhills23/corgi-clicker/internal/progression"
)

// CurrentSchemaVersion is stamped on persisted state and drives migration
// on load.
const CurrentSchemaVersion = 1

// GasPerClick is the gas produced per click, in liters.
const GasPerClick = 0.001

// UpgradeState is one owned upgrade: how many levels are held and what the
// last purchase cost.
type UpgradeState struct {
	ID          string  `json:"id"`
	Level       int     `json:"level"`
	CurrentCost float64 `json:"currentCost"`
}

// State is the authoritative save aggregate. Field names in JSON match the
// persisted save layout, so exports stay portable across versions.
type State struct {
	// Core currency.
	Currency    float64 `json:"currency"`
	TotalEarned float64 `json:"totalEarned"`
	TotalClicks int64   `json:"totalClicks"`
	ClickValue  float64 `json:"clickValue"`

	// Progression. Level is derived from TotalEarned and recomputed by
	// every action that touches it, never hand-edited.
	Level              int     `json:"level"`
	PrestigeLevel      int     `json:"prestigeLevel"`
	PrestigeMultiplier float64 `json:"prestigeMultiplier"`

	// Active corgi.
	ActiveCorgi string `json:"activeCorgi"`
	CorgiName   string `json:"corgiName"`

	// Unlocks. Cosmetics, corgis and achievements survive prestige;
	// upgrades do not.
	UnlockedUpgrades  []UpgradeState `json:"unlockedUpgrades"`
	UnlockedCosmetics []string       `json:"unlockedCosmetics"`
	UnlockedCorgis    []string       `json:"unlockedCorgis"`
	EquippedCosmetics []string       `json:"equippedCosmetics"`

	Achievements []string `json:"achievements"`

	// Lifetime stats, never reset by prestige.
	TotalPlayTime     float64 `json:"totalPlayTime"`
	SessionStart      int64   `json:"sessionStart"`
	HighestClickValue float64 `json:"highestClickValue"`
	TotalGasLiters    float64 `json:"totalGasLiters"`

	// Meta.
	LastSaved            int64 `json:"lastSaved"`
	SchemaVersion        int   `json:"schemaVersion"`
	HasSeenHint          bool  `json:"hasSeenHint"`
	HasSeenMicroPrestige bool  `json:"hasSeenMicroPrestige"`
}

// NewState returns fresh defaults for a new save.
func NewState() State {
	now := time.Now().UnixMilli()
	return State{
		Currency:           0,
		TotalEarned:        0,
		TotalClicks:        0,
		ClickValue:         1,
		Level:              0,
		PrestigeLevel:      0,
		PrestigeMultiplier: 1,
		ActiveCorgi:        catalog.CorgiSirFluffington,
		CorgiName:          "Sir Fluffington",
		UnlockedUpgrades:   []UpgradeState{},
		UnlockedCosmetics:  []string{},
		UnlockedCorgis:     []string{catalog.CorgiSirFluffington},
		EquippedCosmetics:  []string{},
		Achievements:       []string{},
		TotalPlayTime:      0,
		SessionStart:       now,
		HighestClickValue:  1,
		TotalGasLiters:     0,
		LastSaved:          now,
		SchemaVersion:      CurrentSchemaVersion,
	}
}

// Clone returns a deep copy of the state. Slice fields stay non-nil so a
// clone always marshals the same way as the original.
func (s State) Clone() State {
	out := s
	out.UnlockedUpgrades = make([]UpgradeState, len(s.UnlockedUpgrades))
	copy(out.UnlockedUpgrades, s.UnlockedUpgrades)
	out.UnlockedCosmetics = cloneIDs(s.UnlockedCosmetics)
	out.UnlockedCorgis = cloneIDs(s.UnlockedCorgis)
	out.EquippedCosmetics = cloneIDs(s.EquippedCosmetics)
	out.Achievements = cloneIDs(s.Achievements)
	return out
}

func cloneIDs(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Progress builds the snapshot the catalog resolver evaluates requirements
// against.
func (s *State) Progress() catalog.Progress {
	upgrades := make(map[string]int, len(s.UnlockedUpgrades))
	for _, u := range s.UnlockedUpgrades {
		upgrades[u.ID] = u.Level
	}
	achievements := make(map[string]bool, len(s.Achievements))
	for _, id := range s.Achievements {
		achievements[id] = true
	}
	return catalog.Progress{
		Level:         s.Level,
		TotalClicks:   s.TotalClicks,
		Currency:      s.Currency,
		PrestigeLevel: s.PrestigeLevel,
		Upgrades:      upgrades,
		Achievements:  achievements,
	}
}

// UpgradeLevel returns the owned level for an upgrade, 0 if not owned.
func (s *State) UpgradeLevel(id string) int {
	for _, u := range s.UnlockedUpgrades {
		if u.ID == id {
			return u.Level
		}
	}
	return 0
}

func (s *State) recomputeLevel() {
	s.Level = progression.ComputeLevel(s.TotalEarned)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
