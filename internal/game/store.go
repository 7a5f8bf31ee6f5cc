package game

import (
	"sync"
	"time"

	"github.com/michaelhills23/corgi-clicker/internal/catalog"
	"github.com/michaelhills23/corgi-clicker/internal/progression"
)

// Store is the single owner of a State. A mutex serializes all actions so
// transitions apply in invocation order and no caller ever observes a
// partially applied transition. Rejected actions return false and leave the
// state untouched.
type Store struct {
	mu    sync.Mutex
	state State
	dirty bool
	gen   uint64 // bumped on every mutation; lets a flush detect interleaved actions
}

// NewStore creates a store with fresh defaults.
func NewStore() *Store {
	return &Store{state: NewState()}
}

// NewStoreFrom creates a store around a loaded (already migrated) state.
func NewStoreFrom(s State) *Store {
	// Level is derived; never trust the persisted value.
	s.recomputeLevel()
	return &Store{state: s.Clone()}
}

// touch stamps LastSaved and marks the state dirty for the next flush.
func (st *Store) touch() {
	st.state.LastSaved = time.Now().UnixMilli()
	st.dirty = true
	st.gen++
}

// Click applies the primary action and returns the amount earned.
func (st *Store) Click() float64 {
	st.mu.Lock()
	defer st.mu.Unlock()

	earned := st.state.ClickValue * st.state.PrestigeMultiplier
	st.state.Currency += earned
	st.state.TotalEarned += earned
	st.state.TotalClicks++
	if earned > st.state.HighestClickValue {
		st.state.HighestClickValue = earned
	}
	st.state.TotalGasLiters += GasPerClick
	st.state.recomputeLevel()
	st.touch()
	return earned
}

// AddCurrency adjusts the balance by amount. Negative amounts are
// deductions and also lower TotalEarned, which can lower the computed
// level.
func (st *Store) AddCurrency(amount float64) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.state.Currency += amount
	st.state.TotalEarned += amount
	st.state.recomputeLevel()
	st.touch()
}

// PurchaseUpgrade spends cost and raises the upgrade's owned level by one.
// Rejected without effect if the balance does not cover the cost.
func (st *Store) PurchaseUpgrade(id string, cost float64) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.state.Currency < cost {
		return false
	}

	st.state.Currency -= cost
	found := false
	for i := range st.state.UnlockedUpgrades {
		if st.state.UnlockedUpgrades[i].ID == id {
			st.state.UnlockedUpgrades[i].Level++
			st.state.UnlockedUpgrades[i].CurrentCost = cost
			found = true
			break
		}
	}
	if !found {
		st.state.UnlockedUpgrades = append(st.state.UnlockedUpgrades, UpgradeState{
			ID:          id,
			Level:       1,
			CurrentCost: cost,
		})
	}
	st.touch()
	return true
}

// UpdateUpgradeState patches the level and cached cost of an owned upgrade.
// No-op if the upgrade is not owned. Level only moves up.
func (st *Store) UpdateUpgradeState(id string, level int, currentCost float64) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	for i := range st.state.UnlockedUpgrades {
		if st.state.UnlockedUpgrades[i].ID != id {
			continue
		}
		if level > st.state.UnlockedUpgrades[i].Level {
			st.state.UnlockedUpgrades[i].Level = level
		}
		st.state.UnlockedUpgrades[i].CurrentCost = currentCost
		st.touch()
		return true
	}
	return false
}

// PurchaseCosmetic spends cost and adds the cosmetic to the unlock set.
// Rejected if unaffordable or already owned.
func (st *Store) PurchaseCosmetic(id string, cost float64) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.state.Currency < cost || contains(st.state.UnlockedCosmetics, id) {
		return false
	}

	st.state.Currency -= cost
	st.state.UnlockedCosmetics = append(st.state.UnlockedCosmetics, id)
	st.touch()
	return true
}

// EquipCosmetic equips an owned cosmetic. Rejected if not owned or already
// equipped.
func (st *Store) EquipCosmetic(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if !contains(st.state.UnlockedCosmetics, id) || contains(st.state.EquippedCosmetics, id) {
		return false
	}

	st.state.EquippedCosmetics = append(st.state.EquippedCosmetics, id)
	st.touch()
	return true
}

// UnequipCosmetic removes a cosmetic from the equipped set. No-op if
// absent.
func (st *Store) UnequipCosmetic(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	kept := st.state.EquippedCosmetics[:0]
	for _, v := range st.state.EquippedCosmetics {
		if v != id {
			kept = append(kept, v)
		}
	}
	st.state.EquippedCosmetics = kept
	st.touch()
}

// UnlockCorgi adds a corgi to the unlock set. Rejected if already owned.
// This is also the entry point for out-of-band secret unlocks.
func (st *Store) UnlockCorgi(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if contains(st.state.UnlockedCorgis, id) {
		return false
	}

	st.state.UnlockedCorgis = append(st.state.UnlockedCorgis, id)
	st.touch()
	return true
}

// SetActiveCorgi makes an owned corgi active. Rejected if not owned.
func (st *Store) SetActiveCorgi(id, name string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if !contains(st.state.UnlockedCorgis, id) {
		return false
	}

	st.state.ActiveCorgi = id
	st.state.CorgiName = name
	st.touch()
	return true
}

// SetCorgiName renames the active corgi.
func (st *Store) SetCorgiName(name string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.state.CorgiName = name
	st.touch()
}

// UnlockAchievement appends an achievement. Rejected if already granted.
func (st *Store) UnlockAchievement(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if contains(st.state.Achievements, id) {
		return false
	}

	st.state.Achievements = append(st.state.Achievements, id)
	st.touch()
	return true
}

// SetClickValue sets the base per-click yield.
func (st *Store) SetClickValue(value float64) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.state.ClickValue = value
	st.touch()
}

// Prestige performs the soft reset: zero short-term progress, keep
// cosmetics, corgis, achievements and lifetime stats, and raise the
// permanent multiplier. Rejected below the level gate. The first prestige
// grants Lord Chaos; the guard is on the pre-increment prestige level, not
// inferred from the counter afterwards.
func (st *Store) Prestige() bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if !progression.CanPrestige(st.state.Level) {
		return false
	}

	firstPrestige := st.state.PrestigeLevel == 0

	st.state.Currency = 0
	st.state.TotalEarned = 0
	st.state.TotalClicks = 0
	st.state.ClickValue = 1
	st.state.UnlockedUpgrades = []UpgradeState{}
	st.state.recomputeLevel()

	st.state.PrestigeLevel++
	st.state.PrestigeMultiplier = progression.PrestigeMultiplier(st.state.PrestigeLevel)

	if firstPrestige && !contains(st.state.UnlockedCorgis, catalog.CorgiLordChaos) {
		st.state.UnlockedCorgis = append(st.state.UnlockedCorgis, catalog.CorgiLordChaos)
	}

	st.state.HasSeenHint = false
	st.state.HasSeenMicroPrestige = false
	st.touch()
	return true
}

// UpdatePlayTime adds elapsed seconds to the lifetime play clock. Marks
// the state dirty but does not stamp LastSaved; LastSaved tracks gameplay
// changes only.
func (st *Store) UpdatePlayTime(seconds float64) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.state.TotalPlayTime += seconds
	st.dirty = true
	st.gen++
}

// SetHasSeenHint records that the prestige hint was shown.
func (st *Store) SetHasSeenHint(seen bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.state.HasSeenHint = seen
	st.touch()
}

// SetHasSeenMicroPrestige records that the micro-prestige hint was shown.
func (st *Store) SetHasSeenMicroPrestige(seen bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.state.HasSeenMicroPrestige = seen
	st.touch()
}

// Replace swaps in a loaded state wholesale, for backup restore and save
// import.
func (st *Store) Replace(s State) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s.recomputeLevel()
	st.state = s.Clone()
	st.dirty = true
	st.gen++
}

// ResetGame replaces the whole state with fresh defaults.
func (st *Store) ResetGame() {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.state = NewState()
	st.dirty = true
	st.gen++
}
