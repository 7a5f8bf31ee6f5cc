package game

import (
	"time"

	"github.com/michaelhills23/corgi-clicker/internal/catalog"
	"github.com/michaelhills23/corgi-clicker/internal/progression"
)

// Snapshot returns a deep copy of the current state.
func (st *Store) Snapshot() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.Clone()
}

// Dirty reports whether the state has changed since the last flush.
func (st *Store) Dirty() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.dirty
}

// FlushSnapshot returns a deep copy of the current state together with the
// mutation generation it was taken at, under one lock acquisition. Pass the
// generation to MarkFlushed after the copy has been persisted.
func (st *Store) FlushSnapshot() (State, uint64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.Clone(), st.gen
}

// MarkFlushed clears the dirty flag, but only if no mutation landed since
// the flushed snapshot was taken; an interleaved action leaves the store
// dirty so the next flush picks it up. The flush itself never mutates
// gameplay state.
func (st *Store) MarkFlushed(gen uint64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.gen == gen {
		st.dirty = false
	}
}

// Level returns the current (derived) level.
func (st *Store) Level() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.Level
}

// LevelProgress returns the fraction toward the next level, in [0, 1].
func (st *Store) LevelProgress() float64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return progression.LevelProgress(st.state.TotalEarned, st.state.Level)
}

// NextLevelThreshold returns the cumulative earnings needed for the next
// level.
func (st *Store) NextLevelThreshold() float64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return progression.LevelThreshold(st.state.Level + 1)
}

// EffectiveClickValue returns what one click currently earns.
func (st *Store) EffectiveClickValue() float64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.ClickValue * st.state.PrestigeMultiplier
}

// CanPrestige reports whether the prestige gate is met.
func (st *Store) CanPrestige() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return progression.CanPrestige(st.state.Level)
}

// Progress returns the resolver snapshot for the current state.
func (st *Store) Progress() catalog.Progress {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.Progress()
}

// ItemView is the per-item purchase readout the presentation layer renders
// from: what the next purchase costs and whether it is unlocked and
// affordable right now.
type ItemView struct {
	ID         string  `json:"id"`
	OwnedLevel int     `json:"ownedLevel,omitempty"`
	NextCost   float64 `json:"nextCost"`
	Unlocked   bool    `json:"unlocked"`
	Affordable bool    `json:"affordable"`
	MaxedOut   bool    `json:"maxedOut,omitempty"`
}

// UpgradeViews computes the purchase readout for every upgrade in the
// catalog. Costs are recomputed from source fields on every call so they
// cannot drift.
func (st *Store) UpgradeViews(c *catalog.Catalog) []ItemView {
	st.mu.Lock()
	defer st.mu.Unlock()

	p := st.state.Progress()
	defs := c.Upgrades.All()
	views := make([]ItemView, 0, len(defs))
	for i := range defs {
		def := &defs[i]
		owned := st.state.UpgradeLevel(def.ID)
		cost := catalog.UpgradeCost(def, owned)
		views = append(views, ItemView{
			ID:         def.ID,
			OwnedLevel: owned,
			NextCost:   cost,
			Unlocked:   catalog.RequirementMet(def.Unlock, p),
			Affordable: catalog.Affordable(cost, st.state.Currency),
			MaxedOut:   owned >= def.MaxLevel,
		})
	}
	return views
}

// CosmeticViews computes the purchase readout for every cosmetic.
func (st *Store) CosmeticViews(c *catalog.Catalog) []ItemView {
	st.mu.Lock()
	defer st.mu.Unlock()

	p := st.state.Progress()
	defs := c.Cosmetics.All()
	views := make([]ItemView, 0, len(defs))
	for i := range defs {
		def := &defs[i]
		views = append(views, ItemView{
			ID:         def.ID,
			NextCost:   def.Cost,
			Unlocked:   catalog.RequirementMet(def.Unlock, p),
			Affordable: catalog.Affordable(def.Cost, st.state.Currency),
		})
	}
	return views
}

// CorgiViews computes the unlock readout for every corgi.
func (st *Store) CorgiViews(c *catalog.Catalog) []ItemView {
	st.mu.Lock()
	defer st.mu.Unlock()

	p := st.state.Progress()
	defs := c.Corgis.All()
	views := make([]ItemView, 0, len(defs))
	for i := range defs {
		def := &defs[i]
		cost, priced := def.Cost()
		view := ItemView{
			ID:       def.ID,
			Unlocked: contains(st.state.UnlockedCorgis, def.ID) || catalog.RequirementMet(&def.Unlock, p),
		}
		if priced {
			view.NextCost = cost
			view.Affordable = catalog.Affordable(cost, st.state.Currency)
		}
		views = append(views, view)
	}
	return views
}

// PendingAchievements returns catalog achievements whose condition is met
// but which have not been granted yet. The caller grants them through
// UnlockAchievement, keeping grant an explicit action.
func (st *Store) PendingAchievements(c *catalog.Catalog) []string {
	st.mu.Lock()
	defer st.mu.Unlock()

	p := st.state.Progress()
	var pending []string
	for _, def := range c.Achievements.All() {
		if contains(st.state.Achievements, def.ID) {
			continue
		}
		if catalog.ConditionMet(def.Condition, p,
			len(st.state.UnlockedCosmetics), len(st.state.UnlockedCorgis)) {
			pending = append(pending, def.ID)
		}
	}
	return pending
}

// SaveAge returns how long ago the state last changed.
func (st *Store) SaveAge() time.Duration {
	st.mu.Lock()
	defer st.mu.Unlock()
	return time.Since(time.UnixMilli(st.state.LastSaved))
}
