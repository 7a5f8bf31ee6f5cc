package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelhills23/corgi-clicker/internal/catalog"
	"github.com/michaelhills23/corgi-clicker/internal/progression"
)

func TestFreshState(t *testing.T) {
	s := NewState()

	assert.Equal(t, 0.0, s.Currency)
	assert.Equal(t, 1.0, s.ClickValue)
	assert.Equal(t, 1.0, s.PrestigeMultiplier)
	assert.Equal(t, catalog.CorgiSirFluffington, s.ActiveCorgi)
	assert.Equal(t, []string{catalog.CorgiSirFluffington}, s.UnlockedCorgis)
	assert.Equal(t, CurrentSchemaVersion, s.SchemaVersion)
}

func TestClick(t *testing.T) {
	st := NewStore()

	earned := st.Click()
	s := st.Snapshot()

	assert.Equal(t, 1.0, earned)
	assert.Equal(t, 1.0, s.Currency)
	assert.Equal(t, 1.0, s.TotalEarned)
	assert.Equal(t, int64(1), s.TotalClicks)
	assert.Equal(t, 0, s.Level)
	assert.InDelta(t, GasPerClick, s.TotalGasLiters, 1e-12)
	assert.True(t, st.Dirty())
}

func TestClickAppliesPrestigeMultiplier(t *testing.T) {
	st := NewStore()
	st.SetClickValue(10)
	loaded := st.Snapshot()
	loaded.PrestigeLevel = 2
	loaded.PrestigeMultiplier = progression.PrestigeMultiplier(2)
	st = NewStoreFrom(loaded)

	earned := st.Click()
	assert.InDelta(t, 12.0, earned, 1e-9)
	assert.InDelta(t, 12.0, st.Snapshot().HighestClickValue, 1e-9)
}

func TestLevelNeverDrifts(t *testing.T) {
	st := NewStore()
	st.SetClickValue(37)

	for i := 0; i < 50; i++ {
		st.Click()
		s := st.Snapshot()
		assert.Equal(t, progression.ComputeLevel(s.TotalEarned), s.Level)
	}

	st.AddCurrency(5000)
	s := st.Snapshot()
	assert.Equal(t, progression.ComputeLevel(s.TotalEarned), s.Level)
}

func TestAddCurrencyNegativeLowersLevel(t *testing.T) {
	st := NewStore()
	st.AddCurrency(300)
	require.Equal(t, 2, st.Level())

	// Deductions also reduce TotalEarned, so the level can drop. Known
	// coupling inherited from the save format; see DESIGN.md.
	st.AddCurrency(-250)
	s := st.Snapshot()
	assert.Equal(t, 50.0, s.Currency)
	assert.Equal(t, 50.0, s.TotalEarned)
	assert.Equal(t, 0, s.Level)
}

func TestPurchaseUpgrade(t *testing.T) {
	st := NewStore()
	st.AddCurrency(10)

	ok := st.PurchaseUpgrade("better-diet", 10)
	require.True(t, ok)

	s := st.Snapshot()
	assert.Equal(t, 0.0, s.Currency)
	require.Len(t, s.UnlockedUpgrades, 1)
	assert.Equal(t, UpgradeState{ID: "better-diet", Level: 1, CurrentCost: 10}, s.UnlockedUpgrades[0])
}

func TestPurchaseUpgradeRepeat(t *testing.T) {
	st := NewStore()
	st.AddCurrency(100)

	require.True(t, st.PurchaseUpgrade("better-diet", 10))
	require.True(t, st.PurchaseUpgrade("better-diet", 15))

	s := st.Snapshot()
	require.Len(t, s.UnlockedUpgrades, 1)
	assert.Equal(t, 2, s.UnlockedUpgrades[0].Level)
	assert.Equal(t, 15.0, s.UnlockedUpgrades[0].CurrentCost)
	assert.Equal(t, 75.0, s.Currency)
}

func TestPurchaseUpgradeRejection(t *testing.T) {
	st := NewStore()
	st.AddCurrency(5)
	before := st.Snapshot()

	// Rejected purchases are no-ops: twice is the same as never.
	assert.False(t, st.PurchaseUpgrade("better-diet", 10))
	assert.False(t, st.PurchaseUpgrade("better-diet", 10))

	after := st.Snapshot()
	assert.Equal(t, before.Currency, after.Currency)
	assert.Equal(t, before.UnlockedUpgrades, after.UnlockedUpgrades)
	assert.GreaterOrEqual(t, after.Currency, 0.0)
}

func TestUpdateUpgradeState(t *testing.T) {
	st := NewStore()
	st.AddCurrency(10)
	require.True(t, st.PurchaseUpgrade("better-diet", 10))

	assert.True(t, st.UpdateUpgradeState("better-diet", 3, 22))
	s := st.Snapshot()
	assert.Equal(t, 3, s.UnlockedUpgrades[0].Level)

	// Level only moves up.
	assert.True(t, st.UpdateUpgradeState("better-diet", 1, 33))
	assert.Equal(t, 3, st.Snapshot().UnlockedUpgrades[0].Level)

	assert.False(t, st.UpdateUpgradeState("spa-day", 1, 10))
}

func TestPurchaseCosmetic(t *testing.T) {
	st := NewStore()
	st.AddCurrency(500)

	require.True(t, st.PurchaseCosmetic("party-hat", 200))
	assert.Equal(t, 300.0, st.Snapshot().Currency)

	// Duplicate purchase rejected, no deduction.
	assert.False(t, st.PurchaseCosmetic("party-hat", 200))
	assert.Equal(t, 300.0, st.Snapshot().Currency)

	// Unaffordable rejected.
	assert.False(t, st.PurchaseCosmetic("tiny-crown", 500.01))
	assert.Equal(t, 300.0, st.Snapshot().Currency)
}

func TestEquipCosmetic(t *testing.T) {
	st := NewStore()
	st.AddCurrency(1000)
	require.True(t, st.PurchaseCosmetic("party-hat", 200))

	assert.False(t, st.EquipCosmetic("tiny-crown"), "cannot equip unowned")
	assert.True(t, st.EquipCosmetic("party-hat"))
	assert.False(t, st.EquipCosmetic("party-hat"), "already equipped")

	s := st.Snapshot()
	assert.Equal(t, []string{"party-hat"}, s.EquippedCosmetics)

	// Equipped is always a subset of unlocked.
	for _, id := range s.EquippedCosmetics {
		assert.Contains(t, s.UnlockedCosmetics, id)
	}

	st.UnequipCosmetic("party-hat")
	assert.Empty(t, st.Snapshot().EquippedCosmetics)
	st.UnequipCosmetic("party-hat") // no-op when absent
}

func TestCorgiActions(t *testing.T) {
	st := NewStore()

	assert.False(t, st.SetActiveCorgi("princess-beans", "Beans"), "locked corgi cannot be active")

	assert.True(t, st.UnlockCorgi("princess-beans"))
	assert.False(t, st.UnlockCorgi("princess-beans"), "already unlocked")

	assert.True(t, st.SetActiveCorgi("princess-beans", "Beans"))
	s := st.Snapshot()
	assert.Equal(t, "princess-beans", s.ActiveCorgi)
	assert.Equal(t, "Beans", s.CorgiName)
	assert.Contains(t, s.UnlockedCorgis, s.ActiveCorgi)

	st.SetCorgiName("Royal Beans")
	assert.Equal(t, "Royal Beans", st.Snapshot().CorgiName)
}

func TestUnlockAchievement(t *testing.T) {
	st := NewStore()

	assert.True(t, st.UnlockAchievement("first-toot"))
	assert.False(t, st.UnlockAchievement("first-toot"))
	assert.Equal(t, []string{"first-toot"}, st.Snapshot().Achievements)
}

// earnToLevel drives TotalEarned directly to the threshold for a level.
func earnToLevel(st *Store, level int) {
	st.AddCurrency(progression.LevelThreshold(level))
}

func TestPrestigeGate(t *testing.T) {
	st := NewStore()
	earnToLevel(st, 49)
	before := st.Snapshot()

	assert.False(t, st.Prestige())
	after := st.Snapshot()
	assert.Equal(t, before.PrestigeLevel, after.PrestigeLevel)
	assert.Equal(t, before.Currency, after.Currency)
	assert.Equal(t, before.TotalEarned, after.TotalEarned)
}

func TestPrestige(t *testing.T) {
	st := NewStore()
	st.AddCurrency(1000)
	require.True(t, st.PurchaseCosmetic("party-hat", 200))
	require.True(t, st.EquipCosmetic("party-hat"))
	require.True(t, st.UnlockCorgi("princess-beans"))
	require.True(t, st.UnlockAchievement("first-toot"))
	require.True(t, st.PurchaseUpgrade("better-diet", 10))
	st.SetClickValue(50)
	st.UpdatePlayTime(120)
	earnToLevel(st, 50)
	before := st.Snapshot()
	require.Equal(t, 50, before.Level)

	require.True(t, st.Prestige())
	s := st.Snapshot()

	// Short-term progress zeroed.
	assert.Equal(t, 0.0, s.Currency)
	assert.Equal(t, 0.0, s.TotalEarned)
	assert.Equal(t, int64(0), s.TotalClicks)
	assert.Equal(t, 1.0, s.ClickValue)
	assert.Equal(t, 0, s.Level)
	assert.Empty(t, s.UnlockedUpgrades)

	// Permanent progress raised.
	assert.Equal(t, 1, s.PrestigeLevel)
	assert.InDelta(t, 1.1, s.PrestigeMultiplier, 1e-9)

	// Preserved set-for-set.
	assert.Equal(t, before.UnlockedCosmetics, s.UnlockedCosmetics)
	assert.Equal(t, before.EquippedCosmetics, s.EquippedCosmetics)
	assert.Equal(t, before.Achievements, s.Achievements)
	assert.Equal(t, before.TotalPlayTime, s.TotalPlayTime)
	assert.Equal(t, before.HighestClickValue, s.HighestClickValue)
	assert.Equal(t, before.TotalGasLiters, s.TotalGasLiters)

	// First prestige grants Lord Chaos on top of what was owned.
	assert.Contains(t, s.UnlockedCorgis, catalog.CorgiLordChaos)
	assert.Contains(t, s.UnlockedCorgis, "princess-beans")

	assert.False(t, s.HasSeenHint)
	assert.False(t, s.HasSeenMicroPrestige)
}

func TestPrestigeGrantsLordChaosOnlyOnce(t *testing.T) {
	st := NewStore()
	earnToLevel(st, 50)
	require.True(t, st.Prestige())
	require.Contains(t, st.Snapshot().UnlockedCorgis, catalog.CorgiLordChaos)

	earnToLevel(st, 50)
	require.True(t, st.Prestige())
	s := st.Snapshot()
	assert.Equal(t, 2, s.PrestigeLevel)
	assert.InDelta(t, 1.2, s.PrestigeMultiplier, 1e-9)

	granted := 0
	for _, id := range s.UnlockedCorgis {
		if id == catalog.CorgiLordChaos {
			granted++
		}
	}
	assert.Equal(t, 1, granted)
}

func TestCurrencyNeverNegative(t *testing.T) {
	st := NewStore()
	st.AddCurrency(100)

	actions := []func(){
		func() { st.Click() },
		func() { st.PurchaseUpgrade("better-diet", 60) },
		func() { st.PurchaseUpgrade("better-diet", 90) },
		func() { st.PurchaseCosmetic("bowtie", 250) },
		func() { st.Click() },
		func() { st.PurchaseUpgrade("belly-rubs", 50) },
	}
	for i, act := range actions {
		act()
		assert.GreaterOrEqual(t, st.Snapshot().Currency, 0.0, "after action %d", i)
	}
}

func TestResetGame(t *testing.T) {
	st := NewStore()
	st.AddCurrency(5000)
	require.True(t, st.PurchaseCosmetic("tuxedo", 1200))
	require.True(t, st.UnlockCorgi("captain-bork"))
	old := st.Snapshot()

	st.ResetGame()
	s := st.Snapshot()

	assert.Equal(t, 0.0, s.Currency)
	assert.Empty(t, s.UnlockedCosmetics)
	assert.Equal(t, []string{catalog.CorgiSirFluffington}, s.UnlockedCorgis)
	assert.GreaterOrEqual(t, s.SessionStart, old.SessionStart)
}

func TestViews(t *testing.T) {
	c := catalog.MustLoad()
	st := NewStore()
	st.AddCurrency(100)

	views := st.UpgradeViews(c)
	require.Len(t, views, c.Upgrades.Count())

	byID := make(map[string]ItemView, len(views))
	for _, v := range views {
		byID[v.ID] = v
	}

	diet := byID["better-diet"]
	assert.True(t, diet.Unlocked)
	assert.True(t, diet.Affordable)
	assert.Equal(t, 10.0, diet.NextCost)

	// Gated behind 25 clicks; none made yet.
	assert.False(t, byID["belly-rubs"].Unlocked)

	// Cost advances with owned level.
	require.True(t, st.PurchaseUpgrade("better-diet", 10))
	views = st.UpgradeViews(c)
	for _, v := range views {
		if v.ID == "better-diet" {
			assert.Equal(t, 1, v.OwnedLevel)
			assert.Equal(t, 15.0, v.NextCost)
		}
	}

	corgis := st.CorgiViews(c)
	require.Len(t, corgis, c.Corgis.Count())
	for _, v := range corgis {
		if v.ID == "secret-corgi" {
			assert.False(t, v.Unlocked)
		}
		if v.ID == catalog.CorgiSirFluffington {
			assert.True(t, v.Unlocked)
		}
	}
}

func TestPendingAchievements(t *testing.T) {
	c := catalog.MustLoad()
	st := NewStore()

	assert.Empty(t, st.PendingAchievements(c))

	st.Click()
	pending := st.PendingAchievements(c)
	assert.Contains(t, pending, "first-toot")

	require.True(t, st.UnlockAchievement("first-toot"))
	assert.NotContains(t, st.PendingAchievements(c), "first-toot")
}

func TestFlushBookkeeping(t *testing.T) {
	st := NewStore()
	assert.False(t, st.Dirty())

	st.Click()
	assert.True(t, st.Dirty())

	_, gen := st.FlushSnapshot()
	st.MarkFlushed(gen)
	assert.False(t, st.Dirty())

	st.UpdatePlayTime(1)
	assert.True(t, st.Dirty())
}

func TestMarkFlushedKeepsInterleavedMutation(t *testing.T) {
	st := NewStore()
	st.Click()

	// A flush takes its snapshot, then an action lands before the flush
	// reports success. The snapshot misses the second click, so the store
	// must stay dirty for the next flush.
	snap, gen := st.FlushSnapshot()
	st.Click()
	st.MarkFlushed(gen)

	assert.Equal(t, int64(1), snap.TotalClicks)
	assert.Equal(t, int64(2), st.Snapshot().TotalClicks)
	assert.True(t, st.Dirty())

	// Once the newer state is flushed the store goes clean.
	_, gen = st.FlushSnapshot()
	st.MarkFlushed(gen)
	assert.False(t, st.Dirty())
}
