// Package catalog provides the immutable item definitions (upgrades,
// cosmetics, corgis, achievements) and the resolver that evaluates costs,
// affordability, and unlock requirements against a player snapshot.
// Definitions are embedded JSON and never mutated at runtime.
package catalog

import (
	"encoding/json"
	"fmt"
)

// Well-known corgi IDs referenced by game rules.
const (
	CorgiSirFluffington = "sir-fluffington"
	CorgiLordChaos      = "lord-chaos"
)

// RequirementKind is the closed set of unlock requirement discriminators.
type RequirementKind string

const (
	RequirementDefault     RequirementKind = "default"
	RequirementLevel       RequirementKind = "level"
	RequirementClicks      RequirementKind = "clicks"
	RequirementCurrency    RequirementKind = "currency"
	RequirementPrestige    RequirementKind = "prestige"
	RequirementUpgrade     RequirementKind = "upgrade"
	RequirementAchievement RequirementKind = "achievement"
	RequirementSecret      RequirementKind = "secret"
)

// Requirement gates an item behind a progression condition. Threshold is
// set for numeric kinds (level, clicks, currency, prestige); Ref is set for
// reference kinds (upgrade, achievement, secret trigger name).
type Requirement struct {
	Kind      RequirementKind
	Threshold float64
	Ref       string
}

// UnmarshalJSON accepts the catalog wire shape {"type": ..., "value": ...}
// where value is a number for threshold kinds and a string for reference
// kinds.
func (r *Requirement) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type  RequirementKind `json:"type"`
		Value any             `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Kind = raw.Type
	switch v := raw.Value.(type) {
	case nil:
	case float64:
		r.Threshold = v
	case string:
		r.Ref = v
	default:
		return fmt.Errorf("requirement %q: unsupported value type %T", raw.Type, raw.Value)
	}
	return nil
}

// EffectKind is how an upgrade modifies the click value.
type EffectKind string

const (
	EffectAdditive       EffectKind = "additive"
	EffectMultiplicative EffectKind = "multiplicative"
)

// Effect is an upgrade's contribution to the click value.
type Effect struct {
	Kind  EffectKind `json:"type"`
	Value float64    `json:"value"`
}

// UpgradeDef defines a purchasable, repeatable upgrade.
type UpgradeDef struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Flavor         string       `json:"flavor"`
	BaseCost       float64      `json:"baseCost"`
	CostMultiplier float64      `json:"costMultiplier"`
	Effect         Effect       `json:"effect"`
	MaxLevel       int          `json:"maxLevel"`
	Tier           int          `json:"tier"`
	Unlock         *Requirement `json:"unlockRequirement,omitempty"`
	VisualEffect   string       `json:"visualEffect,omitempty"`
}

// CosmeticSlot is where a cosmetic is worn.
type CosmeticSlot string

const (
	SlotHead      CosmeticSlot = "head"
	SlotBody      CosmeticSlot = "body"
	SlotAccessory CosmeticSlot = "accessory"
)

// CosmeticDef defines a one-time purchasable cosmetic.
type CosmeticDef struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Cost        float64      `json:"cost"`
	Slot        CosmeticSlot `json:"slot"`
	ImagePath   string       `json:"imagePath"`
	Unlock      *Requirement `json:"unlockRequirement,omitempty"`
}

// CorgiDef defines a companion corgi.
type CorgiDef struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Unlock         Requirement `json:"unlockRequirement"`
	SpriteSheet    string      `json:"spriteSheet"`
	IdleAnimation  string      `json:"idleAnimation"`
	ClickAnimation string      `json:"clickAnimation"`
}

// Cost returns the currency price for currency-unlocked corgis, or false
// for corgis that are not bought with currency.
func (c *CorgiDef) Cost() (float64, bool) {
	if c.Unlock.Kind == RequirementCurrency {
		return c.Unlock.Threshold, true
	}
	return 0, false
}

// ConditionKind is the closed set of achievement condition discriminators.
type ConditionKind string

const (
	ConditionClicks    ConditionKind = "clicks"
	ConditionCurrency  ConditionKind = "currency"
	ConditionCosmetics ConditionKind = "cosmetics"
	ConditionCorgis    ConditionKind = "corgis"
	ConditionPrestige  ConditionKind = "prestige"
)

// Condition is the threshold an achievement is granted at.
type Condition struct {
	Kind  ConditionKind `json:"type"`
	Value float64       `json:"value"`
}

// AchievementDef defines an achievement.
type AchievementDef struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Condition   Condition `json:"condition"`
	Secret      bool      `json:"secret,omitempty"`
}
