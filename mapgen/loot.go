package mapgen

import (
	"errors"
	"fmt"

	"village-raiders/server/models"
)

// LootTier is one weighted outcome of a loot roll
type LootTier struct {
	Type   models.LootType `yaml:"type" json:"type"`
	Weight float64         `yaml:"weight" json:"weight"`
}

// LootTable rolls the contents of non-key props. Tiers are checked in order
// against cumulative weight; the remaining probability mass is Fallback.
type LootTable struct {
	Name     string          `yaml:"name" json:"name"`
	Tiers    []LootTier      `yaml:"tiers" json:"tiers"`
	Fallback models.LootType `yaml:"fallback" json:"fallback"`
}

// BaseLootTable is the reference table: cumulative .30/.50/.65, rest empty
var BaseLootTable = LootTable{
	Name: "base",
	Tiers: []LootTier{
		{Type: models.LootHeart, Weight: 0.30},
		{Type: models.LootSpeed, Weight: 0.20},
		{Type: models.LootShield, Weight: 0.15},
	},
	Fallback: models.LootEmpty,
}

// ExtendedLootTable adds an ammo tier ending at .80 before empty
var ExtendedLootTable = LootTable{
	Name: "extended",
	Tiers: []LootTier{
		{Type: models.LootHeart, Weight: 0.30},
		{Type: models.LootSpeed, Weight: 0.20},
		{Type: models.LootShield, Weight: 0.15},
		{Type: models.LootAmmo, Weight: 0.15},
	},
	Fallback: models.LootEmpty,
}

var (
	ErrUnknownLootTable = errors.New("unknown loot table")
	ErrInvalidLootTable = errors.New("invalid loot table")
)

// LootTableByName returns one of the built-in tables
func LootTableByName(name string) (LootTable, error) {
	switch name {
	case "", BaseLootTable.Name:
		return BaseLootTable, nil
	case ExtendedLootTable.Name:
		return ExtendedLootTable, nil
	}
	return LootTable{}, fmt.Errorf("%w: %q", ErrUnknownLootTable, name)
}

// Validate checks the table only yields known non-key loot and its weights
// fit in [0, 1]
func (t LootTable) Validate() error {
	if t.Fallback == "" {
		return fmt.Errorf("%w: %s has no fallback", ErrInvalidLootTable, t.Name)
	}
	if !t.Fallback.Valid() {
		return fmt.Errorf("%w: %s has unknown fallback %q", ErrInvalidLootTable, t.Name, t.Fallback)
	}
	if t.Fallback == models.LootKey {
		return fmt.Errorf("%w: %s falls back to keys", ErrInvalidLootTable, t.Name)
	}
	total := 0.0
	for _, tier := range t.Tiers {
		if !tier.Type.Valid() {
			return fmt.Errorf("%w: %s has unknown loot type %q", ErrInvalidLootTable, t.Name, tier.Type)
		}
		if tier.Type == models.LootKey {
			return fmt.Errorf("%w: %s rolls keys", ErrInvalidLootTable, t.Name)
		}
		if tier.Weight < 0 {
			return fmt.Errorf("%w: %s has negative weight for %s", ErrInvalidLootTable, t.Name, tier.Type)
		}
		total += tier.Weight
	}
	if total > 1+1e-9 {
		return fmt.Errorf("%w: %s weights sum to %.3f", ErrInvalidLootTable, t.Name, total)
	}
	return nil
}

// Roll draws one loot type
func (t LootTable) Roll(rng Rand) models.LootType {
	roll := rng.Float64()
	cumulative := 0.0
	for _, tier := range t.Tiers {
		cumulative += tier.Weight
		if roll < cumulative {
			return tier.Type
		}
	}
	return t.Fallback
}
