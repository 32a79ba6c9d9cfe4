package models

import "time"

// Player is a persistent player profile
type Player struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Runs      int       `json:"runs"`    // villages generated for this player
	Escapes   int       `json:"escapes"` // runs that ended at the jail door with every key
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GenerationStats counts what a single generation run actually produced
type GenerationStats struct {
	BuildingsPlaced  int  `json:"buildings_placed"`
	BuildingAttempts int  `json:"building_attempts"`
	FenceTiles       int  `json:"fence_tiles"`
	TreesPlaced      int  `json:"trees_placed"`
	WaterTiles       int  `json:"water_tiles"`
	ObjectsPlaced    int  `json:"objects_placed"`
	ObjectAttempts   int  `json:"object_attempts"`
	ObjectsReachable int  `json:"objects_reachable"`
	KeysReachable    int  `json:"keys_reachable"`
	ReachableCells   int  `json:"reachable_cells"`
	LootRerolled     bool `json:"loot_rerolled"`
}

// GenerationReport is the diagnostic record kept for every session.
// The map itself is never stored; Seed and LootTable are enough to rebuild it.
type GenerationReport struct {
	SessionID string          `json:"session_id"`
	PlayerID  string          `json:"player_id"`
	Seed      int64           `json:"seed"`
	LootTable string          `json:"loot_table"`
	Stats     GenerationStats `json:"stats"`
	CreatedAt time.Time       `json:"created_at"`
}
