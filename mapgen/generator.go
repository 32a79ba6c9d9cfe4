// Package mapgen builds the tile map for one village-raiders session: a road
// cross with branches, stamped buildings with a jail at the north edge,
// fences, trees, a pond and searchable props whose loot guarantees the key
// quota among the props reachable from the spawn point.
package mapgen

import (
	"errors"
	"fmt"

	"village-raiders/server/models"
)

// World dimensions
const (
	MapWidth     = 384
	MapHeight    = 288
	TileSize     = 16 // world units per cell
	BorderMargin = 4  // outer ring never used for placement
	spawnOffsetY = 2  // spawn sits just south of the square's center
)

// Default generation targets
const (
	DefaultTargetBuildings  = 20
	DefaultBuildingAttempts = 500
	DefaultFencedZones      = 4
	DefaultTargetObjects    = 40
	DefaultObjectAttempts   = 2000
	DefaultMaxKeys          = 10
)

var ErrInvalidConfig = errors.New("invalid generator config")

// Config holds the tunable counts of a generation run
type Config struct {
	TargetBuildings  int
	BuildingAttempts int
	FencedZones      int
	TargetObjects    int
	ObjectAttempts   int
	MaxKeys          int
	Loot             LootTable
}

// DefaultConfig returns the reference configuration
func DefaultConfig() Config {
	return Config{
		TargetBuildings:  DefaultTargetBuildings,
		BuildingAttempts: DefaultBuildingAttempts,
		FencedZones:      DefaultFencedZones,
		TargetObjects:    DefaultTargetObjects,
		ObjectAttempts:   DefaultObjectAttempts,
		MaxKeys:          DefaultMaxKeys,
		Loot:             BaseLootTable,
	}
}

// Validate rejects negative counts and loot tables that could roll keys
func (c Config) Validate() error {
	counts := []struct {
		name  string
		value int
	}{
		{"target buildings", c.TargetBuildings},
		{"building attempts", c.BuildingAttempts},
		{"fenced zones", c.FencedZones},
		{"target objects", c.TargetObjects},
		{"object attempts", c.ObjectAttempts},
		{"max keys", c.MaxKeys},
	}
	for _, n := range counts {
		if n.value < 0 {
			return fmt.Errorf("%w: %s is negative (%d)", ErrInvalidConfig, n.name, n.value)
		}
	}
	if err := c.Loot.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Result is a generated map together with what the run produced
type Result struct {
	Map   *models.MapData
	Stats models.GenerationStats
}

// Generator runs the village pipeline with a fixed config and random source
type Generator struct {
	cfg Config
	rng Rand
}

// New creates a generator. A nil rng is replaced with a time-seeded one.
func New(cfg Config, rng Rand) *Generator {
	if rng == nil {
		rng = NewRand(0)
	}
	return &Generator{cfg: cfg, rng: rng}
}

// Generate builds a village with the default configuration
func Generate(rng Rand) *models.MapData {
	return New(DefaultConfig(), rng).Run().Map
}

// Run generates one village. It never fails: exhausted attempt budgets
// simply yield a sparser map, which Stats reports.
func (g *Generator) Run() Result {
	l := newLayout(MapWidth, MapHeight, g.rng)
	cx, cy := l.center()

	l.buildRoads()
	l.markPathBuffer()

	jailDoor := l.placeJail()
	l.placeBuildings(g.cfg.TargetBuildings, g.cfg.BuildingAttempts)
	l.placeFences(g.cfg.FencedZones)
	l.placeTrees()
	l.placePond()

	objects := l.scatterObjects(g.cfg.TargetObjects, g.cfg.ObjectAttempts, jailDoor)
	assignLoot(objects, g.cfg.MaxKeys, g.cfg.Loot, g.rng)

	spawn := models.Point{X: cx, Y: cy + spawnOffsetY}
	visited := Reachable(l.structures, spawn)
	objects = filterReachable(objects, visited)
	l.stats.LootRerolled = enforceKeyQuota(objects, g.cfg.MaxKeys, g.cfg.Loot, g.rng)

	l.stats.ObjectsReachable = len(objects)
	l.stats.KeysReachable = countKeys(objects)
	l.stats.ReachableCells = visited.Count(func(v bool) bool { return v })

	m := &models.MapData{
		Width:            l.width,
		Height:           l.height,
		Ground:           l.ground,
		Structures:       l.structures,
		Decoration:       l.decoration,
		ObjectPlacements: objects,
		PlayerSpawn:      spawn,
		JailDoor:         jailDoor,
		BuildingZones:    l.zones,
	}
	return Result{Map: m, Stats: l.stats}
}
