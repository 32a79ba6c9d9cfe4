package models

import (
	"github.com/zyedidia/generic/mapset"
)

// Tile identifies what occupies a cell on one map layer.
// Values are stable wire ids; renderers index their tileset by them.
type Tile int8

// Tile types represented as small integers for memory efficiency
const (
	TileNone Tile = -1 // nothing on this layer

	TileGrass Tile = iota - 1
	TilePath
	TileWall
	TileRoof
	TileDoor
	TileFloor
	TileFence
	TileTreeTrunk
	TileTreeCanopy
	TileWater
	TileJailWall
	TileJailDoor

	tileCount
)

var tileNames = [...]string{
	"grass", "path", "wall", "roof", "door", "floor", "fence",
	"tree-trunk", "tree-canopy", "water", "jail-wall", "jail-door",
}

var (
	collidableTiles = newTileSet(TileWall, TileFence, TileTreeTrunk, TileWater, TileJailWall)
	floorTiles      = newTileSet(TileFloor)
)

func newTileSet(tiles ...Tile) mapset.Set[Tile] {
	s := mapset.New[Tile]()
	for _, t := range tiles {
		s.Put(t)
	}
	return s
}

// Valid reports whether t is a known tile id or TileNone
func (t Tile) Valid() bool {
	return t >= TileNone && t < tileCount
}

// Collidable reports whether t blocks movement and reachability
func (t Tile) Collidable() bool {
	return collidableTiles.Has(t)
}

// IsFloor reports whether t marks a building interior
func (t Tile) IsFloor() bool {
	return floorTiles.Has(t)
}

func (t Tile) String() string {
	if t == TileNone {
		return "none"
	}
	if t < 0 || t >= tileCount {
		return "invalid"
	}
	return tileNames[t]
}

// CollidableTiles lists the tile ids that block movement, in id order
func CollidableTiles() []Tile {
	var out []Tile
	for t := TileGrass; t < tileCount; t++ {
		if t.Collidable() {
			out = append(out, t)
		}
	}
	return out
}

// Point is a single cell coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ChebyshevDistance returns max(|dx|, |dy|) between p and q
func (p Point) ChebyshevDistance(q Point) int {
	return max(abs(p.X-q.X), abs(p.Y-q.Y))
}

// BuildingZone is the bounding box of a placed building
type BuildingZone struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Expand grows the zone by n cells on every side
func (z BuildingZone) Expand(n int) BuildingZone {
	return BuildingZone{X: z.X - n, Y: z.Y - n, W: z.W + 2*n, H: z.H + 2*n}
}

// Overlaps reports whether the two zones share at least one cell
func (z BuildingZone) Overlaps(o BuildingZone) bool {
	return z.X < o.X+o.W && o.X < z.X+z.W && z.Y < o.Y+o.H && o.Y < z.Y+z.H
}

// Contains reports whether (x, y) lies inside the zone
func (z BuildingZone) Contains(x, y int) bool {
	return x >= z.X && x < z.X+z.W && y >= z.Y && y < z.Y+z.H
}

// ObjectType is the kind of searchable prop
type ObjectType string

const (
	ObjectCrate  ObjectType = "crate"
	ObjectBarrel ObjectType = "barrel"
	ObjectBush   ObjectType = "bush"
)

// ObjectTypes lists the prop kinds in roll order
var ObjectTypes = []ObjectType{ObjectCrate, ObjectBarrel, ObjectBush}

// LootType is what a searchable prop contains
type LootType string

const (
	LootKey    LootType = "key"
	LootHeart  LootType = "heart"
	LootSpeed  LootType = "speed"
	LootShield LootType = "shield"
	LootAmmo   LootType = "ammo" // extended loot table only
	LootEmpty  LootType = "empty"
)

// Valid reports whether l is one of the known loot types
func (l LootType) Valid() bool {
	switch l {
	case LootKey, LootHeart, LootSpeed, LootShield, LootAmmo, LootEmpty:
		return true
	}
	return false
}

// ObjectPlacement is a searchable prop on the map
type ObjectPlacement struct {
	X        int        `json:"x"`
	Y        int        `json:"y"`
	Type     ObjectType `json:"type"`
	Contents LootType   `json:"contents"`
}

// Point returns the cell the prop occupies
func (o ObjectPlacement) Point() Point {
	return Point{X: o.X, Y: o.Y}
}

// MapData is a fully generated village. It is built once per session and
// must be treated as read-only by every consumer.
type MapData struct {
	Width            int               `json:"width"`
	Height           int               `json:"height"`
	Ground           *Grid[Tile]       `json:"ground"`
	Structures       *Grid[Tile]       `json:"structures"`
	Decoration       *Grid[Tile]       `json:"decoration"`
	ObjectPlacements []ObjectPlacement `json:"object_placements"`
	PlayerSpawn      Point             `json:"player_spawn"`
	JailDoor         Point             `json:"jail_door"`
	BuildingZones    []BuildingZone    `json:"building_zones"`
}

// Walkable reports whether (x, y) is inside the map and not blocked by a
// collidable structure
func (m *MapData) Walkable(x, y int) bool {
	if !m.Structures.InBounds(x, y) {
		return false
	}
	return !m.Structures.At(x, y).Collidable()
}

// IsFloor reports whether (x, y) is a building interior cell
func (m *MapData) IsFloor(x, y int) bool {
	return m.Structures.At(x, y).IsFloor()
}

// CollisionMask derives a blocked-cell grid from the structure layer
func (m *MapData) CollisionMask() *Grid[bool] {
	mask := NewGrid(m.Width, m.Height, false)
	for i, t := range m.Structures.Cells {
		mask.Cells[i] = t.Collidable()
	}
	return mask
}

// KeyCount returns how many props hold a key
func (m *MapData) KeyCount() int {
	n := 0
	for _, o := range m.ObjectPlacements {
		if o.Contents == LootKey {
			n++
		}
	}
	return n
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
