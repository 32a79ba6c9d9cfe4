package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTileIDs(t *testing.T) {
	// ids are part of the wire format
	ids := map[Tile]int{
		TileNone: -1, TileGrass: 0, TilePath: 1, TileWall: 2, TileRoof: 3,
		TileDoor: 4, TileFloor: 5, TileFence: 6, TileTreeTrunk: 7,
		TileTreeCanopy: 8, TileWater: 9, TileJailWall: 10, TileJailDoor: 11,
	}
	for tile, id := range ids {
		if int(tile) != id {
			t.Errorf("%s has id %d, want %d", tile, tile, id)
		}
		if !tile.Valid() {
			t.Errorf("%s not valid", tile)
		}
	}
	if Tile(12).Valid() || Tile(-2).Valid() {
		t.Error("out-of-range ids reported valid")
	}
	if Tile(40).String() != "invalid" || TileTreeTrunk.String() != "tree-trunk" {
		t.Error("unexpected tile names")
	}
}

func TestCollidableTiles(t *testing.T) {
	want := []Tile{TileWall, TileFence, TileTreeTrunk, TileWater, TileJailWall}
	got := CollidableTiles()
	if len(got) != len(want) {
		t.Fatalf("CollidableTiles() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CollidableTiles()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	for _, open := range []Tile{TileNone, TileDoor, TileJailDoor, TileFloor, TileRoof, TileGrass} {
		if open.Collidable() {
			t.Errorf("%s is collidable", open)
		}
	}
	if !TileFloor.IsFloor() || TileDoor.IsFloor() {
		t.Error("IsFloor wrong")
	}
}

func TestBuildingZone(t *testing.T) {
	a := BuildingZone{X: 10, Y: 10, W: 5, H: 5}
	tests := []struct {
		name string
		b    BuildingZone
		want bool
	}{
		{"same", a, true},
		{"touching edge", BuildingZone{X: 15, Y: 10, W: 3, H: 3}, false},
		{"one cell overlap", BuildingZone{X: 14, Y: 14, W: 3, H: 3}, true},
		{"far", BuildingZone{X: 40, Y: 40, W: 3, H: 3}, false},
	}
	for _, tt := range tests {
		if got := a.Overlaps(tt.b); got != tt.want {
			t.Errorf("%s: Overlaps = %v", tt.name, got)
		}
		if tt.b.Overlaps(a) != a.Overlaps(tt.b) {
			t.Errorf("%s: Overlaps not symmetric", tt.name)
		}
	}

	e := a.Expand(2)
	if e != (BuildingZone{X: 8, Y: 8, W: 9, H: 9}) {
		t.Errorf("Expand(2) = %+v", e)
	}
	if !a.Contains(14, 14) || a.Contains(15, 14) {
		t.Error("Contains wrong at the far edge")
	}
}

func TestChebyshevDistance(t *testing.T) {
	p := Point{X: 3, Y: 4}
	if d := p.ChebyshevDistance(Point{X: 0, Y: 0}); d != 4 {
		t.Errorf("distance = %d", d)
	}
	if d := p.ChebyshevDistance(p); d != 0 {
		t.Errorf("self distance = %d", d)
	}
}

func TestMapDataQueries(t *testing.T) {
	s := NewGrid(3, 3, TileNone)
	s.Set(1, 1, TileWall)
	s.Set(2, 2, TileFloor)
	m := &MapData{
		Width: 3, Height: 3,
		Ground:     NewGrid(3, 3, TileGrass),
		Structures: s,
		Decoration: NewGrid(3, 3, TileNone),
		ObjectPlacements: []ObjectPlacement{
			{X: 0, Y: 0, Type: ObjectCrate, Contents: LootKey},
			{X: 0, Y: 2, Type: ObjectBush, Contents: LootHeart},
		},
	}

	if m.Walkable(1, 1) || !m.Walkable(0, 0) || m.Walkable(3, 0) {
		t.Error("Walkable wrong")
	}
	if !m.IsFloor(2, 2) || m.IsFloor(0, 0) {
		t.Error("IsFloor wrong")
	}
	mask := m.CollisionMask()
	if !mask.At(1, 1) || mask.Count(func(b bool) bool { return b }) != 1 {
		t.Error("CollisionMask wrong")
	}
	if m.KeyCount() != 1 {
		t.Errorf("KeyCount = %d", m.KeyCount())
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"object_placements"`, `"player_spawn"`, `"contents":"key"`, `"cells":[-1,-1`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("encoded map lacks %s", field)
		}
	}
}

func TestLootTypeValid(t *testing.T) {
	for _, l := range []LootType{LootKey, LootHeart, LootSpeed, LootShield, LootAmmo, LootEmpty} {
		if !l.Valid() {
			t.Errorf("%q not valid", l)
		}
	}
	for _, l := range []LootType{"", "hart", "nothing", "Key"} {
		if l.Valid() {
			t.Errorf("%q accepted", l)
		}
	}
}
