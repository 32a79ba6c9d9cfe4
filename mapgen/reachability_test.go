package mapgen

import (
	"testing"

	"village-raiders/server/models"
)

func countVisited(g *models.Grid[bool]) int {
	return g.Count(func(v bool) bool { return v })
}

func TestReachableOpenMap(t *testing.T) {
	structures := models.NewGrid(MapWidth, MapHeight, models.TileNone)
	visited := Reachable(structures, models.Point{X: MapWidth / 2, Y: MapHeight / 2})
	if got := countVisited(visited); got != MapWidth*MapHeight {
		t.Errorf("visited %d of %d cells", got, MapWidth*MapHeight)
	}
}

func TestReachableWalls(t *testing.T) {
	// a fenced 3x3 pocket at (5..7, 5..7) inside a 20x20 map
	structures := models.NewGrid(20, 20, models.TileNone)
	for i := 4; i <= 8; i++ {
		structures.Set(i, 4, models.TileFence)
		structures.Set(i, 8, models.TileFence)
		structures.Set(4, i, models.TileWall)
		structures.Set(8, i, models.TileWall)
	}

	outside := Reachable(structures, models.Point{X: 0, Y: 0})
	if outside.At(6, 6) {
		t.Error("pocket reached from outside")
	}
	if got := countVisited(outside); got != 400-25 {
		t.Errorf("outside visited %d cells, want %d", got, 400-25)
	}

	inside := Reachable(structures, models.Point{X: 6, Y: 6})
	if got := countVisited(inside); got != 9 {
		t.Errorf("inside visited %d cells, want 9", got)
	}

	// a door in the ring opens it
	structures.Set(6, 8, models.TileDoor)
	opened := Reachable(structures, models.Point{X: 0, Y: 0})
	if !opened.At(6, 6) || !opened.At(6, 8) {
		t.Error("door did not open the pocket")
	}
}

func TestReachableNoDiagonals(t *testing.T) {
	structures := models.NewGrid(3, 3, models.TileNone)
	structures.Set(1, 0, models.TileTreeTrunk)
	structures.Set(0, 1, models.TileWater)
	visited := Reachable(structures, models.Point{X: 0, Y: 0})
	if got := countVisited(visited); got != 1 {
		t.Errorf("visited %d cells through a diagonal gap", got)
	}
}

func TestReachablePassableTiles(t *testing.T) {
	passable := []models.Tile{models.TileNone, models.TileDoor, models.TileFloor, models.TileJailDoor, models.TileRoof}
	for _, tile := range passable {
		structures := models.NewGrid(3, 1, models.TileNone)
		structures.Set(1, 0, tile)
		if !Reachable(structures, models.Point{}).At(2, 0) {
			t.Errorf("%s blocks movement", tile)
		}
	}
	for _, tile := range models.CollidableTiles() {
		structures := models.NewGrid(3, 1, models.TileNone)
		structures.Set(1, 0, tile)
		if Reachable(structures, models.Point{}).At(2, 0) {
			t.Errorf("%s does not block movement", tile)
		}
	}
}

func TestReachableStart(t *testing.T) {
	structures := models.NewGrid(5, 5, models.TileWall)
	visited := Reachable(structures, models.Point{X: 2, Y: 2})
	if !visited.At(2, 2) || countVisited(visited) != 1 {
		t.Error("start cell inside a wall should be the only visited cell")
	}

	outside := Reachable(structures, models.Point{X: -1, Y: 2})
	if countVisited(outside) != 0 {
		t.Error("out-of-bounds start visited cells")
	}
}

func TestFilterReachable(t *testing.T) {
	visited := models.NewGrid(4, 4, false)
	visited.Set(1, 1, true)
	visited.Set(2, 3, true)
	objects := []models.ObjectPlacement{{X: 1, Y: 1}, {X: 0, Y: 0}, {X: 2, Y: 3}, {X: 9, Y: 9}}

	kept := filterReachable(objects, visited)
	if len(kept) != 2 || kept[0].Point() != (models.Point{X: 1, Y: 1}) || kept[1].Point() != (models.Point{X: 2, Y: 3}) {
		t.Errorf("kept = %+v", kept)
	}
}

func TestEnforceKeyQuota(t *testing.T) {
	makeObjects := func(n, keys int) []models.ObjectPlacement {
		objects := make([]models.ObjectPlacement, n)
		for i := range objects {
			objects[i] = models.ObjectPlacement{X: i, Contents: models.LootHeart}
			if i < keys {
				objects[i].Contents = models.LootKey
			}
		}
		return objects
	}

	tests := []struct {
		name        string
		n, keys     int
		wantReroll  bool
		wantKeysOut int
	}{
		{"quota met", 30, 10, false, 10},
		{"keys lost to filtering", 30, 4, true, 10},
		{"too few objects", 7, 2, true, 7},
		{"empty", 0, 0, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := makeObjects(tt.n, tt.keys)
			rerolled := enforceKeyQuota(objects, DefaultMaxKeys, BaseLootTable, NewRand(2))
			if rerolled != tt.wantReroll {
				t.Errorf("rerolled = %v, want %v", rerolled, tt.wantReroll)
			}
			if got := countKeys(objects); got != tt.wantKeysOut {
				t.Errorf("%d keys after quota, want %d", got, tt.wantKeysOut)
			}
		})
	}
}
