package mapgen

import "village-raiders/server/models"

// Placement geometry
const (
	JailY            = 8  // jail top row, always centered horizontally
	buildingMargin   = 15 // ordinary buildings keep this far from the map edge
	legalityBuffer   = 2  // ring that must be free for a placement to be legal
	stampBuffer      = 1  // ring marked occupied after stamping
	fenceOffset      = 2
	treeStart        = 10
	treeMinStep      = 8
	treeMaxStep      = 14
	treeJitter       = 2
	treeSpacing      = 3 // 7x7 neighbourhood reserved around each trunk
	pondMinOffset    = 8
	pondMaxOffset    = 15
	pondHalfWidth    = 3
	pondHalfHeight   = 2
	pondManhattanMax = 5 // cells with |dx|+|dy| < 5 are water
)

// canPlace reports whether t fits at (px, py) with its legality ring free,
// in bounds, and clear of every earlier building's legality ring
func (l *layout) canPlace(t *Template, px, py int) bool {
	for dy := -legalityBuffer; dy < t.Height+legalityBuffer; dy++ {
		for dx := -legalityBuffer; dx < t.Width+legalityBuffer; dx++ {
			x, y := px+dx, py+dy
			if !l.occupied.InBounds(x, y) || l.occupied.At(x, y) {
				return false
			}
		}
	}
	candidate := models.BuildingZone{X: px, Y: py, W: t.Width, H: t.Height}.Expand(legalityBuffer)
	for _, z := range l.zones {
		if candidate.Overlaps(z.Expand(legalityBuffer)) {
			return false
		}
	}
	return true
}

// stamp copies t onto the structure and decoration layers at (px, py),
// reserves the footprint plus a 1-cell ring and records the zone
func (l *layout) stamp(t *Template, px, py int) models.BuildingZone {
	for dy := 0; dy < t.Height; dy++ {
		for dx := 0; dx < t.Width; dx++ {
			if s := t.StructureAt(dx, dy); s != models.TileNone {
				l.structures.Set(px+dx, py+dy, s)
			}
			if dec := t.DecorationAt(dx, dy); dec != models.TileNone {
				l.decoration.Set(px+dx, py+dy, dec)
			}
		}
	}
	for dy := -stampBuffer; dy < t.Height+stampBuffer; dy++ {
		for dx := -stampBuffer; dx < t.Width+stampBuffer; dx++ {
			l.occupied.Set(px+dx, py+dy, true)
		}
	}

	zone := models.BuildingZone{X: px, Y: py, W: t.Width, H: t.Height}
	l.zones = append(l.zones, zone)
	return zone
}

// placeJail stamps the jail at its fixed spot, connects it to the main
// road and returns the door cell
func (l *layout) placeJail() models.Point {
	cx, _ := l.center()
	t := jailTemplate
	jx := cx - t.Width/2

	l.stamp(t, jx, JailY)
	l.drawPath(cx, JailY+t.Height, cx, RoadInset, jailConnectWidth)

	dx, dy, _ := t.FindTile(models.TileJailDoor)
	return models.Point{X: jx + dx, Y: JailY + dy}
}

// placeBuildings rejection-samples ordinary buildings until target are
// placed or the attempt budget runs out
func (l *layout) placeBuildings(target, budget int) {
	placed, attempts := 0, 0
	for placed < target && attempts < budget {
		attempts++
		t := randomTemplate(l.rng)
		px := randRange(l.rng, buildingMargin, l.width-buildingMargin-t.Width)
		py := randRange(l.rng, buildingMargin, l.height-buildingMargin-t.Height)
		if !l.canPlace(t, px, py) {
			continue
		}
		l.stamp(t, px, py)
		l.drawConnector(px+t.Width/2, py+t.Height)
		placed++
	}
	l.stats.BuildingsPlaced = placed
	l.stats.BuildingAttempts = attempts
}

// placeFences outlines the first n building zones. Path cells and cells
// that already hold a structure are left open.
func (l *layout) placeFences(n int) {
	for i := 0; i < n && i < len(l.zones); i++ {
		z := l.zones[i]
		x1 := max(BorderMargin, z.X-fenceOffset)
		y1 := max(BorderMargin, z.Y-fenceOffset)
		x2 := min(l.width-BorderMargin-1, z.X+z.W+fenceOffset)
		y2 := min(l.height-BorderMargin-1, z.Y+z.H+fenceOffset)

		for x := x1; x <= x2; x++ {
			l.putFence(x, y1)
			l.putFence(x, y2)
		}
		for y := y1; y <= y2; y++ {
			l.putFence(x1, y)
			l.putFence(x2, y)
		}
	}
}

func (l *layout) putFence(x, y int) {
	if l.structures.At(x, y) != models.TileNone || l.ground.At(x, y) == models.TilePath {
		return
	}
	if l.structures.Set(x, y, models.TileFence) {
		l.stats.FenceTiles++
	}
}

// insideWorld reports whether (x, y) is strictly inside the border margin
func (l *layout) insideWorld(x, y int) bool {
	return x > BorderMargin && x < l.width-BorderMargin-1 &&
		y > BorderMargin && y < l.height-BorderMargin-1
}

// placeTrees sweeps a jittered grid and plants a trunk with a canopy above
// it wherever the candidate is free grass
func (l *layout) placeTrees() {
	for y := treeStart; y < l.height-treeStart; y += randRange(l.rng, treeMinStep, treeMaxStep) {
		for x := treeStart; x < l.width-treeStart; x += randRange(l.rng, treeMinStep, treeMaxStep) {
			tx := x + randRange(l.rng, -treeJitter, treeJitter)
			ty := y + randRange(l.rng, -treeJitter, treeJitter)
			if !l.insideWorld(tx, ty) || l.occupied.At(tx, ty) || !l.isFreeGrass(tx, ty) {
				continue
			}
			l.structures.Set(tx, ty, models.TileTreeTrunk)
			if ty > 0 {
				l.decoration.Set(tx, ty-1, models.TileTreeCanopy)
			}
			l.markSquare(tx, ty, treeSpacing)
			l.stats.TreesPlaced++
		}
	}
}

// placePond floods a small diamond near the village center. Water goes on
// both the ground and the structure layer so it also blocks movement.
// Occupied or non-grass cells stay dry, so the pond can be partial or missing.
func (l *layout) placePond() {
	cx, cy := l.center()
	px := cx + randRange(l.rng, pondMinOffset, pondMaxOffset)
	py := cy + randRange(l.rng, pondMinOffset, pondMaxOffset)

	for dy := -pondHalfHeight; dy <= pondHalfHeight; dy++ {
		for dx := -pondHalfWidth; dx <= pondHalfWidth; dx++ {
			if abs(dx)+abs(dy) >= pondManhattanMax {
				continue
			}
			x, y := px+dx, py+dy
			if !l.insideWorld(x, y) || l.occupied.At(x, y) || !l.isFreeGrass(x, y) {
				continue
			}
			l.ground.Set(x, y, models.TileWater)
			l.structures.Set(x, y, models.TileWater)
			l.stats.WaterTiles++
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
