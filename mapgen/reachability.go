package mapgen

import (
	"github.com/zyedidia/generic/stack"

	"village-raiders/server/models"
)

var cardinalDirs = [4]models.Point{{X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 0}, {X: -1, Y: 0}}

// Reachable flood-fills from start over every cell whose structure is not
// collidable, moving in the four cardinal directions only. The start cell
// is always marked. An out-of-bounds start yields an all-false grid.
func Reachable(structures *models.Grid[models.Tile], start models.Point) *models.Grid[bool] {
	visited := models.NewGrid(structures.Width, structures.Height, false)
	if !structures.InBounds(start.X, start.Y) {
		return visited
	}

	pending := stack.New[models.Point]()
	visited.Set(start.X, start.Y, true)
	pending.Push(start)

	for pending.Size() > 0 {
		p := pending.Pop()
		for _, d := range cardinalDirs {
			nx, ny := p.X+d.X, p.Y+d.Y
			if !structures.InBounds(nx, ny) || visited.At(nx, ny) {
				continue
			}
			if structures.At(nx, ny).Collidable() {
				continue
			}
			visited.Set(nx, ny, true)
			pending.Push(models.Point{X: nx, Y: ny})
		}
	}
	return visited
}

// filterReachable keeps the props whose cell was visited
func filterReachable(objects []models.ObjectPlacement, visited *models.Grid[bool]) []models.ObjectPlacement {
	kept := make([]models.ObjectPlacement, 0, len(objects))
	for _, o := range objects {
		if visited.At(o.X, o.Y) {
			kept = append(kept, o)
		}
	}
	return kept
}

// enforceKeyQuota rerolls every prop and hands out keys again when fewer
// than maxKeys keys survived filtering. It reports whether it rerolled.
func enforceKeyQuota(objects []models.ObjectPlacement, maxKeys int, table LootTable, rng Rand) bool {
	if countKeys(objects) >= maxKeys {
		return false
	}
	for i := range objects {
		objects[i].Contents = table.Roll(rng)
	}
	shuffle(rng, objects)
	for i := 0; i < maxKeys && i < len(objects); i++ {
		objects[i].Contents = models.LootKey
	}
	return true
}
