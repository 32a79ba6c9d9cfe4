package mapgen

import "village-raiders/server/models"

// layout is the working state of one generation run. It owns the grids
// and the occupancy scratch grid; nothing in it outlives the run.
type layout struct {
	width, height int

	ground     *models.Grid[models.Tile]
	structures *models.Grid[models.Tile]
	decoration *models.Grid[models.Tile]
	occupied   *models.Grid[bool] // cells unavailable for further placement

	zones []models.BuildingZone
	rng   Rand
	stats models.GenerationStats
}

func newLayout(width, height int, rng Rand) *layout {
	l := &layout{
		width:      width,
		height:     height,
		ground:     models.NewGrid(width, height, models.TileGrass),
		structures: models.NewGrid(width, height, models.TileNone),
		decoration: models.NewGrid(width, height, models.TileNone),
		occupied:   models.NewGrid(width, height, false),
		rng:        rng,
	}
	l.markBorder(BorderMargin)
	return l
}

func (l *layout) center() (int, int) {
	return l.width / 2, l.height / 2
}

// markBorder reserves the outer margin so nothing is placed on the world edge
func (l *layout) markBorder(margin int) {
	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			if x < margin || x >= l.width-margin || y < margin || y >= l.height-margin {
				l.occupied.Set(x, y, true)
			}
		}
	}
}

// markSquare marks every in-bounds cell within radius (Chebyshev) of (x, y)
func (l *layout) markSquare(x, y, radius int) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			l.occupied.Set(x+dx, y+dy, true)
		}
	}
}

// nearOccupied reports whether any cell within radius (Chebyshev) of (x, y)
// is occupied
func (l *layout) nearOccupied(x, y, radius int) bool {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if l.occupied.At(x+dx, y+dy) {
				return true
			}
		}
	}
	return false
}

// isFreeGrass reports whether (x, y) holds no structure and plain grass
func (l *layout) isFreeGrass(x, y int) bool {
	return l.structures.At(x, y) == models.TileNone && l.ground.At(x, y) == models.TileGrass
}
