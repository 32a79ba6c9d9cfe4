package mapgen

import "village-raiders/server/models"

// Road network geometry
const (
	RoadInset        = 20 // main roads run from this inset to the opposite one
	mainRoadWidth    = 3
	branchRoadWidth  = 2
	squareHalfSize   = 4 // village square is (2*4+1) cells wide
	branchMinExtent  = 40
	branchMaxExtent  = 80
	pathBuffer       = 3 // cells around every path kept free of buildings and trees
	connectorLength  = 15
	connectorWidth   = 2
	jailConnectWidth = 1
)

var branchOffsets = []int{-60, -30, 30, 60}

// drawPath lays path tiles along a horizontal or vertical segment. Cells
// within width/2 of the centerline on each side are covered.
func (l *layout) drawPath(x1, y1, x2, y2, width int) {
	half := width / 2
	if x1 == x2 {
		for y := min(y1, y2); y <= max(y1, y2); y++ {
			for dx := -half; dx <= half; dx++ {
				l.ground.Set(x1+dx, y, models.TilePath)
			}
		}
		return
	}
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		for dy := -half; dy <= half; dy++ {
			l.ground.Set(x, y1+dy, models.TilePath)
		}
	}
}

// buildRoads draws the main cross, the village square and the branch roads
func (l *layout) buildRoads() {
	cx, cy := l.center()

	l.drawPath(cx, RoadInset, cx, l.height-RoadInset, mainRoadWidth)
	l.drawPath(RoadInset, cy, l.width-RoadInset, cy, mainRoadWidth)

	for y := cy - squareHalfSize; y <= cy+squareHalfSize; y++ {
		for x := cx - squareHalfSize; x <= cx+squareHalfSize; x++ {
			l.ground.Set(x, y, models.TilePath)
		}
	}

	for _, off := range branchOffsets {
		by := cy + off
		if by > RoadInset && by < l.height-RoadInset {
			extent := randRange(l.rng, branchMinExtent, branchMaxExtent)
			l.drawPath(cx-extent, by, cx+extent, by, branchRoadWidth)
		}
	}
	for _, off := range branchOffsets {
		bx := cx + off
		if bx > RoadInset && bx < l.width-RoadInset {
			extent := randRange(l.rng, branchMinExtent, branchMaxExtent)
			l.drawPath(bx, cy-extent, bx, cy+extent, branchRoadWidth)
		}
	}
}

// markPathBuffer reserves a 7x7 neighbourhood around every path cell
func (l *layout) markPathBuffer() {
	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			if l.ground.At(x, y) == models.TilePath {
				l.markSquare(x, y, pathBuffer)
			}
		}
	}
}

// drawConnector walks a 2-wide path straight down from a door. It does not
// check that it meets a road; the flood fill decides what is reachable.
func (l *layout) drawConnector(doorX, doorY int) {
	for dy := 0; dy < connectorLength; dy++ {
		y := doorY + dy
		if y >= l.height {
			break
		}
		for dx := 0; dx < connectorWidth; dx++ {
			l.ground.Set(doorX+dx, y, models.TilePath)
		}
	}
}
