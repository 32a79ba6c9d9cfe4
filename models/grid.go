package models

// Grid is a dense, fixed-size, row-major 2D array of cells.
// Cells are addressed as (x, y) with x in [0, Width) and y in [0, Height).
type Grid[T any] struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Cells  []T `json:"cells"` // row-major: Cells[y*Width + x]
}

// NewGrid allocates a width x height grid with every cell set to fill
func NewGrid[T any](width, height int, fill T) *Grid[T] {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g := &Grid[T]{
		Width:  width,
		Height: height,
		Cells:  make([]T, width*height),
	}
	g.Fill(fill)
	return g
}

// InBounds reports whether (x, y) addresses a cell of the grid
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the cell at (x, y), or the zero value when out of bounds
func (g *Grid[T]) At(x, y int) T {
	if !g.InBounds(x, y) {
		var zero T
		return zero
	}
	return g.Cells[y*g.Width+x]
}

// Set writes v at (x, y). Writes outside the grid are dropped and reported
// with a false return.
func (g *Grid[T]) Set(x, y int, v T) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.Cells[y*g.Width+x] = v
	return true
}

// Fill overwrites every cell with v
func (g *Grid[T]) Fill(v T) {
	for i := range g.Cells {
		g.Cells[i] = v
	}
}

// Row returns a copy of row y, or nil when y is out of bounds
func (g *Grid[T]) Row(y int) []T {
	if y < 0 || y >= g.Height {
		return nil
	}
	row := make([]T, g.Width)
	copy(row, g.Cells[y*g.Width:(y+1)*g.Width])
	return row
}

// Clone returns a deep copy of the grid
func (g *Grid[T]) Clone() *Grid[T] {
	c := &Grid[T]{Width: g.Width, Height: g.Height, Cells: make([]T, len(g.Cells))}
	copy(c.Cells, g.Cells)
	return c
}

// Count returns how many cells satisfy pred
func (g *Grid[T]) Count(pred func(T) bool) int {
	n := 0
	for _, c := range g.Cells {
		if pred(c) {
			n++
		}
	}
	return n
}
