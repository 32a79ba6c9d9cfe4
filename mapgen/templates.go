package mapgen

import "village-raiders/server/models"

// DoorSide records which wall a template's door is on
type DoorSide int

const (
	DoorBottom DoorSide = iota
	DoorRight
	DoorTop
	DoorLeft
)

// Template is a rectangular building footprint stamped onto the map.
// Templates are shared and must never be modified.
type Template struct {
	Name       string
	Width      int
	Height     int
	Structure  [][]models.Tile // walls, doors and floors
	Decoration [][]models.Tile // roofs
	DoorSide   DoorSide
}

// StructureAt returns the structure tile at template offset (dx, dy)
func (t *Template) StructureAt(dx, dy int) models.Tile {
	return t.Structure[dy][dx]
}

// DecorationAt returns the decoration tile at template offset (dx, dy)
func (t *Template) DecorationAt(dx, dy int) models.Tile {
	return t.Decoration[dy][dx]
}

// FindTile returns the offset of the last cell holding tile, scanning rows
// top to bottom
func (t *Template) FindTile(tile models.Tile) (dx, dy int, ok bool) {
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			if t.Structure[y][x] == tile {
				dx, dy, ok = x, y, true
			}
		}
	}
	return dx, dy, ok
}

// Short aliases keep the footprint tables readable.
const (
	wl = models.TileWall
	dr = models.TileDoor
	fl = models.TileFloor
	rf = models.TileRoof
	jw = models.TileJailWall
	jd = models.TileJailDoor
	no = models.TileNone
)

var ordinaryTemplates = []*Template{
	{
		Name:   "small-house",
		Width:  5,
		Height: 5,
		Structure: [][]models.Tile{
			{wl, wl, wl, wl, wl},
			{wl, fl, fl, fl, wl},
			{wl, fl, fl, fl, wl},
			{wl, fl, fl, fl, wl},
			{wl, wl, dr, wl, wl},
		},
		Decoration: [][]models.Tile{
			{rf, rf, rf, rf, rf},
			{no, no, no, no, no},
			{no, no, no, no, no},
			{no, no, no, no, no},
			{no, no, no, no, no},
		},
		DoorSide: DoorBottom,
	},
	{
		Name:   "shop",
		Width:  6,
		Height: 4,
		Structure: [][]models.Tile{
			{wl, wl, wl, wl, wl, wl},
			{wl, fl, fl, fl, fl, wl},
			{wl, fl, fl, fl, fl, wl},
			{wl, wl, dr, dr, wl, wl},
		},
		Decoration: [][]models.Tile{
			{rf, rf, rf, rf, rf, rf},
			{no, no, no, no, no, no},
			{no, no, no, no, no, no},
			{no, no, no, no, no, no},
		},
		DoorSide: DoorBottom,
	},
	{
		Name:   "large-house",
		Width:  7,
		Height: 6,
		Structure: [][]models.Tile{
			{wl, wl, wl, wl, wl, wl, wl},
			{wl, fl, fl, fl, fl, fl, wl},
			{wl, fl, fl, fl, fl, fl, wl},
			{wl, fl, fl, fl, fl, fl, wl},
			{wl, fl, fl, fl, fl, fl, wl},
			{wl, wl, wl, dr, wl, wl, wl},
		},
		Decoration: [][]models.Tile{
			{rf, rf, rf, rf, rf, rf, rf},
			{no, no, no, no, no, no, no},
			{no, no, no, no, no, no, no},
			{no, no, no, no, no, no, no},
			{no, no, no, no, no, no, no},
			{no, no, no, no, no, no, no},
		},
		DoorSide: DoorBottom,
	},
}

var jailTemplate = &Template{
	Name:   "jail",
	Width:  7,
	Height: 5,
	Structure: [][]models.Tile{
		{jw, jw, jw, jw, jw, jw, jw},
		{jw, fl, fl, fl, fl, fl, jw},
		{jw, fl, fl, fl, fl, fl, jw},
		{jw, fl, fl, fl, fl, fl, jw},
		{jw, jw, jw, jd, jw, jw, jw},
	},
	Decoration: [][]models.Tile{
		{rf, rf, rf, rf, rf, rf, rf},
		{no, no, no, no, no, no, no},
		{no, no, no, no, no, no, no},
		{no, no, no, no, no, no, no},
		{no, no, no, no, no, no, no},
	},
	DoorSide: DoorBottom,
}

// Templates returns copies of the ordinary building catalog. The jail is not
// part of it.
func Templates() []*Template {
	out := make([]*Template, len(ordinaryTemplates))
	for i, t := range ordinaryTemplates {
		out[i] = t.clone()
	}
	return out
}

// JailTemplate returns a copy of the single jail footprint
func JailTemplate() *Template {
	return jailTemplate.clone()
}

func (t *Template) clone() *Template {
	out := *t
	out.Structure = cloneRows(t.Structure)
	out.Decoration = cloneRows(t.Decoration)
	return &out
}

func cloneRows(rows [][]models.Tile) [][]models.Tile {
	out := make([][]models.Tile, len(rows))
	for i, row := range rows {
		out[i] = append([]models.Tile(nil), row...)
	}
	return out
}

func randomTemplate(rng Rand) *Template {
	return ordinaryTemplates[randRange(rng, 0, len(ordinaryTemplates)-1)]
}
