package main

import (
	"github.com/gdamore/tcell/v2"

	"village-raiders/server/models"
)

var (
	styleGrass   = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	stylePath    = tcell.StyleDefault.Foreground(tcell.ColorTan)
	styleWall    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleRoof    = tcell.StyleDefault.Foreground(tcell.ColorMaroon)
	styleDoor    = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleFloor   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFence   = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleTree    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleWater   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleJail    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleObject  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleKey     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true).Reverse(true)
	styleSpawn   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleUnreach = tcell.StyleDefault.Foreground(tcell.ColorDimGray)
)

var tileGlyphs = map[models.Tile]rune{
	models.TileGrass:      '.',
	models.TilePath:       ':',
	models.TileWall:       '#',
	models.TileRoof:       '^',
	models.TileDoor:       '+',
	models.TileFloor:      '_',
	models.TileFence:      '=',
	models.TileTreeTrunk:  'T',
	models.TileTreeCanopy: '*',
	models.TileWater:      '~',
	models.TileJailWall:   'H',
	models.TileJailDoor:   'D',
}

var tileStyles = map[models.Tile]tcell.Style{
	models.TileGrass:      styleGrass,
	models.TilePath:       stylePath,
	models.TileWall:       styleWall,
	models.TileRoof:       styleRoof,
	models.TileDoor:       styleDoor,
	models.TileFloor:      styleFloor,
	models.TileFence:      styleFence,
	models.TileTreeTrunk:  styleTree,
	models.TileTreeCanopy: styleTree,
	models.TileWater:      styleWater,
	models.TileJailWall:   styleJail,
	models.TileJailDoor:   styleJail,
}

var objectGlyphs = map[models.ObjectType]rune{
	models.ObjectCrate:  'c',
	models.ObjectBarrel: 'b',
	models.ObjectBush:   'o',
}

// cellGlyph picks what to draw for one map cell. Priority is spawn, props,
// then the topmost non-empty layer. With visited set, cells the player
// cannot reach from spawn are dimmed.
func cellGlyph(m *models.MapData, objects map[models.Point]models.ObjectPlacement, visited *models.Grid[bool], x, y int) (rune, tcell.Style) {
	p := models.Point{X: x, Y: y}
	if p == m.PlayerSpawn {
		return '@', styleSpawn
	}
	if o, ok := objects[p]; ok {
		if o.Contents == models.LootKey {
			return 'k', styleKey
		}
		return objectGlyphs[o.Type], styleObject
	}

	tile := m.Ground.At(x, y)
	if t := m.Structures.At(x, y); t != models.TileNone {
		tile = t
	} else if t := m.Decoration.At(x, y); t != models.TileNone {
		tile = t
	}

	r, ok := tileGlyphs[tile]
	if !ok {
		r = '?'
	}
	if visited != nil && !visited.At(x, y) && !tile.Collidable() {
		return r, styleUnreach
	}
	return r, tileStyles[tile]
}

func objectIndex(objects []models.ObjectPlacement) map[models.Point]models.ObjectPlacement {
	index := make(map[models.Point]models.ObjectPlacement, len(objects))
	for _, o := range objects {
		index[o.Point()] = o
	}
	return index
}
