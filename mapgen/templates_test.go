package mapgen

import (
	"testing"

	"village-raiders/server/models"
)

func TestTemplateShapes(t *testing.T) {
	all := append(Templates(), JailTemplate())
	for _, tmpl := range all {
		if len(tmpl.Structure) != tmpl.Height || len(tmpl.Decoration) != tmpl.Height {
			t.Errorf("%s: %d structure rows, %d decoration rows, height %d", tmpl.Name, len(tmpl.Structure), len(tmpl.Decoration), tmpl.Height)
			continue
		}
		for y := 0; y < tmpl.Height; y++ {
			if len(tmpl.Structure[y]) != tmpl.Width || len(tmpl.Decoration[y]) != tmpl.Width {
				t.Errorf("%s: row %d has the wrong width", tmpl.Name, y)
			}
		}
		for x := 0; x < tmpl.Width; x++ {
			if tmpl.DecorationAt(x, 0) != models.TileRoof {
				t.Errorf("%s: top row not roofed at %d", tmpl.Name, x)
			}
		}
	}
}

func TestTemplateDoors(t *testing.T) {
	for _, tmpl := range Templates() {
		if tmpl.DoorSide != DoorBottom {
			t.Errorf("%s: door not on the bottom wall", tmpl.Name)
		}
		dx, dy, ok := tmpl.FindTile(models.TileDoor)
		if !ok || dy != tmpl.Height-1 {
			t.Errorf("%s: door at (%d, %d), ok=%v", tmpl.Name, dx, dy, ok)
		}
		if _, _, ok := tmpl.FindTile(models.TileJailDoor); ok {
			t.Errorf("%s: ordinary building has a jail door", tmpl.Name)
		}
	}

	dx, dy, ok := JailTemplate().FindTile(models.TileJailDoor)
	if !ok || dx != 3 || dy != 4 {
		t.Errorf("jail door at (%d, %d), ok=%v", dx, dy, ok)
	}
}

func TestFindTileReturnsLastMatch(t *testing.T) {
	shop := Templates()[1]
	dx, dy, ok := shop.FindTile(models.TileDoor)
	if !ok || dx != 3 || dy != 3 {
		t.Errorf("shop door at (%d, %d), want the second door cell (3, 3)", dx, dy)
	}
	if _, _, ok := shop.FindTile(models.TileWater); ok {
		t.Error("found a tile the template does not hold")
	}
}

func TestTemplatesReturnsCopy(t *testing.T) {
	list := Templates()
	list[0] = nil
	if Templates()[0] == nil {
		t.Error("Templates exposes the catalog slice")
	}

	house := Templates()[0]
	house.Structure[1][1] = models.TileWater
	house.Decoration[0][0] = models.TileNone
	if ordinaryTemplates[0].Structure[1][1] != models.TileFloor || ordinaryTemplates[0].Decoration[0][0] != models.TileRoof {
		t.Error("editing a returned template changed the catalog")
	}

	jail := JailTemplate()
	jail.Structure[4][3] = models.TileWall
	if _, _, ok := JailTemplate().FindTile(models.TileJailDoor); !ok {
		t.Error("editing the returned jail changed the catalog")
	}
}

func TestRandomTemplate(t *testing.T) {
	for i := range ordinaryTemplates {
		if got := randomTemplate(constRand{n: i}); got != ordinaryTemplates[i] {
			t.Errorf("draw %d picked %s", i, got.Name)
		}
	}
}
