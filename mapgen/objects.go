package mapgen

import (
	"github.com/zyedidia/generic/mapset"

	"village-raiders/server/models"
)

const (
	objectInset       = 10 // candidates are drawn from [10, size-10]
	jailDoorClearance = 3  // no props within this Chebyshev radius of the jail door
	propProximity     = 8  // crates and barrels need an occupied cell this close
)

// scatterObjects rejection-samples searchable props onto free grass.
// The type is rolled before the proximity rule, so a crate or barrel that
// lands in the open is discarded rather than turned into a bush.
func (l *layout) scatterObjects(target, budget int, jailDoor models.Point) []models.ObjectPlacement {
	objects := make([]models.ObjectPlacement, 0, target)
	taken := mapset.New[models.Point]()

	attempts := 0
	for len(objects) < target && attempts < budget {
		attempts++
		x := randRange(l.rng, objectInset, l.width-objectInset)
		y := randRange(l.rng, objectInset, l.height-objectInset)
		p := models.Point{X: x, Y: y}

		if !l.isFreeGrass(x, y) || p.ChebyshevDistance(jailDoor) <= jailDoorClearance || taken.Has(p) {
			continue
		}
		kind := models.ObjectTypes[randRange(l.rng, 0, len(models.ObjectTypes)-1)]
		if kind != models.ObjectBush && !l.nearOccupied(x, y, propProximity) {
			continue
		}

		objects = append(objects, models.ObjectPlacement{
			X:        x,
			Y:        y,
			Type:     kind,
			Contents: models.LootEmpty,
		})
		taken.Put(p)
		l.occupied.Set(x, y, true)
	}

	l.stats.ObjectsPlaced = len(objects)
	l.stats.ObjectAttempts = attempts
	return objects
}

// assignLoot shuffles the props, gives the first maxKeys a key and rolls
// the rest from the table
func assignLoot(objects []models.ObjectPlacement, maxKeys int, table LootTable, rng Rand) {
	shuffle(rng, objects)
	for i := 0; i < maxKeys && i < len(objects); i++ {
		objects[i].Contents = models.LootKey
	}
	for i := maxKeys; i < len(objects); i++ {
		objects[i].Contents = table.Roll(rng)
	}
}

func countKeys(objects []models.ObjectPlacement) int {
	n := 0
	for _, o := range objects {
		if o.Contents == models.LootKey {
			n++
		}
	}
	return n
}
