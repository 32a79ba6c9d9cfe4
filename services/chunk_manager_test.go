package services

import (
	"testing"

	"village-raiders/server/mapgen"
	"village-raiders/server/models"
)

func TestChunkCoordinates(t *testing.T) {
	cm := NewChunkManager(smallMap(), 4, 1)
	tests := []struct {
		x, y   int
		cx, cy int
	}{
		{0, 0, 0, 0},
		{3, 3, 0, 0},
		{4, 0, 1, 0},
		{-1, 0, -1, 0},
		{-4, -5, -1, -2},
	}
	for _, tt := range tests {
		cx, cy := cm.ChunkCoordinates(tt.x, tt.y)
		if cx != tt.cx || cy != tt.cy {
			t.Errorf("ChunkCoordinates(%d, %d) = (%d, %d), want (%d, %d)", tt.x, tt.y, cx, cy, tt.cx, tt.cy)
		}
	}
}

func TestGetChunk(t *testing.T) {
	m := smallMap()
	cm := NewChunkManager(m, 4, 1)

	edge := cm.GetChunk(6, 4)
	if edge == nil {
		t.Fatal("no chunk for an in-map cell")
	}
	if edge.X != 1 || edge.Y != 1 || edge.Width != 3 || edge.Height != 1 {
		t.Errorf("edge chunk = %+v", edge)
	}
	if edge.Structures[0][1] != models.TileJailDoor {
		t.Errorf("edge chunk lost the jail door: %v", edge.Structures)
	}

	first := cm.GetChunk(0, 0)
	if first.Structures[1][1] != models.TileWall || len(first.Ground) != 4 || len(first.Ground[0]) != 4 {
		t.Errorf("first chunk = %+v", first)
	}
	if cm.GetChunk(1, 1) != first {
		t.Error("chunks are not cached")
	}

	if cm.GetChunk(-1, 0) != nil || cm.GetChunk(7, 0) != nil || cm.GetChunk(0, 5) != nil {
		t.Error("chunk returned outside the map")
	}
}

func TestChunkObjectsHideContents(t *testing.T) {
	cm := NewChunkManager(smallMap(), 4, 1)
	chunk := cm.GetChunk(5, 2)
	if len(chunk.Objects) != 1 || chunk.Objects[0] != (ChunkObject{X: 5, Y: 2, Type: models.ObjectCrate}) {
		t.Errorf("objects = %+v", chunk.Objects)
	}
}

func TestLoadChunksAround(t *testing.T) {
	m := mapgen.New(mapgen.DefaultConfig(), mapgen.NewRand(3)).Run().Map
	cm := NewChunkManager(m, DefaultChunkSize, DefaultBufferRadius)

	if got := len(cm.LoadChunksAround(0, 0)); got != 4 {
		t.Errorf("corner loads %d chunks, want 4", got)
	}
	if got := len(cm.LoadChunksAround(m.Width/2, m.Height/2)); got != 9 {
		t.Errorf("center loads %d chunks, want 9", got)
	}

	// every cell of the map is covered exactly once by the chunk grid
	cells := 0
	for cy := 0; cy*DefaultChunkSize < m.Height; cy++ {
		for cx := 0; cx*DefaultChunkSize < m.Width; cx++ {
			c := cm.GetChunk(cx*DefaultChunkSize, cy*DefaultChunkSize)
			cells += c.Width * c.Height
			for dy := 0; dy < c.Height; dy++ {
				for dx := 0; dx < c.Width; dx++ {
					if c.Ground[dy][dx] != m.Ground.At(c.OriginX+dx, c.OriginY+dy) {
						t.Fatalf("chunk (%d, %d) ground differs at (%d, %d)", cx, cy, dx, dy)
					}
				}
			}
		}
	}
	if cells != m.Width*m.Height {
		t.Errorf("chunks cover %d cells, map has %d", cells, m.Width*m.Height)
	}
}

func TestNewChunkManagerDefaults(t *testing.T) {
	cm := NewChunkManager(smallMap(), 0, -2)
	if cm.ChunkSize() != DefaultChunkSize || cm.bufferRadius != 0 {
		t.Errorf("size %d radius %d", cm.ChunkSize(), cm.bufferRadius)
	}
}
