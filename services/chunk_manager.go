package services

import (
	"sync"

	"village-raiders/server/models"
)

// Default chunking used when a session does not configure its own
const (
	DefaultChunkSize    = 48
	DefaultBufferRadius = 1
)

// ChunkObject is a prop as clients see it before searching: no contents
type ChunkObject struct {
	X    int               `json:"x"`
	Y    int               `json:"y"`
	Type models.ObjectType `json:"type"`
}

// Chunk represents a section of the generated village. Edge chunks may be
// smaller than the chunk size.
type Chunk struct {
	X          int             `json:"x"`
	Y          int             `json:"y"`
	OriginX    int             `json:"origin_x"`
	OriginY    int             `json:"origin_y"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Ground     [][]models.Tile `json:"ground"`
	Structures [][]models.Tile `json:"structures"`
	Decoration [][]models.Tile `json:"decoration"`
	Objects    []ChunkObject   `json:"objects"`
}

// ChunkManager slices one session's map into chunks on demand
type ChunkManager struct {
	gameMap      *models.MapData
	chunkSize    int
	bufferRadius int
	chunks       map[models.Point]*Chunk
	mutex        sync.RWMutex
}

// NewChunkManager creates a new chunk manager
func NewChunkManager(gameMap *models.MapData, chunkSize int, bufferRadius int) *ChunkManager {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if bufferRadius < 0 {
		bufferRadius = 0
	}
	return &ChunkManager{
		gameMap:      gameMap,
		chunkSize:    chunkSize,
		bufferRadius: bufferRadius,
		chunks:       make(map[models.Point]*Chunk),
	}
}

// ChunkSize returns the edge length of a full chunk
func (cm *ChunkManager) ChunkSize() int {
	return cm.chunkSize
}

// ChunkCoordinates calculates the chunk coordinates for a given cell
func (cm *ChunkManager) ChunkCoordinates(x, y int) (int, int) {
	cx := x / cm.chunkSize
	if x < 0 && x%cm.chunkSize != 0 {
		cx--
	}
	cy := y / cm.chunkSize
	if y < 0 && y%cm.chunkSize != 0 {
		cy--
	}
	return cx, cy
}

// GetChunk returns the chunk holding cell (x, y), or nil outside the map
func (cm *ChunkManager) GetChunk(x, y int) *Chunk {
	if x < 0 || y < 0 || x >= cm.gameMap.Width || y >= cm.gameMap.Height {
		return nil
	}
	chunkX, chunkY := cm.ChunkCoordinates(x, y)
	key := models.Point{X: chunkX, Y: chunkY}

	cm.mutex.RLock()
	chunk, exists := cm.chunks[key]
	cm.mutex.RUnlock()

	if !exists {
		chunk = cm.createChunk(chunkX, chunkY)
	}
	return chunk
}

func (cm *ChunkManager) createChunk(chunkX, chunkY int) *Chunk {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	key := models.Point{X: chunkX, Y: chunkY}
	if chunk, exists := cm.chunks[key]; exists {
		return chunk
	}

	m := cm.gameMap
	ox, oy := chunkX*cm.chunkSize, chunkY*cm.chunkSize
	w := min(cm.chunkSize, m.Width-ox)
	h := min(cm.chunkSize, m.Height-oy)

	chunk := &Chunk{
		X:          chunkX,
		Y:          chunkY,
		OriginX:    ox,
		OriginY:    oy,
		Width:      w,
		Height:     h,
		Ground:     sliceLayer(m.Ground, ox, oy, w, h),
		Structures: sliceLayer(m.Structures, ox, oy, w, h),
		Decoration: sliceLayer(m.Decoration, ox, oy, w, h),
		Objects:    make([]ChunkObject, 0),
	}
	bounds := models.BuildingZone{X: ox, Y: oy, W: w, H: h}
	for _, o := range m.ObjectPlacements {
		if bounds.Contains(o.X, o.Y) {
			chunk.Objects = append(chunk.Objects, ChunkObject{X: o.X, Y: o.Y, Type: o.Type})
		}
	}

	cm.chunks[key] = chunk
	return chunk
}

func sliceLayer(g *models.Grid[models.Tile], ox, oy, w, h int) [][]models.Tile {
	rows := make([][]models.Tile, h)
	for dy := 0; dy < h; dy++ {
		rows[dy] = make([]models.Tile, w)
		copy(rows[dy], g.Cells[(oy+dy)*g.Width+ox:(oy+dy)*g.Width+ox+w])
	}
	return rows
}

// LoadChunksAround returns the chunks within the buffer radius of the chunk
// holding (centerX, centerY). Chunks outside the map are skipped.
func (cm *ChunkManager) LoadChunksAround(centerX, centerY int) []*Chunk {
	centerChunkX, centerChunkY := cm.ChunkCoordinates(centerX, centerY)

	var chunks []*Chunk
	for dy := -cm.bufferRadius; dy <= cm.bufferRadius; dy++ {
		for dx := -cm.bufferRadius; dx <= cm.bufferRadius; dx++ {
			chunk := cm.GetChunk((centerChunkX+dx)*cm.chunkSize, (centerChunkY+dy)*cm.chunkSize)
			if chunk != nil {
				chunks = append(chunks, chunk)
			}
		}
	}
	return chunks
}
