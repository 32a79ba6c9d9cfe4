package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"

	"village-raiders/server/mapgen"
	"village-raiders/server/models"
	"village-raiders/server/persistence"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionOver      = errors.New("session is over")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrBlocked          = errors.New("cannot move there")
	ErrNothingToSearch  = errors.New("nothing to search nearby")
	ErrNotAtJailDoor    = errors.New("not at the jail door")
	ErrNotEnoughKeys    = errors.New("not enough keys")
)

// searchRadius is the Chebyshev reach of a search from the player's cell
const searchRadius = 1

var directions = map[string]models.Point{
	"north":     {X: 0, Y: -1},
	"south":     {X: 0, Y: 1},
	"east":      {X: 1, Y: 0},
	"west":      {X: -1, Y: 0},
	"northeast": {X: 1, Y: -1},
	"northwest": {X: -1, Y: -1},
	"southeast": {X: 1, Y: 1},
	"southwest": {X: -1, Y: 1},
}

// GeneratorSettings controls how new sessions build their village
type GeneratorSettings struct {
	Config    mapgen.Config
	Seed      int64 // 0 draws a fresh seed for every session
	ChunkSize int
}

// DefaultGeneratorSettings returns the reference generator with time seeds
func DefaultGeneratorSettings() GeneratorSettings {
	return GeneratorSettings{
		Config:    mapgen.DefaultConfig(),
		ChunkSize: DefaultChunkSize,
	}
}

// Session is one player's run through one generated village. The map and
// the exported fields never change after creation.
type Session struct {
	ID         string
	PlayerID   string
	Seed       int64
	LootTable  string
	Map        *models.MapData
	Stats      models.GenerationStats
	Chunks     *ChunkManager
	KeysNeeded int
	StartedAt  time.Time

	position  models.Point
	keys      int
	inventory map[models.LootType]int
	searched  mapset.Set[models.Point]
	escaped   bool
}

// SessionState is a snapshot of a session's progress
type SessionState struct {
	Position   models.Point            `json:"position"`
	Keys       int                     `json:"keys"`
	KeysNeeded int                     `json:"keys_needed"`
	Inventory  map[models.LootType]int `json:"inventory"`
	Searched   []models.Point          `json:"searched"`
	Escaped    bool                    `json:"escaped"`
}

// SearchResult is what opening a prop revealed
type SearchResult struct {
	Object models.ObjectPlacement `json:"object"`
	State  SessionState           `json:"state"`
}

// WorldService owns the live sessions and generates their villages
type WorldService struct {
	sessions   map[string]*Session
	byPlayer   map[string]string // player ID -> session ID
	settings   GeneratorSettings
	db         persistence.Storage
	worldMutex sync.RWMutex
}

// NewWorldService creates a new world service
func NewWorldService(db persistence.Storage, settings GeneratorSettings) (*WorldService, error) {
	if err := settings.Config.Validate(); err != nil {
		return nil, err
	}
	return &WorldService{
		sessions: make(map[string]*Session),
		byPlayer: make(map[string]string),
		settings: settings,
		db:       db,
	}, nil
}

// SetGeneratorConfig replaces the settings used by sessions started from
// now on. Running sessions keep their village.
func (ws *WorldService) SetGeneratorConfig(settings GeneratorSettings) error {
	if err := settings.Config.Validate(); err != nil {
		return err
	}
	ws.worldMutex.Lock()
	defer ws.worldMutex.Unlock()
	ws.settings = settings
	return nil
}

// GeneratorConfig returns the current generator settings
func (ws *WorldService) GeneratorConfig() GeneratorSettings {
	ws.worldMutex.RLock()
	defer ws.worldMutex.RUnlock()
	return ws.settings
}

// StartSession generates a fresh village for the player, replacing any
// session the player already had
func (ws *WorldService) StartSession(player *models.Player) (*Session, error) {
	if player == nil || player.ID == "" {
		return nil, ErrPlayerNotFound
	}
	settings := ws.GeneratorConfig()

	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	result := mapgen.New(settings.Config, mapgen.NewRand(seed)).Run()

	session := &Session{
		ID:         uuid.NewString(),
		PlayerID:   player.ID,
		Seed:       seed,
		LootTable:  settings.Config.Loot.Name,
		Map:        result.Map,
		Stats:      result.Stats,
		Chunks:     NewChunkManager(result.Map, settings.ChunkSize, DefaultBufferRadius),
		KeysNeeded: min(settings.Config.MaxKeys, result.Map.KeyCount()),
		StartedAt:  time.Now(),
		position:   result.Map.PlayerSpawn,
		inventory:  make(map[models.LootType]int),
		searched:   mapset.New[models.Point](),
	}

	ws.worldMutex.Lock()
	if old, ok := ws.byPlayer[player.ID]; ok {
		delete(ws.sessions, old)
	}
	ws.sessions[session.ID] = session
	ws.byPlayer[player.ID] = session.ID
	ws.worldMutex.Unlock()

	report := &models.GenerationReport{
		SessionID: session.ID,
		PlayerID:  player.ID,
		Seed:      seed,
		LootTable: session.LootTable,
		Stats:     result.Stats,
		CreatedAt: session.StartedAt,
	}
	if err := ws.db.SaveReport(report); err != nil {
		log.Printf("Error saving generation report for session %s: %v", session.ID, err)
	}

	log.Printf("Session %s started for %s: seed %d, %d buildings, %d/%d props reachable, %d keys",
		session.ID, player.Username, seed, result.Stats.BuildingsPlaced,
		result.Stats.ObjectsReachable, result.Stats.ObjectsPlaced, result.Stats.KeysReachable)

	return session, nil
}

// EndSession drops a session
func (ws *WorldService) EndSession(sessionID string) {
	ws.worldMutex.Lock()
	defer ws.worldMutex.Unlock()

	session, exists := ws.sessions[sessionID]
	if !exists {
		return
	}
	delete(ws.sessions, sessionID)
	if ws.byPlayer[session.PlayerID] == sessionID {
		delete(ws.byPlayer, session.PlayerID)
	}
}

// GetSession returns a live session
func (ws *WorldService) GetSession(sessionID string) (*Session, error) {
	ws.worldMutex.RLock()
	defer ws.worldMutex.RUnlock()

	session, exists := ws.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// SessionCount returns how many sessions are live
func (ws *WorldService) SessionCount() int {
	ws.worldMutex.RLock()
	defer ws.worldMutex.RUnlock()
	return len(ws.sessions)
}

// State returns a snapshot of the session's progress
func (ws *WorldService) State(sessionID string) (SessionState, error) {
	ws.worldMutex.RLock()
	defer ws.worldMutex.RUnlock()

	session, exists := ws.sessions[sessionID]
	if !exists {
		return SessionState{}, ErrSessionNotFound
	}
	return session.state(), nil
}

// MovePlayer processes a player movement request. Diagonal steps need both
// orthogonal neighbours open so walls cannot be cut through at corners.
func (ws *WorldService) MovePlayer(sessionID string, direction string) (models.Point, error) {
	ws.worldMutex.Lock()
	defer ws.worldMutex.Unlock()

	session, err := ws.liveSession(sessionID)
	if err != nil {
		return models.Point{}, err
	}

	delta, ok := directions[direction]
	if !ok {
		return session.position, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}

	from := session.position
	to := models.Point{X: from.X + delta.X, Y: from.Y + delta.Y}
	m := session.Map
	if !m.Walkable(to.X, to.Y) {
		return from, ErrBlocked
	}
	if delta.X != 0 && delta.Y != 0 {
		if !m.Walkable(from.X+delta.X, from.Y) || !m.Walkable(from.X, from.Y+delta.Y) {
			return from, ErrBlocked
		}
	}

	session.position = to
	return to, nil
}

// SearchObject opens the nearest unsearched prop around the player
func (ws *WorldService) SearchObject(sessionID string) (SearchResult, error) {
	ws.worldMutex.Lock()
	defer ws.worldMutex.Unlock()

	session, err := ws.liveSession(sessionID)
	if err != nil {
		return SearchResult{}, err
	}

	best := -1
	bestDist := searchRadius + 1
	for i, o := range session.Map.ObjectPlacements {
		p := o.Point()
		if session.searched.Has(p) {
			continue
		}
		if d := p.ChebyshevDistance(session.position); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return SearchResult{}, ErrNothingToSearch
	}

	object := session.Map.ObjectPlacements[best]
	session.searched.Put(object.Point())
	if object.Contents == models.LootKey {
		session.keys++
	} else {
		session.inventory[object.Contents]++
	}

	return SearchResult{Object: object, State: session.state()}, nil
}

// TryEscape ends the session when the player stands on the jail door with
// every key the village requires
func (ws *WorldService) TryEscape(sessionID string) (SessionState, error) {
	ws.worldMutex.Lock()
	defer ws.worldMutex.Unlock()

	session, err := ws.liveSession(sessionID)
	if err != nil {
		return SessionState{}, err
	}
	if session.position != session.Map.JailDoor {
		return session.state(), ErrNotAtJailDoor
	}
	if session.keys < session.KeysNeeded {
		return session.state(), fmt.Errorf("%w: have %d of %d", ErrNotEnoughKeys, session.keys, session.KeysNeeded)
	}

	session.escaped = true
	return session.state(), nil
}

// liveSession returns a session that can still be played. Callers must
// hold the lock.
func (ws *WorldService) liveSession(sessionID string) (*Session, error) {
	session, exists := ws.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	if session.escaped {
		return nil, ErrSessionOver
	}
	return session, nil
}

func (s *Session) state() SessionState {
	inventory := make(map[models.LootType]int, len(s.inventory))
	for k, v := range s.inventory {
		inventory[k] = v
	}

	searched := make([]models.Point, 0, s.searched.Size())
	s.searched.Each(func(p models.Point) {
		searched = append(searched, p)
	})
	sort.Slice(searched, func(i, j int) bool {
		if searched[i].Y != searched[j].Y {
			return searched[i].Y < searched[j].Y
		}
		return searched[i].X < searched[j].X
	})

	return SessionState{
		Position:   s.position,
		Keys:       s.keys,
		KeysNeeded: s.KeysNeeded,
		Inventory:  inventory,
		Searched:   searched,
		Escaped:    s.escaped,
	}
}
