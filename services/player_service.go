package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"village-raiders/server/models"
	"village-raiders/server/persistence"
)

var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrInvalidUsername = errors.New("invalid username")
)

const (
	maxUsernameLength = 32
	maxHistory        = 50
)

// PlayerService manages player profiles
type PlayerService struct {
	players map[string]*models.Player
	db      persistence.Storage
	mutex   sync.RWMutex
}

// NewPlayerService creates a new player service
func NewPlayerService(db persistence.Storage) *PlayerService {
	return &PlayerService{
		players: make(map[string]*models.Player),
		db:      db,
	}
}

// GetOrCreatePlayer gets an existing player or creates a new one
func (ps *PlayerService) GetOrCreatePlayer(username string) (*models.Player, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameLength {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}

	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	for _, player := range ps.players {
		if player.Username == username {
			out := *player
			return &out, nil
		}
	}

	player, err := ps.db.LoadPlayerByUsername(username)
	if err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			return nil, fmt.Errorf("failed to load player: %w", err)
		}
		now := time.Now()
		player = &models.Player{
			ID:        uuid.NewString(),
			Username:  username,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := ps.db.SavePlayer(player); err != nil {
			return nil, fmt.Errorf("failed to save new player to database: %w", err)
		}
	}

	ps.players[player.ID] = player
	out := *player
	return &out, nil
}

// GetPlayer retrieves a player by ID
func (ps *PlayerService) GetPlayer(playerID string) (*models.Player, error) {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	player, exists := ps.players[playerID]
	if !exists {
		return nil, ErrPlayerNotFound
	}
	out := *player
	return &out, nil
}

// RecordRun counts a freshly generated village for the player
func (ps *PlayerService) RecordRun(playerID string) (*models.Player, error) {
	return ps.update(playerID, func(p *models.Player) { p.Runs++ })
}

// RecordEscape counts a successful escape for the player
func (ps *PlayerService) RecordEscape(playerID string) (*models.Player, error) {
	return ps.update(playerID, func(p *models.Player) { p.Escapes++ })
}

// History returns the player's most recent generation reports, newest
// first. Limits outside 1..50 are clamped.
func (ps *PlayerService) History(playerID string, limit int) ([]*models.GenerationReport, error) {
	if _, err := ps.GetPlayer(playerID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxHistory {
		limit = maxHistory
	}
	reports, err := ps.db.LoadReports(playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	return reports, nil
}

func (ps *PlayerService) update(playerID string, change func(*models.Player)) (*models.Player, error) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	player, exists := ps.players[playerID]
	if !exists {
		return nil, ErrPlayerNotFound
	}

	updated := *player
	change(&updated)
	updated.UpdatedAt = time.Now()
	if err := ps.db.SavePlayer(&updated); err != nil {
		return nil, fmt.Errorf("failed to save updated player to database: %w", err)
	}
	ps.players[playerID] = &updated

	out := updated
	return &out, nil
}
