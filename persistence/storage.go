package persistence

import (
	"errors"

	"village-raiders/server/models"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// Storage defines the interface for data persistence.
// Maps are never stored; a report's seed and loot table rebuild them.
type Storage interface {
	SavePlayer(player *models.Player) error
	LoadPlayer(playerID string) (*models.Player, error)
	LoadPlayerByUsername(username string) (*models.Player, error)
	SaveReport(report *models.GenerationReport) error
	LoadReports(playerID string, limit int) ([]*models.GenerationReport, error)
	Close() error
}
