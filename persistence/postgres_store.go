package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"village-raiders/server/models"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore handles database operations using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage manager
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (dm *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		runs INTEGER NOT NULL DEFAULT 0,
		escapes INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS generation_reports (
		session_id TEXT PRIMARY KEY,
		player_id TEXT REFERENCES players(id),
		seed BIGINT NOT NULL,
		loot_table TEXT NOT NULL,
		stats JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS generation_reports_player_idx
		ON generation_reports (player_id, created_at DESC);
	`

	_, err := dm.db.Exec(schema)
	return err
}

// SavePlayer saves a player to the database
func (dm *PostgresStore) SavePlayer(player *models.Player) error {
	query := `
	INSERT INTO players (id, username, runs, escapes)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id)
	DO UPDATE SET
		runs = $3, escapes = $4,
		updated_at = NOW()
	`

	_, err := dm.db.Exec(query, player.ID, player.Username, player.Runs, player.Escapes)
	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}

	return nil
}

const playerColumns = `id, username, runs, escapes, created_at, updated_at`

func (dm *PostgresStore) loadPlayer(where string, arg string) (*models.Player, error) {
	var player models.Player
	err := dm.db.QueryRow(`SELECT `+playerColumns+` FROM players WHERE `+where+` = $1`, arg).Scan(
		&player.ID, &player.Username, &player.Runs, &player.Escapes,
		&player.CreatedAt, &player.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("player with %s %s: %w", where, arg, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	return &player, nil
}

// LoadPlayer loads a player from the database by ID
func (dm *PostgresStore) LoadPlayer(playerID string) (*models.Player, error) {
	return dm.loadPlayer("id", playerID)
}

// LoadPlayerByUsername loads a player from the database by username
func (dm *PostgresStore) LoadPlayerByUsername(username string) (*models.Player, error) {
	return dm.loadPlayer("username", username)
}

// SaveReport stores a generation report; the stats go in a JSONB column
func (dm *PostgresStore) SaveReport(report *models.GenerationReport) error {
	statsJSON, err := json.Marshal(report.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal generation stats: %w", err)
	}

	query := `
	INSERT INTO generation_reports (session_id, player_id, seed, loot_table, stats, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (session_id) DO NOTHING
	`

	_, err = dm.db.Exec(query,
		report.SessionID, report.PlayerID, report.Seed, report.LootTable,
		string(statsJSON), report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save generation report: %w", err)
	}

	return nil
}

// LoadReports returns a player's most recent reports, newest first.
// A limit of zero or less returns every report.
func (dm *PostgresStore) LoadReports(playerID string, limit int) ([]*models.GenerationReport, error) {
	query := `SELECT session_id, player_id, seed, loot_table, stats, created_at
	FROM generation_reports WHERE player_id = $1 ORDER BY created_at DESC`
	args := []any{playerID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := dm.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load generation reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.GenerationReport
	for rows.Next() {
		var report models.GenerationReport
		var statsJSON string
		if err := rows.Scan(&report.SessionID, &report.PlayerID, &report.Seed,
			&report.LootTable, &statsJSON, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation report: %w", err)
		}
		if err := json.Unmarshal([]byte(statsJSON), &report.Stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal generation stats: %w", err)
		}
		reports = append(reports, &report)
	}
	return reports, rows.Err()
}

// Close closes the database connection
func (dm *PostgresStore) Close() error {
	log.Println("Closing database connection...")
	return dm.db.Close()
}
