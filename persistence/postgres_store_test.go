package persistence

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"village-raiders/server/models"
)

// Set TEST_DATABASE_URL to run these against a scratch database.
func newPostgresTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	store, err := NewPostgresStore(url)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPostgresStorePlayersAndReports(t *testing.T) {
	store := newPostgresTestStore(t)

	player := &models.Player{ID: uuid.NewString(), Username: "pg-" + uuid.NewString()[:8], Runs: 2}
	if err := store.SavePlayer(player); err != nil {
		t.Fatalf("SavePlayer: %v", err)
	}
	player.Escapes = 1
	if err := store.SavePlayer(player); err != nil {
		t.Fatalf("SavePlayer update: %v", err)
	}

	got, err := store.LoadPlayerByUsername(player.Username)
	if err != nil || got.ID != player.ID || got.Escapes != 1 {
		t.Fatalf("LoadPlayerByUsername = %+v, %v", got, err)
	}
	if _, err := store.LoadPlayer(uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing player: got %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		err := store.SaveReport(&models.GenerationReport{
			SessionID: uuid.NewString(),
			PlayerID:  player.ID,
			Seed:      int64(i + 1),
			LootTable: "extended",
			Stats:     models.GenerationStats{ObjectsReachable: 30 + i, LootRerolled: i == 2},
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("SaveReport: %v", err)
		}
	}

	reports, err := store.LoadReports(player.ID, 2)
	if err != nil {
		t.Fatalf("LoadReports: %v", err)
	}
	if len(reports) != 2 || reports[0].Seed != 3 || !reports[0].Stats.LootRerolled {
		t.Errorf("LoadReports = %+v", reports)
	}
}
