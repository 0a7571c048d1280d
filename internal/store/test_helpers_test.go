package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/swiss/internal/model"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestPlayers registers the given names and returns them in order.
func createTestPlayers(t *testing.T, s *Store, names ...string) []model.Player {
	t.Helper()
	players := make([]model.Player, 0, len(names))
	for _, name := range names {
		p, err := s.CreatePlayer(context.Background(), name)
		if err != nil {
			t.Fatalf("CreatePlayer(%q) failed: %v", name, err)
		}
		players = append(players, p)
	}
	return players
}

// countRows returns the row count of a table.
func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s failed: %v", table, err)
	}
	return n
}
