// Package testutil provides shared helpers for tournament tests: temporary
// stores, a Store contract suite run against every backend, and fixed trace
// ids for byte-stable CLI output.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/swiss/internal/engine"
	"github.com/roach88/swiss/internal/model"
	"github.com/roach88/swiss/internal/store"
)

// NewSQLiteStore opens a fresh file-backed store under t.TempDir().
// The store is closed when the test finishes.
func NewSQLiteStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "swiss.db"))
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// NewEngine returns an engine over a fresh SQLite store.
func NewEngine(t *testing.T) (*engine.Engine, *store.Store) {
	t.Helper()
	st := NewSQLiteStore(t)
	return engine.New(st), st
}

// RegisterPlayers registers names in order and returns the created players.
func RegisterPlayers(t *testing.T, eng *engine.Engine, names ...string) []model.Player {
	t.Helper()
	players := make([]model.Player, 0, len(names))
	for _, name := range names {
		p, err := eng.RegisterPlayer(context.Background(), name)
		if err != nil {
			t.Fatalf("RegisterPlayer(%q) failed: %v", name, err)
		}
		players = append(players, p)
	}
	return players
}
