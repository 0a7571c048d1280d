package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/swiss/internal/model"
)

// CountPlayers returns the number of registered players.
func (s *Store) CountPlayers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM players").Scan(&n); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return n, nil
}

// ReadStandings returns all standings joined with player names.
// Ordered by wins DESC, player_id ASC.
//
// Returns an empty slice (not nil) if no players are registered.
func (s *Store) ReadStandings(ctx context.Context) ([]model.Standing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.player_id, p.name, s.wins, s.matches
		FROM standings s
		JOIN players p ON p.id = s.player_id
		ORDER BY s.wins DESC, s.player_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	defer rows.Close()

	standings := []model.Standing{}
	for rows.Next() {
		var st model.Standing
		if err := rows.Scan(&st.PlayerID, &st.Name, &st.Wins, &st.Matches); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		standings = append(standings, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate standings: %w", err)
	}
	return standings, nil
}

// ReadPlayer retrieves a single player by id.
// Returns model.ErrUnknownPlayer (wrapped) if not found.
func (s *Store) ReadPlayer(ctx context.Context, id int64) (model.Player, error) {
	var p model.Player
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, registered_at FROM players WHERE id = ?", id,
	).Scan(&p.ID, &p.Name, &p.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Player{}, fmt.Errorf("read player %d: %w", id, model.ErrUnknownPlayer)
		}
		return model.Player{}, fmt.Errorf("read player %d: %w", id, err)
	}
	return p, nil
}

// LatestRound returns the highest stored round, 0 if none.
func (s *Store) LatestRound(ctx context.Context) (int, error) {
	var round int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(round), 0) FROM pairings").Scan(&round)
	if err != nil {
		return 0, fmt.Errorf("latest round: %w", err)
	}
	return round, nil
}

// ReadPairings returns the pairings of one round ordered by table.
// Returns an empty slice (not nil) if the round does not exist.
func (s *Store) ReadPairings(ctx context.Context, round int) ([]model.Pairing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pr.round, pr.table_no, pr.player1_id, p1.name, pr.player2_id, p2.name
		FROM pairings pr
		JOIN players p1 ON p1.id = pr.player1_id
		JOIN players p2 ON p2.id = pr.player2_id
		WHERE pr.round = ?
		ORDER BY pr.table_no ASC
	`, round)
	if err != nil {
		return nil, fmt.Errorf("query pairings: %w", err)
	}
	defer rows.Close()

	pairings := []model.Pairing{}
	for rows.Next() {
		var p model.Pairing
		if err := rows.Scan(&p.Round, &p.Table, &p.Player1ID, &p.Player1Name, &p.Player2ID, &p.Player2Name); err != nil {
			return nil, fmt.Errorf("scan pairing: %w", err)
		}
		pairings = append(pairings, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pairings: %w", err)
	}
	return pairings, nil
}

// ReadMatches returns the whole ledger in report order.
// Returns an empty slice (not nil) if no matches were reported.
func (s *Store) ReadMatches(ctx context.Context) ([]model.Match, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, round, winner_id, loser_id FROM matches ORDER BY id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	return scanMatches(rows)
}

// ReadRoundMatches returns the matches of one round in report order.
// Served by idx_matches_round. Returns an empty slice (not nil) if none.
func (s *Store) ReadRoundMatches(ctx context.Context, round int) ([]model.Match, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, round, winner_id, loser_id FROM matches WHERE round = ? ORDER BY id ASC",
		round,
	)
	if err != nil {
		return nil, fmt.Errorf("query round %d matches: %w", round, err)
	}
	return scanMatches(rows)
}

func scanMatches(rows *sql.Rows) ([]model.Match, error) {
	defer rows.Close()

	matches := []model.Match{}
	for rows.Next() {
		var m model.Match
		if err := rows.Scan(&m.ID, &m.Round, &m.WinnerID, &m.LoserID); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return matches, nil
}
