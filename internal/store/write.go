package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/swiss/internal/model"
)

// ResetMatches deletes every match and pairing. Idempotent.
func (s *Store) ResetMatches(ctx context.Context) error {
	return s.withTx(ctx, "reset matches", func(tx *sql.Tx) error {
		for _, stmt := range []string{
			"DELETE FROM pairings",
			"DELETE FROM matches",
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("%s: %w", stmt, err)
			}
		}
		return nil
	})
}

// ResetPlayers deletes every player. Idempotent.
//
// Rows referencing players go first: pairings and matches, then standings,
// then players, so foreign keys hold at every statement.
func (s *Store) ResetPlayers(ctx context.Context) error {
	return s.withTx(ctx, "reset players", func(tx *sql.Tx) error {
		for _, stmt := range []string{
			"DELETE FROM pairings",
			"DELETE FROM matches",
			"DELETE FROM standings",
			"DELETE FROM players",
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("%s: %w", stmt, err)
			}
		}
		return nil
	})
}

// CreatePlayer inserts a player and its zero standing in one transaction.
// The id is assigned by SQLite.
func (s *Store) CreatePlayer(ctx context.Context, name string) (model.Player, error) {
	p := model.Player{
		Name:         name,
		RegisteredAt: time.Now().UTC(),
	}

	err := s.withTx(ctx, "create player", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			"INSERT INTO players (name, registered_at) VALUES (?, ?)",
			p.Name, p.RegisteredAt,
		)
		if err != nil {
			return fmt.Errorf("insert player: %w", err)
		}

		p.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO standings (player_id, wins, matches) VALUES (?, 0, 0)",
			p.ID,
		)
		if err != nil {
			return fmt.Errorf("insert standing: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Player{}, err
	}
	return p, nil
}

// RecordMatch appends a ledger row and updates both standings in one
// transaction. If either player has no standing the transaction is rolled
// back and the error wraps model.ErrUnknownPlayer.
func (s *Store) RecordMatch(ctx context.Context, round int, winnerID, loserID int64) (model.Match, error) {
	m := model.Match{
		Round:    round,
		WinnerID: winnerID,
		LoserID:  loserID,
	}

	err := s.withTx(ctx, "record match", func(tx *sql.Tx) error {
		if err := bumpStanding(ctx, tx, winnerID, 1); err != nil {
			return fmt.Errorf("winner: %w", err)
		}
		if err := bumpStanding(ctx, tx, loserID, 0); err != nil {
			return fmt.Errorf("loser: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			"INSERT INTO matches (round, winner_id, loser_id) VALUES (?, ?, ?)",
			round, winnerID, loserID,
		)
		if err != nil {
			return fmt.Errorf("insert match: %w", err)
		}

		m.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Match{}, err
	}
	return m, nil
}

// bumpStanding adds one played match and the given number of wins.
func bumpStanding(ctx context.Context, tx *sql.Tx, playerID int64, wins int) error {
	result, err := tx.ExecContext(ctx,
		"UPDATE standings SET wins = wins + ?, matches = matches + 1 WHERE player_id = ?",
		wins, playerID,
	)
	if err != nil {
		return fmt.Errorf("update standing %d: %w", playerID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("player %d: %w", playerID, model.ErrUnknownPlayer)
	}
	return nil
}

// WriteRound inserts every pairing of a round in one transaction.
// A duplicate (round, table) fails the whole batch.
func (s *Store) WriteRound(ctx context.Context, pairings []model.Pairing) error {
	return s.withTx(ctx, "write round", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO pairings (round, table_no, player1_id, player2_id) VALUES (?, ?, ?, ?)",
		)
		if err != nil {
			return fmt.Errorf("prepare: %w", err)
		}
		defer stmt.Close()

		for _, p := range pairings {
			if _, err := stmt.ExecContext(ctx, p.Round, p.Table, p.Player1ID, p.Player2ID); err != nil {
				return fmt.Errorf("insert round %d table %d: %w", p.Round, p.Table, err)
			}
		}
		return nil
	})
}
