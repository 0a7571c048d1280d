// Package pgstore provides PostgreSQL-backed storage for a Swiss tournament
// using gorm.
//
// It mirrors the SQLite store table for table: players, standings, matches
// and pairings, with names stored only on players. Tables are created with
// AutoMigrate on Open.
//
// Every compound mutation runs inside gorm's Transaction. RecordMatch locks
// both standing rows with SELECT ... FOR UPDATE before incrementing them, so
// concurrent reports for the same player serialize instead of losing updates.
package pgstore

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/roach88/swiss/internal/model"
)

// Store is a PostgreSQL implementation of engine.Store.
//
// Every error that means the server went away after Open is wrapped with
// model.ErrUnavailable, same as a failed Open.
type Store struct {
	db *gorm.DB
}

// Open connects to PostgreSQL and migrates the schema.
// Connection failures wrap model.ErrUnavailable.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w: %w", model.ErrUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w: %w", model.ErrUnavailable, err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w: %w", model.ErrUnavailable, err)
	}

	if err := db.AutoMigrate(
		&playerRow{},
		&standingRow{},
		&matchRow{},
		&pairingRow{},
	); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ResetMatches deletes every pairing and match. Idempotent.
func (s *Store) ResetMatches(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&pairingRow{}).Error; err != nil {
			return fmt.Errorf("delete pairings: %w", err)
		}
		if err := all.Delete(&matchRow{}).Error; err != nil {
			return fmt.Errorf("delete matches: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset matches: %w", classify(err))
	}
	return nil
}

// ResetPlayers deletes pairings, matches, standings and players, in that
// order, in one transaction. Idempotent.
func (s *Store) ResetPlayers(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, row := range []any{&pairingRow{}, &matchRow{}, &standingRow{}, &playerRow{}} {
			if err := all.Delete(row).Error; err != nil {
				return fmt.Errorf("delete %T: %w", row, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset players: %w", classify(err))
	}
	return nil
}

// CountPlayers returns the number of registered players.
func (s *Store) CountPlayers(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&playerRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count players: %w", classify(err))
	}
	return int(n), nil
}

// CreatePlayer inserts a player and its zero standing in one transaction.
func (s *Store) CreatePlayer(ctx context.Context, name string) (model.Player, error) {
	row := playerRow{Name: name, RegisteredAt: time.Now().UTC()}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert player: %w", err)
		}
		standing := standingRow{PlayerID: row.ID}
		if err := tx.Omit(clause.Associations).Create(&standing).Error; err != nil {
			return fmt.Errorf("insert standing: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Player{}, fmt.Errorf("create player: %w", classify(err))
	}
	return row.toModel(), nil
}

// ReadPlayer returns one player.
func (s *Store) ReadPlayer(ctx context.Context, id int64) (model.Player, error) {
	var row playerRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Player{}, fmt.Errorf("read player %d: %w", id, model.ErrUnknownPlayer)
		}
		return model.Player{}, fmt.Errorf("read player %d: %w", id, classify(err))
	}
	return row.toModel(), nil
}

// ReadStandings returns all standings joined with player names, ordered by
// wins DESC, player_id ASC.
func (s *Store) ReadStandings(ctx context.Context) ([]model.Standing, error) {
	var views []standingView
	err := s.db.WithContext(ctx).
		Table("standings AS s").
		Select("s.player_id, p.name, s.wins, s.matches").
		Joins("JOIN players p ON p.id = s.player_id").
		Order("s.wins DESC, s.player_id ASC").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", classify(err))
	}

	standings := make([]model.Standing, 0, len(views))
	for _, v := range views {
		standings = append(standings, v.toModel())
	}
	return standings, nil
}

// RecordMatch locks both standings, applies the counter updates and
// appends the ledger row in one transaction.
func (s *Store) RecordMatch(ctx context.Context, round int, winnerID, loserID int64) (model.Match, error) {
	row := matchRow{Round: round, WinnerID: winnerID, LoserID: loserID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked []standingRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Omit(clause.Associations).
			Where("player_id IN ?", []int64{winnerID, loserID}).
			Order("player_id").
			Find(&locked).Error
		if err != nil {
			return fmt.Errorf("lock standings: %w", err)
		}
		if len(locked) != 2 {
			return fmt.Errorf("players %d and %d: %w", winnerID, loserID, model.ErrUnknownPlayer)
		}

		err = tx.Model(&standingRow{}).
			Where("player_id = ?", winnerID).
			Updates(map[string]any{
				"wins":    gorm.Expr("wins + 1"),
				"matches": gorm.Expr("matches + 1"),
			}).Error
		if err != nil {
			return fmt.Errorf("update winner: %w", err)
		}

		err = tx.Model(&standingRow{}).
			Where("player_id = ?", loserID).
			UpdateColumn("matches", gorm.Expr("matches + 1")).Error
		if err != nil {
			return fmt.Errorf("update loser: %w", err)
		}

		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Match{}, fmt.Errorf("record match: %w", classify(err))
	}
	return row.toModel(), nil
}

// LatestRound returns the highest stored round, 0 if none.
func (s *Store) LatestRound(ctx context.Context) (int, error) {
	var round int
	err := s.db.WithContext(ctx).
		Model(&pairingRow{}).
		Select("COALESCE(MAX(round), 0)").
		Scan(&round).Error
	if err != nil {
		return 0, fmt.Errorf("latest round: %w", classify(err))
	}
	return round, nil
}

// WriteRound inserts every pairing of a round as one batch.
func (s *Store) WriteRound(ctx context.Context, pairings []model.Pairing) error {
	if len(pairings) == 0 {
		return nil
	}

	rows := make([]pairingRow, 0, len(pairings))
	for _, p := range pairings {
		rows = append(rows, pairingRow{
			Round:     p.Round,
			TableNo:   p.Table,
			Player1ID: p.Player1ID,
			Player2ID: p.Player2ID,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("write round: %w", classify(err))
	}
	return nil
}

// ReadPairings returns the pairings of one round ordered by table.
func (s *Store) ReadPairings(ctx context.Context, round int) ([]model.Pairing, error) {
	var views []pairingView
	err := s.db.WithContext(ctx).
		Table("pairings AS pr").
		Select("pr.round, pr.table_no, pr.player1_id, p1.name AS player1_name, pr.player2_id, p2.name AS player2_name").
		Joins("JOIN players p1 ON p1.id = pr.player1_id").
		Joins("JOIN players p2 ON p2.id = pr.player2_id").
		Where("pr.round = ?", round).
		Order("pr.table_no ASC").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("query pairings: %w", classify(err))
	}

	pairings := make([]model.Pairing, 0, len(views))
	for _, v := range views {
		pairings = append(pairings, v.toModel())
	}
	return pairings, nil
}

// ReadMatches returns the ledger in report order.
func (s *Store) ReadMatches(ctx context.Context) ([]model.Match, error) {
	var rows []matchRow
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query matches: %w", classify(err))
	}
	return toMatches(rows), nil
}

// ReadRoundMatches returns the matches of one round in report order.
func (s *Store) ReadRoundMatches(ctx context.Context, round int) ([]model.Match, error) {
	var rows []matchRow
	err := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Where("round = ?", round).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query round %d matches: %w", round, classify(err))
	}
	return toMatches(rows), nil
}

func toMatches(rows []matchRow) []model.Match {
	matches := make([]model.Match, 0, len(rows))
	for _, r := range rows {
		matches = append(matches, r.toModel())
	}
	return matches
}

// classify wraps connection-class failures with model.ErrUnavailable.
// Other errors are returned unchanged.
func classify(err error) error {
	if err == nil || errors.Is(err, model.ErrUnavailable) {
		return err
	}

	var connectErr *pgconn.ConnectError
	var opErr *net.OpError
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.As(err, &connectErr),
		errors.As(err, &opErr):
		return fmt.Errorf("%w: %w", model.ErrUnavailable, err)
	}
	return err
}
