package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/swiss/internal/model"
)

// Store is the persistence contract the engine relies on.
// Implemented by store.Store (SQLite) and pgstore.Store (PostgreSQL).
//
// Every mutating method must be atomic: either all of its rows are written
// or none are.
type Store interface {
	// ResetMatches deletes all matches and pairings.
	ResetMatches(ctx context.Context) error

	// ResetPlayers deletes all players together with their standings and
	// everything that references them.
	ResetPlayers(ctx context.Context) error

	// CountPlayers returns the number of registered players.
	CountPlayers(ctx context.Context) (int, error)

	// CreatePlayer inserts a player and its zero standing.
	CreatePlayer(ctx context.Context, name string) (model.Player, error)

	// ReadPlayer returns one player.
	// Returns model.ErrUnknownPlayer (wrapped) if the id is not registered.
	ReadPlayer(ctx context.Context, id int64) (model.Player, error)

	// ReadStandings returns every standing joined with its player name.
	ReadStandings(ctx context.Context) ([]model.Standing, error)

	// RecordMatch appends a ledger entry and applies both counter updates.
	// Returns model.ErrUnknownPlayer (wrapped) if either id has no standing.
	RecordMatch(ctx context.Context, round int, winnerID, loserID int64) (model.Match, error)

	// LatestRound returns the highest stored round, 0 if none.
	LatestRound(ctx context.Context) (int, error)

	// WriteRound inserts every pairing of one round.
	WriteRound(ctx context.Context, pairings []model.Pairing) error

	// ReadPairings returns the pairings of a round ordered by table.
	ReadPairings(ctx context.Context, round int) ([]model.Pairing, error)

	// ReadMatches returns the ledger in report order.
	ReadMatches(ctx context.Context) ([]model.Match, error)

	// ReadRoundMatches returns the matches tagged with one round, in report
	// order.
	ReadRoundMatches(ctx context.Context, round int) ([]model.Match, error)

	// Close releases the underlying connection.
	Close() error
}

// Engine runs tournament operations against a Store.
//
// Thread-safety model: single writer. Engine adds no locking of its own;
// concurrent callers rely on the store's transactions.
type Engine struct {
	store  Store
	logger *slog.Logger
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithLogger sets the logger used for operation diagnostics.
// Default: a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine over the given store.
func New(st Store, opts ...Option) *Engine {
	e := &Engine{
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResetMatches removes all match and pairing records. Players and standings
// are untouched. Calling it on an empty ledger is a no-op.
func (e *Engine) ResetMatches(ctx context.Context) error {
	if err := e.store.ResetMatches(ctx); err != nil {
		return e.fail("reset matches", err)
	}
	e.logger.Debug("matches reset")
	return nil
}

// ResetPlayers removes all players and standings. Standings are removed
// before players so the foreign key is never violated.
func (e *Engine) ResetPlayers(ctx context.Context) error {
	if err := e.store.ResetPlayers(ctx); err != nil {
		return e.fail("reset players", err)
	}
	e.logger.Debug("players reset")
	return nil
}

// CountPlayers returns the number of registered players.
func (e *Engine) CountPlayers(ctx context.Context) (int, error) {
	n, err := e.store.CountPlayers(ctx)
	if err != nil {
		return 0, e.fail("count players", err)
	}
	return n, nil
}

// RegisterPlayer adds a player with a zero standing. Names need not be
// unique; they are trimmed and NFC-normalized before storage.
func (e *Engine) RegisterPlayer(ctx context.Context, name string) (model.Player, error) {
	canonical := model.CanonicalName(name)
	if canonical == "" {
		return model.Player{}, &Error{
			Code:    CodeInvalidArgument,
			Message: "player name must not be empty",
		}
	}

	p, err := e.store.CreatePlayer(ctx, canonical)
	if err != nil {
		return model.Player{}, e.fail("register player", err)
	}
	e.logger.Debug("player registered", "id", p.ID, "name", p.Name)
	return p, nil
}

// Player returns a registered player by id.
func (e *Engine) Player(ctx context.Context, id int64) (model.Player, error) {
	p, err := e.store.ReadPlayer(ctx, id)
	if err != nil {
		return model.Player{}, e.fail("read player", err)
	}
	return p, nil
}

// Standings returns every standing ranked by RankStandings: the first
// entry is in first place.
func (e *Engine) Standings(ctx context.Context) ([]model.Standing, error) {
	standings, err := e.store.ReadStandings(ctx)
	if err != nil {
		return nil, e.fail("read standings", err)
	}
	RankStandings(standings)
	return standings, nil
}

// ReportMatch records that winnerID beat loserID. The match is tagged with
// the current round.
func (e *Engine) ReportMatch(ctx context.Context, winnerID, loserID int64) (model.Match, error) {
	if winnerID == loserID {
		return model.Match{}, &Error{
			Code:    CodeInvalidArgument,
			Message: "a player cannot play against themselves",
			Details: map[string]string{"player_id": fmt.Sprintf("%d", winnerID)},
		}
	}

	round, err := e.store.LatestRound(ctx)
	if err != nil {
		return model.Match{}, e.fail("report match", err)
	}

	m, err := e.store.RecordMatch(ctx, round, winnerID, loserID)
	if err != nil {
		return model.Match{}, e.fail("report match", err)
	}
	e.logger.Debug("match reported", "id", m.ID, "round", m.Round, "winner", winnerID, "loser", loserID)
	return m, nil
}

// GeneratePairings computes and stores the next round.
//
// The whole round is written in one batch and the returned slice is read
// back from the store, so callers only ever see a fully committed round.
// Odd or empty rosters fail with INVALID_STATE before anything is written.
func (e *Engine) GeneratePairings(ctx context.Context) ([]model.Pairing, error) {
	standings, err := e.store.ReadStandings(ctx)
	if err != nil {
		return nil, e.fail("generate pairings", err)
	}

	latest, err := e.store.LatestRound(ctx)
	if err != nil {
		return nil, e.fail("generate pairings", err)
	}
	round := latest + 1

	pairs, err := SwissPairs(round, standings)
	if err != nil {
		e.logger.Warn("pairing rejected", "players", len(standings), "error", err)
		return nil, err
	}

	if err := e.store.WriteRound(ctx, pairs); err != nil {
		return nil, e.fail("generate pairings", err)
	}

	stored, err := e.store.ReadPairings(ctx, round)
	if err != nil {
		return nil, e.fail("generate pairings", err)
	}
	e.logger.Debug("round generated", "round", round, "tables", len(stored))
	return stored, nil
}

// Pairings returns the stored pairings of a round. A round <= 0 selects the
// latest round. Returns an empty slice if the round does not exist.
func (e *Engine) Pairings(ctx context.Context, round int) ([]model.Pairing, error) {
	if round <= 0 {
		latest, err := e.store.LatestRound(ctx)
		if err != nil {
			return nil, e.fail("read pairings", err)
		}
		if latest == 0 {
			return []model.Pairing{}, nil
		}
		round = latest
	}

	pairs, err := e.store.ReadPairings(ctx, round)
	if err != nil {
		return nil, e.fail("read pairings", err)
	}
	return pairs, nil
}

// CurrentRound returns the latest generated round, 0 if none.
func (e *Engine) CurrentRound(ctx context.Context) (int, error) {
	round, err := e.store.LatestRound(ctx)
	if err != nil {
		return 0, e.fail("read round", err)
	}
	return round, nil
}

// Matches returns the match ledger in report order.
func (e *Engine) Matches(ctx context.Context) ([]model.Match, error) {
	matches, err := e.store.ReadMatches(ctx)
	if err != nil {
		return nil, e.fail("read matches", err)
	}
	return matches, nil
}

// RoundMatches returns the matches reported while the given round was
// current. Round 0 holds the matches reported before the first pairing.
// A negative round selects the latest round.
func (e *Engine) RoundMatches(ctx context.Context, round int) ([]model.Match, error) {
	if round < 0 {
		latest, err := e.store.LatestRound(ctx)
		if err != nil {
			return nil, e.fail("read matches", err)
		}
		round = latest
	}

	matches, err := e.store.ReadRoundMatches(ctx, round)
	if err != nil {
		return nil, e.fail("read matches", err)
	}
	return matches, nil
}

// CheckIntegrity verifies that standings agree with players and with the
// match ledger:
//   - every player has a standing
//   - matches >= wins >= 0 for every standing
//   - each standing's counters equal its ledger totals
//   - total wins equal the number of matches
func (e *Engine) CheckIntegrity(ctx context.Context) error {
	players, err := e.store.CountPlayers(ctx)
	if err != nil {
		return e.fail("check integrity", err)
	}
	standings, err := e.store.ReadStandings(ctx)
	if err != nil {
		return e.fail("check integrity", err)
	}
	matches, err := e.store.ReadMatches(ctx)
	if err != nil {
		return e.fail("check integrity", err)
	}

	if players != len(standings) {
		return NewIntegrityError("players and standings differ", map[string]string{
			"players":   fmt.Sprintf("%d", players),
			"standings": fmt.Sprintf("%d", len(standings)),
		})
	}

	wins := make(map[int64]int, len(standings))
	played := make(map[int64]int, len(standings))
	for _, m := range matches {
		wins[m.WinnerID]++
		played[m.WinnerID]++
		played[m.LoserID]++
	}

	total := 0
	for _, s := range standings {
		id := fmt.Sprintf("%d", s.PlayerID)
		if s.Wins < 0 || s.Matches < s.Wins {
			return NewIntegrityError("standing counters out of range", map[string]string{
				"player_id": id,
				"wins":      fmt.Sprintf("%d", s.Wins),
				"matches":   fmt.Sprintf("%d", s.Matches),
			})
		}
		if s.Wins != wins[s.PlayerID] || s.Matches != played[s.PlayerID] {
			return NewIntegrityError("standing disagrees with match ledger", map[string]string{
				"player_id":      id,
				"wins":           fmt.Sprintf("%d", s.Wins),
				"ledger_wins":    fmt.Sprintf("%d", wins[s.PlayerID]),
				"matches":        fmt.Sprintf("%d", s.Matches),
				"ledger_matches": fmt.Sprintf("%d", played[s.PlayerID]),
			})
		}
		total += s.Wins
	}

	if total != len(matches) {
		return NewIntegrityError("total wins differ from match count", map[string]string{
			"wins":    fmt.Sprintf("%d", total),
			"matches": fmt.Sprintf("%d", len(matches)),
		})
	}
	return nil
}

func (e *Engine) fail(op string, err error) error {
	se := storeError(op, err)
	e.logger.Warn("operation failed", "op", op, "code", se.Code, "error", err)
	return se
}
