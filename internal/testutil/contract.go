package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/swiss/internal/engine"
	"github.com/roach88/swiss/internal/model"
)

// StoreFactory returns an empty store for one subtest.
type StoreFactory func(t *testing.T) engine.Store

// RunStoreContract checks the behavior every engine.Store must share.
// Each subtest gets its own store from newStore.
func RunStoreContract(t *testing.T, newStore StoreFactory) {
	t.Run("create player adds zero standing", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()

		p, err := st.CreatePlayer(ctx, "Alice")
		require.NoError(t, err)
		assert.NotZero(t, p.ID)
		assert.Equal(t, "Alice", p.Name)

		n, err := st.CountPlayers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		standings, err := st.ReadStandings(ctx)
		require.NoError(t, err)
		require.Len(t, standings, 1)
		assert.Equal(t, model.Standing{PlayerID: p.ID, Name: "Alice"}, standings[0])

		got, err := st.ReadPlayer(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)
	})

	t.Run("record match updates counters", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()
		w := mustCreate(t, st, "Winner")
		l := mustCreate(t, st, "Loser")

		m, err := st.RecordMatch(ctx, 3, w.ID, l.ID)
		require.NoError(t, err)
		assert.NotZero(t, m.ID)
		assert.Equal(t, 3, m.Round)

		standings, err := st.ReadStandings(ctx)
		require.NoError(t, err)
		require.Len(t, standings, 2)
		assert.Equal(t, model.Standing{PlayerID: w.ID, Name: "Winner", Wins: 1, Matches: 1}, standings[0])
		assert.Equal(t, model.Standing{PlayerID: l.ID, Name: "Loser", Wins: 0, Matches: 1}, standings[1])

		matches, err := st.ReadMatches(ctx)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, w.ID, matches[0].WinnerID)
		assert.Equal(t, l.ID, matches[0].LoserID)
	})

	t.Run("record match with unknown player writes nothing", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()
		p := mustCreate(t, st, "Solo")

		_, err := st.RecordMatch(ctx, 0, p.ID, p.ID+1000)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrUnknownPlayer), "got %v", err)

		standings, err := st.ReadStandings(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, standings[0].Matches)
		assert.Equal(t, 0, standings[0].Wins)

		matches, err := st.ReadMatches(ctx)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("read unknown player", func(t *testing.T) {
		st := newStore(t)
		_, err := st.ReadPlayer(context.Background(), 424242)
		assert.True(t, errors.Is(err, model.ErrUnknownPlayer), "got %v", err)
	})

	t.Run("rounds round-trip with joined names", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()
		a := mustCreate(t, st, "A")
		b := mustCreate(t, st, "B")

		latest, err := st.LatestRound(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, latest)

		require.NoError(t, st.WriteRound(ctx, []model.Pairing{
			{Round: 1, Table: 1, Player1ID: a.ID, Player2ID: b.ID},
		}))
		require.NoError(t, st.WriteRound(ctx, []model.Pairing{
			{Round: 2, Table: 1, Player1ID: b.ID, Player2ID: a.ID},
		}))

		latest, err = st.LatestRound(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, latest)

		pairs, err := st.ReadPairings(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []model.Pairing{
			{Round: 1, Table: 1, Player1ID: a.ID, Player1Name: "A", Player2ID: b.ID, Player2Name: "B"},
		}, pairs)

		empty, err := st.ReadPairings(ctx, 9)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})

	t.Run("round matches filter by round", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()
		a := mustCreate(t, st, "A")
		b := mustCreate(t, st, "B")

		first, err := st.RecordMatch(ctx, 1, a.ID, b.ID)
		require.NoError(t, err)
		_, err = st.RecordMatch(ctx, 2, b.ID, a.ID)
		require.NoError(t, err)
		third, err := st.RecordMatch(ctx, 1, b.ID, a.ID)
		require.NoError(t, err)

		round1, err := st.ReadRoundMatches(ctx, 1)
		require.NoError(t, err)
		require.Len(t, round1, 2)
		assert.Equal(t, first.ID, round1[0].ID)
		assert.Equal(t, third.ID, round1[1].ID)
		for _, m := range round1 {
			assert.Equal(t, 1, m.Round)
		}

		none, err := st.ReadRoundMatches(ctx, 5)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("resets are idempotent", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()
		a := mustCreate(t, st, "A")
		b := mustCreate(t, st, "B")
		_, err := st.RecordMatch(ctx, 0, a.ID, b.ID)
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			require.NoError(t, st.ResetMatches(ctx))
			matches, err := st.ReadMatches(ctx)
			require.NoError(t, err)
			assert.Empty(t, matches)
			n, err := st.CountPlayers(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, n)
		}

		for i := 0; i < 2; i++ {
			require.NoError(t, st.ResetPlayers(ctx))
			n, err := st.CountPlayers(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, n)
			standings, err := st.ReadStandings(ctx)
			require.NoError(t, err)
			assert.Empty(t, standings)
		}
	})
}

func mustCreate(t *testing.T, st engine.Store, name string) model.Player {
	t.Helper()
	p, err := st.CreatePlayer(context.Background(), name)
	require.NoError(t, err)
	return p
}
