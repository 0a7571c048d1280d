package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/swiss/internal/model"
)

func TestRankStandings(t *testing.T) {
	standings := []model.Standing{
		{PlayerID: 4, Wins: 1},
		{PlayerID: 1, Wins: 0},
		{PlayerID: 3, Wins: 2},
		{PlayerID: 2, Wins: 1},
	}

	RankStandings(standings)

	var ids []int64
	for _, s := range standings {
		ids = append(ids, s.PlayerID)
	}
	assert.Equal(t, []int64{3, 2, 4, 1}, ids)
}

func TestSwissPairs_AdjacentRanks(t *testing.T) {
	input := []model.Standing{
		{PlayerID: 1, Name: "A", Wins: 1, Matches: 1},
		{PlayerID: 2, Name: "B", Wins: 0, Matches: 1},
		{PlayerID: 3, Name: "C", Wins: 1, Matches: 1},
		{PlayerID: 4, Name: "D", Wins: 0, Matches: 1},
	}

	pairs, err := SwissPairs(2, input)
	require.NoError(t, err)

	assert.Equal(t, []model.Pairing{
		{Round: 2, Table: 1, Player1ID: 1, Player1Name: "A", Player2ID: 3, Player2Name: "C"},
		{Round: 2, Table: 2, Player1ID: 2, Player1Name: "B", Player2ID: 4, Player2Name: "D"},
	}, pairs)

	// Input order is left alone
	assert.Equal(t, int64(2), input[1].PlayerID)
}

func TestSwissPairs_EveryPlayerOnce(t *testing.T) {
	var standings []model.Standing
	for i := int64(1); i <= 16; i++ {
		standings = append(standings, model.Standing{PlayerID: i, Wins: int(i % 3)})
	}

	pairs, err := SwissPairs(1, standings)
	require.NoError(t, err)
	require.Len(t, pairs, 8)

	seen := make(map[int64]int)
	for i, p := range pairs {
		assert.Equal(t, i+1, p.Table)
		assert.NotEqual(t, p.Player1ID, p.Player2ID)
		seen[p.Player1ID]++
		seen[p.Player2ID]++
	}
	assert.Len(t, seen, 16)
	for id, n := range seen {
		assert.Equal(t, 1, n, "player %d", id)
	}
}

func TestSwissPairs_RejectsOddAndEmpty(t *testing.T) {
	tests := []struct {
		name    string
		players int
	}{
		{"empty", 0},
		{"single", 1},
		{"three", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			standings := make([]model.Standing, tt.players)
			for i := range standings {
				standings[i].PlayerID = int64(i + 1)
			}

			pairs, err := SwissPairs(1, standings)
			assert.Nil(t, pairs)
			require.Error(t, err)
			assert.True(t, IsInvalidState(err))
		})
	}
}
