package engine

import (
	"sort"

	"github.com/roach88/swiss/internal/model"
)

// RankStandings sorts standings in place: wins descending, then player id
// ascending. Player ids are assigned in registration order, so equal records
// are ranked by who registered first.
func RankStandings(standings []model.Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].PlayerID < standings[j].PlayerID
	})
}

// SwissPairs pairs adjacent players in the ranked standings for the given
// round. The input slice is not modified.
//
// Returns an INVALID_STATE *Error when the roster is empty or odd.
func SwissPairs(round int, standings []model.Standing) ([]model.Pairing, error) {
	n := len(standings)
	if n == 0 || n%2 != 0 {
		return nil, NewOddRosterError(n)
	}

	ranked := make([]model.Standing, n)
	copy(ranked, standings)
	RankStandings(ranked)

	pairs := make([]model.Pairing, 0, n/2)
	for i := 0; i < n; i += 2 {
		p1, p2 := ranked[i], ranked[i+1]
		pairs = append(pairs, model.Pairing{
			Round:       round,
			Table:       i/2 + 1,
			Player1ID:   p1.PlayerID,
			Player1Name: p1.Name,
			Player2ID:   p2.PlayerID,
			Player2Name: p2.Name,
		})
	}
	return pairs, nil
}
