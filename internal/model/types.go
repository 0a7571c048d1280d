package model

import "time"

// Player is a registered tournament entrant.
type Player struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Standing is the running tally for one player.
// Invariant: Matches >= Wins >= 0.
type Standing struct {
	PlayerID int64  `json:"id"`
	Name     string `json:"name"` // joined from players
	Wins     int    `json:"wins"`
	Matches  int    `json:"matches"`
}

// Losses returns the number of reported matches the player lost.
func (s Standing) Losses() int {
	return s.Matches - s.Wins
}

// Match is one append-only ledger entry.
type Match struct {
	ID       int64 `json:"id"`
	Round    int   `json:"round"` // pairing round current at report time, 0 if none
	WinnerID int64 `json:"winner_id"`
	LoserID  int64 `json:"loser_id"`
}

// Pairing is one table of a generated round.
type Pairing struct {
	Round       int    `json:"round"`
	Table       int    `json:"table"`
	Player1ID   int64  `json:"id1"`
	Player1Name string `json:"name1"`
	Player2ID   int64  `json:"id2"`
	Player2Name string `json:"name2"`
}

// Involves reports whether the player sits at this table.
func (p Pairing) Involves(playerID int64) bool {
	return p.Player1ID == playerID || p.Player2ID == playerID
}
