package pgstore

import (
	"time"

	"github.com/roach88/swiss/internal/model"
)

// playerRow maps the players table.
type playerRow struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"not null"`
	RegisteredAt time.Time `gorm:"not null"`
}

func (playerRow) TableName() string { return "players" }

// standingRow maps the standings table. Names are not stored here.
type standingRow struct {
	PlayerID int64     `gorm:"primaryKey;autoIncrement:false"`
	Player   playerRow `gorm:"foreignKey:PlayerID;constraint:OnDelete:RESTRICT"`
	Wins     int       `gorm:"not null;default:0;check:chk_standings_wins,wins >= 0"`
	Matches  int       `gorm:"not null;default:0;check:chk_standings_matches,matches >= wins"`
}

func (standingRow) TableName() string { return "standings" }

// matchRow maps the append-only matches ledger.
type matchRow struct {
	ID       int64     `gorm:"primaryKey;autoIncrement;index:idx_matches_round,priority:2"`
	Round    int       `gorm:"not null;default:0;index:idx_matches_round,priority:1"`
	WinnerID int64     `gorm:"not null"`
	Winner   playerRow `gorm:"foreignKey:WinnerID;constraint:OnDelete:RESTRICT"`
	LoserID  int64     `gorm:"not null"`
	Loser    playerRow `gorm:"foreignKey:LoserID;constraint:OnDelete:RESTRICT"`
}

func (matchRow) TableName() string { return "matches" }

// pairingRow maps one table of a stored round.
type pairingRow struct {
	Round     int       `gorm:"primaryKey;autoIncrement:false"`
	TableNo   int       `gorm:"primaryKey;autoIncrement:false;column:table_no"`
	Player1ID int64     `gorm:"not null;column:player1_id"`
	Player1   playerRow `gorm:"foreignKey:Player1ID;constraint:OnDelete:RESTRICT"`
	Player2ID int64     `gorm:"not null;column:player2_id"`
	Player2   playerRow `gorm:"foreignKey:Player2ID;constraint:OnDelete:RESTRICT"`
}

func (pairingRow) TableName() string { return "pairings" }

// standingView is the result of the standings/players join.
type standingView struct {
	PlayerID int64  `gorm:"column:player_id"`
	Name     string `gorm:"column:name"`
	Wins     int    `gorm:"column:wins"`
	Matches  int    `gorm:"column:matches"`
}

func (v standingView) toModel() model.Standing {
	return model.Standing{
		PlayerID: v.PlayerID,
		Name:     v.Name,
		Wins:     v.Wins,
		Matches:  v.Matches,
	}
}

// pairingView is the result of the pairings/players join.
type pairingView struct {
	Round       int    `gorm:"column:round"`
	TableNo     int    `gorm:"column:table_no"`
	Player1ID   int64  `gorm:"column:player1_id"`
	Player1Name string `gorm:"column:player1_name"`
	Player2ID   int64  `gorm:"column:player2_id"`
	Player2Name string `gorm:"column:player2_name"`
}

func (v pairingView) toModel() model.Pairing {
	return model.Pairing{
		Round:       v.Round,
		Table:       v.TableNo,
		Player1ID:   v.Player1ID,
		Player1Name: v.Player1Name,
		Player2ID:   v.Player2ID,
		Player2Name: v.Player2Name,
	}
}

func (r matchRow) toModel() model.Match {
	return model.Match{
		ID:       r.ID,
		Round:    r.Round,
		WinnerID: r.WinnerID,
		LoserID:  r.LoserID,
	}
}

func (r playerRow) toModel() model.Player {
	return model.Player{
		ID:           r.ID,
		Name:         r.Name,
		RegisteredAt: r.RegisteredAt,
	}
}
