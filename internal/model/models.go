// Package model defines the data models for the wager service.
package model

import "time"

// WagerStatus is the lifecycle state of a wager.
// A wager transitions pending -> won|lost exactly once.
type WagerStatus string

const (
	WagerPending WagerStatus = "pending"
	WagerWon     WagerStatus = "won"
	WagerLost    WagerStatus = "lost"
)

// Prediction is the side of a wager: will the subject player win or lose
// the bound game.
type Prediction string

const (
	PredictWin  Prediction = "win"
	PredictLoss Prediction = "loss"
)

// Valid reports whether p is one of the two known sides.
func (p Prediction) Valid() bool {
	return p == PredictWin || p == PredictLoss
}

// Correct reports whether the prediction came true given the subject
// player's result.
func (p Prediction) Correct(subjectWon bool) bool {
	return (p == PredictWin) == subjectWon
}

// User is a coin-holding account. Coins are only mutated through guarded
// atomic updates, never read-modify-write.
type User struct {
	ID          string    `db:"id" json:"id"`
	DisplayName string    `db:"display_name" json:"displayName"`
	Coins       int64     `db:"coins" json:"coins"`
	IsAdmin     bool      `db:"is_admin" json:"isAdmin"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Wager is a stake on the outcome of one tracked player's game.
// Payout is 0 until the wager resolves, and stays 0 unless it resolves won.
type Wager struct {
	ID         string      `db:"id" json:"id"`
	UserID     string      `db:"user_id" json:"userId"`
	PlayerID   string      `db:"player_id" json:"playerId"`
	PlayerName string      `db:"player_name" json:"playerName"`
	Prediction Prediction  `db:"prediction" json:"prediction"`
	Amount     int64       `db:"amount" json:"amount"`
	GameID     string      `db:"game_id" json:"gameId"`
	Status     WagerStatus `db:"status" json:"status"`
	Payout     int64       `db:"payout" json:"payout"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
}

// Player is a tracked competitor. PUUID is Riot's persistent account id;
// SummonerID is optional and only needed for ranked lookups.
type Player struct {
	ID            string    `db:"id" json:"id"`
	GameName      string    `db:"game_name" json:"gameName"`
	TagLine       string    `db:"tag_line" json:"tagLine"`
	DisplayName   string    `db:"display_name" json:"displayName"`
	PUUID         string    `db:"puuid" json:"puuid"`
	SummonerID    *string   `db:"summoner_id" json:"summonerId,omitempty"`
	ProfileIconID int       `db:"profile_icon_id" json:"profileIconId"`
	SummonerLevel int64     `db:"summoner_level" json:"summonerLevel"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// PendingGroup is one game with pending wagers, carrying a single
// representative subject player used to probe liveness and outcome.
type PendingGroup struct {
	GameID   string
	PlayerID string
}
