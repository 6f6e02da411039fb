// Package model contains domain entities and DTOs used across layers.
// Structs are plain data shapes; the only behavior is derived math.
package model

import "time"

// Position values accepted for a player.
const (
	PositionGoalkeeper = "Goalkeeper"
	PositionDefender   = "Defender"
	PositionMidfielder = "Midfielder"
	PositionForward    = "Forward"
)

// Location values accepted for a game.
const (
	LocationHome = "Home"
	LocationAway = "Away"
)

// Account is a team manager owning a roster of players.
type Account struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	TeamName  string    `json:"team_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Player belongs to exactly one account.
type Player struct {
	ID          int64      `json:"id"`
	AccountID   int64      `json:"account_id"`
	Name        string     `json:"name"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Position    string     `json:"position"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	Mail        string     `json:"mail,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	IsInjured   bool       `json:"is_injured"`
	Photo       *string    `json:"photo,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Game represents one fixture. Games are not scoped to an account.
type Game struct {
	ID           int64     `json:"id"`
	Date         time.Time `json:"date"`
	Opponent     string    `json:"opponent"`
	Location     string    `json:"location"` // Home, Away
	GoalsFor     int       `json:"goals_for"`
	GoalsAgainst int       `json:"goals_against"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PlayerMatchStats is one player's involvement in one game.
type PlayerMatchStats struct {
	ID            int64     `json:"id"`
	GameID        int64     `json:"game_id"`
	PlayerID      int64     `json:"player_id"`
	Goals         int       `json:"goals"`
	Assists       int       `json:"assists"`
	MinutesPlayed int       `json:"minutes_played"`
	YellowCards   int       `json:"yellow_cards"`
	RedCards      int       `json:"red_cards"`
	Started       bool      `json:"started"`
	Played        bool      `json:"played"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StatsRow is a typed input line of a stats batch, scoped to a game by the caller.
type StatsRow struct {
	PlayerID      int64 `json:"player_id"`
	Goals         int   `json:"goals"`
	Assists       int   `json:"assists"`
	MinutesPlayed int   `json:"minutes_played"`
	YellowCards   int   `json:"yellow_cards"`
	RedCards      int   `json:"red_cards"`
	Started       bool  `json:"started"`
	Played        bool  `json:"played"`
}

// MatchStatLine is a stat row with the player's display name attached.
type MatchStatLine struct {
	PlayerMatchStats
	PlayerName string `json:"player_name"`
}

// Scorer is one entry of a game's scorer list; goals are summed per player.
type Scorer struct {
	PlayerID   int64  `json:"player_id"`
	PlayerName string `json:"player_name"`
	Goals      int    `json:"goals"`
}

// GameDetail is the denormalized read shape of a game.
type GameDetail struct {
	Game
	PlayerStats []MatchStatLine `json:"player_stats"`
	Scorers     []Scorer        `json:"scorers"`
}

// SeasonTotals holds season-to-date sums for a player. It is always derived
// from stat rows and never persisted.
type SeasonTotals struct {
	PlayerID      int64 `json:"player_id"`
	Goals         int   `json:"goals"`
	Assists       int   `json:"assists"`
	MinutesPlayed int   `json:"minutes_played"`
	YellowCards   int   `json:"yellow_cards"`
	RedCards      int   `json:"red_cards"`
	GamesPlayed   int   `json:"games_played"`
	GamesStarted  int   `json:"games_started"`
}

// MinutesPerContribution returns minutes / (goals + assists), or 0 when the
// player has no goal contributions.
func (t SeasonTotals) MinutesPerContribution() float64 {
	contributions := t.Goals + t.Assists
	if contributions == 0 {
		return 0
	}
	return float64(t.MinutesPlayed) / float64(contributions)
}

// RosterEntry pairs a player with season totals for roster dashboards.
type RosterEntry struct {
	Player                 Player       `json:"player"`
	Totals                 SeasonTotals `json:"totals"`
	MinutesPerContribution float64      `json:"minutes_per_contribution"`
}
