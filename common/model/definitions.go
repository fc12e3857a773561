package model

import (
	"encoding/json"
	"time"
)

// If you want a helper for JSON unmarshal:
func JSONUnmarshal(data []byte, out interface{}) error {
	return json.Unmarshal(data, out)
}

// ----------------------------------------------------------------------
// Basketball feed data structures
// ----------------------------------------------------------------------

// GameStatus is the backend's coarse game state.
type GameStatus string

const (
	StatusScheduled GameStatus = "scheduled"
	StatusLive      GameStatus = "live"
	StatusHalftime  GameStatus = "halftime"
	StatusFinished  GameStatus = "finished"
	StatusPostponed GameStatus = "postponed"
)

// Team is a basketball team as returned by the backend.
type Team struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Logo     string `json:"logo"`
	LeagueID int64  `json:"league_id"`
	Country  string `json:"country"`
}

// Score holds the running or final score of a game.
type Score struct {
	Home     int   `json:"home"`
	Away     int   `json:"away"`
	Quarter  int   `json:"quarter"`
	Periods  []int `json:"periods,omitempty"`
	Overtime bool  `json:"overtime"`
}

// Game is a single fixture, scheduled, live or finished.
type Game struct {
	ID       int64      `json:"id"`
	LeagueID int64      `json:"league_id"`
	SeasonID int64      `json:"season_id"`
	StartsAt time.Time  `json:"starts_at"`
	Status   GameStatus `json:"status"`
	Home     Team       `json:"home"`
	Away     Team       `json:"away"`
	Score    Score      `json:"score"`
	Venue    string     `json:"venue,omitempty"`
}

// League is a competition the backend knows about.
type League struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Country string   `json:"country"`
	Logo    string   `json:"logo"`
	Seasons []Season `json:"seasons,omitempty"`
}

// Season is one year (or split-year) edition of a league.
type Season struct {
	ID      int64     `json:"id"`
	Year    int       `json:"year"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Current bool      `json:"current"`
}

// StandingRow is one team's line in a standings table.
type StandingRow struct {
	Position      int    `json:"position"`
	Team          Team   `json:"team"`
	Played        int    `json:"played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
	Streak        string `json:"streak,omitempty"`
	GroupName     string `json:"group"`
}

// StandingsTable groups standing rows by conference/division/group.
type StandingsTable struct {
	LeagueID  int64         `json:"league_id"`
	SeasonID  int64         `json:"season_id"`
	GroupName string        `json:"group"`
	Rows      []StandingRow `json:"rows"`
}

// Pick is a user's prediction for a game.
type Pick struct {
	ID        int64     `json:"id"`
	GameID    int64     `json:"game_id"`
	UserID    string    `json:"user_id"`
	Winner    string    `json:"winner"` // "home" or "away"
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// PageParams is the common pagination pair used by listing endpoints.
type PageParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}
