package models

import "time"

// ScheduledGame is one row of the season schedule.
type ScheduledGame struct {
	GameID   string    `json:"game_id,omitempty"`
	Season   int       `json:"season"`
	GameType string    `json:"game_type,omitempty"`
	Week     int       `json:"week"`
	GameDate time.Time `json:"game_date"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
}

// Matchup is a scheduled pairing returned by the week resolver.
type Matchup struct {
	AwayTeam string    `json:"away_team"`
	HomeTeam string    `json:"home_team"`
	GameDate time.Time `json:"game_date"`
	Week     int       `json:"week"`
}
