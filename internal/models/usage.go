package models

// PlayerUsage is a player's share of the team's red-zone opportunities and touchdowns.
type PlayerUsage struct {
	PlayerID       string  `json:"player_id"`
	PlayerName     string  `json:"player_name"`
	RedZoneTouches int     `json:"rz_touches"`
	RedZoneShare   float64 `json:"rz_usage_share"`
	Touchdowns     int     `json:"touchdowns"`
	TouchdownShare float64 `json:"td_share"`
}

// TeamUsage is the player usage breakdown for one team.
type TeamUsage struct {
	Team               string        `json:"team"`
	Season             int           `json:"season"`
	RedZoneOpportunity int           `json:"team_rz_plays"`
	TeamTouchdowns     int           `json:"team_touchdowns"`
	Players            []PlayerUsage `json:"players"`
}
