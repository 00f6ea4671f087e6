package models

// Play is a single play-by-play row as published by nflverse.
// Drive and YardlineToGoal are nil when the source column is empty.
type Play struct {
	GameID          string   `json:"game_id"`
	PosTeam         string   `json:"posteam"`
	DefTeam         string   `json:"defteam"`
	Drive           *int     `json:"drive,omitempty"`
	YardlineToGoal  *float64 `json:"yardline_100,omitempty"`
	Touchdown       int      `json:"touchdown"`
	Week            int      `json:"week"`
	RushAttempt     int      `json:"rush_attempt"`
	PassAttempt     int      `json:"pass_attempt"`
	RusherID        string   `json:"rusher_player_id,omitempty"`
	RusherName      string   `json:"rusher_player_name,omitempty"`
	ReceiverID      string   `json:"receiver_player_id,omitempty"`
	ReceiverName    string   `json:"receiver_player_name,omitempty"`
	TwoPointAttempt int      `json:"two_point_attempt"`
	RushTouchdown   int      `json:"rush_touchdown"`
	PassTouchdown   int      `json:"pass_touchdown"`
}

// InRedZone reports whether the play started within 20 yards of the goal line.
func (p Play) InRedZone() bool {
	return p.YardlineToGoal != nil && *p.YardlineToGoal <= 20
}

// DriveKey identifies one team's drive within a game.
type DriveKey struct {
	GameID string
	Team   string
	Drive  int
}

// DriveOutcome is the touchdown result of a single drive (0 or 1).
type DriveOutcome struct {
	DriveKey
	Touchdown int
}
