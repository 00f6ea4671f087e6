package models

import (
	"sort"
	"time"
)

// TeamRate is a team's touchdown rate over the drives that qualified for one aggregation.
type TeamRate struct {
	Drives     int     `json:"drives"`
	Touchdowns int     `json:"touchdowns"`
	Rate       float64 `json:"rate"`
}

// TeamRates maps a team code to its rate.
type TeamRates map[string]TeamRate

// Teams returns the sorted team codes present.
func (r TeamRates) Teams() []string {
	teams := make([]string, 0, len(r))
	for team := range r {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// SeasonRates holds the four rate families for one season.
type SeasonRates struct {
	OffenseRedZone   TeamRates `json:"offense_rz"`
	DefenseRedZone   TeamRates `json:"defense_rz"`
	OffenseAllDrives TeamRates `json:"offense_all"`
	DefenseAllDrives TeamRates `json:"defense_all"`
}

// LeagueAverages is the drive-weighted league baseline for each rate family.
type LeagueAverages struct {
	Season           int       `json:"season"`
	RZScoring        float64   `json:"rz_scoring"`
	RZAllow          float64   `json:"rz_allow"`
	AllDrivesScoring float64   `json:"all_drives_scoring"`
	AllDrivesAllow   float64   `json:"all_drives_allow"`
	Source           string    `json:"source"`
	ComputedAt       time.Time `json:"computed_at"`
}

const (
	LeagueAverageSourceComputed   = "computed"
	LeagueAverageSourceConfigured = "configured"
)
