package models

import "time"

// RedZoneAnalysis compares the matchup's red-zone rates with the league baseline.
type RedZoneAnalysis struct {
	OffensePctChange *float64 `json:"offense_rz_pct_change_vs_league"`
	OffenseRate      *float64 `json:"offense_current_rz_td_rate,omitempty"`
	LeagueScoringAvg float64  `json:"league_rz_scoring_avg"`
	DefensePctChange *float64 `json:"defense_rz_pct_change_vs_league"`
	DefenseRate      *float64 `json:"defense_current_rz_allow_rate,omitempty"`
	LeagueAllowAvg   float64  `json:"league_rz_allow_avg"`
}

// AllDrivesAnalysis compares the matchup's all-drive rates with the league baseline.
type AllDrivesAnalysis struct {
	OffensePctChange *float64 `json:"offense_all_drives_pct_change_vs_league"`
	OffenseRate      *float64 `json:"offense_current_all_drives_td_rate,omitempty"`
	LeagueScoringAvg float64  `json:"league_all_drives_scoring_avg"`
	DefensePctChange *float64 `json:"defense_all_drives_pct_change_vs_league"`
	DefenseRate      *float64 `json:"defense_current_all_drives_allow_rate,omitempty"`
	LeagueAllowAvg   float64  `json:"league_all_drives_allow_avg"`
}

// CombinedAnalysis folds the red-zone and all-drive deviations into one number per side.
// DefenseCombined is the sign-inverted defense deviation, so a defense allowing 20%
// more touchdowns than average reads -20. DefenseVulnerability is its negation and is
// what the total averages in, so a leakier defense raises the offense's advantage.
type CombinedAnalysis struct {
	OffenseCombined      *float64          `json:"offense_combined_pct_change"`
	DefenseCombined      *float64          `json:"defense_combined_pct_change"`
	DefenseVulnerability *float64          `json:"defense_vulnerability_pct"`
	TotalAdvantage       *float64          `json:"total_team_td_advantage_pct"`
	Explanation          map[string]string `json:"explanation,omitempty"`
}

// MatchupAdvantage is the touchdown advantage of one offense against one defense.
type MatchupAdvantage struct {
	Matchup      string            `json:"matchup"`
	OffenseTeam  string            `json:"offense_team"`
	DefenseTeam  string            `json:"defense_team"`
	RedZone      RedZoneAnalysis   `json:"red_zone"`
	AllDrives    AllDrivesAnalysis `json:"all_drives"`
	Combined     CombinedAnalysis  `json:"combined_team_analysis"`
	Notes        []string          `json:"notes,omitempty"`
	AnalysisDate time.Time         `json:"analysis_date"`
}

// TotalAdvantagePct returns the total advantage, treating a missing value as zero.
func (m MatchupAdvantage) TotalAdvantagePct() float64 {
	if m.Combined.TotalAdvantage == nil {
		return 0
	}
	return *m.Combined.TotalAdvantage
}
