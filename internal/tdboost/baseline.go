package tdboost

import (
	"time"

	"github.com/stitts-dev/td-boost/internal/models"
)

// ComputeLeagueAverages pools every regular-season drive of the baseline season.
// Each average is total touchdowns over total drives, not a mean of team rates.
func ComputeLeagueAverages(plays []models.Play, season int) models.LeagueAverages {
	rates := BuildSeasonRates(plays, AggregateOptions{RegularSeasonOnly: true})
	return LeagueAveragesFromRates(rates, season)
}

// LeagueAveragesFromRates pools already aggregated baseline rates.
func LeagueAveragesFromRates(rates models.SeasonRates, season int) models.LeagueAverages {
	return models.LeagueAverages{
		Season:           season,
		RZScoring:        PooledRate(rates.OffenseRedZone),
		RZAllow:          PooledRate(rates.DefenseRedZone),
		AllDrivesScoring: PooledRate(rates.OffenseAllDrives),
		AllDrivesAllow:   PooledRate(rates.DefenseAllDrives),
		Source:           models.LeagueAverageSourceComputed,
		ComputedAt:       time.Now().UTC(),
	}
}

// PooledRate is the drive-weighted touchdown rate across all teams.
func PooledRate(rates models.TeamRates) float64 {
	var drives, touchdowns int
	for _, r := range rates {
		drives += r.Drives
		touchdowns += r.Touchdowns
	}
	return Rate(touchdowns, drives)
}

// ConfiguredLeagueAverages returns fixed averages when all four are positive.
func ConfiguredLeagueAverages(season int, rzScoring, rzAllow, allScoring, allAllow float64) (models.LeagueAverages, bool) {
	if rzScoring <= 0 || rzAllow <= 0 || allScoring <= 0 || allAllow <= 0 {
		return models.LeagueAverages{}, false
	}
	return models.LeagueAverages{
		Season:           season,
		RZScoring:        rzScoring,
		RZAllow:          rzAllow,
		AllDrivesScoring: allScoring,
		AllDrivesAllow:   allAllow,
		Source:           models.LeagueAverageSourceConfigured,
		ComputedAt:       time.Now().UTC(),
	}, true
}
