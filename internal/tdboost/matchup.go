package tdboost

import (
	"fmt"
	"time"

	"github.com/stitts-dev/td-boost/internal/models"
)

// PctChange is the deviation of a team's rate from the league average, in percent.
// A team without qualifying drives yields nil; a zero league average yields 0.
func PctChange(rate models.TeamRate, present bool, leagueAvg float64) *float64 {
	if !present {
		return nil
	}
	if leagueAvg <= 0 {
		return floatPtr(0)
	}
	return floatPtr(round1((rate.Rate - leagueAvg) / leagueAvg * 100))
}

// CombineDeviations averages two deviations, falling back to whichever is present.
func CombineDeviations(a, b *float64) *float64 {
	switch {
	case a != nil && b != nil:
		return floatPtr(round1((*a + *b) / 2))
	case a != nil:
		return floatPtr(*a)
	case b != nil:
		return floatPtr(*b)
	default:
		return nil
	}
}

// InvertDeviation flips the sign of a defensive deviation so that a defense allowing
// more touchdowns than average reads as an advantage for the opposing offense.
func InvertDeviation(v *float64) *float64 {
	if v == nil {
		return nil
	}
	if *v == 0 {
		return floatPtr(0)
	}
	return floatPtr(round1(-*v))
}

// TotalAdvantage averages the offense combination with the defense vulnerability
// (the negated defense combination). When only one side has data it is used as is,
// not halved.
func TotalAdvantage(offense, defense *float64) *float64 {
	switch {
	case offense != nil && defense != nil:
		return floatPtr(round1((*offense + *defense) / 2))
	case offense != nil:
		return floatPtr(*offense)
	case defense != nil:
		return floatPtr(*defense)
	default:
		return nil
	}
}

func ratePtr(rate models.TeamRate, present bool) *float64 {
	if !present {
		return nil
	}
	return floatPtr(rate.Rate)
}

// CalculateMatchup computes the touchdown advantage of offense against defense.
// Missing teams never fail the calculation; they leave nil fields and a note.
func CalculateMatchup(current models.SeasonRates, league models.LeagueAverages, offense, defense string) models.MatchupAdvantage {
	result := models.MatchupAdvantage{
		Matchup:      fmt.Sprintf("%s vs %s", offense, defense),
		OffenseTeam:  offense,
		DefenseTeam:  defense,
		AnalysisDate: time.Now().UTC(),
	}

	offRZ, hasOffRZ := current.OffenseRedZone[offense]
	defRZ, hasDefRZ := current.DefenseRedZone[defense]
	offAll, hasOffAll := current.OffenseAllDrives[offense]
	defAll, hasDefAll := current.DefenseAllDrives[defense]

	result.RedZone = models.RedZoneAnalysis{
		OffensePctChange: PctChange(offRZ, hasOffRZ, league.RZScoring),
		OffenseRate:      ratePtr(offRZ, hasOffRZ),
		LeagueScoringAvg: league.RZScoring,
		DefensePctChange: PctChange(defRZ, hasDefRZ, league.RZAllow),
		DefenseRate:      ratePtr(defRZ, hasDefRZ),
		LeagueAllowAvg:   league.RZAllow,
	}
	result.AllDrives = models.AllDrivesAnalysis{
		OffensePctChange: PctChange(offAll, hasOffAll, league.AllDrivesScoring),
		OffenseRate:      ratePtr(offAll, hasOffAll),
		LeagueScoringAvg: league.AllDrivesScoring,
		DefensePctChange: PctChange(defAll, hasDefAll, league.AllDrivesAllow),
		DefenseRate:      ratePtr(defAll, hasDefAll),
		LeagueAllowAvg:   league.AllDrivesAllow,
	}

	if !hasOffRZ {
		result.Notes = append(result.Notes, fmt.Sprintf("No %s red zone offense data found", offense))
	}
	if !hasDefRZ {
		result.Notes = append(result.Notes, fmt.Sprintf("No %s red zone defense data found", defense))
	}
	if !hasOffAll {
		result.Notes = append(result.Notes, fmt.Sprintf("No %s all drives offense data found", offense))
	}
	if !hasDefAll {
		result.Notes = append(result.Notes, fmt.Sprintf("No %s all drives defense data found", defense))
	}

	offCombined := CombineDeviations(result.RedZone.OffensePctChange, result.AllDrives.OffensePctChange)
	defCombined := InvertDeviation(CombineDeviations(result.RedZone.DefensePctChange, result.AllDrives.DefensePctChange))

	vulnerability := InvertDeviation(defCombined)

	result.Combined = models.CombinedAnalysis{
		OffenseCombined:      offCombined,
		DefenseCombined:      defCombined,
		DefenseVulnerability: vulnerability,
		TotalAdvantage:       TotalAdvantage(offCombined, vulnerability),
		Explanation: map[string]string{
			"offense_combined": fmt.Sprintf("Average of %s red zone and all drives TD rate %% change vs %d league averages", offense, league.Season),
			"defense_combined": fmt.Sprintf("Inverted average of %s red zone and all drives TD allow rate %% change (worse defense helps offense)", defense),
			"total_advantage":  "Average of offense boost and defense vulnerability (a leaky defense raises it); a single available side is used directly",
			"calculation_note": fmt.Sprintf("Red zone stats only count drives with %d+ plays inside the %d", MinRedZonePlays, RedZoneYardline),
		},
	}

	return result
}
