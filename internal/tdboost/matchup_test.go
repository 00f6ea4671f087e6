package tdboost

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/td-boost/internal/models"
)

func testLeague() models.LeagueAverages {
	return models.LeagueAverages{
		Season:           2024,
		RZScoring:        50,
		RZAllow:          50,
		AllDrivesScoring: 20,
		AllDrivesAllow:   20,
	}
}

func TestPctChange(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		present   bool
		leagueAvg float64
		want      *float64
	}{
		{"above average", 60, true, 50, floatPtr(20)},
		{"below average", 45, true, 50, floatPtr(-10)},
		{"rounded", 57.3, true, 55.1, floatPtr(4)},
		{"missing team", 0, false, 50, nil},
		{"zero league average", 80, true, 0, floatPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PctChange(models.TeamRate{Rate: tt.rate}, tt.present, tt.leagueAvg)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestCombineDeviations(t *testing.T) {
	assert.Equal(t, 15.0, *CombineDeviations(floatPtr(10), floatPtr(20)))
	assert.Equal(t, 10.0, *CombineDeviations(floatPtr(10), nil))
	assert.Equal(t, -4.0, *CombineDeviations(nil, floatPtr(-4)))
	assert.Nil(t, CombineDeviations(nil, nil))
}

func TestInvertDeviation(t *testing.T) {
	assert.Equal(t, -20.0, *InvertDeviation(floatPtr(20)))
	assert.Equal(t, 7.5, *InvertDeviation(floatPtr(-7.5)))
	assert.False(t, math.Signbit(*InvertDeviation(floatPtr(0))))
	assert.Nil(t, InvertDeviation(nil))
}

func TestTotalAdvantage_SingleSideUsedDirectly(t *testing.T) {
	assert.Equal(t, 12.0, *TotalAdvantage(floatPtr(12), nil))
	assert.Equal(t, -8.0, *TotalAdvantage(nil, floatPtr(-8)))
	assert.Equal(t, 2.0, *TotalAdvantage(floatPtr(12), floatPtr(-8)))
	assert.Nil(t, TotalAdvantage(nil, nil))
}

func TestCalculateMatchup_DefenseOnly(t *testing.T) {
	current := models.SeasonRates{
		DefenseAllDrives: models.TeamRates{"LV": {Drives: 40, Touchdowns: 10, Rate: 25}},
	}

	result := CalculateMatchup(current, testLeague(), "KC", "LV")

	assert.Nil(t, result.Combined.OffenseCombined)
	assert.Equal(t, -25.0, *result.Combined.DefenseCombined)
	assert.Equal(t, 25.0, *result.Combined.TotalAdvantage)
}

func TestCalculateMatchup_DefenseSignInverted(t *testing.T) {
	current := models.SeasonRates{
		OffenseRedZone:   models.TeamRates{"KC": {Drives: 10, Touchdowns: 5, Rate: 50}},
		OffenseAllDrives: models.TeamRates{"KC": {Drives: 50, Touchdowns: 10, Rate: 20}},
		DefenseRedZone:   models.TeamRates{"LV": {Drives: 10, Touchdowns: 6, Rate: 60}},
		DefenseAllDrives: models.TeamRates{"LV": {Drives: 50, Touchdowns: 12, Rate: 24}},
	}

	result := CalculateMatchup(current, testLeague(), "KC", "LV")

	require.NotNil(t, result.RedZone.DefensePctChange)
	assert.Equal(t, 20.0, *result.RedZone.DefensePctChange)
	assert.Equal(t, 20.0, *result.AllDrives.DefensePctChange)
	assert.Equal(t, -20.0, *result.Combined.DefenseCombined)
	assert.Equal(t, 20.0, *result.Combined.DefenseVulnerability)
	assert.Equal(t, 0.0, *result.Combined.OffenseCombined)
	assert.Equal(t, 10.0, *result.Combined.TotalAdvantage)
	assert.Empty(t, result.Notes)
	assert.Equal(t, "KC vs LV", result.Matchup)
}

func TestCalculateMatchup_WorseDefenseRaisesAdvantage(t *testing.T) {
	league := testLeague()
	offense := models.TeamRates{"KC": {Drives: 10, Touchdowns: 5, Rate: 50}}

	previous := -1e9
	for _, allowRate := range []float64{30, 45, 50, 60, 75} {
		current := models.SeasonRates{
			OffenseRedZone: offense,
			DefenseRedZone: models.TeamRates{"LV": {Drives: 10, Rate: allowRate}},
		}
		total := CalculateMatchup(current, league, "KC", "LV").TotalAdvantagePct()
		assert.Greater(t, total, previous, "allow rate %.1f", allowRate)
		previous = total
	}
}

func TestCalculateMatchup_MissingTeamsDegradeToNil(t *testing.T) {
	current := models.SeasonRates{
		OffenseRedZone: models.TeamRates{"KC": {Drives: 10, Touchdowns: 7, Rate: 70}},
	}

	result := CalculateMatchup(current, testLeague(), "KC", "XYZ")

	assert.Equal(t, 40.0, *result.RedZone.OffensePctChange)
	assert.Nil(t, result.AllDrives.OffensePctChange)
	assert.Nil(t, result.RedZone.DefensePctChange)
	assert.Nil(t, result.AllDrives.DefensePctChange)
	assert.Equal(t, 40.0, *result.Combined.OffenseCombined)
	assert.Nil(t, result.Combined.DefenseCombined)
	assert.Equal(t, 40.0, *result.Combined.TotalAdvantage)
	assert.Len(t, result.Notes, 3)

	empty := CalculateMatchup(models.SeasonRates{}, testLeague(), "AAA", "BBB")
	assert.Nil(t, empty.Combined.TotalAdvantage)
	assert.Equal(t, 0.0, empty.TotalAdvantagePct())
}

func TestCalculateMatchup_ZeroLeagueAverage(t *testing.T) {
	current := models.SeasonRates{
		OffenseRedZone: models.TeamRates{"KC": {Drives: 10, Touchdowns: 7, Rate: 70}},
		DefenseRedZone: models.TeamRates{"LV": {Drives: 10, Touchdowns: 7, Rate: 70}},
	}

	result := CalculateMatchup(current, models.LeagueAverages{}, "KC", "LV")

	assert.Equal(t, 0.0, *result.RedZone.OffensePctChange)
	assert.Equal(t, 0.0, *result.Combined.DefenseCombined)
	assert.Equal(t, 0.0, *result.Combined.TotalAdvantage)
}
