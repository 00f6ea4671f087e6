package tdboost

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stitts-dev/td-boost/internal/models"
)

func TestPooledRate_IsDriveWeighted(t *testing.T) {
	rates := models.TeamRates{
		"NYJ": {Drives: 1, Touchdowns: 1, Rate: 100},
		"NE":  {Drives: 9, Touchdowns: 0, Rate: 0},
	}

	assert.Equal(t, 10.0, PooledRate(rates))
}

func TestPooledRate_ZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.0, PooledRate(models.TeamRates{}))
}

func TestComputeLeagueAverages(t *testing.T) {
	plays := append(redZoneDrives("a", "NYJ", "NE", 1, 1), redZoneDrives("b", "NE", "NYJ", 9, 0)...)
	playoff := redZoneDrives("c", "NE", "NYJ", 5, 5)
	for i := range playoff {
		playoff[i].Week = 20
	}
	plays = append(plays, playoff...)

	avg := ComputeLeagueAverages(plays, 2024)

	assert.Equal(t, 2024, avg.Season)
	assert.Equal(t, 10.0, avg.RZScoring)
	assert.Equal(t, 10.0, avg.RZAllow)
	assert.Equal(t, 10.0, avg.AllDrivesScoring)
	assert.Equal(t, 10.0, avg.AllDrivesAllow)
	assert.Equal(t, models.LeagueAverageSourceComputed, avg.Source)
}

func TestComputeLeagueAverages_NoPlays(t *testing.T) {
	avg := ComputeLeagueAverages(nil, 2024)

	assert.Zero(t, avg.RZScoring)
	assert.Zero(t, avg.RZAllow)
	assert.Zero(t, avg.AllDrivesScoring)
	assert.Zero(t, avg.AllDrivesAllow)
}

func TestConfiguredLeagueAverages(t *testing.T) {
	avg, ok := ConfiguredLeagueAverages(2024, 57.2, 57.2, 23.1, 23.1)
	assert.True(t, ok)
	assert.Equal(t, models.LeagueAverageSourceConfigured, avg.Source)
	assert.Equal(t, 23.1, avg.AllDrivesAllow)

	_, ok = ConfiguredLeagueAverages(2024, 57.2, 0, 23.1, 23.1)
	assert.False(t, ok)
}
