package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("SEASON", 2025)

	cfg, err := decode(v)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2025, cfg.Season)
	assert.Equal(t, 2024, cfg.BaselineSeason)
	assert.Equal(t, 0.25, cfg.AdvantageWeight)
	assert.Equal(t, 30.0, cfg.AdvantageCapPct)
	assert.Equal(t, 10*time.Minute, cfg.OddsCacheTTL)
	assert.Equal(t, 60*time.Second, cfg.ExternalAPITimeout)
	assert.Equal(t, []string{"*"}, cfg.CorsOrigins)
	assert.Equal(t, "draftkings", cfg.BookmakerPriority[0])
	assert.True(t, cfg.IsDevelopment())
}

func TestDecode_Overrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("SEASON", 2025)
	v.Set("BASELINE_SEASON", 2023)
	v.Set("BOOKMAKER_PRIORITY", " fanduel , ,betmgm")
	v.Set("ENV", "production")
	v.Set("LOG_FORMAT", "text")

	cfg, err := decode(v)
	require.NoError(t, err)

	assert.Equal(t, 2023, cfg.BaselineSeason)
	assert.Equal(t, []string{"fanduel", "betmgm"}, cfg.BookmakerPriority)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestSeasonForDate(t *testing.T) {
	assert.Equal(t, 2025, SeasonForDate(time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2025, SeasonForDate(time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2026, SeasonForDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}
