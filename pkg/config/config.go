package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	LogLevel    string   `mapstructure:"LOG_LEVEL"`
	LogFormat   string   `mapstructure:"LOG_FORMAT"` // json or text, empty picks by ENV
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Redis (optional, empty disables it and uses the in-memory cache)
	RedisURL     string        `mapstructure:"REDIS_URL"`
	OddsCacheTTL time.Duration `mapstructure:"ODDS_CACHE_TTL"`

	// Odds provider
	OddsAPIKey        string   `mapstructure:"ODDS_API_KEY"`
	OddsAPIBaseURL    string   `mapstructure:"ODDS_API_BASE_URL"`
	OddsRateLimit     int      `mapstructure:"ODDS_RATE_LIMIT"` // requests per minute
	BookmakerPriority []string `mapstructure:"BOOKMAKER_PRIORITY"`

	// Play-by-play and schedule provider
	PBPURLTemplate string `mapstructure:"PBP_URL_TEMPLATE"`
	ScheduleURL    string `mapstructure:"SCHEDULE_URL"`

	// Seasons
	Season         int `mapstructure:"SEASON"`
	BaselineSeason int `mapstructure:"BASELINE_SEASON"`
	DefaultWeek    int `mapstructure:"DEFAULT_WEEK"`

	// Fixed league averages; used instead of the baseline download when all four are set
	LeagueAvgRZScoring        float64 `mapstructure:"LEAGUE_AVG_RZ_SCORING"`
	LeagueAvgRZAllow          float64 `mapstructure:"LEAGUE_AVG_RZ_ALLOW"`
	LeagueAvgAllDrivesScoring float64 `mapstructure:"LEAGUE_AVG_ALL_DRIVES_SCORING"`
	LeagueAvgAllDrivesAllow   float64 `mapstructure:"LEAGUE_AVG_ALL_DRIVES_ALLOW"`

	// Blending
	AdvantageWeight float64 `mapstructure:"ADVANTAGE_WEIGHT"`
	AdvantageCapPct float64 `mapstructure:"ADVANTAGE_CAP_PCT"`

	// Startup / external calls
	ExternalAPITimeout      time.Duration `mapstructure:"EXTERNAL_API_TIMEOUT"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`
	CircuitBreakerTimeout   time.Duration `mapstructure:"CIRCUIT_BREAKER_TIMEOUT"`
	SkipInitialLoad         bool          `mapstructure:"SKIP_INITIAL_LOAD"`
	RefreshSchedule         string        `mapstructure:"REFRESH_SCHEDULE"` // cron spec, empty disables
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	setDefaults(viper.GetViper())

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("ODDS_CACHE_TTL", "10m")

	v.SetDefault("ODDS_API_KEY", "")
	v.SetDefault("ODDS_API_BASE_URL", "https://api.the-odds-api.com")
	v.SetDefault("ODDS_RATE_LIMIT", 30)
	v.SetDefault("BOOKMAKER_PRIORITY", "draftkings,fanduel,betmgm,caesars,williamhill_us,betrivers,bovada")

	v.SetDefault("PBP_URL_TEMPLATE", "https://github.com/nflverse/nflverse-data/releases/download/pbp/play_by_play_%d.csv.gz")
	v.SetDefault("SCHEDULE_URL", "https://raw.githubusercontent.com/nflverse/nfldata/master/data/games.csv")

	v.SetDefault("SEASON", 0)          // derived from the date
	v.SetDefault("BASELINE_SEASON", 0) // season - 1
	v.SetDefault("DEFAULT_WEEK", 1)

	v.SetDefault("LEAGUE_AVG_RZ_SCORING", 0)
	v.SetDefault("LEAGUE_AVG_RZ_ALLOW", 0)
	v.SetDefault("LEAGUE_AVG_ALL_DRIVES_SCORING", 0)
	v.SetDefault("LEAGUE_AVG_ALL_DRIVES_ALLOW", 0)

	v.SetDefault("ADVANTAGE_WEIGHT", 0.25)
	v.SetDefault("ADVANTAGE_CAP_PCT", 30.0)

	v.SetDefault("EXTERNAL_API_TIMEOUT", "60s") // play-by-play files are large
	v.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5)
	v.SetDefault("CIRCUIT_BREAKER_TIMEOUT", "60s")
	v.SetDefault("SKIP_INITIAL_LOAD", false)
	v.SetDefault("REFRESH_SCHEDULE", "0 9 * * *") // daily, after overnight nflverse updates
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse comma-separated lists
	config.CorsOrigins = splitList(v.GetString("CORS_ORIGINS"))
	config.BookmakerPriority = splitList(v.GetString("BOOKMAKER_PRIORITY"))

	if config.Season == 0 {
		config.Season = SeasonForDate(time.Now())
	}
	if config.BaselineSeason == 0 {
		config.BaselineSeason = config.Season - 1
	}

	return &config, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SeasonForDate returns the NFL season a date belongs to. January and February
// games are part of the previous year's season.
func SeasonForDate(t time.Time) int {
	if t.Month() < time.March {
		return t.Year() - 1
	}
	return t.Year()
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
