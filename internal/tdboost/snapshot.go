package tdboost

import (
	"time"

	"github.com/stitts-dev/td-boost/internal/models"
)

// SeasonSnapshot is everything an analysis needs from the data providers.
// A snapshot is never mutated after it is built; refreshes build a new one.
type SeasonSnapshot struct {
	Season         int                    `json:"season"`
	League         models.LeagueAverages  `json:"league_averages"`
	Current        models.SeasonRates     `json:"current"`
	Plays          []models.Play          `json:"-"`
	Schedule       []models.ScheduledGame `json:"-"`
	LastPlayedWeek int                    `json:"last_played_week"`
	LoadedAt       time.Time              `json:"loaded_at"`
}

// NewSeasonSnapshot aggregates the current season in full, playoffs included.
func NewSeasonSnapshot(season int, league models.LeagueAverages, plays []models.Play, schedule []models.ScheduledGame) *SeasonSnapshot {
	return &SeasonSnapshot{
		Season:         season,
		League:         league,
		Current:        BuildSeasonRates(plays, AggregateOptions{}),
		Plays:          plays,
		Schedule:       schedule,
		LastPlayedWeek: LastPlayedWeek(plays),
		LoadedAt:       time.Now().UTC(),
	}
}

// LastPlayedWeek is the highest week with any play data, or 0 without data.
func LastPlayedWeek(plays []models.Play) int {
	last := 0
	for _, p := range plays {
		if p.Week > last {
			last = p.Week
		}
	}
	return last
}

// SnapshotSummary describes the coverage of a snapshot.
type SnapshotSummary struct {
	Season          int       `json:"season"`
	Plays           int       `json:"plays"`
	ScheduledGames  int       `json:"scheduled_games"`
	LastPlayedWeek  int       `json:"last_played_week"`
	OffenseRZTeams  []string  `json:"offense_rz_teams"`
	DefenseRZTeams  []string  `json:"defense_rz_teams"`
	OffenseAllTeams []string  `json:"offense_all_teams"`
	DefenseAllTeams []string  `json:"defense_all_teams"`
	LeagueSource    string    `json:"league_source"`
	LoadedAt        time.Time `json:"loaded_at"`
}

// Summary reports which teams have data in each rate family.
func (s *SeasonSnapshot) Summary() SnapshotSummary {
	return SnapshotSummary{
		Season:          s.Season,
		Plays:           len(s.Plays),
		ScheduledGames:  len(s.Schedule),
		LastPlayedWeek:  s.LastPlayedWeek,
		OffenseRZTeams:  s.Current.OffenseRedZone.Teams(),
		DefenseRZTeams:  s.Current.DefenseRedZone.Teams(),
		OffenseAllTeams: s.Current.OffenseAllDrives.Teams(),
		DefenseAllTeams: s.Current.DefenseAllDrives.Teams(),
		LeagueSource:    s.League.Source,
		LoadedAt:        s.LoadedAt,
	}
}
