package tdboost

import (
	"sort"
	"time"

	"github.com/stitts-dev/td-boost/internal/models"
)

// ReferenceOffset shifts "now" to the reference timezone used to decide which games
// are still upcoming.
const ReferenceOffset = -5 * time.Hour

// WeekSource records how the current week was determined.
type WeekSource string

const (
	WeekFromSchedule WeekSource = "schedule"
	WeekFromPlayData WeekSource = "play_data"
	WeekFromDefault  WeekSource = "default"
	WeekFromRequest  WeekSource = "request"
)

// ReferenceDate is the calendar date of now in the reference timezone.
func ReferenceDate(now time.Time) time.Time {
	ref := now.UTC().Add(ReferenceOffset)
	return time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
}

func gameDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CurrentWeek picks the week of the earliest game on or after today. Without future
// games it falls back to the week after the last played week, then to defaultWeek.
func CurrentWeek(games []models.ScheduledGame, now time.Time, lastPlayedWeek, defaultWeek int) (int, WeekSource) {
	today := ReferenceDate(now)

	upcoming := make([]models.ScheduledGame, 0, len(games))
	for _, g := range games {
		if g.GameDate.IsZero() {
			continue
		}
		if !gameDay(g.GameDate).Before(today) {
			upcoming = append(upcoming, g)
		}
	}

	if len(upcoming) > 0 {
		sort.SliceStable(upcoming, func(i, j int) bool {
			if upcoming[i].GameDate.Equal(upcoming[j].GameDate) {
				return upcoming[i].Week < upcoming[j].Week
			}
			return upcoming[i].GameDate.Before(upcoming[j].GameDate)
		})
		return upcoming[0].Week, WeekFromSchedule
	}

	if lastPlayedWeek > 0 {
		return lastPlayedWeek + 1, WeekFromPlayData
	}
	return defaultWeek, WeekFromDefault
}

// MatchupsForWeek lists the games scheduled for week ordered by date.
// A week without games returns an empty, non-nil slice.
func MatchupsForWeek(games []models.ScheduledGame, week int) []models.Matchup {
	matchups := make([]models.Matchup, 0)
	for _, g := range games {
		if g.Week != week {
			continue
		}
		matchups = append(matchups, models.Matchup{
			AwayTeam: g.AwayTeam,
			HomeTeam: g.HomeTeam,
			GameDate: g.GameDate,
			Week:     g.Week,
		})
	}
	sort.SliceStable(matchups, func(i, j int) bool {
		if matchups[i].GameDate.Equal(matchups[j].GameDate) {
			return matchups[i].HomeTeam < matchups[j].HomeTeam
		}
		return matchups[i].GameDate.Before(matchups[j].GameDate)
	})
	return matchups
}

// FindTeamMatchup returns the team's game in the given list, if any.
func FindTeamMatchup(matchups []models.Matchup, team string) (models.Matchup, bool) {
	for _, m := range matchups {
		if m.HomeTeam == team || m.AwayTeam == team {
			return m, true
		}
	}
	return models.Matchup{}, false
}
