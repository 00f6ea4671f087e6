package tdboost

import (
	"github.com/stitts-dev/td-boost/internal/models"
)

// Mode selects which drives an aggregation considers.
type Mode string

const (
	// ModeRedZone keeps plays inside the 20 and drops drives with fewer than
	// MinRedZonePlays such plays.
	ModeRedZone Mode = "red_zone"
	// ModeAllDrives keeps every play that belongs to a drive.
	ModeAllDrives Mode = "all_drives"
)

// Role selects the team column a drive is credited to.
type Role string

const (
	RoleOffense Role = "offense"
	RoleDefense Role = "defense"
)

const (
	RedZoneYardline        = 20
	MinRedZonePlays        = 2
	RegularSeasonFinalWeek = 18
)

// AggregateOptions tunes the play filter applied before grouping.
type AggregateOptions struct {
	// RegularSeasonOnly drops playoff weeks. Only the baseline season uses it.
	RegularSeasonOnly bool
}

// FilterPlays applies the week and mode filters shared by every aggregation.
// Offense and defense aggregations must be computed from the same filtered set.
func FilterPlays(plays []models.Play, mode Mode, opts AggregateOptions) []models.Play {
	filtered := make([]models.Play, 0, len(plays))
	for _, p := range plays {
		if opts.RegularSeasonOnly && p.Week > RegularSeasonFinalWeek {
			continue
		}
		if p.Drive == nil {
			continue
		}
		if mode == ModeRedZone && !p.InRedZone() {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func teamFor(p models.Play, role Role) string {
	if role == RoleDefense {
		return p.DefTeam
	}
	return p.PosTeam
}

// DriveOutcomes reduces plays to one touchdown outcome per (game, team, drive).
// Outcomes are returned in first-seen order.
func DriveOutcomes(plays []models.Play, mode Mode, role Role, opts AggregateOptions) []models.DriveOutcome {
	filtered := FilterPlays(plays, mode, opts)

	type driveState struct {
		plays     int
		touchdown int
	}
	states := make(map[models.DriveKey]*driveState)
	order := make([]models.DriveKey, 0)

	for _, p := range filtered {
		team := teamFor(p, role)
		if team == "" {
			continue
		}
		key := models.DriveKey{GameID: p.GameID, Team: team, Drive: *p.Drive}
		st, ok := states[key]
		if !ok {
			st = &driveState{}
			states[key] = st
			order = append(order, key)
		}
		st.plays++
		if p.Touchdown > 0 {
			st.touchdown = 1
		}
	}

	outcomes := make([]models.DriveOutcome, 0, len(order))
	for _, key := range order {
		st := states[key]
		if mode == ModeRedZone && st.plays < MinRedZonePlays {
			continue
		}
		outcomes = append(outcomes, models.DriveOutcome{DriveKey: key, Touchdown: st.touchdown})
	}
	return outcomes
}

// Aggregate computes per-team drive counts, touchdown counts and touchdown rates.
// Teams without a qualifying drive are omitted.
func Aggregate(plays []models.Play, mode Mode, role Role, opts AggregateOptions) models.TeamRates {
	return ratesFromOutcomes(DriveOutcomes(plays, mode, role, opts))
}

func ratesFromOutcomes(outcomes []models.DriveOutcome) models.TeamRates {
	rates := make(models.TeamRates)
	for _, o := range outcomes {
		r := rates[o.Team]
		r.Drives++
		r.Touchdowns += o.Touchdown
		rates[o.Team] = r
	}
	for team, r := range rates {
		if r.Drives == 0 {
			delete(rates, team)
			continue
		}
		r.Rate = Rate(r.Touchdowns, r.Drives)
		rates[team] = r
	}
	return rates
}

// Rate is the touchdown percentage rounded to one decimal. Zero drives yields 0.
func Rate(touchdowns, drives int) float64 {
	if drives == 0 {
		return 0
	}
	return round1(100 * float64(touchdowns) / float64(drives))
}

// BuildSeasonRates runs all four mode and role combinations over one season of plays.
func BuildSeasonRates(plays []models.Play, opts AggregateOptions) models.SeasonRates {
	return models.SeasonRates{
		OffenseRedZone:   Aggregate(plays, ModeRedZone, RoleOffense, opts),
		DefenseRedZone:   Aggregate(plays, ModeRedZone, RoleDefense, opts),
		OffenseAllDrives: Aggregate(plays, ModeAllDrives, RoleOffense, opts),
		DefenseAllDrives: Aggregate(plays, ModeAllDrives, RoleDefense, opts),
	}
}
