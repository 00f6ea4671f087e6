package tdboost

import (
	"math"
	"sort"

	"github.com/stitts-dev/td-boost/internal/models"
)

const (
	// TouchdownPointShare is the share of a team's points assumed to come from touchdowns.
	TouchdownPointShare = 0.75
	PointsPerTouchdown  = 7.0

	DefaultAdvantageWeight = 0.25
	DefaultAdvantageCapPct = 30.0
)

// BlendOptions controls how strongly the matchup advantage moves the market number.
// It is passed per request.
type BlendOptions struct {
	Weight float64 `json:"weight"`
	CapPct float64 `json:"cap_pct"`
}

// DefaultBlendOptions returns the season-constant weight and cap.
func DefaultBlendOptions() BlendOptions {
	return BlendOptions{Weight: DefaultAdvantageWeight, CapPct: DefaultAdvantageCapPct}
}

// SelectLine takes the first bookmaker in priority order that quotes both a total and
// a spread for the event. With an empty priority list every bookmaker is eligible in
// the order the provider returned them.
func SelectLine(event models.OddsEvent, priority []string) (models.MarketLine, bool) {
	candidates := event.Bookmakers
	if len(priority) > 0 {
		byKey := make(map[string]models.Bookmaker, len(event.Bookmakers))
		for _, b := range event.Bookmakers {
			byKey[b.Key] = b
		}
		candidates = candidates[:0:0]
		for _, key := range priority {
			if b, ok := byKey[key]; ok {
				candidates = append(candidates, b)
			}
		}
	}

	for _, b := range candidates {
		total, okTotal := totalPoint(b)
		homeSpread, awaySpread, okSpread := spreadPoints(b, event)
		if !okTotal || !okSpread {
			continue
		}
		homePts, awayPts := ImpliedPoints(total, homeSpread, awaySpread)
		return models.MarketLine{
			EventID:        event.ID,
			Bookmaker:      b.Key,
			HomeTeam:       event.HomeTeam,
			AwayTeam:       event.AwayTeam,
			Total:          total,
			HomeSpread:     homeSpread,
			AwaySpread:     awaySpread,
			HomeImpliedPts: homePts,
			AwayImpliedPts: awayPts,
			HomeImpliedTDs: ImpliedTouchdowns(homePts),
			AwayImpliedTDs: ImpliedTouchdowns(awayPts),
		}, true
	}
	return models.MarketLine{}, false
}

func findMarket(b models.Bookmaker, key string) (models.Market, bool) {
	for _, m := range b.Markets {
		if m.Key == key {
			return m, true
		}
	}
	return models.Market{}, false
}

func totalPoint(b models.Bookmaker) (float64, bool) {
	m, ok := findMarket(b, models.MarketTotals)
	if !ok {
		return 0, false
	}
	for _, o := range m.Outcomes {
		if o.Name == "Over" && o.Point != nil {
			return *o.Point, true
		}
	}
	for _, o := range m.Outcomes {
		if o.Point != nil {
			return *o.Point, true
		}
	}
	return 0, false
}

func spreadPoints(b models.Bookmaker, event models.OddsEvent) (home, away float64, ok bool) {
	m, found := findMarket(b, models.MarketSpreads)
	if !found {
		return 0, 0, false
	}
	var homeSpread, awaySpread *float64
	for _, o := range m.Outcomes {
		if o.Point == nil {
			continue
		}
		switch o.Name {
		case event.HomeName, event.HomeTeam:
			homeSpread = o.Point
		case event.AwayName, event.AwayTeam:
			awaySpread = o.Point
		}
	}
	switch {
	case homeSpread != nil && awaySpread != nil:
		return *homeSpread, *awaySpread, true
	case homeSpread != nil:
		return *homeSpread, -*homeSpread, true
	case awaySpread != nil:
		return -*awaySpread, *awaySpread, true
	default:
		return 0, 0, false
	}
}

// ImpliedPoints splits a game total into team totals using the spread.
func ImpliedPoints(total, homeSpread, awaySpread float64) (home, away float64) {
	if homeSpread < 0 {
		home = (total - homeSpread) / 2
		away = (total + homeSpread) / 2
		return home, away
	}
	away = (total - awaySpread) / 2
	home = (total + awaySpread) / 2
	return home, away
}

// ImpliedTouchdowns converts implied points into expected touchdowns, two decimals.
func ImpliedTouchdowns(points float64) float64 {
	return round2(points * TouchdownPointShare / PointsPerTouchdown)
}

// CapAdvantage converts an advantage percentage into a fraction clamped to ±capPct.
func CapAdvantage(advantagePct, capPct float64) float64 {
	limit := math.Abs(capPct) / 100
	fraction := advantagePct / 100
	return math.Max(-limit, math.Min(limit, fraction))
}

// ProjectTouchdowns adjusts implied touchdowns by the capped advantage scaled by the
// weight. A nil advantage leaves the market number unchanged.
func ProjectTouchdowns(impliedTDs float64, advantagePct *float64, opts BlendOptions) (cappedFraction, projected float64) {
	if advantagePct != nil {
		cappedFraction = CapAdvantage(*advantagePct, opts.CapPct)
	}
	return cappedFraction, round2(impliedTDs * (1 + opts.Weight*cappedFraction))
}

// BlendGame produces both team projections for one game. homeAdv is the home offense
// against the away defense; awayAdv the reverse.
func BlendGame(line models.MarketLine, homeAdv, awayAdv *models.MatchupAdvantage, opts BlendOptions) (home, away models.TeamProjection) {
	home = blendTeam(line.HomeTeam, line.AwayTeam, true, line.HomeImpliedPts, line.HomeImpliedTDs, homeAdv, opts)
	away = blendTeam(line.AwayTeam, line.HomeTeam, false, line.AwayImpliedPts, line.AwayImpliedTDs, awayAdv, opts)
	return home, away
}

func blendTeam(team, opponent string, isHome bool, impliedPts, impliedTDs float64, adv *models.MatchupAdvantage, opts BlendOptions) models.TeamProjection {
	var advantage *float64
	if adv != nil {
		advantage = adv.Combined.TotalAdvantage
	}
	fraction, projected := ProjectTouchdowns(impliedTDs, advantage, opts)
	return models.TeamProjection{
		Team:            team,
		Opponent:        opponent,
		IsHome:          isHome,
		ImpliedPoints:   impliedPts,
		ImpliedTDs:      impliedTDs,
		AdvantagePct:    advantage,
		CappedAdvantage: round1(fraction * 100),
		ProjectedTDs:    projected,
	}
}

// RankGames orders games by combined projected touchdowns, highest first, and returns
// every team projection ranked by projected touchdowns.
func RankGames(games []models.GameProjection) []models.TeamProjection {
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].TotalProjectedTDs() > games[j].TotalProjectedTDs()
	})

	teams := make([]models.TeamProjection, 0, len(games)*2)
	for _, g := range games {
		teams = append(teams, g.Home, g.Away)
	}
	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].ProjectedTDs == teams[j].ProjectedTDs {
			return teams[i].Team < teams[j].Team
		}
		return teams[i].ProjectedTDs > teams[j].ProjectedTDs
	})
	for i := range teams {
		teams[i].Rank = i + 1
	}
	return teams
}
