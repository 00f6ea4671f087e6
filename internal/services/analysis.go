package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/td-boost/internal/models"
	"github.com/stitts-dev/td-boost/internal/tdboost"
	"github.com/stitts-dev/td-boost/pkg/utils"
)

const oddsSport = "americanfootball_nfl"

var ErrNoMarketData = errors.New("no market data available")

// OddsSource provides sportsbook events.
type OddsSource interface {
	FetchEvents(ctx context.Context) ([]models.OddsEvent, error)
}

type AnalysisConfig struct {
	BookmakerPriority []string
	OddsCacheTTL      time.Duration
	DefaultWeek       int
	Blend             tdboost.BlendOptions
}

// AnalysisRequest parameterises one analysis run.
type AnalysisRequest struct {
	// Week 0 resolves the current week.
	Week int
	// Blend overrides the configured weight and cap.
	Blend *tdboost.BlendOptions
}

// WeekResolution is the week an analysis runs against and its games.
type WeekResolution struct {
	Season   int                `json:"season"`
	Week     int                `json:"week"`
	Source   tdboost.WeekSource `json:"week_source"`
	Matchups []models.Matchup   `json:"matchups"`
}

// GameAdvantages holds both directions of one game: the home offense against the away
// defense, and the away offense against the home defense.
type GameAdvantages struct {
	Matchup models.Matchup          `json:"matchup"`
	Home    models.MatchupAdvantage `json:"home_offense"`
	Away    models.MatchupAdvantage `json:"away_offense"`
}

type WeekAdvantages struct {
	WeekResolution
	Games []GameAdvantages `json:"games"`
}

// TeamAdvantage is one team's current-week game seen from both sides of the ball.
type TeamAdvantage struct {
	Season   int                     `json:"season"`
	Week     int                     `json:"week"`
	Team     string                  `json:"team"`
	Opponent string                  `json:"opponent"`
	IsHome   bool                    `json:"is_home"`
	GameDate time.Time               `json:"game_date"`
	Offense  models.MatchupAdvantage `json:"offense"`
	Defense  models.MatchupAdvantage `json:"defense"`
}

type AnalysisService struct {
	store    SnapshotProvider
	odds     OddsSource
	cache    Cache
	breakers *CircuitBreakerService
	cfg      AnalysisConfig
	logger   *logrus.Logger
	now      func() time.Time
}

func NewAnalysisService(store SnapshotProvider, odds OddsSource, cache Cache, breakers *CircuitBreakerService, cfg AnalysisConfig, logger *logrus.Logger) *AnalysisService {
	return &AnalysisService{
		store:    store,
		odds:     odds,
		cache:    cache,
		breakers: breakers,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// ResolveWeek picks the requested week, or the current one when week is 0, and lists its games.
func (s *AnalysisService) ResolveWeek(ctx context.Context, week int) (*WeekResolution, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load season data: %w", err)
	}
	res := s.resolve(snap, week)
	return &res, nil
}

func (s *AnalysisService) resolve(snap *tdboost.SeasonSnapshot, week int) WeekResolution {
	source := tdboost.WeekFromRequest
	if week <= 0 {
		week, source = tdboost.CurrentWeek(snap.Schedule, s.now(), snap.LastPlayedWeek, s.cfg.DefaultWeek)
	}
	return WeekResolution{
		Season:   snap.Season,
		Week:     week,
		Source:   source,
		Matchups: tdboost.MatchupsForWeek(snap.Schedule, week),
	}
}

// LeagueAverages returns the baseline in use.
func (s *AnalysisService) LeagueAverages(ctx context.Context) (models.LeagueAverages, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return models.LeagueAverages{}, fmt.Errorf("failed to load season data: %w", err)
	}
	return snap.League, nil
}

// Matchup computes a single offense against defense advantage.
func (s *AnalysisService) Matchup(ctx context.Context, offense, defense string) (models.MatchupAdvantage, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return models.MatchupAdvantage{}, fmt.Errorf("failed to load season data: %w", err)
	}
	return tdboost.CalculateMatchup(snap.Current, snap.League, offense, defense), nil
}

// WeekAdvantages computes both directions of every game in a week.
func (s *AnalysisService) WeekAdvantages(ctx context.Context, week int) (*WeekAdvantages, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load season data: %w", err)
	}

	res := s.resolve(snap, week)
	out := &WeekAdvantages{
		WeekResolution: res,
		Games:          make([]GameAdvantages, 0, len(res.Matchups)),
	}
	for _, m := range res.Matchups {
		out.Games = append(out.Games, GameAdvantages{
			Matchup: m,
			Home:    tdboost.CalculateMatchup(snap.Current, snap.League, m.HomeTeam, m.AwayTeam),
			Away:    tdboost.CalculateMatchup(snap.Current, snap.League, m.AwayTeam, m.HomeTeam),
		})
	}
	return out, nil
}

// TeamAdvantages finds the team's game in the current week and analyses both sides.
func (s *AnalysisService) TeamAdvantages(ctx context.Context, team string) (*TeamAdvantage, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load season data: %w", err)
	}

	res := s.resolve(snap, 0)
	m, ok := tdboost.FindTeamMatchup(res.Matchups, team)
	if !ok {
		return nil, fmt.Errorf("no week %d game for %s: %w", res.Week, team, utils.ErrNotFound)
	}

	isHome := m.HomeTeam == team
	opponent := m.HomeTeam
	if isHome {
		opponent = m.AwayTeam
	}
	return &TeamAdvantage{
		Season:   res.Season,
		Week:     res.Week,
		Team:     team,
		Opponent: opponent,
		IsHome:   isHome,
		GameDate: m.GameDate,
		Offense:  tdboost.CalculateMatchup(snap.Current, snap.League, team, opponent),
		Defense:  tdboost.CalculateMatchup(snap.Current, snap.League, opponent, team),
	}, nil
}

// PlayerUsage aggregates a team's red zone usage over the current season.
func (s *AnalysisService) PlayerUsage(ctx context.Context, team string) (models.TeamUsage, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return models.TeamUsage{}, fmt.Errorf("failed to load season data: %w", err)
	}
	return tdboost.PlayerUsage(snap.Plays, team, snap.Season), nil
}

// Analyze blends market lines with matchup advantages for every game of a week and
// ranks them. Games without a usable line are skipped.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*models.WeeklyAnalysis, error) {
	opts := s.cfg.Blend
	if req.Blend != nil {
		opts = *req.Blend
	}

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load season data: %w", err)
	}
	res := s.resolve(snap, req.Week)

	log := s.logger.WithFields(logrus.Fields{
		"component": "analysis",
		"season":    res.Season,
		"week":      res.Week,
	})

	analysis := &models.WeeklyAnalysis{
		Season:       res.Season,
		Week:         res.Week,
		Games:        make([]models.GameProjection, 0, len(res.Matchups)),
		TeamRankings: []models.TeamProjection{},
		Weight:       opts.Weight,
		CapPct:       opts.CapPct,
		GeneratedAt:  s.now().UTC(),
	}
	if len(res.Matchups) == 0 {
		log.Info("No games scheduled for week")
		return analysis, nil
	}

	events, err := s.marketEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market data: %w", err)
	}
	if len(events) == 0 {
		return nil, ErrNoMarketData
	}

	for _, m := range res.Matchups {
		label := fmt.Sprintf("%s@%s", m.AwayTeam, m.HomeTeam)
		game, reason, err := s.blendMatchup(snap, m, events, opts)
		if err != nil {
			log.WithError(err).WithField("game", label).Error("Failed to analyse game, skipping")
			analysis.Skipped = append(analysis.Skipped, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		if game == nil {
			log.WithField("game", label).Debug("Skipping game: " + reason)
			analysis.Skipped = append(analysis.Skipped, label+": "+reason)
			continue
		}
		analysis.Games = append(analysis.Games, *game)
	}

	analysis.TeamRankings = tdboost.RankGames(analysis.Games)

	log.WithFields(logrus.Fields{
		"games":   len(analysis.Games),
		"skipped": len(analysis.Skipped),
	}).Info("Weekly analysis complete")

	return analysis, nil
}

func (s *AnalysisService) blendMatchup(snap *tdboost.SeasonSnapshot, m models.Matchup, events []models.OddsEvent, opts tdboost.BlendOptions) (game *models.GameProjection, reason string, err error) {
	defer func() {
		if r := recover(); r != nil {
			game, reason, err = nil, "", fmt.Errorf("panic: %v", r)
		}
	}()

	event, ok := findEvent(events, m)
	if !ok {
		return nil, "no odds event", nil
	}
	line, ok := tdboost.SelectLine(event, s.cfg.BookmakerPriority)
	if !ok {
		return nil, "no bookmaker quoting both totals and spreads", nil
	}

	// Sides follow the line, which may list a neutral-site game the other way round.
	homeAdv := tdboost.CalculateMatchup(snap.Current, snap.League, line.HomeTeam, line.AwayTeam)
	awayAdv := tdboost.CalculateMatchup(snap.Current, snap.League, line.AwayTeam, line.HomeTeam)
	home, away := tdboost.BlendGame(line, &homeAdv, &awayAdv, opts)

	return &models.GameProjection{
		Week:        m.Week,
		GameDate:    m.GameDate,
		Line:        line,
		Home:        home,
		Away:        away,
		HomeMatchup: &homeAdv,
		AwayMatchup: &awayAdv,
	}, "", nil
}

// findEvent matches a scheduled game to an odds event by its two teams in either
// orientation, preferring the event that starts closest to the game date.
func findEvent(events []models.OddsEvent, m models.Matchup) (models.OddsEvent, bool) {
	var best models.OddsEvent
	var bestGap time.Duration
	found := false
	for _, e := range events {
		sameWay := e.HomeTeam == m.HomeTeam && e.AwayTeam == m.AwayTeam
		swapped := e.HomeTeam == m.AwayTeam && e.AwayTeam == m.HomeTeam
		if !sameWay && !swapped {
			continue
		}
		gap := e.CommenceTime.Sub(m.GameDate)
		if gap < 0 {
			gap = -gap
		}
		if !found || gap < bestGap {
			best, bestGap, found = e, gap, true
		}
	}
	return best, found
}

// InvalidateMarketData drops cached odds so the next analysis refetches them.
func (s *AnalysisService) InvalidateMarketData(ctx context.Context) error {
	if err := s.cache.Delete(ctx, OddsCacheKey(oddsSport)); err != nil {
		return fmt.Errorf("failed to invalidate market data: %w", err)
	}
	return nil
}

// marketEvents reads odds through the cache, fetching behind the odds breaker on a miss.
func (s *AnalysisService) marketEvents(ctx context.Context) ([]models.OddsEvent, error) {
	key := OddsCacheKey(oddsSport)

	var cached []models.OddsEvent
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.WithError(err).WithField("component", "analysis").Warn("Odds cache read failed")
	}

	v, err := s.breakers.Execute(BreakerOddsAPI, func() (interface{}, error) {
		return s.odds.FetchEvents(ctx)
	})
	if err != nil {
		return nil, err
	}
	events := v.([]models.OddsEvent)

	if len(events) > 0 && s.cfg.OddsCacheTTL > 0 {
		if err := s.cache.Set(ctx, key, events, s.cfg.OddsCacheTTL); err != nil {
			s.logger.WithError(err).WithField("component", "analysis").Warn("Odds cache write failed")
		}
	}
	return events, nil
}
