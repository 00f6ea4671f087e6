package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/td-boost/internal/models"
	"github.com/stitts-dev/td-boost/internal/tdboost"
	"golang.org/x/sync/singleflight"
)

// PlayDataSource provides play-by-play and schedule tables.
type PlayDataSource interface {
	FetchPlays(ctx context.Context, season int) ([]models.Play, error)
	FetchSchedule(ctx context.Context, season int) ([]models.ScheduledGame, error)
}

// SnapshotProvider hands out the current season snapshot.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*tdboost.SeasonSnapshot, error)
}

type DataStoreConfig struct {
	Season         int
	BaselineSeason int
	// League, when set, replaces the baseline season download.
	League *models.LeagueAverages
	// LoadTimeout bounds a shared load, which outlives the caller that started it.
	LoadTimeout time.Duration
}

// DataStore caches the season snapshot. The first read loads it, concurrent cold
// reads share that load, and Refresh swaps in a fully built replacement.
type DataStore struct {
	source   PlayDataSource
	breakers *CircuitBreakerService
	cfg      DataStoreConfig
	logger   *logrus.Logger

	mu       sync.RWMutex
	snapshot *tdboost.SeasonSnapshot
	group    singleflight.Group
}

func NewDataStore(source PlayDataSource, breakers *CircuitBreakerService, cfg DataStoreConfig, logger *logrus.Logger) *DataStore {
	return &DataStore{
		source:   source,
		breakers: breakers,
		cfg:      cfg,
		logger:   logger,
	}
}

// Snapshot returns the cached snapshot, loading it on first use.
func (s *DataStore) Snapshot(ctx context.Context) (*tdboost.SeasonSnapshot, error) {
	if snap, ok := s.Current(); ok {
		return snap, nil
	}
	return s.sharedLoad(ctx)
}

// Refresh rebuilds the snapshot. Readers keep the previous one until the new one is complete.
func (s *DataStore) Refresh(ctx context.Context) (*tdboost.SeasonSnapshot, error) {
	return s.sharedLoad(ctx)
}

// sharedLoad joins the in-flight load or starts one. The load runs detached from ctx;
// a caller whose ctx ends returns early while the load carries on.
func (s *DataStore) sharedLoad(ctx context.Context) (*tdboost.SeasonSnapshot, error) {
	ch := s.group.DoChan("load", func() (interface{}, error) {
		loadCtx := context.WithoutCancel(ctx)
		if s.cfg.LoadTimeout > 0 {
			var cancel context.CancelFunc
			loadCtx, cancel = context.WithTimeout(loadCtx, s.cfg.LoadTimeout)
			defer cancel()
		}
		return s.load(loadCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*tdboost.SeasonSnapshot), nil
	}
}

// Current returns the cached snapshot without loading.
func (s *DataStore) Current() (*tdboost.SeasonSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.snapshot != nil
}

func (s *DataStore) load(ctx context.Context) (*tdboost.SeasonSnapshot, error) {
	log := s.logger.WithFields(logrus.Fields{
		"component": "data_store",
		"season":    s.cfg.Season,
	})
	start := time.Now()

	league, err := s.leagueAverages(ctx, log)
	if err != nil {
		return nil, err
	}

	var plays []models.Play
	err = timed(log, fmt.Sprintf("%d play-by-play download", s.cfg.Season), func() error {
		var err error
		plays, err = s.fetchPlays(ctx, s.cfg.Season)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load current season plays: %w", err)
	}
	if len(plays) == 0 {
		log.Warn("No play data for current season, all team rates will be empty")
	}

	var schedule []models.ScheduledGame
	err = timed(log, "schedule download", func() error {
		var err error
		schedule, err = s.fetchSchedule(ctx, s.cfg.Season)
		return err
	})
	if err != nil {
		log.WithError(err).Warn("Schedule unavailable, week resolution will fall back to play data")
		schedule = []models.ScheduledGame{}
	}

	var snap *tdboost.SeasonSnapshot
	_ = timed(log, "current season aggregation", func() error {
		snap = tdboost.NewSeasonSnapshot(s.cfg.Season, league, plays, schedule)
		return nil
	})

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	summary := snap.Summary()
	log.WithFields(logrus.Fields{
		"plays":            summary.Plays,
		"scheduled_games":  summary.ScheduledGames,
		"last_played_week": summary.LastPlayedWeek,
		"offense_rz_teams": len(summary.OffenseRZTeams),
		"defense_rz_teams": len(summary.DefenseRZTeams),
		"league_source":    summary.LeagueSource,
		"duration_ms":      time.Since(start).Milliseconds(),
	}).Info("Season snapshot loaded")

	return snap, nil
}

func (s *DataStore) leagueAverages(ctx context.Context, log *logrus.Entry) (models.LeagueAverages, error) {
	if s.cfg.League != nil {
		log.Info("Using configured league averages")
		return *s.cfg.League, nil
	}

	var league models.LeagueAverages
	err := timed(log, fmt.Sprintf("%d baseline calculation", s.cfg.BaselineSeason), func() error {
		plays, err := s.fetchPlays(ctx, s.cfg.BaselineSeason)
		if err != nil {
			return err
		}
		league = tdboost.ComputeLeagueAverages(plays, s.cfg.BaselineSeason)
		return nil
	})
	if err != nil {
		return models.LeagueAverages{}, fmt.Errorf("failed to load baseline season %d: %w", s.cfg.BaselineSeason, err)
	}
	return league, nil
}

func (s *DataStore) fetchPlays(ctx context.Context, season int) ([]models.Play, error) {
	v, err := s.breakers.Execute(BreakerNflverse, func() (interface{}, error) {
		return s.source.FetchPlays(ctx, season)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Play), nil
}

func (s *DataStore) fetchSchedule(ctx context.Context, season int) ([]models.ScheduledGame, error) {
	v, err := s.breakers.Execute(BreakerNflverse, func() (interface{}, error) {
		return s.source.FetchSchedule(ctx, season)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.ScheduledGame), nil
}

// timed runs fn and logs how long the phase took.
func timed(log *logrus.Entry, phase string, fn func() error) error {
	log.WithField("phase", phase).Debug("Starting phase")
	start := time.Now()
	err := fn()
	entry := log.WithFields(logrus.Fields{
		"phase":       phase,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Error("Phase failed")
		return err
	}
	entry.Info("Phase completed")
	return nil
}
