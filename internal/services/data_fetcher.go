package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher rebuilds cached season data.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshFunc adapts a function to Refresher.
type RefreshFunc func(ctx context.Context) error

func (f RefreshFunc) Refresh(ctx context.Context) error { return f(ctx) }

// DataFetcherService refreshes the season snapshot on a cron schedule
type DataFetcherService struct {
	refresher Refresher
	logger    *logrus.Logger
	cron      *cron.Cron
	schedule  string
	timeout   time.Duration
	mu        sync.Mutex
	isRunning bool
}

// NewDataFetcherService creates a new data fetcher service. Each run is bounded by timeout.
func NewDataFetcherService(refresher Refresher, schedule string, timeout time.Duration, logger *logrus.Logger) *DataFetcherService {
	return &DataFetcherService{
		refresher: refresher,
		logger:    logger,
		cron:      cron.New(),
		schedule:  schedule,
		timeout:   timeout,
	}
}

// Start begins the scheduled refreshes
func (s *DataFetcherService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("data fetcher is already running")
	}

	if _, err := s.cron.AddFunc(s.schedule, s.refresh); err != nil {
		return fmt.Errorf("failed to schedule data refresh %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.isRunning = true

	s.logger.WithFields(logrus.Fields{
		"component": "data_fetcher",
		"schedule":  s.schedule,
	}).Info("Data fetcher service started")
	return nil
}

// Stop halts the scheduled refreshes and waits for a running one to finish
func (s *DataFetcherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Data fetcher service stopped")
}

func (s *DataFetcherService) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	log := s.logger.WithField("component", "data_fetcher")
	log.Info("Starting scheduled data refresh")

	if err := s.refresher.Refresh(ctx); err != nil {
		log.WithError(err).Error("Scheduled data refresh failed")
		return
	}

	log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Completed scheduled data refresh")
}
