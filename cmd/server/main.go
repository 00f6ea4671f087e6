package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/td-boost/internal/api"
	"github.com/stitts-dev/td-boost/internal/providers"
	"github.com/stitts-dev/td-boost/internal/services"
	"github.com/stitts-dev/td-boost/internal/tdboost"
	"github.com/stitts-dev/td-boost/pkg/config"
	"github.com/stitts-dev/td-boost/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	log := logger.InitLogger(logger.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.IsDevelopment(),
	})
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.WithComponent("server").WithFields(logrus.Fields{
		"season":          cfg.Season,
		"baseline_season": cfg.BaselineSeason,
		"env":             cfg.Env,
	}).Info("Starting td-boost")

	// Cache: redis when configured, in-memory otherwise
	var cache services.Cache = services.NewMemoryCache()
	cacheKind := "memory"
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := services.NewRedisClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, using in-memory cache")
		} else {
			defer redisClient.Close()
			cache = services.NewCacheService(redisClient)
			cacheKind = "redis"
		}
	}

	// Initialize providers and services
	breakers := services.NewCircuitBreakerService(cfg.CircuitBreakerThreshold, cfg.CircuitBreakerTimeout, log)
	nflverse := providers.NewNflverseClient(cfg.PBPURLTemplate, cfg.ScheduleURL, cfg.ExternalAPITimeout, log)
	odds := providers.NewOddsAPIClient(cfg.OddsAPIBaseURL, cfg.OddsAPIKey, cfg.OddsRateLimit, cfg.ExternalAPITimeout, log)

	storeCfg := services.DataStoreConfig{
		Season:         cfg.Season,
		BaselineSeason: cfg.BaselineSeason,
		LoadTimeout:    2 * cfg.ExternalAPITimeout,
	}
	if league, ok := tdboost.ConfiguredLeagueAverages(cfg.BaselineSeason,
		cfg.LeagueAvgRZScoring, cfg.LeagueAvgRZAllow,
		cfg.LeagueAvgAllDrivesScoring, cfg.LeagueAvgAllDrivesAllow); ok {
		storeCfg.League = &league
	}
	store := services.NewDataStore(nflverse, breakers, storeCfg, log)

	blend := tdboost.BlendOptions{Weight: cfg.AdvantageWeight, CapPct: cfg.AdvantageCapPct}
	analysis := services.NewAnalysisService(store, odds, cache, breakers, services.AnalysisConfig{
		BookmakerPriority: cfg.BookmakerPriority,
		OddsCacheTTL:      cfg.OddsCacheTTL,
		DefaultWeek:       cfg.DefaultWeek,
		Blend:             blend,
	}, log)

	// Warm the snapshot in the background so /health answers immediately
	if !cfg.SkipInitialLoad {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.ExternalAPITimeout)
			defer cancel()
			if _, err := store.Snapshot(ctx); err != nil {
				log.WithError(err).Error("Initial season data load failed, will retry on first request")
			}
		}()
	}

	// Scheduled refresh
	if cfg.RefreshSchedule != "" {
		refresher := services.RefreshFunc(func(ctx context.Context) error {
			if _, err := store.Refresh(ctx); err != nil {
				return err
			}
			return analysis.InvalidateMarketData(ctx)
		})
		dataFetcher := services.NewDataFetcherService(refresher, cfg.RefreshSchedule, 2*cfg.ExternalAPITimeout, log)
		if err := dataFetcher.Start(); err != nil {
			log.Errorf("Failed to start data fetcher: %v", err)
		}
		defer dataFetcher.Stop()
	}

	router := api.NewRouter(api.Dependencies{
		Analyzer:  analysis,
		Store:     store,
		Breakers:  breakers,
		Cache:     cache,
		CacheKind: cacheKind,
		Blend:     blend,
	}, cfg.CorsOrigins, log)

	for _, route := range router.Routes() {
		log.Debugf("%s %s", route.Method, route.Path)
	}

	// Setup server
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Cold analysis requests download a full season of play-by-play
		WriteTimeout: 3 * cfg.ExternalAPITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
