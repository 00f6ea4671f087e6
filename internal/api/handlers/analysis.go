package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/td-boost/internal/api/middleware"
	"github.com/stitts-dev/td-boost/internal/models"
	"github.com/stitts-dev/td-boost/internal/services"
	"github.com/stitts-dev/td-boost/internal/tdboost"
	"github.com/stitts-dev/td-boost/pkg/logger"
	"github.com/stitts-dev/td-boost/pkg/utils"
)

// Analyzer is the analysis surface the HTTP handlers expose.
type Analyzer interface {
	Analyze(ctx context.Context, req services.AnalysisRequest) (*models.WeeklyAnalysis, error)
	ResolveWeek(ctx context.Context, week int) (*services.WeekResolution, error)
	LeagueAverages(ctx context.Context) (models.LeagueAverages, error)
	Matchup(ctx context.Context, offense, defense string) (models.MatchupAdvantage, error)
	WeekAdvantages(ctx context.Context, week int) (*services.WeekAdvantages, error)
	TeamAdvantages(ctx context.Context, team string) (*services.TeamAdvantage, error)
	PlayerUsage(ctx context.Context, team string) (models.TeamUsage, error)
	InvalidateMarketData(ctx context.Context) error
}

// SnapshotStore is the season data store as seen by the handlers.
type SnapshotStore interface {
	Refresh(ctx context.Context) (*tdboost.SeasonSnapshot, error)
	Current() (*tdboost.SeasonSnapshot, bool)
}

type AnalysisHandler struct {
	analyzer Analyzer
	store    SnapshotStore
	defaults tdboost.BlendOptions
}

func NewAnalysisHandler(analyzer Analyzer, store SnapshotStore, defaults tdboost.BlendOptions) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		store:    store,
		defaults: defaults,
	}
}

// GetAnalysis returns the ranked blended projections for a week.
// Query: week (optional), weight and cap (optional overrides).
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	week, err := parseWeek(c.Query("week"))
	if err != nil {
		utils.SendErrorFrom(c, err)
		return
	}
	blend, err := parseBlend(c, h.defaults)
	if err != nil {
		utils.SendErrorFrom(c, err)
		return
	}

	analysis, err := h.analyzer.Analyze(c.Request.Context(), services.AnalysisRequest{Week: week, Blend: blend})
	if err != nil {
		c.Error(err)
		if errors.Is(err, services.ErrNoMarketData) {
			utils.SendError(c, http.StatusInternalServerError, utils.NewAppError(utils.ErrCodeNoMarketData, "No market data available", err.Error()))
			return
		}
		utils.SendErrorFrom(c, err)
		return
	}

	utils.SendSuccessWithMeta(c, analysis, &utils.Meta{
		Season: analysis.Season,
		Week:   analysis.Week,
		Total:  len(analysis.Games),
	})
}

// Refresh rebuilds the season snapshot, drops cached odds and reports the new coverage.
func (h *AnalysisHandler) Refresh(c *gin.Context) {
	snap, err := h.store.Refresh(c.Request.Context())
	if err != nil {
		c.Error(err)
		utils.SendErrorFrom(c, err)
		return
	}

	if err := h.analyzer.InvalidateMarketData(c.Request.Context()); err != nil {
		c.Error(err)
		utils.SendErrorFrom(c, err)
		return
	}

	summary := snap.Summary()
	logger.WithSeasonContext(summary.Season, 0).WithFields(logrus.Fields{
		"request_id":       c.GetString(middleware.RequestIDKey),
		"plays":            summary.Plays,
		"last_played_week": summary.LastPlayedWeek,
	}).Info("Season data refreshed on request")

	utils.SendSuccess(c, summary)
}
