package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/td-boost/internal/api/handlers"
	"github.com/stitts-dev/td-boost/internal/api/middleware"
	"github.com/stitts-dev/td-boost/internal/tdboost"
)

// Dependencies are the services the routes are built on.
type Dependencies struct {
	Analyzer  handlers.Analyzer
	Store     handlers.SnapshotStore
	Breakers  handlers.BreakerReporter
	Cache     handlers.CachePinger
	CacheKind string
	Blend     tdboost.BlendOptions
}

// NewRouter builds the gin engine with middleware, the health check and the API routes.
func NewRouter(deps Dependencies, corsOrigins []string, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorLogger())
	router.Use(middleware.CORS(corsOrigins))

	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Breakers, deps.Cache, deps.CacheKind)
	router.GET("/health", healthHandler.GetHealth)

	SetupRoutes(router.Group("/api/v1"), deps)
	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, deps Dependencies) {
	analysisHandler := handlers.NewAnalysisHandler(deps.Analyzer, deps.Store, deps.Blend)
	tdBoostHandler := handlers.NewTDBoostHandler(deps.Analyzer)
	usageHandler := handlers.NewPlayerUsageHandler(deps.Analyzer)

	group.GET("/analysis", analysisHandler.GetAnalysis)
	group.POST("/refresh", analysisHandler.Refresh)

	group.GET("/league-averages", tdBoostHandler.GetLeagueAverages)
	group.GET("/matchup", tdBoostHandler.GetMatchup)
	group.GET("/schedule", tdBoostHandler.GetSchedule)
	group.GET("/td-boost/week/:week", tdBoostHandler.GetWeek)
	group.GET("/td-boost/team/:team", tdBoostHandler.GetTeam)

	group.GET("/player-usage/:team", usageHandler.GetTeamUsage)
}
