package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stitts-dev/td-boost/internal/models"
	"github.com/stitts-dev/td-boost/internal/services"
	"github.com/stitts-dev/td-boost/internal/tdboost"
	"github.com/stitts-dev/td-boost/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAnalyzer for testing
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, req services.AnalysisRequest) (*models.WeeklyAnalysis, error) {
	args := m.Called(ctx, req)
	v, _ := args.Get(0).(*models.WeeklyAnalysis)
	return v, args.Error(1)
}

func (m *MockAnalyzer) ResolveWeek(ctx context.Context, week int) (*services.WeekResolution, error) {
	args := m.Called(ctx, week)
	v, _ := args.Get(0).(*services.WeekResolution)
	return v, args.Error(1)
}

func (m *MockAnalyzer) LeagueAverages(ctx context.Context) (models.LeagueAverages, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.LeagueAverages), args.Error(1)
}

func (m *MockAnalyzer) Matchup(ctx context.Context, offense, defense string) (models.MatchupAdvantage, error) {
	args := m.Called(ctx, offense, defense)
	return args.Get(0).(models.MatchupAdvantage), args.Error(1)
}

func (m *MockAnalyzer) WeekAdvantages(ctx context.Context, week int) (*services.WeekAdvantages, error) {
	args := m.Called(ctx, week)
	v, _ := args.Get(0).(*services.WeekAdvantages)
	return v, args.Error(1)
}

func (m *MockAnalyzer) TeamAdvantages(ctx context.Context, team string) (*services.TeamAdvantage, error) {
	args := m.Called(ctx, team)
	v, _ := args.Get(0).(*services.TeamAdvantage)
	return v, args.Error(1)
}

func (m *MockAnalyzer) PlayerUsage(ctx context.Context, team string) (models.TeamUsage, error) {
	args := m.Called(ctx, team)
	return args.Get(0).(models.TeamUsage), args.Error(1)
}

func (m *MockAnalyzer) InvalidateMarketData(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockSnapshotStore for testing
type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) Refresh(ctx context.Context) (*tdboost.SeasonSnapshot, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*tdboost.SeasonSnapshot)
	return v, args.Error(1)
}

func (m *MockSnapshotStore) Current() (*tdboost.SeasonSnapshot, bool) {
	args := m.Called()
	v, _ := args.Get(0).(*tdboost.SeasonSnapshot)
	return v, args.Bool(1)
}

type staticBreakers map[string]string

func (b staticBreakers) States() map[string]string { return b }

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *utils.AppError `json:"error"`
	Meta    *utils.Meta     `json:"meta"`
}

func setupRouter(analyzer *MockAnalyzer, store *MockSnapshotStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	analysis := NewAnalysisHandler(analyzer, store, tdboost.DefaultBlendOptions())
	tdBoost := NewTDBoostHandler(analyzer)
	usage := NewPlayerUsageHandler(analyzer)
	health := NewHealthHandler(store, staticBreakers{"odds_api": "closed"}, stubPinger{}, "memory")

	r.GET("/health", health.GetHealth)
	r.GET("/analysis", analysis.GetAnalysis)
	r.POST("/refresh", analysis.Refresh)
	r.GET("/league-averages", tdBoost.GetLeagueAverages)
	r.GET("/matchup", tdBoost.GetMatchup)
	r.GET("/schedule", tdBoost.GetSchedule)
	r.GET("/td-boost/week/:week", tdBoost.GetWeek)
	r.GET("/td-boost/team/:team", tdBoost.GetTeam)
	r.GET("/player-usage/:team", usage.GetTeamUsage)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestGetAnalysis(t *testing.T) {
	t.Run("week and defaults", func(t *testing.T) {
		analyzer := new(MockAnalyzer)
		analyzer.On("Analyze", mock.Anything, services.AnalysisRequest{Week: 3}).
			Return(&models.WeeklyAnalysis{Season: 2024, Week: 3, Games: []models.GameProjection{}}, nil).Once()

		w, env := do(t, setupRouter(analyzer, new(MockSnapshotStore)), http.MethodGet, "/analysis?week=3")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
		require.NotNil(t, env.Meta)
		assert.Equal(t, 3, env.Meta.Week)
		analyzer.AssertExpectations(t)
	})

	t.Run("blend override", func(t *testing.T) {
		analyzer := new(MockAnalyzer)
		want := services.AnalysisRequest{Blend: &tdboost.BlendOptions{Weight: 0.5, CapPct: 30}}
		analyzer.On("Analyze", mock.Anything, want).
			Return(&models.WeeklyAnalysis{Season: 2024, Week: 5}, nil).Once()

		w, _ := do(t, setupRouter(analyzer, new(MockSnapshotStore)), http.MethodGet, "/analysis?weight=0.5")

		assert.Equal(t, http.StatusOK, w.Code)
		analyzer.AssertExpectations(t)
	})

	t.Run("bad input", func(t *testing.T) {
		for _, path := range []string{"/analysis?week=abc", "/analysis?week=0", "/analysis?weight=2", "/analysis?cap=-1"} {
			analyzer := new(MockAnalyzer)
			w, env := do(t, setupRouter(analyzer, new(MockSnapshotStore)), http.MethodGet, path)

			assert.Equal(t, http.StatusBadRequest, w.Code, path)
			require.NotNil(t, env.Error, path)
			assert.Equal(t, utils.ErrCodeValidation, env.Error.Code, path)
			analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
		}
	})

	t.Run("no market data", func(t *testing.T) {
		analyzer := new(MockAnalyzer)
		analyzer.On("Analyze", mock.Anything, mock.Anything).Return(nil, services.ErrNoMarketData)

		w, env := do(t, setupRouter(analyzer, new(MockSnapshotStore)), http.MethodGet, "/analysis")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, utils.ErrCodeNoMarketData, env.Error.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		analyzer := new(MockAnalyzer)
		analyzer.On("Analyze", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("failed to load season data: %w", errors.New("pbp down")))

		w, env := do(t, setupRouter(analyzer, new(MockSnapshotStore)), http.MethodGet, "/analysis")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Message, "pbp down")
	})
}

func TestGetTeam(t *testing.T) {
	analyzer := new(MockAnalyzer)
	analyzer.On("TeamAdvantages", mock.Anything, "LA").
		Return(&services.TeamAdvantage{Season: 2024, Week: 4, Team: "LA", Opponent: "SF"}, nil)
	analyzer.On("TeamAdvantages", mock.Anything, "SEA").
		Return(nil, fmt.Errorf("no week 4 game for SEA: %w", utils.ErrNotFound))
	r := setupRouter(analyzer, new(MockSnapshotStore))

	w, env := do(t, r, http.MethodGet, "/td-boost/team/lar")
	assert.Equal(t, http.StatusOK, w.Code)
	var adv services.TeamAdvantage
	require.NoError(t, json.Unmarshal(env.Data, &adv))
	assert.Equal(t, "SF", adv.Opponent)

	w, _ = do(t, r, http.MethodGet, "/td-boost/team/SEA")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, "/td-boost/team/XYZ")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWeek(t *testing.T) {
	analyzer := new(MockAnalyzer)
	analyzer.On("WeekAdvantages", mock.Anything, 7).Return(&services.WeekAdvantages{
		WeekResolution: services.WeekResolution{Season: 2024, Week: 7, Source: tdboost.WeekFromRequest, Matchups: []models.Matchup{}},
		Games:          []services.GameAdvantages{},
	}, nil)
	r := setupRouter(analyzer, new(MockSnapshotStore))

	w, env := do(t, r, http.MethodGet, "/td-boost/week/7")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, env.Meta.Week)

	w, _ = do(t, r, http.MethodGet, "/td-boost/week/23")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMatchup(t *testing.T) {
	analyzer := new(MockAnalyzer)
	analyzer.On("Matchup", mock.Anything, "KC", "BAL").
		Return(models.MatchupAdvantage{Matchup: "KC vs BAL", OffenseTeam: "KC", DefenseTeam: "BAL"}, nil)
	r := setupRouter(analyzer, new(MockSnapshotStore))

	w, env := do(t, r, http.MethodGet, "/matchup?offense=kc&defense=BAL")
	assert.Equal(t, http.StatusOK, w.Code)
	var adv models.MatchupAdvantage
	require.NoError(t, json.Unmarshal(env.Data, &adv))
	assert.Equal(t, "KC vs BAL", adv.Matchup)

	w, env = do(t, r, http.MethodGet, "/matchup?offense=KC")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Details, "defense")
}

func TestGetLeagueAveragesAndSchedule(t *testing.T) {
	analyzer := new(MockAnalyzer)
	analyzer.On("LeagueAverages", mock.Anything).
		Return(models.LeagueAverages{Season: 2023, RZScoring: 56.1}, nil)
	analyzer.On("ResolveWeek", mock.Anything, 0).
		Return(&services.WeekResolution{Season: 2024, Week: 6, Source: tdboost.WeekFromSchedule, Matchups: []models.Matchup{}}, nil)
	r := setupRouter(analyzer, new(MockSnapshotStore))

	w, env := do(t, r, http.MethodGet, "/league-averages")
	assert.Equal(t, http.StatusOK, w.Code)
	var league models.LeagueAverages
	require.NoError(t, json.Unmarshal(env.Data, &league))
	assert.Equal(t, 56.1, league.RZScoring)

	w, env = do(t, r, http.MethodGet, "/schedule")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "schedule", env.Meta.Source)
	assert.Equal(t, 6, env.Meta.Week)
}

func TestGetTeamUsage(t *testing.T) {
	analyzer := new(MockAnalyzer)
	analyzer.On("PlayerUsage", mock.Anything, "KC").Return(models.TeamUsage{
		Team:   "KC",
		Season: 2024,
		Players: []models.PlayerUsage{
			{PlayerID: "00-1", PlayerName: "T.Kelce", RedZoneShare: 0.25},
		},
	}, nil)

	w, env := do(t, setupRouter(analyzer, new(MockSnapshotStore)), http.MethodGet, "/player-usage/KC")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.Meta.Total)
}

func TestRefresh(t *testing.T) {
	snap := tdboost.NewSeasonSnapshot(2024, models.LeagueAverages{Season: 2023}, []models.Play{}, []models.ScheduledGame{})

	store := new(MockSnapshotStore)
	store.On("Refresh", mock.Anything).Return(snap, nil).Twice()
	store.On("Refresh", mock.Anything).Return(nil, fmt.Errorf("pbp: %w", utils.ErrUpstreamUnavailable)).Once()
	analyzer := new(MockAnalyzer)
	analyzer.On("InvalidateMarketData", mock.Anything).Return(nil).Once()
	analyzer.On("InvalidateMarketData", mock.Anything).Return(errors.New("redis down")).Once()
	r := setupRouter(analyzer, store)

	w, env := do(t, r, http.MethodPost, "/refresh")
	assert.Equal(t, http.StatusOK, w.Code)
	var summary tdboost.SnapshotSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 2024, summary.Season)

	// Cached odds that cannot be dropped fail the refresh
	w, env = do(t, r, http.MethodPost, "/refresh")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, utils.ErrCodeInternal, env.Error.Code)

	w, env = do(t, r, http.MethodPost, "/refresh")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, utils.ErrCodeUpstream, env.Error.Code)

	store.AssertExpectations(t)
	analyzer.AssertExpectations(t)
}

func TestGetHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("loading", func(t *testing.T) {
		store := new(MockSnapshotStore)
		store.On("Current").Return(nil, false)

		w := httptest.NewRecorder()
		setupRouter(new(MockAnalyzer), store).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "loading", body["data"])
		assert.Equal(t, "memory", body["cache"])
	})

	t.Run("loaded", func(t *testing.T) {
		snap := tdboost.NewSeasonSnapshot(2024, models.LeagueAverages{}, []models.Play{}, []models.ScheduledGame{})
		store := new(MockSnapshotStore)
		store.On("Current").Return(snap, true)

		w := httptest.NewRecorder()
		setupRouter(new(MockAnalyzer), store).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "loaded", body["data"])
		assert.Contains(t, body, "snapshot")
		assert.Equal(t, "ok", body["cache_status"])
	})

	t.Run("cache unreachable", func(t *testing.T) {
		store := new(MockSnapshotStore)
		store.On("Current").Return(nil, false)
		health := NewHealthHandler(store, staticBreakers{}, stubPinger{err: errors.New("dial tcp: connection refused")}, "redis")

		r := gin.New()
		r.GET("/health", health.GetHealth)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "redis", body["cache"])
		assert.Equal(t, "unreachable", body["cache_status"])
	})
}
