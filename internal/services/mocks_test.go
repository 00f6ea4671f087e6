package services

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/td-boost/internal/models"
	"github.com/stitts-dev/td-boost/internal/tdboost"
	"github.com/stretchr/testify/mock"
)

// MockPlayDataSource for testing
type MockPlayDataSource struct {
	mock.Mock
}

func (m *MockPlayDataSource) FetchPlays(ctx context.Context, season int) ([]models.Play, error) {
	args := m.Called(ctx, season)
	plays, _ := args.Get(0).([]models.Play)
	return plays, args.Error(1)
}

func (m *MockPlayDataSource) FetchSchedule(ctx context.Context, season int) ([]models.ScheduledGame, error) {
	args := m.Called(ctx, season)
	games, _ := args.Get(0).([]models.ScheduledGame)
	return games, args.Error(1)
}

// MockOddsSource for testing
type MockOddsSource struct {
	mock.Mock
}

func (m *MockOddsSource) FetchEvents(ctx context.Context) ([]models.OddsEvent, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]models.OddsEvent)
	return events, args.Error(1)
}

// MockSnapshotProvider for testing
type MockSnapshotProvider struct {
	mock.Mock
}

func (m *MockSnapshotProvider) Snapshot(ctx context.Context) (*tdboost.SeasonSnapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*tdboost.SeasonSnapshot)
	return snap, args.Error(1)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

// redZoneDrives builds n week-1 drives with two red-zone snaps each, the first tds of
// which end in a touchdown.
func redZoneDrives(off, def string, n, tds int) []models.Play {
	plays := make([]models.Play, 0, n*2)
	for d := 1; d <= n; d++ {
		td := 0
		if d <= tds {
			td = 1
		}
		game := fmt.Sprintf("%s_%s_%d", off, def, d)
		plays = append(plays,
			models.Play{GameID: game, PosTeam: off, DefTeam: def, Drive: intPtr(d), YardlineToGoal: floatPtr(15), Week: 1},
			models.Play{GameID: game, PosTeam: off, DefTeam: def, Drive: intPtr(d), YardlineToGoal: floatPtr(4), Touchdown: td, Week: 1},
		)
	}
	return plays
}
