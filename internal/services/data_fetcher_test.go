package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFetcherService_StartStop(t *testing.T) {
	fetcher := NewDataFetcherService(RefreshFunc(func(ctx context.Context) error { return nil }), "0 9 * * *", time.Minute, testLogger())

	require.NoError(t, fetcher.Start())
	assert.Error(t, fetcher.Start(), "second start should fail")
	fetcher.Stop()
	fetcher.Stop()
}

func TestDataFetcherService_InvalidSchedule(t *testing.T) {
	fetcher := NewDataFetcherService(RefreshFunc(func(ctx context.Context) error { return nil }), "not a cron spec", time.Minute, testLogger())
	assert.Error(t, fetcher.Start())
}

func TestDataFetcherService_RefreshBoundsContext(t *testing.T) {
	var hadDeadline bool
	calls := 0
	fetcher := NewDataFetcherService(RefreshFunc(func(ctx context.Context) error {
		calls++
		_, hadDeadline = ctx.Deadline()
		return errors.New("upstream down")
	}), "@every 1h", time.Minute, testLogger())

	fetcher.refresh()

	assert.Equal(t, 1, calls)
	assert.True(t, hadDeadline)
}
