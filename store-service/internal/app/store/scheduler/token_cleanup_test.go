package scheduler

import (
	"context"
	"errors"
	"testing"

	"ministore/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockTokenCleaner мок для TokenCleaner
type MockTokenCleaner struct {
	mock.Mock
}

func (m *MockTokenCleaner) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestNewTokenCleanupScheduler(t *testing.T) {
	// Arrange
	cleaner := new(MockTokenCleaner)

	// Act
	scheduler := NewTokenCleanupScheduler(cleaner)

	// Assert
	assert.NotNil(t, scheduler.cron)
	assert.Empty(t, scheduler.GetEntries())
}

func TestTokenCleanupScheduler_Start_Success(t *testing.T) {
	// Arrange
	cleaner := new(MockTokenCleaner)
	scheduler := NewTokenCleanupScheduler(cleaner)

	// Первая очистка при старте
	cleaner.On("CleanupExpiredTokens", mock.Anything).Return(int64(0), nil)

	// Act
	err := scheduler.Start(context.Background(), "@every 1h")

	// Assert
	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)

	// Cleanup
	scheduler.Stop()
	cleaner.AssertNumberOfCalls(t, "CleanupExpiredTokens", 1)
}

func TestTokenCleanupScheduler_Start_InvalidSchedule(t *testing.T) {
	// Arrange
	cleaner := new(MockTokenCleaner)
	scheduler := NewTokenCleanupScheduler(cleaner)

	// Act
	err := scheduler.Start(context.Background(), "invalid cron expression")

	// Assert
	assert.Error(t, err)
	cleaner.AssertNotCalled(t, "CleanupExpiredTokens", mock.Anything)
}

func TestTokenCleanupScheduler_Start_InitialCleanupError_ContinuesWork(t *testing.T) {
	// Arrange
	cleaner := new(MockTokenCleaner)
	scheduler := NewTokenCleanupScheduler(cleaner)

	cleaner.On("CleanupExpiredTokens", mock.Anything).Return(int64(0), errors.New("db unavailable"))

	// Act
	err := scheduler.Start(context.Background(), "0 * * * *")

	// Assert
	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)

	// Cleanup
	scheduler.Stop()
}

func TestTokenCleanupScheduler_RunCleanup_RecordsRemoved(t *testing.T) {
	// Arrange
	cleaner := new(MockTokenCleaner)
	scheduler := NewTokenCleanupScheduler(cleaner)
	cleaner.On("CleanupExpiredTokens", mock.Anything).Return(int64(5), nil)
	before := testutil.ToFloat64(metrics.AuthTokensCleaned)

	// Act
	scheduler.runCleanup(context.Background())

	// Assert
	assert.Equal(t, before+5, testutil.ToFloat64(metrics.AuthTokensCleaned))
}
