package scheduler

import (
	"context"

	"ministore/pkg/logger"
	"ministore/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// TokenCleaner удаляет истекшие и отозванные refresh токены
type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// TokenCleanupScheduler периодически чистит хранилище refresh токенов
type TokenCleanupScheduler struct {
	cron    *cron.Cron
	cleaner TokenCleaner
}

func NewTokenCleanupScheduler(cleaner TokenCleaner) *TokenCleanupScheduler {
	c := cron.New(cron.WithLogger(cronLogger{}))

	return &TokenCleanupScheduler{
		cron:    c,
		cleaner: cleaner,
	}
}

// Start регистрирует задачу по расписанию и сразу выполняет первую очистку
func (s *TokenCleanupScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting token cleanup scheduler")

	if _, err := s.cron.AddFunc(schedule, func() { s.runCleanup(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("Token cleanup scheduler started")

	s.runCleanup(ctx)

	return nil
}

func (s *TokenCleanupScheduler) Stop() {
	logger.Info().Msg("Stopping token cleanup scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Token cleanup scheduler stopped")
}

func (s *TokenCleanupScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}

func (s *TokenCleanupScheduler) runCleanup(ctx context.Context) {
	removed, err := s.cleaner.CleanupExpiredTokens(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to cleanup refresh tokens")
		return
	}

	metrics.AuthTokensCleaned.Add(float64(removed))
	logger.Info().Int64("removed", removed).Msg("Refresh tokens cleanup completed")
}

// cronLogger направляет служебные сообщения cron в zerolog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
