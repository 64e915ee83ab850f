package services

import (
	"context"
	"fmt"
	"time"

	"github.com/huangang/quill/internal/metrics"
	"github.com/huangang/quill/internal/store"
	"github.com/huangang/quill/pkg/logger"
	"github.com/robfig/cron/v3"
)

const cleanupTimeout = 30 * time.Second

// TokenCleanupService periodically deletes refresh tokens past their expiry.
// Expired tokens already fail verification; this only keeps the table small.
type TokenCleanupService struct {
	store         store.RefreshTokenStore
	metrics       *metrics.Metrics
	schedule      string
	now           func() time.Time
	cronScheduler *cron.Cron
}

func NewTokenCleanupService(refreshStore store.RefreshTokenStore, schedule string, m *metrics.Metrics) *TokenCleanupService {
	return &TokenCleanupService{
		store:    refreshStore,
		metrics:  m,
		schedule: schedule,
		now:      time.Now,
	}
}

func (s *TokenCleanupService) StartScheduler() error {
	s.cronScheduler = cron.New()

	if _, err := s.cronScheduler.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		_, _ = s.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("schedule token cleanup %q: %w", s.schedule, err)
	}

	s.cronScheduler.Start()
	logger.Info().Str("schedule", s.schedule).Msg("token cleanup scheduler started")
	return nil
}

// StopScheduler waits for a running cleanup to finish.
func (s *TokenCleanupService) StopScheduler() {
	if s.cronScheduler != nil {
		<-s.cronScheduler.Stop().Done()
	}
}

func (s *TokenCleanupService) RunOnce(ctx context.Context) (int64, error) {
	deleted, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		logger.Error().Err(err).Msg("token cleanup failed")
		s.metrics.AuthEvent(metrics.EventCleanup, metrics.OutcomeError)
		return 0, err
	}

	if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Msg("expired refresh tokens removed")
	}
	s.metrics.TokensSwept(deleted)
	s.metrics.AuthEvent(metrics.EventCleanup, metrics.OutcomeSuccess)
	return deleted, nil
}
