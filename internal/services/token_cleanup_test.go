package services

import (
	"context"
	"testing"
	"time"

	"github.com/huangang/quill/internal/metrics"
	"github.com/huangang/quill/internal/models"
)

func TestTokenCleanupService_RunOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	_ = env.refresh.Upsert(ctx, "stale", "old-token", now.Add(-time.Minute))
	_ = env.refresh.Upsert(ctx, "active", "new-token", now.Add(time.Hour))

	svc := NewTokenCleanupService(env.refresh, "@hourly", metrics.New())
	deleted, err := svc.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, expected 1", deleted)
	}

	var count int64
	env.db.Model(&models.RefreshToken{}).Count(&count)
	if count != 1 {
		t.Errorf("remaining = %d, expected 1", count)
	}
}

func TestTokenCleanupService_Scheduler(t *testing.T) {
	env := newTestEnv(t)

	svc := NewTokenCleanupService(env.refresh, "@every 1h", nil)
	if err := svc.StartScheduler(); err != nil {
		t.Fatalf("StartScheduler() error = %v", err)
	}
	svc.StopScheduler()

	bad := NewTokenCleanupService(env.refresh, "not a schedule", nil)
	if err := bad.StartScheduler(); err == nil {
		t.Error("invalid schedule should fail")
	}
}
