package services

import (
	"sync"
	"testing"
	"time"

	"github.com/huangang/quill/internal/config"
	"github.com/huangang/quill/internal/metrics"
	"github.com/huangang/quill/internal/models"
	"github.com/huangang/quill/internal/store"
	"github.com/huangang/quill/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := models.Open(&config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:"}, logger.Silent)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    60 * time.Minute,
	}
}

type testEnv struct {
	db      *gorm.DB
	users   *store.GormUserStore
	refresh *store.GormRefreshTokenStore
	tokens  *TokenService
	auth    *AuthService
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := openTestDB(t)
	env := &testEnv{
		db:      db,
		users:   store.NewGormUserStore(db),
		refresh: store.NewGormRefreshTokenStore(db),
		metrics: metrics.New(),
	}
	env.tokens = NewTokenService(testJWTConfig(), env.refresh)
	env.auth = NewAuthService(env.users, utils.NewPasswordHasher(bcrypt.MinCost), env.tokens, env.metrics)
	return env
}
