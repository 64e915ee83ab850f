package main

import (
	"context"
	"fmt"
	"time"

	"github.com/huangang/quill/internal/config"
	"github.com/huangang/quill/internal/handlers"
	"github.com/huangang/quill/internal/metrics"
	"github.com/huangang/quill/internal/models"
	"github.com/huangang/quill/internal/services"
	"github.com/huangang/quill/internal/store"
	"github.com/huangang/quill/internal/utils"
	"github.com/huangang/quill/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const redisKeyPrefix = "quill:refresh"

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg            *config.Config
	db             *gorm.DB
	redis          redis.UniversalClient
	metrics        *metrics.Metrics
	tokenService   *services.TokenService
	cleanupService *services.TokenCleanupService
	authHandler    *handlers.AuthHandler
	blogHandler    *handlers.BlogHandler
	commentHandler *handlers.CommentHandler
	healthHandler  *handlers.HealthHandler
}

// redisOptions prefers the connection URL, which may carry a username and
// select TLS via rediss://.
func redisOptions(cfg *config.RedisConfig) (*redis.Options, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}

// bootstrap initializes all application dependencies: database, stores, services, schedulers.
func bootstrap(cfg *config.Config, db *gorm.DB) (*appServices, error) {
	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	utils.RegisterValidators()

	var rdb redis.UniversalClient
	var refreshStore store.RefreshTokenStore
	switch cfg.Session.RefreshStore {
	case "redis":
		opts, err := redisOptions(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		rdb = redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connect redis %s: %w", opts.Addr, err)
		}
		refreshStore = store.NewRedisRefreshTokenStore(rdb, redisKeyPrefix)
		logger.Info().Str("addr", opts.Addr).Msg("refresh tokens stored in redis")
	default:
		refreshStore = store.NewGormRefreshTokenStore(db)
	}

	m := metrics.New()
	tokenService := services.NewTokenService(&cfg.JWT, refreshStore)
	authService := services.NewAuthService(
		store.NewGormUserStore(db),
		utils.NewPasswordHasher(cfg.Password.Cost),
		tokenService,
		m,
	)
	blogService := services.NewBlogService(db)

	return &appServices{
		cfg:            cfg,
		db:             db,
		redis:          rdb,
		metrics:        m,
		tokenService:   tokenService,
		cleanupService: services.NewTokenCleanupService(refreshStore, cfg.Session.CleanupCron, m),
		authHandler:    handlers.NewAuthHandler(authService, cfg.Cookie),
		blogHandler:    handlers.NewBlogHandler(blogService),
		commentHandler: handlers.NewCommentHandler(services.NewCommentService(db, blogService)),
		healthHandler:  handlers.NewHealthHandler(db, rdb),
	}, nil
}

// startSchedulers runs the expired refresh token sweep. Redis expires keys
// on its own, so the sweep only runs for the database store.
func (s *appServices) startSchedulers() error {
	if s.redis != nil {
		return nil
	}
	return s.cleanupService.StartScheduler()
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.cleanupService.StopScheduler()
	logger.Info().Msg("All schedulers stopped")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}
