package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangang/quill/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRefreshTokenStore keeps refresh tokens in the refresh_tokens table,
// one row per user enforced by the unique index on user_id.
type GormRefreshTokenStore struct {
	db *gorm.DB
}

func NewGormRefreshTokenStore(db *gorm.DB) *GormRefreshTokenStore {
	return &GormRefreshTokenStore{db: db}
}

func (s *GormRefreshTokenStore) Upsert(ctx context.Context, userID, token string, expiresAt time.Time) error {
	record := models.RefreshToken{
		UserID:    userID,
		TokenHash: HashToken(token),
		ExpiresAt: expiresAt,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token_hash", "expires_at", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("upsert refresh token: %w", err)
	}
	return nil
}

func (s *GormRefreshTokenStore) FindByUserAndToken(ctx context.Context, userID, token string) (*models.RefreshToken, error) {
	var record models.RefreshToken
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND token_hash = ?", userID, HashToken(token)).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &record, nil
}

func (s *GormRefreshTokenStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).
		Where("token_hash = ?", HashToken(token)).
		Delete(&models.RefreshToken{}).Error; err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (s *GormRefreshTokenStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
