package services

import (
	"context"
	"fmt"
	"time"

	"github.com/huangang/quill/internal/config"
	"github.com/huangang/quill/internal/store"
	"github.com/huangang/quill/internal/utils"
)

// TokenPair is the result of issuing a fresh session.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenService signs and verifies access and refresh tokens and keeps the
// refresh token store in step with what was handed out.
type TokenService struct {
	access  *utils.JWTManager
	refresh *utils.JWTManager
	store   store.RefreshTokenStore
}

func NewTokenService(cfg *config.JWTConfig, refreshStore store.RefreshTokenStore) *TokenService {
	return &TokenService{
		access:  utils.NewJWTManager(cfg.AccessSecret, cfg.AccessTTL),
		refresh: utils.NewJWTManager(cfg.RefreshSecret, cfg.RefreshTTL),
		store:   refreshStore,
	}
}

// WithClock replaces the time source of both signers.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.access.WithClock(now)
	s.refresh.WithClock(now)
	return s
}

func (s *TokenService) SignAccessToken(userID string) (string, time.Time, error) {
	return s.access.Generate(userID)
}

func (s *TokenService) SignRefreshToken(userID string) (string, time.Time, error) {
	return s.refresh.Generate(userID)
}

func (s *TokenService) VerifyAccessToken(token string) (*utils.Claims, error) {
	return s.access.Parse(token)
}

func (s *TokenService) VerifyRefreshToken(token string) (*utils.Claims, error) {
	return s.refresh.Parse(token)
}

// StoreRefreshToken makes token the only live refresh token of userID.
func (s *TokenService) StoreRefreshToken(ctx context.Context, token, userID string, expiresAt time.Time) error {
	if err := s.store.Upsert(ctx, userID, token, expiresAt); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// IssuePair signs a new access and refresh token for userID and persists the
// refresh token, superseding any earlier one.
func (s *TokenService) IssuePair(ctx context.Context, userID string) (*TokenPair, error) {
	access, accessExp, err := s.SignAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, refreshExp, err := s.SignRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.StoreRefreshToken(ctx, refresh, userID, refreshExp); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// CheckRefreshToken verifies the token and confirms it is still the stored
// one for its user. It returns the owning user id.
func (s *TokenService) CheckRefreshToken(ctx context.Context, token string) (string, error) {
	claims, err := s.VerifyRefreshToken(token)
	if err != nil {
		return "", err
	}

	if _, err := s.store.FindByUserAndToken(ctx, claims.UserID, token); err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// RevokeRefreshToken removes token from the store. Unknown tokens are ignored.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, token string) error {
	if err := s.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}
