package services

import (
	"context"
	"errors"

	"github.com/huangang/quill/internal/metrics"
	"github.com/huangang/quill/internal/models"
	"github.com/huangang/quill/internal/store"
	"github.com/huangang/quill/internal/utils"
	"github.com/huangang/quill/pkg/logger"
	"github.com/huangang/quill/pkg/response"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgUsernameInUse     = "username in use"
	msgEmailRegistered   = "email already registered"
	msgInvalidUsername   = "invalid username"
	msgInvalidPassword   = "invalid password"
	msgPasswordTooLong   = "password must be at most 72 bytes"
	msgUnauthorized      = "unauthorized"
	msgRefreshTokenEmpty = "refresh token required"
)

type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=5,max=30"`
	Name            string `json:"name" binding:"required,max=30"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,password"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,min=5,max=30"`
	Password string `json:"password" binding:"required"`
}

// Session is what a successful register, login or refresh hands back to the
// transport layer.
type Session struct {
	User   *models.User
	Tokens *TokenPair
}

type AuthService struct {
	users   store.UserStore
	hasher  *utils.PasswordHasher
	tokens  *TokenService
	metrics *metrics.Metrics
}

func NewAuthService(users store.UserStore, hasher *utils.PasswordHasher, tokens *TokenService, m *metrics.Metrics) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		metrics: m,
	}
}

// Register creates the account and opens its first session. The user row is
// committed before tokens are issued; if issuing fails the account remains
// and the client can log in.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*Session, error) {
	if err := s.checkConflict(ctx, req.Username, req.Email); err != nil {
		s.record(metrics.EventRegister, err)
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		appErr := response.NewBadRequest(msgPasswordTooLong)
		s.record(metrics.EventRegister, appErr)
		return nil, appErr
	}
	if err != nil {
		s.record(metrics.EventRegister, err)
		return nil, response.Internal(err)
	}

	user := &models.User{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost a race with a concurrent registration.
			if cerr := s.checkConflict(ctx, req.Username, req.Email); cerr != nil {
				err = cerr
			} else {
				err = response.NewConflict(msgUsernameInUse)
			}
		} else {
			err = response.Internal(err)
		}
		s.record(metrics.EventRegister, err)
		return nil, err
	}

	pair, err := s.tokens.IssuePair(ctx, user.ID)
	if err != nil {
		s.record(metrics.EventRegister, err)
		return nil, response.Internal(err)
	}

	logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	s.record(metrics.EventRegister, nil)
	return &Session{User: user, Tokens: pair}, nil
}

// checkConflict reports a taken username before a taken email.
func (s *AuthService) checkConflict(ctx context.Context, username, email string) error {
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return response.Internal(err)
	}
	if taken {
		return response.NewConflict(msgUsernameInUse)
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return response.Internal(err)
	}
	if taken {
		return response.NewConflict(msgEmailRegistered)
	}
	return nil
}

// Login verifies the credentials and replaces any existing session of the
// user with a new one.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*Session, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn().Str("username", req.Username).Str("reason", "unknown username").Msg("login rejected")
			err = response.NewUnauthorized(msgInvalidUsername)
		} else {
			err = response.Internal(err)
		}
		s.record(metrics.EventLogin, err)
		return nil, err
	}

	ok, err := s.hasher.Verify(req.Password, user.Password)
	if err != nil {
		err = response.Internal(err)
		s.record(metrics.EventLogin, err)
		return nil, err
	}
	if !ok {
		logger.Warn().Str("user_id", user.ID).Str("reason", "password mismatch").Msg("login rejected")
		err = response.NewUnauthorized(msgInvalidPassword)
		s.record(metrics.EventLogin, err)
		return nil, err
	}

	pair, err := s.tokens.IssuePair(ctx, user.ID)
	if err != nil {
		err = response.Internal(err)
		s.record(metrics.EventLogin, err)
		return nil, err
	}

	logger.Info().Str("user_id", user.ID).Msg("user logged in")
	s.record(metrics.EventLogin, nil)
	return &Session{User: user, Tokens: pair}, nil
}

// Logout forgets the given refresh token. An empty or unknown token is not
// an error.
func (s *AuthService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken != "" {
		if err := s.tokens.RevokeRefreshToken(ctx, refreshToken); err != nil {
			err = response.Internal(err)
			s.record(metrics.EventLogout, err)
			return err
		}
	}

	logger.Info().Str("user_id", userID).Msg("user logged out")
	s.record(metrics.EventLogout, nil)
	return nil
}

// Refresh rotates a session. The presented token must verify and still be
// the stored one for its user; a token superseded by a later login or
// refresh is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		err := response.NewUnauthorized(msgRefreshTokenEmpty)
		s.record(metrics.EventRefresh, err)
		return nil, err
	}

	userID, err := s.tokens.CheckRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidToken) || errors.Is(err, store.ErrNotFound) {
			logger.Warn().Str("reason", refreshRejectReason(err)).Msg("refresh rejected")
			err = response.NewUnauthorized(msgUnauthorized)
		} else {
			err = response.Internal(err)
		}
		s.record(metrics.EventRefresh, err)
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn().Str("user_id", userID).Str("reason", "user gone").Msg("refresh rejected")
			err = response.NewUnauthorized(msgUnauthorized)
		} else {
			err = response.Internal(err)
		}
		s.record(metrics.EventRefresh, err)
		return nil, err
	}

	pair, err := s.tokens.IssuePair(ctx, user.ID)
	if err != nil {
		err = response.Internal(err)
		s.record(metrics.EventRefresh, err)
		return nil, err
	}

	s.record(metrics.EventRefresh, nil)
	return &Session{User: user, Tokens: pair}, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, response.Internal(err)
	}
	return user, nil
}

func (s *AuthService) record(event string, err error) {
	switch {
	case err == nil:
		s.metrics.AuthEvent(event, metrics.OutcomeSuccess)
	case response.StatusOf(err) >= 500:
		s.metrics.AuthEvent(event, metrics.OutcomeError)
	default:
		s.metrics.AuthEvent(event, metrics.OutcomeRejected)
	}
}

func refreshRejectReason(err error) string {
	if errors.Is(err, store.ErrNotFound) {
		return "token superseded"
	}
	return "token invalid"
}
