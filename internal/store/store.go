// Package store persists user credentials and refresh tokens.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/huangang/quill/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// UserStore reads and creates user records.
type UserStore interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// RefreshTokenStore keeps at most one live refresh token per user.
type RefreshTokenStore interface {
	// Upsert inserts or overwrites the token for userID. Concurrent calls for
	// the same user are last-write-wins.
	Upsert(ctx context.Context, userID, token string, expiresAt time.Time) error

	// FindByUserAndToken returns the record only if token is the current one
	// for userID; otherwise ErrNotFound.
	FindByUserAndToken(ctx context.Context, userID, token string) (*models.RefreshToken, error)

	// Delete removes the record holding token. Unknown tokens are a no-op.
	Delete(ctx context.Context, token string) error

	// DeleteExpired purges records that expired before the given time and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// HashToken returns the hex SHA-256 digest stored in place of the raw token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
