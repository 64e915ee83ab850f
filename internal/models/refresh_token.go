package models

import "time"

// RefreshToken is the single live refresh token of a user. The unique index
// on UserID is what enforces one active session per user: a new login or
// refresh overwrites the row instead of adding one.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"uniqueIndex;size:36;not null" json:"user_id"`
	TokenHash string    `gorm:"index;size:64;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }
