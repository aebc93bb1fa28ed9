package repository

import (
	"context"
	"time"
)

// Session is what the session store keeps for an authenticated browser.
type Session struct {
	ID        string
	UserID    string
	Username  string
	CreatedAt time.Time
}

type SessionStore interface {
	Save(ctx context.Context, s Session, ttl time.Duration) error
	// Load returns ErrNotFound for unknown or expired sessions.
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
