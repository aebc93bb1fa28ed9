package repository

import (
	"context"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// It also owns the user's denormalized list of created events.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	SearchByPattern(ctx context.Context, pattern string, limit int) ([]entity.User, error)
	// ClearVotes drops title from every user's voted events.
	ClearVotes(ctx context.Context, title string) error

	ListEvents(ctx context.Context, username string) ([]entity.Event, error)
	AddEvent(ctx context.Context, username string, e *entity.Event) error
	UpdateEvent(ctx context.Context, username string, e *entity.Event) error
	RemoveEvent(ctx context.Context, username, title string) error
}
