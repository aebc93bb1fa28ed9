package repository

import (
	"context"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
)

// EventRepository stores canonical event records keyed by title.
type EventRepository interface {
	Create(ctx context.Context, e *entity.Event) error
	GetByTitle(ctx context.Context, title string) (*entity.Event, error)
	// GetByTitleForUpdate is GetByTitle that also locks the row until the
	// surrounding transaction ends.
	GetByTitleForUpdate(ctx context.Context, title string) (*entity.Event, error)
	GetByDate(ctx context.Context, date string) ([]entity.Event, error)
	SearchByTitle(ctx context.Context, pattern string, limit int) ([]entity.Event, error)
	Update(ctx context.Context, e *entity.Event) error
	Delete(ctx context.Context, title string) error
}
