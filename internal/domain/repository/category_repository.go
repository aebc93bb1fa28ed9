package repository

import (
	"context"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
)

// CategoryRepository stores categories and their event buckets.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]entity.Category, error)
	Ensure(ctx context.Context, name string) error
	// AddEvent appends a snapshot of e to the bucket, creating the category when missing.
	AddEvent(ctx context.Context, name string, e *entity.Event) error
	UpdateEvent(ctx context.Context, name string, e *entity.Event) error
	RemoveEvent(ctx context.Context, name, title string) error
	// ListEvents returns the bucket in insertion order; limit <= 0 means all.
	ListEvents(ctx context.Context, name string, limit int) ([]entity.Event, error)
}
