package repository

import (
	"context"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
)

type ChatRepository interface {
	Add(ctx context.Context, m *entity.ChatMessage) error
	// GetLatestMessages returns up to limit most recent messages, oldest first.
	GetLatestMessages(ctx context.Context, eventTitle string, limit int) ([]entity.ChatMessage, error)
	DeleteByEvent(ctx context.Context, eventTitle string) error
}
