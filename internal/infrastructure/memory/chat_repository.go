package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
	"github.com/oksasatya/go-event-sharing/internal/domain/repository"
)

type chatRepo struct{ s *Store }

func (r *chatRepo) Add(_ context.Context, m *entity.ChatMessage) error {
	defer r.s.lock()()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now()
	r.s.d.chats[m.EventTitle] = append(r.s.d.chats[m.EventTitle], *m)
	return nil
}

func (r *chatRepo) GetLatestMessages(_ context.Context, eventTitle string, limit int) ([]entity.ChatMessage, error) {
	defer r.s.lock()()
	msgs := r.s.d.chats[eventTitle]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]entity.ChatMessage{}, msgs...), nil
}

func (r *chatRepo) DeleteByEvent(_ context.Context, eventTitle string) error {
	defer r.s.lock()()
	delete(r.s.d.chats, eventTitle)
	return nil
}

var _ repository.ChatRepository = (*chatRepo)(nil)
