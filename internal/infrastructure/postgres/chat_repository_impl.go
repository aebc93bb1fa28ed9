package postgres

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
	"github.com/oksasatya/go-event-sharing/internal/domain/repository"
)

type ChatRepository struct {
	q querier
}

func (r *ChatRepository) Add(ctx context.Context, m *entity.ChatMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	row := r.q.QueryRow(ctx, `
		INSERT INTO chat_messages (id, event_title, username, text)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, m.ID, m.EventTitle, m.Username, m.Text)
	return row.Scan(&m.CreatedAt)
}

func (r *ChatRepository) GetLatestMessages(ctx context.Context, eventTitle string, limit int) ([]entity.ChatMessage, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, event_title, username, text, created_at
		FROM chat_messages
		WHERE event_title = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, eventTitle, limit)
	if err != nil {
		return nil, err
	}
	msgs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[entity.ChatMessage])
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return msgs, nil
}

func (r *ChatRepository) DeleteByEvent(ctx context.Context, eventTitle string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM chat_messages WHERE event_title = $1`, eventTitle)
	return err
}

var _ repository.ChatRepository = (*ChatRepository)(nil)
