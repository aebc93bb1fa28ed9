package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
	"github.com/oksasatya/go-event-sharing/internal/domain/repository"
)

type CategoryRepository struct {
	q querier
}

func (r *CategoryRepository) GetAll(ctx context.Context) ([]entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[entity.Category])
}

func (r *CategoryRepository) Ensure(ctx context.Context, name string) error {
	_, err := r.q.Exec(ctx, `INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	return err
}

func (r *CategoryRepository) AddEvent(ctx context.Context, name string, e *entity.Event) error {
	if err := r.Ensure(ctx, name); err != nil {
		return err
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO category_events (category_name, title, event) VALUES ($1, $2, $3)
	`, name, e.Title, e)
	return translateErr(err)
}

func (r *CategoryRepository) UpdateEvent(ctx context.Context, name string, e *entity.Event) error {
	res, err := r.q.Exec(ctx, `
		UPDATE category_events SET event = $3 WHERE category_name = $1 AND title = $2
	`, name, e.Title, e)
	if err != nil {
		return translateErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) RemoveEvent(ctx context.Context, name, title string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM category_events WHERE category_name = $1 AND title = $2`, name, title)
	return err
}

func (r *CategoryRepository) ListEvents(ctx context.Context, name string, limit int) ([]entity.Event, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.q.Query(ctx, `
			SELECT event FROM category_events WHERE category_name = $1 ORDER BY position LIMIT $2
		`, name, limit)
	} else {
		rows, err = r.q.Query(ctx, `
			SELECT event FROM category_events WHERE category_name = $1 ORDER BY position
		`, name)
	}
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[entity.Event])
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)
