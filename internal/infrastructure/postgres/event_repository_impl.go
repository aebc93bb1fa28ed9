package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
	"github.com/oksasatya/go-event-sharing/internal/domain/repository"
)

const eventColumns = `id, title, date, time, place, details, photo, likes, categories, username, created_at, updated_at`

type EventRepository struct {
	q querier
}

func scanEvent(row pgx.Row) (*entity.Event, error) {
	e := &entity.Event{}
	var categories []string
	if err := row.Scan(&e.ID, &e.Title, &e.Date, &e.Time, &e.Place, &e.Details, &e.Photo,
		&e.Likes, &categories, &e.User, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, translateErr(err)
	}
	e.Categories = entity.CategoryNames(categories)
	return e, nil
}

func collectEvents(rows pgx.Rows) ([]entity.Event, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Event, error) {
		e, err := scanEvent(row)
		if err != nil {
			return entity.Event{}, err
		}
		return *e, nil
	})
}

func (r *EventRepository) Create(ctx context.Context, e *entity.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	row := r.q.QueryRow(ctx, `
		INSERT INTO events (id, title, date, time, place, details, photo, likes, categories, username)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, e.ID, e.Title, e.Date, e.Time, e.Place, e.Details, e.Photo, e.Likes, []string(e.Categories), e.User)

	return translateErr(row.Scan(&e.CreatedAt, &e.UpdatedAt))
}

func (r *EventRepository) GetByTitle(ctx context.Context, title string) (*entity.Event, error) {
	return scanEvent(r.q.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE title = $1`, title))
}

func (r *EventRepository) GetByTitleForUpdate(ctx context.Context, title string) (*entity.Event, error) {
	return scanEvent(r.q.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE title = $1 FOR UPDATE`, title))
}

func (r *EventRepository) GetByDate(ctx context.Context, date string) ([]entity.Event, error) {
	rows, err := r.q.Query(ctx, `SELECT `+eventColumns+` FROM events WHERE date = $1 ORDER BY time, title`, date)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *EventRepository) SearchByTitle(ctx context.Context, pattern string, limit int) ([]entity.Event, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE title ILIKE $1
		ORDER BY date, title
		LIMIT $2
	`, containsPattern(pattern), limit)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *EventRepository) Update(ctx context.Context, e *entity.Event) error {
	e.UpdatedAt = time.Now()

	res, err := r.q.Exec(ctx, `
		UPDATE events
		SET date = $1, time = $2, place = $3, details = $4, photo = $5, likes = $6, updated_at = $7
		WHERE title = $8
	`, e.Date, e.Time, e.Place, e.Details, e.Photo, e.Likes, e.UpdatedAt, e.Title)
	if err != nil {
		return translateErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, title string) error {
	res, err := r.q.Exec(ctx, `DELETE FROM events WHERE title = $1`, title)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.EventRepository = (*EventRepository)(nil)
