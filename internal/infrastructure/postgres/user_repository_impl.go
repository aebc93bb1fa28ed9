package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
	"github.com/oksasatya/go-event-sharing/internal/domain/repository"
)

const userColumns = `id, username, password_hash, email, first_name, last_name, age, avatar, voted_events, created_at, updated_at`

type UserRepository struct {
	q querier
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.FirstName, &u.LastName,
		&u.Age, &u.Avatar, &u.VotedEvents, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translateErr(err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.VotedEvents == nil {
		u.VotedEvents = []string{}
	}
	row := r.q.QueryRow(ctx, `
		INSERT INTO users (id, username, password_hash, email, first_name, last_name, age, avatar, voted_events)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, u.ID, u.Username, u.Password, u.Email, u.FirstName, u.LastName, u.Age, u.Avatar, u.VotedEvents)

	return translateErr(row.Scan(&u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	return scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.q.Exec(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, first_name = $3, last_name = $4, age = $5,
		    avatar = $6, voted_events = $7, updated_at = $8
		WHERE id = $9
	`, u.Email, u.Password, u.FirstName, u.LastName, u.Age, u.Avatar, u.VotedEvents, u.UpdatedAt, u.ID)
	if err != nil {
		return translateErr(err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *UserRepository) SearchByPattern(ctx context.Context, pattern string, limit int) ([]entity.User, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1
		ORDER BY username
		LIMIT $2
	`, containsPattern(pattern), limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.User, error) {
		u, err := scanUser(row)
		if err != nil {
			return entity.User{}, err
		}
		return *u, nil
	})
}

func (r *UserRepository) ClearVotes(ctx context.Context, title string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE users SET voted_events = array_remove(voted_events, $1)
		WHERE $1 = ANY(voted_events)
	`, title)
	return err
}

func (r *UserRepository) ListEvents(ctx context.Context, username string) ([]entity.Event, error) {
	rows, err := r.q.Query(ctx, `SELECT event FROM user_events WHERE username = $1 ORDER BY position`, username)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[entity.Event])
}

func (r *UserRepository) AddEvent(ctx context.Context, username string, e *entity.Event) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_events (username, title, event) VALUES ($1, $2, $3)
	`, username, e.Title, e)
	return translateErr(err)
}

func (r *UserRepository) UpdateEvent(ctx context.Context, username string, e *entity.Event) error {
	res, err := r.q.Exec(ctx, `
		UPDATE user_events SET event = $3 WHERE username = $1 AND title = $2
	`, username, e.Title, e)
	if err != nil {
		return translateErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) RemoveEvent(ctx context.Context, username, title string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM user_events WHERE username = $1 AND title = $2`, username, title)
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
