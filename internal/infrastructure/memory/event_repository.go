package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
	"github.com/oksasatya/go-event-sharing/internal/domain/repository"
)

type eventRepo struct{ s *Store }

func (r *eventRepo) Create(_ context.Context, e *entity.Event) error {
	defer r.s.lock()()
	if _, ok := r.s.d.events[e.Title]; ok {
		return repository.ErrDuplicate
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now

	c := e.Clone()
	r.s.d.events[e.Title] = &c
	return nil
}

func (r *eventRepo) GetByTitle(_ context.Context, title string) (*entity.Event, error) {
	defer r.s.lock()()
	e, ok := r.s.d.events[title]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := e.Clone()
	return &c, nil
}

// GetByTitleForUpdate needs no extra locking: transactions are serialized.
func (r *eventRepo) GetByTitleForUpdate(ctx context.Context, title string) (*entity.Event, error) {
	return r.GetByTitle(ctx, title)
}

func (r *eventRepo) GetByDate(_ context.Context, date string) ([]entity.Event, error) {
	defer r.s.lock()()
	out := make([]entity.Event, 0)
	for _, e := range r.s.d.events {
		if e.Date == date {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (r *eventRepo) SearchByTitle(_ context.Context, pattern string, limit int) ([]entity.Event, error) {
	defer r.s.lock()()
	p := strings.ToLower(pattern)
	out := make([]entity.Event, 0)
	for _, e := range r.s.d.events {
		if strings.Contains(strings.ToLower(e.Title), p) {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Title < out[j].Title
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *eventRepo) Update(_ context.Context, e *entity.Event) error {
	defer r.s.lock()()
	cur, ok := r.s.d.events[e.Title]
	if !ok {
		return repository.ErrNotFound
	}
	e.UpdatedAt = time.Now()

	c := e.Clone()
	c.ID, c.User, c.Categories, c.CreatedAt = cur.ID, cur.User, cur.Categories, cur.CreatedAt
	r.s.d.events[e.Title] = &c
	return nil
}

func (r *eventRepo) Delete(_ context.Context, title string) error {
	defer r.s.lock()()
	if _, ok := r.s.d.events[title]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.d.events, title)
	return nil
}

var _ repository.EventRepository = (*eventRepo)(nil)
