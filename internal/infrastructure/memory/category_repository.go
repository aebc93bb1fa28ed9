package memory

import (
	"context"
	"sort"
	"time"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
	"github.com/oksasatya/go-event-sharing/internal/domain/repository"
)

type categoryRepo struct{ s *Store }

func (r *categoryRepo) GetAll(_ context.Context) ([]entity.Category, error) {
	defer r.s.lock()()
	out := make([]entity.Category, 0, len(r.s.d.categories))
	for _, c := range r.s.d.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *categoryRepo) ensure(name string) {
	if _, ok := r.s.d.categories[name]; !ok {
		r.s.d.categories[name] = entity.Category{Name: name, CreatedAt: time.Now()}
	}
}

func (r *categoryRepo) Ensure(_ context.Context, name string) error {
	defer r.s.lock()()
	r.ensure(name)
	return nil
}

func (r *categoryRepo) AddEvent(_ context.Context, name string, e *entity.Event) error {
	defer r.s.lock()()
	r.ensure(name)
	list := r.s.d.categoryEvents[name]
	for _, ev := range list {
		if ev.Title == e.Title {
			return repository.ErrDuplicate
		}
	}
	r.s.d.categoryEvents[name] = append(list, e.Clone())
	return nil
}

func (r *categoryRepo) UpdateEvent(_ context.Context, name string, e *entity.Event) error {
	defer r.s.lock()()
	list := r.s.d.categoryEvents[name]
	for i := range list {
		if list[i].Title == e.Title {
			list[i] = e.Clone()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *categoryRepo) RemoveEvent(_ context.Context, name, title string) error {
	defer r.s.lock()()
	r.s.d.categoryEvents[name] = removeByTitle(r.s.d.categoryEvents[name], title)
	return nil
}

func (r *categoryRepo) ListEvents(_ context.Context, name string, limit int) ([]entity.Event, error) {
	defer r.s.lock()()
	list := r.s.d.categoryEvents[name]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return cloneEvents(list), nil
}

var _ repository.CategoryRepository = (*categoryRepo)(nil)
