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

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	defer r.s.lock()()
	d := r.s.d

	if _, ok := d.usernames[u.Username]; ok {
		return repository.ErrDuplicate
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.VotedEvents == nil {
		u.VotedEvents = []string{}
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now

	d.users[u.ID] = cloneUser(u)
	d.usernames[u.Username] = u.ID
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.lock()()
	u, ok := r.s.d.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	defer r.s.lock()()
	id, ok := r.s.d.usernames[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(r.s.d.users[id]), nil
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	defer r.s.lock()()
	cur, ok := r.s.d.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Username = cur.Username
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = time.Now()
	r.s.d.users[u.ID] = cloneUser(u)
	return nil
}

func (r *userRepo) SearchByPattern(_ context.Context, pattern string, limit int) ([]entity.User, error) {
	defer r.s.lock()()
	p := strings.ToLower(pattern)

	out := make([]entity.User, 0)
	for _, u := range r.s.d.users {
		if strings.Contains(strings.ToLower(u.Username), p) ||
			strings.Contains(strings.ToLower(u.FirstName), p) ||
			strings.Contains(strings.ToLower(u.LastName), p) {
			out = append(out, *cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *userRepo) ClearVotes(_ context.Context, title string) error {
	defer r.s.lock()()
	for _, u := range r.s.d.users {
		kept := u.VotedEvents[:0]
		for _, v := range u.VotedEvents {
			if v != title {
				kept = append(kept, v)
			}
		}
		u.VotedEvents = kept
	}
	return nil
}

func (r *userRepo) ListEvents(_ context.Context, username string) ([]entity.Event, error) {
	defer r.s.lock()()
	return cloneEvents(r.s.d.userEvents[username]), nil
}

func (r *userRepo) AddEvent(_ context.Context, username string, e *entity.Event) error {
	defer r.s.lock()()
	list := r.s.d.userEvents[username]
	for _, ev := range list {
		if ev.Title == e.Title {
			return repository.ErrDuplicate
		}
	}
	r.s.d.userEvents[username] = append(list, e.Clone())
	return nil
}

func (r *userRepo) UpdateEvent(_ context.Context, username string, e *entity.Event) error {
	defer r.s.lock()()
	list := r.s.d.userEvents[username]
	for i := range list {
		if list[i].Title == e.Title {
			list[i] = e.Clone()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *userRepo) RemoveEvent(_ context.Context, username, title string) error {
	defer r.s.lock()()
	r.s.d.userEvents[username] = removeByTitle(r.s.d.userEvents[username], title)
	return nil
}

func removeByTitle(list []entity.Event, title string) []entity.Event {
	out := list[:0]
	for _, e := range list {
		if e.Title != title {
			out = append(out, e)
		}
	}
	return out
}

var _ repository.UserRepository = (*userRepo)(nil)
