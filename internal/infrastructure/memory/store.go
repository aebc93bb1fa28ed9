package memory

import (
	"context"
	"sync"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
	"github.com/oksasatya/go-event-sharing/internal/domain/repository"
)

type data struct {
	users          map[string]*entity.User // by id
	usernames      map[string]string       // username -> id
	userEvents     map[string][]entity.Event
	events         map[string]*entity.Event // by title
	categories     map[string]entity.Category
	categoryEvents map[string][]entity.Event
	chats          map[string][]entity.ChatMessage
}

func newData() *data {
	return &data{
		users:          map[string]*entity.User{},
		usernames:      map[string]string{},
		userEvents:     map[string][]entity.Event{},
		events:         map[string]*entity.Event{},
		categories:     map[string]entity.Category{},
		categoryEvents: map[string][]entity.Event{},
		chats:          map[string][]entity.ChatMessage{},
	}
}

func cloneEvents(in []entity.Event) []entity.Event {
	out := make([]entity.Event, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.VotedEvents = append([]string(nil), u.VotedEvents...)
	if u.Age != nil {
		age := *u.Age
		c.Age = &age
	}
	return &c
}

func (d *data) clone() *data {
	c := newData()
	for id, u := range d.users {
		c.users[id] = cloneUser(u)
	}
	for k, v := range d.usernames {
		c.usernames[k] = v
	}
	for k, v := range d.userEvents {
		c.userEvents[k] = cloneEvents(v)
	}
	for k, v := range d.events {
		e := v.Clone()
		c.events[k] = &e
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.categoryEvents {
		c.categoryEvents[k] = cloneEvents(v)
	}
	for k, v := range d.chats {
		c.chats[k] = append([]entity.ChatMessage(nil), v...)
	}
	return c
}

// Store keeps everything in process memory. Transactions run one at a
// time and work on a copy that replaces the live data on commit.
type Store struct {
	mu   *sync.Mutex
	d    *data
	inTx bool
}

func NewStore() *Store {
	return &Store{mu: &sync.Mutex{}, d: newData()}
}

// lock takes the store mutex unless a transaction already holds it.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Users() repository.UserRepository          { return &userRepo{s} }
func (s *Store) Events() repository.EventRepository        { return &eventRepo{s} }
func (s *Store) Categories() repository.CategoryRepository { return &categoryRepo{s} }
func (s *Store) Chats() repository.ChatRepository          { return &chatRepo{s} }

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.d.clone()
	if err := fn(&Store{mu: s.mu, d: work, inTx: true}); err != nil {
		return err
	}
	*s.d = *work
	return nil
}

var _ repository.Store = (*Store)(nil)
