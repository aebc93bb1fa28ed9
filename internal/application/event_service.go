package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
	repo "github.com/oksasatya/go-event-sharing/internal/domain/repository"
)

const (
	ChatHistoryLimit     = 50
	PartialCategoryLimit = 4
	EventSearchLimit     = 50
	MaxChatMessageLength = 500
)

// reservedTitles collide with fixed routes under /events.
var reservedTitles = map[string]struct{}{
	"create": {},
	".":      {},
	"..":     {},
}

type EventService struct {
	Store        repo.Store
	Search       SearchIndex
	Uploader     ObjectUploader
	DefaultPhoto string
	Logger       *logrus.Logger
}

func NewEventService(store repo.Store, search SearchIndex, uploader ObjectUploader, defaultPhoto string, logger *logrus.Logger) *EventService {
	return &EventService{Store: store, Search: search, Uploader: uploader, DefaultPhoto: defaultPhoto, Logger: logger}
}

type CreateEventInput struct {
	Title      string               `form:"title" binding:"required,max=120"`
	Date       string               `form:"date" binding:"required,isodate"`
	Time       string               `form:"time" binding:"omitempty,clock"`
	Place      string               `form:"place" binding:"required,max=200"`
	Details    string               `form:"details" binding:"max=2000"`
	Categories entity.CategoryNames `form:"categories"`
	Photo      *Upload              `form:"-"`
}

type UpdateEventInput struct {
	Date    string  `form:"date" binding:"required,isodate"`
	Time    string  `form:"time" binding:"omitempty,clock"`
	Place   string  `form:"place" binding:"required,max=200"`
	Details string  `form:"details" binding:"max=2000"`
	Photo   string  `form:"photo" binding:"omitempty,max=500"`
	Upload  *Upload `form:"-"`
}

// EventDetail is an event with the tail of its chat transcript.
type EventDetail struct {
	Event    *entity.Event
	Messages []entity.ChatMessage
}

// CreateEvent stores the event, its category bucket entries and the
// owner's copy in one transaction.
func (s *EventService) CreateEvent(ctx context.Context, identity *Profile, in CreateEventInput) (*entity.Event, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fieldError("title", "required", in.Title, "is required")
	}
	if _, ok := reservedTitles[strings.ToLower(title)]; ok {
		return nil, fieldError("title", "reserved", in.Title, "is reserved, pick another title")
	}
	categories := in.Categories.Normalize()
	if len(categories) == 0 {
		return nil, fieldError("categories", "required", "", "pick at least one category")
	}

	if _, err := s.Store.Events().GetByTitle(ctx, title); err == nil {
		return nil, ErrDuplicateTitle
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("check title %q: %w", title, err)
	}

	photo, err := storeImage(ctx, s.Uploader, "events", "photo", in.Photo)
	if err != nil {
		return nil, err
	}
	if photo == "" {
		photo = s.DefaultPhoto
	}

	ev := &entity.Event{
		Title:      title,
		Date:       in.Date,
		Time:       in.Time,
		Place:      strings.TrimSpace(in.Place),
		Details:    strings.TrimSpace(in.Details),
		Photo:      photo,
		Likes:      0,
		Categories: categories,
		User:       identity.Username,
	}

	err = s.Store.WithinTx(ctx, func(tx repo.Store) error {
		if err := tx.Events().Create(ctx, ev); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrDuplicateTitle
			}
			return fmt.Errorf("insert event: %w", err)
		}
		for _, name := range ev.Categories {
			if err := tx.Categories().AddEvent(ctx, name, ev); err != nil {
				return fmt.Errorf("add to category %q: %w", name, err)
			}
		}
		if err := tx.Users().AddEvent(ctx, ev.User, ev); err != nil {
			return fmt.Errorf("add to owner list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.index(ctx, ev)
	return ev, nil
}

func (s *EventService) GetEvent(ctx context.Context, title string) (*EventDetail, error) {
	ev, err := s.load(ctx, s.Store, title, false)
	if err != nil {
		return nil, err
	}
	msgs, err := s.Store.Chats().GetLatestMessages(ctx, title, ChatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load chat of %q: %w", title, err)
	}
	return &EventDetail{Event: ev, Messages: msgs}, nil
}

// GetOwnedEvent loads an event for editing by its owner.
func (s *EventService) GetOwnedEvent(ctx context.Context, identity *Profile, title string) (*entity.Event, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	ev, err := s.load(ctx, s.Store, title, false)
	if err != nil {
		return nil, err
	}
	if !ev.IsOwnedBy(identity.Username) {
		return nil, ErrForbidden
	}
	return ev, nil
}

func (s *EventService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	cats, err := s.Store.Categories().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// EventsByCategory returns the bucket in insertion order; limit <= 0 returns all of it.
func (s *EventService) EventsByCategory(ctx context.Context, name string, limit int) ([]entity.Event, error) {
	events, err := s.Store.Categories().ListEvents(ctx, name, limit)
	if err != nil {
		return nil, fmt.Errorf("list category %q: %w", name, err)
	}
	return nonNil(events), nil
}

func (s *EventService) EventsByDate(ctx context.Context, date string) ([]entity.Event, error) {
	events, err := s.Store.Events().GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list events on %s: %w", date, err)
	}
	return nonNil(events), nil
}

// UpdateEvent applies the new values to the canonical event and all of its copies.
func (s *EventService) UpdateEvent(ctx context.Context, identity *Profile, title string, in UpdateEventInput) (*entity.Event, error) {
	if _, err := s.GetOwnedEvent(ctx, identity, title); err != nil {
		return nil, err
	}

	photo, err := storeImage(ctx, s.Uploader, "events", "photo", in.Upload)
	if err != nil {
		return nil, err
	}
	if photo == "" {
		photo = strings.TrimSpace(in.Photo)
	}

	var updated *entity.Event
	err = s.Store.WithinTx(ctx, func(tx repo.Store) error {
		ev, err := s.load(ctx, tx, title, true)
		if err != nil {
			return err
		}
		if !ev.IsOwnedBy(identity.Username) {
			return ErrForbidden
		}

		ev.Date = in.Date
		ev.Time = in.Time
		ev.Place = strings.TrimSpace(in.Place)
		ev.Details = strings.TrimSpace(in.Details)
		if photo != "" {
			ev.Photo = photo
		}

		if err := saveEverywhere(ctx, tx, ev); err != nil {
			return err
		}
		updated = ev
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.index(ctx, updated)
	return updated, nil
}

// DeleteEvent removes the event, its copies, its chat transcript and the votes cast on it.
func (s *EventService) DeleteEvent(ctx context.Context, identity *Profile, title string) error {
	if identity == nil {
		return ErrUnauthenticated
	}

	err := s.Store.WithinTx(ctx, func(tx repo.Store) error {
		ev, err := s.load(ctx, tx, title, true)
		if err != nil {
			return err
		}
		if !ev.IsOwnedBy(identity.Username) {
			return ErrForbidden
		}

		if err := tx.Events().Delete(ctx, title); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		for _, name := range ev.Categories {
			if err := tx.Categories().RemoveEvent(ctx, name, title); err != nil {
				return fmt.Errorf("remove from category %q: %w", name, err)
			}
		}
		if err := tx.Users().RemoveEvent(ctx, ev.User, title); err != nil {
			return fmt.Errorf("remove from owner list: %w", err)
		}
		if err := tx.Chats().DeleteByEvent(ctx, title); err != nil {
			return fmt.Errorf("delete chat: %w", err)
		}
		if err := tx.Users().ClearVotes(ctx, title); err != nil {
			return fmt.Errorf("clear votes: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.Search != nil {
		if err := s.Search.DeleteEvent(ctx, title); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("title", title).Warn("es delete failed")
		}
	}
	return nil
}

// LikeEvent adds the identity's like once. Repeated likes change nothing.
func (s *EventService) LikeEvent(ctx context.Context, identity *Profile, title string) (*entity.Event, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}

	var liked *entity.Event
	err := s.Store.WithinTx(ctx, func(tx repo.Store) error {
		ev, err := s.load(ctx, tx, title, true)
		if err != nil {
			return err
		}
		liked = ev

		u, err := tx.Users().GetByID(ctx, identity.ID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUnauthenticated
		}
		if err != nil {
			return fmt.Errorf("load voter: %w", err)
		}
		if u.HasVoted(title) {
			return nil
		}

		ev.Likes++
		if err := saveEverywhere(ctx, tx, ev); err != nil {
			return err
		}
		u.VotedEvents = append(u.VotedEvents, title)
		if err := tx.Users().Update(ctx, u); err != nil {
			return fmt.Errorf("record vote: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.index(ctx, liked)
	return liked, nil
}

func (s *EventService) PostMessage(ctx context.Context, identity *Profile, title, text string) (*entity.ChatMessage, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > MaxChatMessageLength {
		return nil, fieldError("text", "len", text, fmt.Sprintf("must be between 1 and %d characters long", MaxChatMessageLength))
	}
	if _, err := s.load(ctx, s.Store, title, false); err != nil {
		return nil, err
	}

	msg := &entity.ChatMessage{EventTitle: title, Username: identity.Username, Text: text}
	if err := s.Store.Chats().Add(ctx, msg); err != nil {
		return nil, fmt.Errorf("add chat message: %w", err)
	}
	return msg, nil
}

// SearchEvents matches pattern anywhere in event titles, case-insensitively.
// An index miss is rechecked against the database.
func (s *EventService) SearchEvents(ctx context.Context, pattern string) ([]entity.Event, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return []entity.Event{}, nil
	}

	if s.Search != nil {
		found, err := s.Search.SearchEvents(ctx, pattern, EventSearchLimit)
		if err == nil && len(found) > 0 {
			return found, nil
		}
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("es event search failed, falling back to database")
		}
	}

	found, err := s.Store.Events().SearchByTitle(ctx, pattern, EventSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return nonNil(found), nil
}

func (s *EventService) load(ctx context.Context, store repo.Store, title string, forUpdate bool) (*entity.Event, error) {
	var (
		ev  *entity.Event
		err error
	)
	if forUpdate {
		ev, err = store.Events().GetByTitleForUpdate(ctx, title)
	} else {
		ev, err = store.Events().GetByTitle(ctx, title)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load event %q: %w", title, err)
	}
	return ev, nil
}

// saveEverywhere writes ev to the canonical row, every category bucket and the owner's list.
func saveEverywhere(ctx context.Context, tx repo.Store, ev *entity.Event) error {
	if err := tx.Events().Update(ctx, ev); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	for _, name := range ev.Categories {
		if err := tx.Categories().UpdateEvent(ctx, name, ev); err != nil {
			return fmt.Errorf("update category %q: %w", name, err)
		}
	}
	if err := tx.Users().UpdateEvent(ctx, ev.User, ev); err != nil {
		return fmt.Errorf("update owner list: %w", err)
	}
	return nil
}

func (s *EventService) index(ctx context.Context, ev *entity.Event) {
	if s.Search == nil || ev == nil {
		return
	}
	if err := s.Search.IndexEvent(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("title", ev.Title).Warn("es index failed")
	}
}

func nonNil(events []entity.Event) []entity.Event {
	if events == nil {
		return []entity.Event{}
	}
	return events
}
