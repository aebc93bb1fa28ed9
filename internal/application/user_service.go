package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
	repo "github.com/oksasatya/go-event-sharing/internal/domain/repository"
	"github.com/oksasatya/go-event-sharing/pkg/helpers"
	"github.com/oksasatya/go-event-sharing/pkg/mailer"
	mailtpl "github.com/oksasatya/go-event-sharing/pkg/mailer/templates"
)

const UserSearchLimit = 20

type UserService struct {
	Store    repo.Store
	Search   SearchIndex
	Uploader ObjectUploader
	Emails   EmailPublisher
	Site     mailtpl.Site
	Logger   *logrus.Logger
}

func NewUserService(store repo.Store, search SearchIndex, uploader ObjectUploader, emails EmailPublisher, site mailtpl.Site, logger *logrus.Logger) *UserService {
	return &UserService{Store: store, Search: search, Uploader: uploader, Emails: emails, Site: site, Logger: logger}
}

type SignupInput struct {
	Username        string `form:"username" binding:"required,min=3,max=40,username"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required,pwd"`
	PasswordConfirm string `form:"passwordConfirm" binding:"required,eqfield=Password"`
}

type UpdateProfileInput struct {
	Email     string  `form:"email" binding:"required,email"`
	FirstName string  `form:"firstName" binding:"max=50"`
	LastName  string  `form:"lastName" binding:"max=50"`
	Age       string  `form:"age" binding:"omitempty,numeric"`
	Avatar    *Upload `form:"-"`
}

// Signup creates exactly one user. A taken username is reported as a
// validation error on the username field.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*Profile, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fieldError("username", "required", in.Username, "is required")
	}

	hash, err := helpers.HashPassword(in.Password)
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return nil, fieldError("password", "max", "", "is too long")
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		Username: username,
		Password: hash,
		Email:    strings.TrimSpace(in.Email),
	}
	if err := s.Store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fieldError("username", "unique", username, "is already taken")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.index(ctx, u)
	s.publish(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(s.Site, u.FullName(), u.Username, u.Email),
	})

	return NewProfile(u), nil
}

func (s *UserService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	u, err := s.Store.Users().GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user %q: %w", username, err)
	}
	return NewProfile(u), nil
}

// UpdateProfile lets a user edit their own profile.
func (s *UserService) UpdateProfile(ctx context.Context, identity *Profile, username string, in UpdateProfileInput) (*Profile, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	if !identity.Is(username) {
		return nil, ErrForbidden
	}

	u, err := s.Store.Users().GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user %q: %w", username, err)
	}

	age, err := parseAge(in.Age)
	if err != nil {
		return nil, err
	}

	avatar, err := storeImage(ctx, s.Uploader, "avatars/"+u.ID, "avatar", in.Avatar)
	if err != nil {
		return nil, err
	}

	changes := map[string]string{}
	setIfChanged(changes, "email", &u.Email, strings.TrimSpace(in.Email))
	setIfChanged(changes, "firstName", &u.FirstName, strings.TrimSpace(in.FirstName))
	setIfChanged(changes, "lastName", &u.LastName, strings.TrimSpace(in.LastName))
	if !sameAge(u.Age, age) {
		u.Age = age
		changes["age"] = in.Age
	}
	if avatar != "" {
		u.Avatar = avatar
		changes["avatar"] = "new picture"
	}

	if len(changes) == 0 {
		return NewProfile(u), nil
	}

	if err := s.Store.Users().Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user %q: %w", username, err)
	}

	s.index(ctx, u)
	s.publish(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.ProfileUpdated,
		Data:     mailtpl.NewProfileUpdatedData(s.Site, u.FullName(), u.Username, u.Email, changes, mailtpl.WithTime(u.UpdatedAt)),
	})

	return NewProfile(u), nil
}

// UserEvents returns the events created by username. Unknown users have none.
func (s *UserService) UserEvents(ctx context.Context, username string) ([]entity.Event, error) {
	events, err := s.Store.Users().ListEvents(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list events of %q: %w", username, err)
	}
	if events == nil {
		events = []entity.Event{}
	}
	return events, nil
}

// SearchUsers matches pattern anywhere in usernames and names.
// An index miss is rechecked against the database.
func (s *UserService) SearchUsers(ctx context.Context, pattern string) ([]Profile, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return []Profile{}, nil
	}

	var users []entity.User
	if s.Search != nil {
		found, err := s.Search.SearchUsers(ctx, pattern, UserSearchLimit)
		if err == nil && len(found) > 0 {
			users = found
		} else if err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("es user search failed, falling back to database")
		}
	}
	if users == nil {
		found, err := s.Store.Users().SearchByPattern(ctx, pattern, UserSearchLimit)
		if err != nil {
			return nil, fmt.Errorf("search users: %w", err)
		}
		users = found
	}

	out := make([]Profile, 0, len(users))
	for i := range users {
		out = append(out, *NewProfile(&users[i]))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *UserService) index(ctx context.Context, u *entity.User) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexUser(ctx, u); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
}

func (s *UserService) publish(ctx context.Context, job mailer.EmailJob) {
	if s.Emails == nil || job.To == "" {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.Emails.PublishJSON(c, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", job.Template).Warn("enqueue email failed")
	}
}

func parseAge(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 150 {
		return nil, fieldError("age", "range", raw, "must be a number between 0 and 150")
	}
	return &n, nil
}

func sameAge(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func setIfChanged(changes map[string]string, field string, dst *string, v string) {
	if *dst == v {
		return
	}
	*dst = v
	changes[field] = v
}
