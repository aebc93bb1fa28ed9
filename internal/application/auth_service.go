package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
	repo "github.com/oksasatya/go-event-sharing/internal/domain/repository"
	"github.com/oksasatya/go-event-sharing/pkg/helpers"
)

type AuthService struct {
	Store    repo.Store
	Sessions repo.SessionStore
	Tokens   *helpers.SessionTokenManager
	Logger   *logrus.Logger
}

func NewAuthService(store repo.Store, sessions repo.SessionStore, tokens *helpers.SessionTokenManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Store: store, Sessions: sessions, Tokens: tokens, Logger: logger}
}

type LoginInput struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Authenticate validates username/password. Unknown users and wrong
// passwords produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Store.Users().GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and opens a session. It returns the signed cookie value.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", time.Time{}, err
	}

	sess := repo.Session{ID: uuid.NewString(), UserID: u.ID, Username: u.Username, CreatedAt: time.Now()}
	token, exp, err := s.Tokens.Generate(sess.ID, u.ID)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	if err := s.Sessions.Save(ctx, sess, s.Tokens.TTL); err != nil {
		return "", time.Time{}, fmt.Errorf("save session: %w", err)
	}

	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user logged in")
	}
	return token, exp, nil
}

// Resolve turns a session cookie into the request identity. Any failure
// means the request is anonymous.
func (s *AuthService) Resolve(ctx context.Context, token string) *Profile {
	if token == "" {
		return nil
	}
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil
	}
	sess, err := s.Sessions.Load(ctx, claims.SessionID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) && s.Logger != nil {
			s.Logger.WithError(err).Warn("session lookup failed")
		}
		return nil
	}
	if sess.UserID != claims.Subject {
		return nil
	}
	u, err := s.Store.Users().GetByID(ctx, sess.UserID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", sess.UserID).Warn("identity lookup failed")
		}
		return nil
	}
	return NewProfile(u)
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil
	}
	return s.Sessions.Delete(ctx, claims.SessionID)
}
