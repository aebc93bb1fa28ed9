package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-event-sharing/internal/domain/repository"
	"github.com/oksasatya/go-event-sharing/pkg/helpers"
)

// SessionStore keeps sessions as JSON values under "session:<sid>" with the session TTL.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func sessionKey(id string) string {
	return "session:" + id
}

type sessionValue struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *SessionStore) Save(ctx context.Context, sess repository.Session, ttl time.Duration) error {
	v := sessionValue{UserID: sess.UserID, Username: sess.Username, CreatedAt: sess.CreatedAt.UTC()}
	return helpers.RedisSetJSON(ctx, s.rdb, sessionKey(sess.ID), v, ttl)
}

func (s *SessionStore) Load(ctx context.Context, id string) (*repository.Session, error) {
	var v sessionValue
	ok, err := helpers.RedisGetJSON(ctx, s.rdb, sessionKey(id), &v)
	if err != nil {
		return nil, err
	}
	if !ok || v.UserID == "" {
		return nil, repository.ErrNotFound
	}
	return &repository.Session{ID: id, UserID: v.UserID, Username: v.Username, CreatedAt: v.CreatedAt}, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return helpers.RedisDel(ctx, s.rdb, sessionKey(id))
}

var _ repository.SessionStore = (*SessionStore)(nil)
