package container

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-event-sharing/config"
	"github.com/oksasatya/go-event-sharing/internal/application"
	repo "github.com/oksasatya/go-event-sharing/internal/domain/repository"
	esinfra "github.com/oksasatya/go-event-sharing/internal/infrastructure/elasticsearch"
	"github.com/oksasatya/go-event-sharing/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-event-sharing/internal/infrastructure/postgres"
	redisinfra "github.com/oksasatya/go-event-sharing/internal/infrastructure/redis"
	"github.com/oksasatya/go-event-sharing/pkg/helpers"
	mailtpl "github.com/oksasatya/go-event-sharing/pkg/mailer/templates"
)

// Container holds the constructed components shared by the router and the binaries.
// Optional integrations stay nil when they are not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PGPool    *pgxpool.Pool
	Redis     *redis.Client
	GCS       *storage.Client
	ES        *elasticsearch.Client
	RabbitPub *helpers.RabbitPublisher

	Store    repo.Store
	Sessions repo.SessionStore
	Search   application.SearchIndex
	Uploader application.ObjectUploader
	Emails   application.EmailPublisher

	Tokens  *helpers.SessionTokenManager
	Cookies *helpers.Manager

	Auth   *application.AuthService
	Users  *application.UserService
	Events *application.EventService
}

// Build connects every configured backend and wires the services.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	switch cfg.DBDriver {
	case "memory":
		c.Store = memory.NewStore()
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		c.PGPool = pool
		c.Store = pginfra.NewStore(pool)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}

	switch cfg.SessionDriver {
	case "memory":
		c.Sessions = memory.NewSessionStore()
	case "redis":
		c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			c.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Sessions = redisinfra.NewSessionStore(c.Redis)
	default:
		c.Close()
		return nil, fmt.Errorf("unknown SESSION_DRIVER %q", cfg.SessionDriver)
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("init gcs client: %w", err)
		}
		c.GCS = gcs
		c.Uploader = helpers.NewGCSUploader(gcs, cfg.GCSBucket)
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("init elasticsearch client: %w", err)
		}
		c.ES = es
		idx := esinfra.NewSearchIndex(es, cfg.ESUsersIndex, cfg.ESEventsIndex, logger)
		if err := idx.EnsureIndices(ctx); err != nil {
			logger.WithError(err).Warn("elasticsearch indices not ready, searches fall back to database")
		}
		c.Search = idx
	}

	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, email jobs disabled")
		} else {
			c.RabbitPub = pub
			c.Emails = pub
		}
	}

	c.Wire()
	return c, nil
}

// Wire builds the token manager, cookie manager and services from the
// components already set on c.
func (c *Container) Wire() {
	cfg := c.Config
	c.Tokens = helpers.NewSessionTokenManager(cfg.SessionSecret, cfg.SessionTTL)
	c.Cookies = helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	site := mailtpl.Site{AppName: cfg.AppName, BaseURL: cfg.AppBaseURL}
	c.Auth = application.NewAuthService(c.Store, c.Sessions, c.Tokens, c.Logger)
	c.Users = application.NewUserService(c.Store, c.Search, c.Uploader, c.Emails, site, c.Logger)
	c.Events = application.NewEventService(c.Store, c.Search, c.Uploader, cfg.DefaultEventPhoto, c.Logger)
}

// Close releases every backend connection that was opened.
func (c *Container) Close() {
	if c.RabbitPub != nil {
		c.RabbitPub.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
}
