package main

import (
	"context"
	"errors"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-event-sharing/config"
	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
	repo "github.com/oksasatya/go-event-sharing/internal/domain/repository"
	pginfra "github.com/oksasatya/go-event-sharing/internal/infrastructure/postgres"
	"github.com/oksasatya/go-event-sharing/pkg/helpers"
)

var categories = []string{"Music", "Art", "Sports", "Tech", "Food"}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	store := pginfra.NewStore(pool)

	for _, name := range categories {
		if err := store.Categories().Ensure(ctx, name); err != nil {
			logger.Fatalf("failed to seed category %s: %v", name, err)
		}
	}
	logger.Infof("categories ensured: %v", categories)

	username := "demoUser"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		logger.Fatalf("failed to hash password: %v", err)
	}
	u := &entity.User{
		Username:  username,
		Password:  hash,
		Email:     "demo@example.com",
		FirstName: "Demo",
		LastName:  "User",
	}
	err = store.Users().Create(ctx, u)
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		logger.Infof("user %s already exists", username)
	case err != nil:
		logger.Fatalf("failed to seed user: %v", err)
	default:
		logger.Infof("seeded user: id=%s username=%s password=%s", u.ID, username, password)
	}
}
