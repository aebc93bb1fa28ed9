package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-event-sharing/internal/interface/http"
	"github.com/oksasatya/go-event-sharing/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public with rate limiting
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), nil)          // 10 req/min per IP
	signupLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), nil) // 5 req/min per IP

	rg.GET("/login", m.Handler.GetLogin)
	rg.POST("/login", loginLimiter, m.Handler.PostLogin)
	rg.GET("/signup", m.Handler.GetSignup)
	rg.POST("/signup", signupLimiter, m.Handler.PostSignup)
	rg.GET("/logout", m.Handler.Logout)
}
