package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-event-sharing/internal/interface/http"
	"github.com/oksasatya/go-event-sharing/internal/interface/middleware"
)

// UserModule serves profiles and people search.
// Public: GET /users/:username, GET /users/:username/myEvents, GET /search/users
// Protected: GET|POST /users/:username/edit
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	searchLimiter := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/users/:username", m.Handler.Profile)
	rg.GET("/users/:username/myEvents", m.Handler.MyEvents)
	rg.GET("/search/users", searchLimiter, m.Handler.Search)

	auth := rg.Group("/users")
	auth.Use(middleware.RequireAuth())
	auth.Use(middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/:username/edit", m.Handler.GetEdit)
		auth.POST("/:username/edit", m.Handler.PostEdit)
	}
}
