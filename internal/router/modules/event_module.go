package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-event-sharing/internal/interface/http"
	"github.com/oksasatya/go-event-sharing/internal/interface/middleware"
)

type EventModule struct {
	Handler *handlers.EventHandler
	Redis   *redis.Client
}

func NewEventModule(h *handlers.EventHandler, rdb *redis.Client) *EventModule {
	return &EventModule{Handler: h, Redis: rdb}
}

func (m *EventModule) Register(rg *gin.RouterGroup) {
	searchLimiter := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/events/:eventId", m.Handler.Detail)
	rg.GET("/categories", m.Handler.Categories)
	rg.GET("/categories/:categoryName", m.Handler.CategoryEvents)
	rg.GET("/date", m.Handler.Calendar)
	rg.GET("/date/:selectedDate", m.Handler.ByDate)
	rg.GET("/search/events", searchLimiter, m.Handler.Search)

	auth := rg.Group("/events")
	auth.Use(middleware.RequireAuth())
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/create", m.Handler.GetCreate)
		auth.POST("/create", m.Handler.PostCreate)
		auth.GET("/:eventId/edit", m.Handler.GetEdit)
		auth.POST("/:eventId/edit", m.Handler.PostEdit)
		auth.POST("/:eventId/delete", m.Handler.Delete)
		auth.POST("/:eventId/like", m.Handler.Like)
		auth.POST("/:eventId/chat", m.Handler.Chat)
	}
}
