package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-event-sharing/internal/interface/http"
)

type HomeModule struct {
	Handler *handlers.HomeHandler
}

func NewHomeModule(h *handlers.HomeHandler) *HomeModule {
	return &HomeModule{Handler: h}
}

func (m *HomeModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Handler.Home)
	rg.GET("/error", m.Handler.Error)
	rg.GET("/healthz", m.Handler.Health)
}
