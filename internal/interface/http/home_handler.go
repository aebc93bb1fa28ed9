package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-event-sharing/internal/application"
	"github.com/oksasatya/go-event-sharing/pkg/response"
)

type HomeHandler struct {
	R      *Renderer
	Events *application.EventService
}

func NewHomeHandler(r *Renderer, events *application.EventService) *HomeHandler {
	return &HomeHandler{R: r, Events: events}
}

// Home GET /
func (h *HomeHandler) Home(c *gin.Context) {
	cats, err := h.Events.ListCategories(c.Request.Context())
	if err != nil {
		h.R.Fail(c, err)
		return
	}
	h.R.Page(c, http.StatusOK, "home", gin.H{"categories": cats})
}

// Error GET /error
func (h *HomeHandler) Error(c *gin.Context) {
	h.R.Page(c, http.StatusOK, "error", gin.H{"title": "Error"})
}

// Health GET /healthz
func (h *HomeHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"status": "ok"}, "healthy")
}
