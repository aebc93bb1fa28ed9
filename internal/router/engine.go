package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-event-sharing/internal/container"
	"github.com/oksasatya/go-event-sharing/internal/interface/middleware"
	"github.com/oksasatya/go-event-sharing/web"
)

// New builds the gin engine with templates, static assets, global
// middleware and every module registered.
func New(c *container.Container) (*gin.Engine, error) {
	cfg := c.Config

	r := gin.New()
	// event titles travel in the path and may contain escaped slashes
	r.UseRawPath = true
	r.UnescapePathValues = true

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if cfg.HTTPLogEnabled {
		r.Use(middleware.Logger(c.Logger))
	}

	r.StaticFS("/static", http.FS(web.Static()))

	reg := NewRegistry(r)
	reg.Use(
		middleware.Timeout(cfg.RequestTimeout),
		middleware.Session(c.Auth, c.Cookies),
	)
	InitModules(reg, c)
	reg.RegisterAll()

	return r, nil
}
