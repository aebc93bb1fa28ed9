package router

import (
	"github.com/oksasatya/go-event-sharing/internal/container"
	handlers "github.com/oksasatya/go-event-sharing/internal/interface/http"
	"github.com/oksasatya/go-event-sharing/internal/router/modules"
)

// InitModules builds the handlers from the container and registers every feature module.
func InitModules(r *Registry, c *container.Container) {
	render := handlers.NewRenderer(c.Cookies, c.Logger)

	r.Add(modules.NewHomeModule(handlers.NewHomeHandler(render, c.Events)))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(render, c.Auth, c.Users, c.Cookies), c.Redis))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(render, c.Users), c.Redis))
	r.Add(modules.NewEventModule(handlers.NewEventHandler(render, c.Events), c.Redis))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}
