package routes

import (
	"smartdash/internal/delivery/http/handler"
	"smartdash/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Health   *handler.HealthHandler
	Resume   *handler.ResumeHandler
	Jobs     *handler.JobsHandler
	Apply    *handler.ApplyHandler
	Settings *handler.SettingsHandler
	WS       *ws.Handler
}

type Registry struct {
	h Handlers
}

func NewRegistry(h Handlers) *Registry {
	return &Registry{h: h}
}

// Register mounts every route at the root; the dashboard calls the paths
// without a version prefix.
func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.h.Health.RegisterRoutes(app)
	r.h.Resume.RegisterRoutes(app)
	r.h.Jobs.RegisterRoutes(app)
	r.h.Apply.RegisterRoutes(app)
	r.h.Settings.RegisterRoutes(app)
	if r.h.WS != nil {
		r.h.WS.RegisterRoutes(app)
	}
}
