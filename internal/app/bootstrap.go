package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"smartdash/internal/config"
	"smartdash/internal/delivery/http/handler"
	"smartdash/internal/delivery/http/middleware"
	"smartdash/internal/delivery/http/routes"
	"smartdash/internal/infrastructure/pubsub"
	"smartdash/internal/ranking"
	"smartdash/internal/usecase"
	"smartdash/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

type App struct {
	Fiber *fiber.App
	Hub   *ws.Hub
}

// Bootstrap wires the API server. The returned cleanup stops the websocket
// relay and closes every connection.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)
	ctx, cancel := context.WithCancel(context.Background())

	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	fail := func(err error) (*App, func() error, error) {
		cancel()
		_ = c.Close()
		return nil, nil, err
	}

	parsers, err := c.Parsers(ctx)
	if err != nil {
		return fail(err)
	}
	embedder, err := c.Embedder(ctx)
	if err != nil {
		return fail(err)
	}
	fetcher, err := c.Fetcher()
	if err != nil {
		return fail(err)
	}

	settings := usecase.NewSettingsUsecase(ctx, c.Settings, cfg.Resume.ParserPreference, logger)
	candidates := usecase.NewCandidateUsecase(c.Candidates, parsers, settings, cfg.Resume.UploadDir, logger)
	jobs := usecase.NewJobSearchUsecase(
		c.Candidates,
		c.Redis,
		fetcher,
		ranking.NewRanker(embedder, logger),
		cfg.Cache.JobSearchTTL,
		cfg.JobSources.DefaultLocation,
		logger,
	)
	applications := usecase.NewApplicationUsecase(c.Applications, c.Events, c.Queue, logger)
	health := usecase.NewHealthUsecase(c.Redis, c.DB, c.Queue, logger)

	hub := ws.NewHub(logger)
	go hub.Run(ctx)
	go ws.Relay(ctx, pubsub.NewSubscriber(c.Redis.Client(), logger), hub, logger)

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	registerGlobalMiddleware(f, cfg, logger)
	routes.NewRegistry(routes.Handlers{
		Health:   handler.NewHealthHandler(health),
		Resume:   handler.NewResumeHandler(candidates),
		Jobs:     handler.NewJobsHandler(jobs),
		Apply:    handler.NewApplyHandler(applications),
		Settings: handler.NewSettingsHandler(settings),
		WS:       ws.NewHandler(hub, logger),
	}).Register(f)

	cleanup := func() error {
		cancel()
		return c.Close()
	}
	return &App{Fiber: f, Hub: hub}, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, logger *log.Logger) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware(logger)
	accessMw := middleware.NewAccessLogMiddleware(logger)
	app.Use(errMw.Middleware())
	app.Use(accessMw.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CORSOrigins,
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID},
		ExposeHeaders: []string{
			middleware.HeaderRequestID,
			handler.HeaderCache,
			handler.HeaderRanking,
			handler.HeaderPartial,
		},
	}))
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
