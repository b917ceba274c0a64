package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"smartdash/internal/config"
	"smartdash/internal/database"
	"smartdash/internal/database/migration"
	dbpostgres "smartdash/internal/database/postgres"
	"smartdash/internal/infrastructure/cache"
	"smartdash/internal/infrastructure/embedding"
	"smartdash/internal/infrastructure/queue"
	"smartdash/internal/ranking"
	"smartdash/internal/repository"
	"smartdash/internal/resumeparser"
	"smartdash/internal/scraper"
)

// Container holds the connections shared by the API server and the worker.
// DB and Events stay nil when DATABASE_URL is unset.
type Container struct {
	Config config.Config
	Logger *log.Logger

	Redis        *cache.Redis
	DB           database.DB
	Queue        *queue.Queue
	Candidates   *repository.RedisCandidateRepository
	Applications *repository.RedisApplicationRepository
	Settings     *repository.RedisSettingsRepository
	Events       repository.ApplicationEventRepository

	closers []func() error
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	store, err := cache.NewRedis(cfg.Redis.URL, logger)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:       cfg,
		Logger:       logger,
		Redis:        store,
		Queue:        queue.New(store.Client(), logger),
		Candidates:   repository.NewRedisCandidateRepository(store, cfg.Cache.CandidateTTL),
		Applications: repository.NewRedisApplicationRepository(store),
		Settings:     repository.NewRedisSettingsRepository(store),
	}
	c.closers = append(c.closers, store.Close)

	if !cfg.Database.Enabled() {
		logger.Printf("[DB] DATABASE_URL not set, application history disabled")
		return c, nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(dbCtx, cfg.Database)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	c.closers = append(c.closers, db.Close)

	r := migration.Runner{Dir: cfg.Database.MigrationsDir, Logger: logger}
	if err := r.Run(dbCtx, db.SQLDB()); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	c.DB = db
	c.Events = repository.NewPostgresApplicationEventRepository(db)
	return c, nil
}

// Parsers registers the keyword parser and every cloud parser whose
// credentials are configured.
func (c *Container) Parsers(ctx context.Context) (*resumeparser.Registry, error) {
	vocab, err := resumeparser.LoadVocabulary(c.Config.Resume.SkillsFile)
	if err != nil {
		return nil, fmt.Errorf("load skills vocabulary: %w", err)
	}

	reg := resumeparser.NewRegistry()
	reg.Register(resumeparser.KindPyResparser, resumeparser.NewKeywordParser(vocab, nil))

	docai, err := resumeparser.NewDocAIParser(ctx, resumeparser.DocAIConfig{
		ProjectID:   c.Config.DocAI.ProjectID,
		Location:    c.Config.DocAI.Location,
		ProcessorID: c.Config.DocAI.ProcessorID,
	})
	if err != nil {
		c.Logger.Printf("[Resume] docai parser disabled: %v", err)
	} else {
		reg.Register(resumeparser.KindDocAI, docai)
		c.closers = append(c.closers, docai.Close)
	}

	gpt, err := resumeparser.NewGPT4Parser(c.Config.LLM.BaseURL, c.Config.LLM.APIKey, c.Config.LLM.Model, 0, nil)
	if err != nil {
		c.Logger.Printf("[Resume] gpt-4 parser disabled: %v", err)
	} else {
		reg.Register(resumeparser.KindGPT4, gpt)
	}

	return reg, nil
}

func (c *Container) Embedder(ctx context.Context) (ranking.Embedder, error) {
	ec := c.Config.Embedding
	switch ec.Provider {
	case "gemini":
		return embedding.NewGemini(ctx, ec.GeminiAPIKey, ec.Model)
	case "openai", "":
		if strings.TrimSpace(ec.OpenAIAPIKey) == "" {
			c.Logger.Printf("[Ranking] OPENAI_API_KEY not set, results will be returned unranked")
		}
		return embedding.NewOpenAI(ec.OpenAIBaseURL, ec.OpenAIAPIKey, ec.Model, 0), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", ec.Provider)
	}
}

func (c *Container) Fetcher() (*scraper.Fetcher, error) {
	sources, err := scraper.NewSources(c.Config.JobSources, c.Logger)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		c.Logger.Printf("[Scraper] no job sources enabled")
	}
	return scraper.NewFetcher(c.Logger, sources...), nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
