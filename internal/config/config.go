package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Redis      RedisConfig
	Database   DatabaseConfig
	Resume     ResumeConfig
	Embedding  EmbeddingConfig
	LLM        LLMConfig
	DocAI      DocAIConfig
	JobSources JobSourcesConfig
	Cache      CacheConfig
	Worker     WorkerConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	CORSOrigins []string
}

type RedisConfig struct {
	URL string
}

type DatabaseConfig struct {
	URL                 string
	PoolMaxConns        int32
	PoolMaxConnIdleTime time.Duration
	ConnectTimeout      time.Duration
	MigrationsDir       string
}

func (c DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

type ResumeConfig struct {
	UploadDir        string
	ParserPreference string
	SkillsFile       string
}

type EmbeddingConfig struct {
	Provider      string
	Model         string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	GeminiAPIKey  string
}

type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type DocAIConfig struct {
	ProjectID   string
	Location    string
	ProcessorID string
}

type JobSourcesConfig struct {
	Enabled         []string
	DefaultLocation string
	IndeedBaseURL   string
	IndeedRSSURL    string
	MonsterAPIURL   string
	MonsterKey      string
	RequestTimeout  time.Duration
}

type CacheConfig struct {
	JobSearchTTL time.Duration
	CandidateTTL time.Duration
}

type WorkerConfig struct {
	Concurrency  int
	RatePerMin   int
	ApplyTimeout time.Duration
}

var errInvalidEnv = errors.New("invalid environment variables")

func Load() (Config, error) {
	// .env is optional; the process environment always wins.
	_ = godotenv.Load()

	cfg := Config{}

	var invalid []string
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	dur := func(key string, def time.Duration) time.Duration {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	num := func(key string, def int) int {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "smartdash"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    opt("HTTP_PORT", "8000"),
		CORSOrigins: splitList(opt("CORS_ORIGINS", "http://localhost:5173")),
	}

	cfg.Redis = RedisConfig{
		URL: opt("REDIS_URL", "redis://localhost:6379/0"),
	}

	cfg.Database = DatabaseConfig{
		URL:                 opt("DATABASE_URL", ""),
		PoolMaxConns:        int32(num("DB_POOL_MAX_CONNS", 4)),
		PoolMaxConnIdleTime: dur("DB_POOL_MAX_CONN_IDLE_TIME", 5*time.Minute),
		ConnectTimeout:      dur("DB_CONNECT_TIMEOUT", 5*time.Second),
		MigrationsDir:       opt("DB_MIGRATIONS_DIR", "migrations"),
	}

	cfg.Resume = ResumeConfig{
		UploadDir:        opt("UPLOAD_DIR", "uploads"),
		ParserPreference: opt("PARSER_PREFERENCE", "pyresparser"),
		SkillsFile:       opt("SKILLS_FILE", ""),
	}

	openAIKey := opt("OPENAI_API_KEY", "")
	openAIBase := opt("OPENAI_BASE_URL", "https://api.openai.com/v1")

	cfg.Embedding = EmbeddingConfig{
		Provider:      strings.ToLower(opt("EMBEDDING_PROVIDER", "openai")),
		Model:         opt("EMBEDDING_MODEL", ""),
		OpenAIAPIKey:  openAIKey,
		OpenAIBaseURL: openAIBase,
		GeminiAPIKey:  opt("GEMINI_API_KEY", ""),
	}
	switch cfg.Embedding.Provider {
	case "openai", "gemini":
	default:
		invalid = append(invalid, "EMBEDDING_PROVIDER")
	}

	cfg.LLM = LLMConfig{
		APIKey:  openAIKey,
		BaseURL: openAIBase,
		Model:   opt("GPT_MODEL", "gpt-4-turbo-preview"),
	}

	cfg.DocAI = DocAIConfig{
		ProjectID:   opt("GOOGLE_CLOUD_PROJECT", ""),
		Location:    opt("GOOGLE_CLOUD_LOCATION", "us"),
		ProcessorID: opt("GOOGLE_DOCAI_PROCESSOR_ID", ""),
	}

	cfg.JobSources = JobSourcesConfig{
		Enabled:         splitList(strings.ToLower(opt("JOB_SOURCES", "indeed"))),
		DefaultLocation: opt("DEFAULT_JOB_LOCATION", "Remote"),
		IndeedBaseURL:   opt("INDEED_BASE_URL", "https://www.indeed.com"),
		IndeedRSSURL:    opt("INDEED_RSS_URL", "https://rss.indeed.com/rss"),
		MonsterAPIURL:   opt("MONSTER_API_URL", "https://api.monster.com/jobs"),
		MonsterKey:      opt("MONSTER_KEY", ""),
		RequestTimeout:  dur("SCRAPE_TIMEOUT", 10*time.Second),
	}

	cfg.Cache = CacheConfig{
		JobSearchTTL: dur("JOB_CACHE_TTL", 2*time.Hour),
		CandidateTTL: dur("CANDIDATE_TTL", 24*time.Hour),
	}

	cfg.Worker = WorkerConfig{
		Concurrency:  num("WORKER_CONCURRENCY", 2),
		RatePerMin:   num("WORKER_RATE_PER_MIN", 30),
		ApplyTimeout: dur("APPLY_TIMEOUT", 2*time.Minute),
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
