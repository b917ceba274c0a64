package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"smartdash/internal/config"
	"smartdash/internal/domain/job"

	"golang.org/x/sync/errgroup"
)

const (
	SourceIndeed    = "indeed"
	SourceIndeedRSS = "indeed_rss"
	SourceMonster   = "monster"
)

// maxQuerySkills bounds how many leading skills go into a board query.
const maxQuerySkills = 3

type Source interface {
	Name() string
	Fetch(ctx context.Context, skills []string, location string) ([]job.Job, error)
}

// FetchResult is the union of every source that answered. Failed names the
// sources that contributed nothing because of an error.
type FetchResult struct {
	Jobs   []job.Job
	Failed []string
}

func (r FetchResult) Partial() bool {
	return len(r.Failed) > 0
}

type Fetcher struct {
	sources []Source
	logger  *log.Logger
}

func NewFetcher(logger *log.Logger, sources ...Source) *Fetcher {
	return &Fetcher{sources: sources, logger: logger}
}

// Fetch queries every source concurrently. A failing source is logged and
// skipped; results keep source order.
func (f *Fetcher) Fetch(ctx context.Context, skills []string, location string) FetchResult {
	if f == nil || len(f.sources) == 0 {
		return FetchResult{Jobs: []job.Job{}}
	}

	perSource := make([][]job.Job, len(f.sources))
	failed := make([]bool, len(f.sources))

	var g errgroup.Group
	for i, src := range f.sources {
		g.Go(func() error {
			start := time.Now()
			jobs, err := src.Fetch(ctx, skills, location)
			if err != nil {
				f.logf("[Scraper] %s failed after %s: %v", src.Name(), time.Since(start).Round(time.Millisecond), err)
				failed[i] = true
				return nil
			}
			f.logf("[Scraper] %s returned %d jobs in %s", src.Name(), len(jobs), time.Since(start).Round(time.Millisecond))
			perSource[i] = jobs
			return nil
		})
	}
	_ = g.Wait()

	out := FetchResult{Jobs: make([]job.Job, 0)}
	for i, jobs := range perSource {
		if failed[i] {
			out.Failed = append(out.Failed, f.sources[i].Name())
			continue
		}
		out.Jobs = append(out.Jobs, jobs...)
	}
	return out
}

func (f *Fetcher) logf(format string, args ...any) {
	if f.logger != nil {
		f.logger.Printf(format, args...)
	}
}

// NewSources builds the adapters named in cfg.Enabled.
func NewSources(cfg config.JobSourcesConfig, logger *log.Logger) ([]Source, error) {
	out := make([]Source, 0, len(cfg.Enabled))
	for _, name := range cfg.Enabled {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case SourceIndeed:
			out = append(out, NewIndeedScraper(cfg.IndeedBaseURL, cfg.RequestTimeout, logger))
		case SourceIndeedRSS:
			out = append(out, NewIndeedRSSFeed(cfg.IndeedRSSURL, cfg.RequestTimeout))
		case SourceMonster:
			if strings.TrimSpace(cfg.MonsterKey) == "" {
				if logger != nil {
					logger.Printf("[Scraper] monster disabled: MONSTER_KEY not set")
				}
				continue
			}
			out = append(out, NewMonsterClient(cfg.MonsterAPIURL, cfg.MonsterKey, cfg.RequestTimeout))
		default:
			return nil, fmt.Errorf("unknown job source %q", name)
		}
	}
	return out, nil
}

func topSkills(skills []string) []string {
	out := make([]string, 0, maxQuerySkills)
	for _, s := range skills {
		if len(out) == maxQuerySkills {
			break
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
