package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"smartdash/internal/domain/candidate"
	"smartdash/internal/domain/job"
	"smartdash/internal/ranking"
	"smartdash/internal/repository"
	"smartdash/internal/scraper"
)

const DefaultJobSearchTTL = 2 * time.Hour

type CacheStatus string

const (
	CacheHit    CacheStatus = "HIT"
	CacheMiss   CacheStatus = "MISS"
	CacheBypass CacheStatus = "BYPASS"
)

// RankingCached marks a response served from the search cache.
const RankingCached = "cached"

type JobSearchResult struct {
	Jobs    []job.Job
	Cache   CacheStatus
	Ranking string
	Partial bool
}

type JobSearchUsecase interface {
	JobsForCandidate(ctx context.Context, candidateID, location string) (JobSearchResult, error)
}

type JobFetcher interface {
	Fetch(ctx context.Context, skills []string, location string) scraper.FetchResult
}

type JobRanker interface {
	Rank(ctx context.Context, jobs []job.Job, skills []string) ranking.Result
}

type JobSearch struct {
	candidates      repository.CandidateRepository
	cache           SearchCache
	fetcher         JobFetcher
	ranker          JobRanker
	ttl             time.Duration
	defaultLocation string
	logger          *log.Logger
}

func NewJobSearchUsecase(
	candidates repository.CandidateRepository,
	cache SearchCache,
	fetcher JobFetcher,
	ranker JobRanker,
	ttl time.Duration,
	defaultLocation string,
	logger *log.Logger,
) *JobSearch {
	if ttl <= 0 {
		ttl = DefaultJobSearchTTL
	}
	if strings.TrimSpace(defaultLocation) == "" {
		defaultLocation = "Remote"
	}
	return &JobSearch{
		candidates:      candidates,
		cache:           cache,
		fetcher:         fetcher,
		ranker:          ranker,
		ttl:             ttl,
		defaultLocation: defaultLocation,
		logger:          logger,
	}
}

func (u *JobSearch) JobsForCandidate(ctx context.Context, candidateID, location string) (JobSearchResult, error) {
	c, err := u.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, candidate.ErrNotFound) {
			return JobSearchResult{}, ErrCandidateNotFound
		}
		return JobSearchResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !c.HasSkills() {
		return JobSearchResult{}, ErrNoSkills
	}

	location = strings.TrimSpace(location)
	if location == "" {
		location = u.defaultLocation
	}
	return u.getOrRank(ctx, c.Skills, location), nil
}

// getOrRank serves the cached ranking when present. When the cache cannot be
// read or written it returns the fetched jobs unranked.
func (u *JobSearch) getOrRank(ctx context.Context, skills []string, location string) JobSearchResult {
	key := ranking.JobSearchCacheKey(skills, location)

	var cached []job.Job
	hit, err := u.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		u.logf("[Jobs] cache read failed key=%s, serving unranked results: %v", key, err)
		fetched := u.fetcher.Fetch(ctx, skills, location)
		return JobSearchResult{Jobs: fetched.Jobs, Cache: CacheBypass, Ranking: string(ranking.OutcomeIdentity), Partial: fetched.Partial()}
	}
	if hit {
		u.logf("[Jobs] cache hit key=%s", key)
		return JobSearchResult{Jobs: cached, Cache: CacheHit, Ranking: RankingCached}
	}

	u.logf("[Jobs] cache miss key=%s", key)
	fetched := u.fetcher.Fetch(ctx, skills, location)
	if len(fetched.Jobs) == 0 {
		return JobSearchResult{Jobs: []job.Job{}, Cache: CacheMiss, Ranking: string(ranking.OutcomeIdentity), Partial: fetched.Partial()}
	}

	ranked := u.ranker.Rank(ctx, fetched.Jobs, skills)
	res := JobSearchResult{Jobs: ranked.Jobs, Cache: CacheMiss, Ranking: string(ranked.Outcome), Partial: fetched.Partial()}
	if ranked.Outcome != ranking.OutcomeRanked {
		return res
	}

	if err := u.cache.SetJSON(ctx, key, ranked.Jobs, u.ttl); err != nil {
		u.logf("[Jobs] cache write failed key=%s, serving unranked results: %v", key, err)
		return JobSearchResult{Jobs: fetched.Jobs, Cache: CacheBypass, Ranking: string(ranking.OutcomeIdentity), Partial: fetched.Partial()}
	}
	return res
}

func (u *JobSearch) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}

var _ JobSearchUsecase = (*JobSearch)(nil)
