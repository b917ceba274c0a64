package ranking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"smartdash/internal/domain/job"

	"golang.org/x/sync/errgroup"
)

// MaxResults caps the ranked list.
const MaxResults = 10

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

type Outcome string

const (
	// OutcomeRanked means jobs were scored, sorted and truncated.
	OutcomeRanked Outcome = "ranked"
	// OutcomeIdentity means there was nothing to rank against.
	OutcomeIdentity Outcome = "identity"
	// OutcomeFallback means scoring failed and Jobs is the input verbatim.
	OutcomeFallback Outcome = "fallback"
)

type Result struct {
	Jobs    []job.Job
	Outcome Outcome
	Err     error
}

var errDimensionMismatch = errors.New("embedding dimension mismatch")

type Ranker struct {
	embedder Embedder
	logger   *log.Logger
}

func NewRanker(embedder Embedder, logger *log.Logger) *Ranker {
	return &Ranker{embedder: embedder, logger: logger}
}

// Rank scores jobs by cosine similarity between the joined skills and each
// job's description. On any embedding failure the input is returned as is.
func (r *Ranker) Rank(ctx context.Context, jobs []job.Job, skills []string) Result {
	if len(jobs) == 0 || len(skills) == 0 {
		return Result{Jobs: jobs, Outcome: OutcomeIdentity}
	}
	if r == nil || r.embedder == nil {
		return r.fallback(jobs, errors.New("no embedder configured"))
	}

	query := strings.Join(skills, " ")
	vectors := make([][]float64, len(jobs))
	var queryVec []float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := r.embedder.Embed(gctx, query)
		if err != nil {
			return fmt.Errorf("embed query: %w", err)
		}
		queryVec = v
		return nil
	})
	for i := range jobs {
		g.Go(func() error {
			v, err := r.embedder.Embed(gctx, jobs[i].Text())
			if err != nil {
				return fmt.Errorf("embed job %d: %w", i, err)
			}
			vectors[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return r.fallback(jobs, err)
	}

	scored := make([]job.Job, len(jobs))
	for i, j := range jobs {
		sim, err := Cosine(queryVec, vectors[i])
		if err != nil {
			return r.fallback(jobs, err)
		}
		s := Score(sim)
		j.Score = &s
		scored[i] = j
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return *scored[a].Score > *scored[b].Score
	})
	if len(scored) > MaxResults {
		scored = scored[:MaxResults]
	}

	return Result{Jobs: scored, Outcome: OutcomeRanked}
}

func (r *Ranker) fallback(jobs []job.Job, err error) Result {
	if r != nil && r.logger != nil {
		r.logger.Printf("[Rank] returning unranked jobs: %v", err)
	}
	return Result{Jobs: jobs, Outcome: OutcomeFallback, Err: err}
}

// Cosine returns dot(a,b) / (|a|*|b| + 1e-8).
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", errDimensionMismatch, len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + 1e-8), nil
}

// Score maps a similarity onto 0-100 with one decimal.
func Score(sim float64) float64 {
	s := sim * 100
	if math.IsNaN(s) || s < 0 {
		s = 0
	}
	if s > 100 {
		s = 100
	}
	return math.Round(s*10) / 10
}
