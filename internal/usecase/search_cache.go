package usecase

import (
	"context"
	"time"
)

// SearchCache holds ranked job lists keyed by ranking.JobSearchCacheKey.
type SearchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}
