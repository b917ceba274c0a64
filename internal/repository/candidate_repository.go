package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smartdash/internal/domain/candidate"
	"smartdash/internal/infrastructure/cache"
)

type CandidateRepository interface {
	Create(ctx context.Context, c candidate.Candidate) error
	GetByID(ctx context.Context, id string) (candidate.Candidate, error)
	List(ctx context.Context, skip, limit int) ([]candidate.Candidate, error)
	UpdateStatus(ctx context.Context, id string, status candidate.Status) (candidate.Candidate, error)
}

type RedisCandidateRepository struct {
	store KVStore
	ttl   time.Duration
}

func NewRedisCandidateRepository(store KVStore, ttl time.Duration) *RedisCandidateRepository {
	return &RedisCandidateRepository{store: store, ttl: ttl}
}

func (r *RedisCandidateRepository) Create(ctx context.Context, c candidate.Candidate) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("empty candidate id")
	}
	return r.store.SetJSON(ctx, cache.CandidateKey(c.ID), c, r.ttl)
}

func (r *RedisCandidateRepository) GetByID(ctx context.Context, id string) (candidate.Candidate, error) {
	var c candidate.Candidate
	hit, err := r.store.GetJSON(ctx, cache.CandidateKey(id), &c)
	if err != nil {
		return candidate.Candidate{}, err
	}
	if !hit {
		return candidate.Candidate{}, candidate.ErrNotFound
	}
	return c, nil
}

// List pages over candidate records in key order. Keys that expire between
// the scan and the read are skipped.
func (r *RedisCandidateRepository) List(ctx context.Context, skip, limit int) ([]candidate.Candidate, error) {
	keys, err := r.store.ScanKeys(ctx, cache.CandidatePrefix+"*")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		id := strings.TrimPrefix(k, cache.CandidatePrefix)
		// candidate:{id}:applications sets share the prefix.
		if id == "" || strings.Contains(id, ":") {
			continue
		}
		ids = append(ids, id)
	}

	if skip < 0 {
		skip = 0
	}
	if skip >= len(ids) {
		return []candidate.Candidate{}, nil
	}
	end := len(ids)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}

	out := make([]candidate.Candidate, 0, end-skip)
	for _, id := range ids[skip:end] {
		c, err := r.GetByID(ctx, id)
		if err != nil {
			if err == candidate.ErrNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *RedisCandidateRepository) UpdateStatus(ctx context.Context, id string, status candidate.Status) (candidate.Candidate, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return candidate.Candidate{}, err
	}
	c.Status = status
	if err := r.store.ReplaceJSON(ctx, cache.CandidateKey(id), c); err != nil {
		return candidate.Candidate{}, err
	}
	return c, nil
}

var _ CandidateRepository = (*RedisCandidateRepository)(nil)
