package repository

import (
	"context"
	"sort"
	"strings"

	"smartdash/internal/domain/application"
	"smartdash/internal/infrastructure/cache"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a application.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (application.Application, error)
	List(ctx context.Context) ([]application.Application, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]application.Application, error)
	Update(ctx context.Context, a application.Application) error
}

type RedisApplicationRepository struct {
	store KVStore
}

func NewRedisApplicationRepository(store KVStore) *RedisApplicationRepository {
	return &RedisApplicationRepository{store: store}
}

func (r *RedisApplicationRepository) Create(ctx context.Context, a application.Application) error {
	if err := r.store.SetJSON(ctx, cache.ApplicationKey(a.ID.String()), a, 0); err != nil {
		return err
	}
	return r.store.AddToSet(ctx, cache.CandidateApplicationsKey(a.CandidateID), a.ID.String())
}

func (r *RedisApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	return r.get(ctx, id.String())
}

func (r *RedisApplicationRepository) get(ctx context.Context, id string) (application.Application, error) {
	var a application.Application
	hit, err := r.store.GetJSON(ctx, cache.ApplicationKey(id), &a)
	if err != nil {
		return application.Application{}, err
	}
	if !hit {
		return application.Application{}, application.ErrNotFound
	}
	return a, nil
}

func (r *RedisApplicationRepository) List(ctx context.Context) ([]application.Application, error) {
	keys, err := r.store.ScanKeys(ctx, cache.ApplicationPrefix+"*")
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, cache.ApplicationPrefix))
	}
	return r.load(ctx, ids)
}

func (r *RedisApplicationRepository) ListByCandidate(ctx context.Context, candidateID string) ([]application.Application, error) {
	ids, err := r.store.SetMembers(ctx, cache.CandidateApplicationsKey(candidateID))
	if err != nil {
		return nil, err
	}
	return r.load(ctx, ids)
}

func (r *RedisApplicationRepository) Update(ctx context.Context, a application.Application) error {
	return r.store.SetJSON(ctx, cache.ApplicationKey(a.ID.String()), a, 0)
}

func (r *RedisApplicationRepository) load(ctx context.Context, ids []string) ([]application.Application, error) {
	out := make([]application.Application, 0, len(ids))
	for _, id := range ids {
		a, err := r.get(ctx, id)
		if err != nil {
			if err == application.ErrNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

var _ ApplicationRepository = (*RedisApplicationRepository)(nil)
