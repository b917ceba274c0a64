package repository

import (
	"context"

	"smartdash/internal/infrastructure/cache"
)

type SettingsRepository interface {
	GetParserPreference(ctx context.Context) (string, bool, error)
	SetParserPreference(ctx context.Context, value string) error
}

type RedisSettingsRepository struct {
	store KVStore
}

func NewRedisSettingsRepository(store KVStore) *RedisSettingsRepository {
	return &RedisSettingsRepository{store: store}
}

func (r *RedisSettingsRepository) GetParserPreference(ctx context.Context) (string, bool, error) {
	return r.store.GetString(ctx, cache.SettingsParserKey)
}

func (r *RedisSettingsRepository) SetParserPreference(ctx context.Context, value string) error {
	return r.store.SetString(ctx, cache.SettingsParserKey, value, 0)
}

var _ SettingsRepository = (*RedisSettingsRepository)(nil)
