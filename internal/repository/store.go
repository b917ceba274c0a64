package repository

import (
	"context"
	"time"
)

// KVStore is the subset of the Redis client the record stores need.
type KVStore interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	ReplaceJSON(ctx context.Context, key string, value any) error
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	AddToSet(ctx context.Context, key string, members ...string) error
	SetMembers(ctx context.Context, key string) ([]string, error)
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
}
