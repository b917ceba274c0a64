package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable wraps every failure to reach the store. A missing key is
// never an error.
var ErrUnavailable = errors.New("redis unavailable")

type Redis struct {
	client *redis.Client
	logger *log.Logger

	warnedUnavailable atomic.Bool
}

func NewRedis(rawURL string, logger *log.Logger) (*Redis, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		rawURL = "redis://localhost:6379/0"
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	r := NewRedisFromClient(redis.NewClient(opts), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.client.Ping(ctx).Err(); err != nil {
		// Keep the client: requests degrade until the store comes back.
		r.warnUnavailableOnce(err)
	}
	return r, nil
}

func NewRedisFromClient(client *redis.Client, logger *log.Logger) *Redis {
	return &Redis{client: client, logger: logger}
}

// Client exposes the underlying connection for the queue and pub/sub.
func (r *Redis) Client() *redis.Client {
	if r == nil {
		return nil
	}
	return r.client
}

func (r *Redis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Printf("[Cache] Redis unavailable: %v", err)
	}
}

func (r *Redis) unavailable(err error) error {
	r.warnUnavailableOnce(err)
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return ErrUnavailable
	}
	if err := r.client.Ping(ctx).Err(); err != nil {
		return r.unavailable(err)
	}
	r.warnedUnavailable.Store(false)
	return nil
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.isUnavailable() {
		return false, ErrUnavailable
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, r.unavailable(err)
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value under key. A zero ttl stores without expiry.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.isUnavailable() {
		return ErrUnavailable
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		return r.unavailable(err)
	}
	return nil
}

// ReplaceJSON overwrites an existing key and keeps its remaining TTL.
func (r *Redis) ReplaceJSON(ctx context.Context, key string, value any) error {
	if r.isUnavailable() {
		return ErrUnavailable
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, redis.KeepTTL).Err(); err != nil {
		return r.unavailable(err)
	}
	return nil
}

func (r *Redis) GetString(ctx context.Context, key string) (string, bool, error) {
	if r.isUnavailable() {
		return "", false, ErrUnavailable
	}
	v, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, r.unavailable(err)
	}
	return v, true, nil
}

func (r *Redis) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	if r.isUnavailable() {
		return ErrUnavailable
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return r.unavailable(err)
	}
	return nil
}

func (r *Redis) AddToSet(ctx context.Context, key string, members ...string) error {
	if r.isUnavailable() {
		return ErrUnavailable
	}
	if len(members) == 0 {
		return nil
	}
	vals := make([]any, 0, len(members))
	for _, m := range members {
		vals = append(vals, m)
	}
	if err := r.client.SAdd(ctx, key, vals...).Err(); err != nil {
		return r.unavailable(err)
	}
	return nil
}

func (r *Redis) SetMembers(ctx context.Context, key string) ([]string, error) {
	if r.isUnavailable() {
		return nil, ErrUnavailable
	}
	out, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, r.unavailable(err)
	}
	sort.Strings(out)
	return out, nil
}

// ScanKeys returns every key matching pattern, sorted, using SCAN rather
// than KEYS so large keyspaces do not block the server.
func (r *Redis) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	if r.isUnavailable() {
		return nil, ErrUnavailable
	}
	out := make([]string, 0)
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, r.unavailable(err)
	}
	sort.Strings(out)
	return out, nil
}
