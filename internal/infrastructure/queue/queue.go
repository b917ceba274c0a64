package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"smartdash/internal/domain/application"
	"smartdash/internal/infrastructure/cache"

	"github.com/redis/go-redis/v9"
)

var ErrMalformedTask = errors.New("malformed task payload")

// Queue is an at-least-once work queue on two Redis lists. A dequeued task
// stays on the processing list until it is acknowledged, so a crashed
// worker's tasks are delivered again after Recover.
type Queue struct {
	client     *redis.Client
	pending    string
	processing string
	logger     *log.Logger
}

type Delivery struct {
	Task application.Task
	raw  string
}

func New(client *redis.Client, logger *log.Logger) *Queue {
	return &Queue{
		client:     client,
		pending:    cache.ApplyQueueKey,
		processing: cache.ApplyProcessingKey,
		logger:     logger,
	}
}

func (q *Queue) Enqueue(ctx context.Context, t application.Task) error {
	if q == nil || q.client == nil {
		return cache.ErrUnavailable
	}
	if t.EnqueuedAt.IsZero() {
		t.EnqueuedAt = time.Now().UTC()
	}
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	if err := q.client.LPush(ctx, q.pending, b).Err(); err != nil {
		return fmt.Errorf("%w: %v", cache.ErrUnavailable, err)
	}
	return nil
}

// Dequeue blocks up to timeout for the oldest pending task. ok is false when
// nothing arrived in time.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (Delivery, bool, error) {
	if q == nil || q.client == nil {
		return Delivery{}, false, cache.ErrUnavailable
	}
	raw, err := q.client.BLMove(ctx, q.pending, q.processing, "RIGHT", "LEFT", timeout).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Delivery{}, false, nil
		}
		if ctx.Err() != nil {
			return Delivery{}, false, ctx.Err()
		}
		return Delivery{}, false, fmt.Errorf("%w: %v", cache.ErrUnavailable, err)
	}

	var t application.Task
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		_ = q.client.LRem(ctx, q.processing, 1, raw).Err()
		if q.logger != nil {
			q.logger.Printf("[Queue] dropped malformed task payload=%q err=%v", raw, err)
		}
		return Delivery{}, false, fmt.Errorf("%w: %v", ErrMalformedTask, err)
	}
	return Delivery{Task: t, raw: raw}, true, nil
}

func (q *Queue) Ack(ctx context.Context, d Delivery) error {
	if q == nil || q.client == nil {
		return cache.ErrUnavailable
	}
	if d.raw == "" {
		return nil
	}
	if err := q.client.LRem(ctx, q.processing, 1, d.raw).Err(); err != nil {
		return fmt.Errorf("%w: %v", cache.ErrUnavailable, err)
	}
	return nil
}

// Recover moves every unacknowledged task back to the consuming end of the
// pending list, oldest first, so they are redelivered in their original order
// ahead of newer work. Call it once before workers start.
func (q *Queue) Recover(ctx context.Context) (int, error) {
	if q == nil || q.client == nil {
		return 0, cache.ErrUnavailable
	}
	n := 0
	for {
		err := q.client.LMove(ctx, q.processing, q.pending, "LEFT", "RIGHT").Err()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return n, nil
			}
			return n, fmt.Errorf("%w: %v", cache.ErrUnavailable, err)
		}
		n++
	}
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	if q == nil || q.client == nil {
		return 0, cache.ErrUnavailable
	}
	n, err := q.client.LLen(ctx, q.pending).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", cache.ErrUnavailable, err)
	}
	return n, nil
}
