package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"smartdash/internal/domain/application"
	"smartdash/internal/infrastructure/queue"
)

type TaskQueue interface {
	Dequeue(ctx context.Context, timeout time.Duration) (queue.Delivery, bool, error)
	Ack(ctx context.Context, d queue.Delivery) error
	Recover(ctx context.Context) (int, error)
}

type TaskProcessor interface {
	Process(ctx context.Context, t application.Task) error
}

// Consumer feeds queued apply tasks into the pool. A task is acknowledged
// once processing finishes, whatever the outcome, unless the consumer is
// shutting down; interrupted tasks are re-queued by Recover on next start.
type Consumer struct {
	queue       TaskQueue
	pool        *Pool
	processor   TaskProcessor
	logger      *log.Logger
	pollTimeout time.Duration
	retryDelay  time.Duration
}

func NewConsumer(q TaskQueue, pool *Pool, processor TaskProcessor, logger *log.Logger) *Consumer {
	return &Consumer{
		queue:       q,
		pool:        pool,
		processor:   processor,
		logger:      logger,
		pollTimeout: 5 * time.Second,
		retryDelay:  time.Second,
	}
}

// Run blocks until ctx is done and every worker has returned.
func (c *Consumer) Run(ctx context.Context) error {
	n, err := c.queue.Recover(ctx)
	if err != nil {
		c.logf("[Worker] recover unacknowledged tasks failed: %v", err)
	} else if n > 0 {
		c.logf("[Worker] re-queued %d unacknowledged tasks", n)
	}

	results := c.pool.Run(ctx)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for r := range results {
			if r.Err != nil && !errors.Is(r.Err, context.Canceled) {
				c.logf("[Worker] task failed: %v", r.Err)
			}
		}
	}()

	c.loop(ctx)
	c.pool.Close()
	<-drained
	return nil
}

func (c *Consumer) loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		d, ok, err := c.queue.Dequeue(ctx, c.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, queue.ErrMalformedTask) {
				continue
			}
			c.logf("[Worker] dequeue failed: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.retryDelay):
			}
			continue
		}
		if !ok {
			continue
		}

		delivery := d
		err = c.pool.Submit(ctx, func(ctx context.Context) error {
			perr := c.processor.Process(ctx, delivery.Task)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if aerr := c.queue.Ack(ctx, delivery); aerr != nil {
				c.logf("[Worker] ack failed application=%s: %v", delivery.Task.ApplicationID, aerr)
			}
			return perr
		})
		if err != nil {
			return
		}
	}
}

func (c *Consumer) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
