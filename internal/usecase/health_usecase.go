package usecase

import (
	"context"
	"log"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type QueueLength interface {
	Len(ctx context.Context) (int64, error)
}

type HealthStatus struct {
	RedisHealthy       bool      `json:"redis_healthy"`
	DatabaseConfigured bool      `json:"database_configured"`
	DatabaseHealthy    bool      `json:"database_healthy"`
	PendingTasks       int64     `json:"pending_tasks"`
	ServerTime         time.Time `json:"server_time"`
}

// Healthy is false when Redis is down or a configured database is down.
func (s HealthStatus) Healthy() bool {
	if !s.RedisHealthy {
		return false
	}
	return !s.DatabaseConfigured || s.DatabaseHealthy
}

type HealthUsecase interface {
	Status(ctx context.Context) HealthStatus
}

type Health struct {
	redis  Pinger
	db     Pinger
	queue  QueueLength
	logger *log.Logger
}

// NewHealthUsecase accepts a nil db when no database is configured.
func NewHealthUsecase(redis Pinger, db Pinger, queue QueueLength, logger *log.Logger) *Health {
	return &Health{redis: redis, db: db, queue: queue, logger: logger}
}

func (u *Health) Status(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	st := HealthStatus{ServerTime: time.Now().UTC(), DatabaseConfigured: u.db != nil}
	if u.redis != nil {
		if err := u.redis.Ping(ctx); err != nil {
			u.logf("[Health] redis ping failed: %v", err)
		} else {
			st.RedisHealthy = true
		}
	}
	if u.db != nil {
		if err := u.db.Ping(ctx); err != nil {
			u.logf("[Health] database ping failed: %v", err)
		} else {
			st.DatabaseHealthy = true
		}
	}
	if u.queue != nil && st.RedisHealthy {
		if n, err := u.queue.Len(ctx); err == nil {
			st.PendingTasks = n
		}
	}
	return st
}

func (u *Health) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}

var _ HealthUsecase = (*Health)(nil)
