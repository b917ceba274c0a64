package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"smartdash/internal/domain/application"
	"smartdash/internal/infrastructure/cache"

	"github.com/redis/go-redis/v9"
)

const TypeApplicationUpdated = "application_updated"

// ApplicationUpdated is the payload published whenever the worker writes a
// new status for an application.
type ApplicationUpdated struct {
	Type        string                  `json:"type"`
	Application application.Application `json:"application"`
	Timestamp   string                  `json:"timestamp"`
}

type Publisher struct {
	client  *redis.Client
	channel string
	now     func() time.Time
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{
		client:  client,
		channel: cache.ApplicationsEvents,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (p *Publisher) PublishApplication(ctx context.Context, a application.Application) error {
	if p == nil || p.client == nil {
		return cache.ErrUnavailable
	}
	b, err := json.Marshal(ApplicationUpdated{
		Type:        TypeApplicationUpdated,
		Application: a,
		Timestamp:   p.now().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("%w: %v", cache.ErrUnavailable, err)
	}
	return nil
}

type Subscriber struct {
	client  *redis.Client
	channel string
	logger  *log.Logger
}

func NewSubscriber(client *redis.Client, logger *log.Logger) *Subscriber {
	return &Subscriber{client: client, channel: cache.ApplicationsEvents, logger: logger}
}

// Listen calls handle for every message until ctx is done. It returns an
// error only when the subscription cannot be established.
func (s *Subscriber) Listen(ctx context.Context, handle func(payload []byte)) error {
	if s == nil || s.client == nil {
		return cache.ErrUnavailable
	}
	ps := s.client.Subscribe(ctx, s.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("%w: subscribe %s: %v", cache.ErrUnavailable, s.channel, err)
	}
	if s.logger != nil {
		s.logger.Printf("[PubSub] subscribed channel=%s", s.channel)
	}

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			handle([]byte(msg.Payload))
		}
	}
}
