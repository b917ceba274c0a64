package ws

import (
	"context"
	"log"
	"time"
)

type Listener interface {
	Listen(ctx context.Context, handle func(payload []byte)) error
}

// Relay forwards published application events to connected clients. When
// the subscription drops it reconnects after a short pause until ctx is done.
func Relay(ctx context.Context, l Listener, hub *Hub, logger *log.Logger) {
	const retry = 2 * time.Second
	for {
		err := l.Listen(ctx, hub.Broadcast)
		if ctx.Err() != nil {
			return
		}
		if err != nil && logger != nil {
			logger.Printf("[WS] event subscription lost: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(retry):
		}
	}
}
