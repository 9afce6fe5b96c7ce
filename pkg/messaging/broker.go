package messaging

import "context"

// Broker is the message broker boundary. The API publishes booking change
// events through it and the admin stream endpoint subscribes to them.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
