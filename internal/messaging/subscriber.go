package messaging

import (
	"context"

	"github.com/veridrive/veridrive/internal/domain"
)

// ReadingHandler is called for each telemetry reading received from the broker.
// Returning an error causes the message to be redelivered.
type ReadingHandler func(ctx context.Context, reading *domain.TelemetryReading) error

// Subscriber defines the interface for consuming telemetry readings
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// SubscribeReadings consumes telemetry readings and invokes handler for each one.
	// Blocks until ctx is cancelled.
	SubscribeReadings(ctx context.Context, handler ReadingHandler) error

	// Close closes the connection and cleans up resources
	Close()
}
