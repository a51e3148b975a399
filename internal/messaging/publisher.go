package messaging

import (
	"context"

	"github.com/veridrive/veridrive/internal/domain"
)

// Publisher defines the interface for publishing telemetry readings to the message queue
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishReading publishes a telemetry reading to the message broker
	PublishReading(ctx context.Context, reading *domain.TelemetryReading) error
	// Close closes the connection
	Close()
}
