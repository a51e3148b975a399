package jetstream

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/veridrive/veridrive/internal/adapter"
	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/logger"
	"github.com/veridrive/veridrive/internal/messaging"
)

// readingSubject covers every per-vehicle telemetry subject
const readingSubject = "telemetry.readings.>"

type subscriber struct {
	nc     adapter.NatsConn
	js     adapter.JetStream
	json   adapter.JSON
	config Config
}

// NewSubscriber creates a new NATS JetStream subscriber for telemetry readings
func NewSubscriber(cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Subscriber, error) {
	nc, js, err := natsJS.Connect(cfg.URL, connectOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &subscriber{
		nc:     nc,
		js:     js,
		json:   jsonAdapter,
		config: cfg,
	}, nil
}

// SubscribeReadings consumes telemetry readings through a durable consumer and
// invokes handler for each one. Blocks until ctx is cancelled.
func (s *subscriber) SubscribeReadings(ctx context.Context, handler messaging.ReadingHandler) error {
	logger.Info("Starting telemetry subscription",
		zap.String("stream", s.config.StreamName),
		zap.String("consumer", s.config.ConsumerName),
	)

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       s.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       s.config.AckWaitTimeout,
		MaxDeliver:    s.config.MaxDeliver,
		FilterSubject: readingSubject,
	}

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, s.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	msgChan := make(chan adapter.Message, 100)
	consumeCtx, err := consumer.Consume(func(msg adapter.Message) {
		msgChan <- msg
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	defer consumeCtx.Stop()

	logger.Info("Started consuming telemetry readings")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down telemetry subscription")
			return ctx.Err()
		case msg := <-msgChan:
			s.handleMessage(ctx, msg, handler)
		}
	}
}

// handleMessage processes a single NATS message. Unparseable payloads are
// terminated, retryable handler failures are NAKed.
func (s *subscriber) handleMessage(ctx context.Context, msg adapter.Message, handler messaging.ReadingHandler) {
	var reading domain.TelemetryReading
	if err := s.json.Unmarshal(msg.Data(), &reading); err != nil {
		logger.Error(err, zap.String("message", "Failed to unmarshal telemetry reading"))
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	if err := handler(ctx, &reading); err != nil {
		logger.Error(err,
			zap.String("message", "Failed to process telemetry reading"),
			zap.String("vehicleID", reading.VehicleID),
		)
		if err := msg.Nak(); err != nil {
			logger.Error(err, zap.String("message", "Failed to NAK message"))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		logger.Error(err, zap.String("message", "Failed to ACK message"))
	}
}

// Close closes the NATS connection
func (s *subscriber) Close() {
	if s.nc == nil {
		return
	}

	s.nc.Close()
}
