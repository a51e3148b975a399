package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/veridrive/veridrive/internal/adapter"
	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/logger"
)

// Notifier delivers anchoring events to a configured webhook endpoint
//
//go:generate mockgen -source=notifier.go -destination=../mocks/webhook_notifier.go -package=mocks -mock_names=Notifier=MockWebhookNotifier
type Notifier interface {
	// NotifyAnchoring delivers the anchoring outcome for a batch.
	// Delivery is best effort, failures are logged and returned but should
	// never block the anchoring flow.
	NotifyAnchoring(ctx context.Context, result *domain.AnchorResult, vehicleID string, date time.Time) error
}

// Config holds webhook delivery configuration
type Config struct {
	// URL is the webhook endpoint, empty disables delivery
	URL string
	// Secret is the hex-encoded HMAC signing secret
	Secret string
}

type notifier struct {
	http  adapter.HTTPClient
	clock adapter.Clock
	cfg   Config
}

// NewNotifier creates a webhook notifier. Returns nil when no URL is
// configured so callers can skip delivery with a nil check.
func NewNotifier(httpClient adapter.HTTPClient, clock adapter.Clock, cfg Config) Notifier {
	if cfg.URL == "" {
		return nil
	}
	return &notifier{
		http:  httpClient,
		clock: clock,
		cfg:   cfg,
	}
}

// NotifyAnchoring signs and POSTs the anchoring event to the endpoint
func (n *notifier) NotifyAnchoring(ctx context.Context, result *domain.AnchorResult, vehicleID string, date time.Time) error {
	now := n.clock.Now()
	event := WebhookEvent{
		EventID:   ulid.MustNewDefault(now).String(),
		EventType: eventTypeFor(result.Status),
		Timestamp: now,
		Data: EventData{
			VehicleID:            vehicleID,
			BatchID:              result.BatchID,
			Date:                 date.Format("2006-01-02"),
			Status:               result.Status,
			Fingerprint:          result.Fingerprint,
			PermanentLedgerRef:   result.PermanentLedgerRef,
			TransactionLedgerRef: result.TransactionLedgerRef,
		},
	}

	payload, signature, timestamp, err := GenerateSignedPayload(n.cfg.Secret, event)
	if err != nil {
		return fmt.Errorf("failed to sign webhook payload: %w", err)
	}

	headers := map[string]string{
		"X-Webhook-Signature": signature,
		"X-Webhook-Timestamp": fmt.Sprintf("%d", timestamp),
		"X-Webhook-Event-Id":  event.EventID,
	}

	if _, err := n.http.Post(ctx, n.cfg.URL, "application/json", payload, headers); err != nil {
		logger.Warn("Webhook delivery failed",
			zap.String("url", n.cfg.URL),
			zap.String("eventType", event.EventType),
			zap.String("batchID", result.BatchID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to deliver webhook: %w", err)
	}

	logger.Debug("Webhook delivered",
		zap.String("eventType", event.EventType),
		zap.String("batchID", result.BatchID),
	)
	return nil
}

// eventTypeFor maps an anchoring status to its event type
func eventTypeFor(status domain.AnchorStatus) string {
	switch status {
	case domain.AnchorStatusAnchored:
		return EventTypeBatchAnchored
	case domain.AnchorStatusPartial:
		return EventTypeBatchPartial
	default:
		return EventTypeBatchFailed
	}
}
