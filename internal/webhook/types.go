package webhook

import (
	"time"

	"github.com/veridrive/veridrive/internal/domain"
)

// Event type constants
const (
	// EventTypeBatchAnchored is fired when a daily batch has been anchored
	// on both ledgers
	EventTypeBatchAnchored = "batch.anchored"

	// EventTypeBatchPartial is fired when only one of the two ledgers
	// accepted the batch fingerprint
	EventTypeBatchPartial = "batch.partial"

	// EventTypeBatchFailed is fired when both ledger submissions failed
	EventTypeBatchFailed = "batch.failed"

	// EventTypeWildcard is a special filter that matches all event types
	EventTypeWildcard = "*"
)

// WebhookEvent represents a webhook event to be delivered to clients
type WebhookEvent struct {
	// EventID is a unique identifier for this event (ULID for time-sortable uniqueness)
	EventID string `json:"event_id"`
	// EventType is the type of event (e.g., "batch.anchored")
	EventType string `json:"event_type"`
	// Timestamp is when the event was generated
	Timestamp time.Time `json:"timestamp"`
	// Data contains the event-specific payload
	Data EventData `json:"data"`
}

// EventData contains the webhook event payload
type EventData struct {
	// VehicleID identifies the vehicle the batch belongs to
	VehicleID string `json:"vehicle_id"`
	// BatchID is the anchored batch identifier
	BatchID string `json:"batch_id"`
	// Date is the batch calendar day in YYYY-MM-DD
	Date string `json:"date"`
	// Status is the anchoring outcome (ANCHORED, PARTIAL, FAILED)
	Status domain.AnchorStatus `json:"status"`
	// Fingerprint is the canonical batch fingerprint that was anchored
	Fingerprint string `json:"fingerprint"`
	// PermanentLedgerRef is the permanent-storage reference, if any
	PermanentLedgerRef string `json:"permanent_ledger_ref,omitempty"`
	// TransactionLedgerRef is the transaction ledger reference, if any
	TransactionLedgerRef string `json:"transaction_ledger_ref,omitempty"`
}

// DeliveryResult represents the result of a webhook delivery attempt
type DeliveryResult struct {
	// Success indicates whether the delivery was successful
	Success bool
	// StatusCode is the HTTP status code returned by the webhook endpoint
	StatusCode int
	// Body is the response body (limited to 4KB)
	Body string
	// Error contains error details if delivery failed
	Error string
}
