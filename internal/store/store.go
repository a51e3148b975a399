package store

import (
	"context"
	"time"

	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/store/schema"
)

// AppendTrustEventInput carries a trust event together with the optimistic
// concurrency token observed when the caller read the vehicle's trust state.
type AppendTrustEventInput struct {
	Event schema.TrustEvent
	// ExpectedEventCount must match vehicles.trust_event_count at commit time,
	// otherwise the append fails with domain.ErrStaleTrustState.
	ExpectedEventCount int64
}

// BatchAnchoringUpdate carries the anchoring fields the orchestrator persists
// after a submission round. SubmissionAttempts is incremented, not set.
type BatchAnchoringUpdate struct {
	Fingerprint          string
	PermanentLedgerRef   string
	TransactionLedgerRef string
	Status               domain.AnchorStatus
	LastError            string
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetVehicleByID retrieves a vehicle by its external identifier, nil if absent
	GetVehicleByID(ctx context.Context, vehicleID string) (*schema.Vehicle, error)
	// CreateVehicle registers a new vehicle
	CreateVehicle(ctx context.Context, vehicle *schema.Vehicle) error

	// AppendTrustEvent atomically appends a trust event and advances the
	// vehicle's embedded trust state. Returns domain.ErrStaleTrustState when
	// the vehicle's trust_event_count no longer matches ExpectedEventCount.
	AppendTrustEvent(ctx context.Context, input AppendTrustEventInput) error
	// GetTrustHistory returns a vehicle's trust events most recent first
	GetTrustHistory(ctx context.Context, vehicleID string, limit int) ([]*schema.TrustEvent, error)
	// GetTrustEventsChronological returns the full event chain oldest first,
	// ordered by event timestamp (creation order breaks ties)
	GetTrustEventsChronological(ctx context.Context, vehicleID string) ([]*schema.TrustEvent, error)
	// OverwriteTrustScore replaces the vehicle's current score without
	// creating an event. Used only by the recompute repair path.
	OverwriteTrustScore(ctx context.Context, vehicleID string, score int) error

	// CreateReading persists a raw telemetry reading
	CreateReading(ctx context.Context, reading *schema.TelemetryReading) error
	// GetLatestReading returns the most recent reading for a vehicle, nil if none
	GetLatestReading(ctx context.Context, vehicleID string) (*schema.TelemetryReading, error)

	// CreateBatch opens a new daily batch. Returns domain.ErrBatchAlreadyExists
	// when a batch for the same (vehicle, date) already exists.
	CreateBatch(ctx context.Context, batch *schema.TelemetryBatch) error
	// GetBatch retrieves the batch for a (vehicle, date) pair, nil if absent
	GetBatch(ctx context.Context, vehicleID string, date time.Time) (*schema.TelemetryBatch, error)
	// GetBatchByID retrieves a batch by its identifier, nil if absent
	GetBatchByID(ctx context.Context, batchID string) (*schema.TelemetryBatch, error)
	// UpdateBatchContent persists recalculated day-summary fields and stamps
	// the contributing reading's batch_id in the same transaction; a zero
	// readingID skips the stamp. Only legal while the batch is open; returns
	// domain.ErrInvalidBatchState otherwise.
	UpdateBatchContent(ctx context.Context, batch *schema.TelemetryBatch, readingID int64) error
	// TransitionBatchState moves a batch between lifecycle states with a
	// compare-and-set guard; losers get domain.ErrInvalidBatchState.
	TransitionBatchState(ctx context.Context, batchID string, from, to domain.BatchState) error
	// FinalizeBatch records the computed validity and freezes the batch
	FinalizeBatch(ctx context.Context, batchID string, validity domain.BatchValidity, finalizedAt time.Time) error
	// SaveBatchAnchoring persists anchoring references and status, and
	// increments the submission attempt counter
	SaveBatchAnchoring(ctx context.Context, batchID string, update BatchAnchoringUpdate) error
	// ListBatchesForVehicle returns a vehicle's batches newest first
	ListBatchesForVehicle(ctx context.Context, vehicleID string, limit int) ([]*schema.TelemetryBatch, error)
	// ListOpenBatchesBefore returns open batches whose date precedes the cutoff
	ListOpenBatchesBefore(ctx context.Context, cutoff time.Time, limit int) ([]*schema.TelemetryBatch, error)
	// ListRetryableBatches returns finalized valid batches whose anchoring
	// failed and was last attempted before the cutoff
	ListRetryableBatches(ctx context.Context, attemptedBefore time.Time, limit int) ([]*schema.TelemetryBatch, error)
	// ListStaleFinalizingBatches returns batches stuck in the finalizing state
	// since before the cutoff, left behind by a finalizer that died mid-freeze
	ListStaleFinalizingBatches(ctx context.Context, updatedBefore time.Time, limit int) ([]*schema.TelemetryBatch, error)
}
