// Package consolidation glues the daily-batch lifecycle together: it freezes a
// vehicle's day, applies the trust recovery credit for a clean day, and hands
// the frozen batch to the anchoring orchestrator.
package consolidation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/veridrive/veridrive/internal/aggregator"
	"github.com/veridrive/veridrive/internal/anchor"
	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/logger"
	"github.com/veridrive/veridrive/internal/store"
	"github.com/veridrive/veridrive/internal/store/schema"
	"github.com/veridrive/veridrive/internal/trust"
	"github.com/veridrive/veridrive/internal/webhook"
)

// cleanDayMinReadings is the minimum number of readings a day needs before a
// clean result earns a trust recovery credit. A single reading proves nothing.
const cleanDayMinReadings = 2

// cleanDayRecovery is the trust credit for a fully valid day
const cleanDayRecovery = 1

// Service defines the day-consolidation operations
//
//go:generate mockgen -source=consolidation.go -destination=../mocks/consolidation.go -package=mocks -mock_names=Service=MockConsolidation
type Service interface {
	// ConsolidateDayBatch finalizes the vehicle's batch for the given calendar
	// day (if still open, or abandoned mid-finalize) and anchors it. Calling
	// it on an already anchored day is a no-op returning the existing result.
	ConsolidateDayBatch(ctx context.Context, vehicleID string, date time.Time) (*domain.AnchorResult, error)

	// GetBatchesForVehicle returns a vehicle's batches newest first
	GetBatchesForVehicle(ctx context.Context, vehicleID string, limit int) ([]*schema.TelemetryBatch, error)
}

type service struct {
	store      store.Store
	aggregator aggregator.Service
	anchor     anchor.Orchestrator
	trust      trust.Service
	notifier   webhook.Notifier
}

// NewService creates a new consolidation service. notifier may be nil when
// webhook delivery is not configured.
func NewService(st store.Store, agg aggregator.Service, orch anchor.Orchestrator, trustSvc trust.Service, notifier webhook.Notifier) Service {
	return &service{
		store:      st,
		aggregator: agg,
		anchor:     orch,
		trust:      trustSvc,
		notifier:   notifier,
	}
}

func (s *service) ConsolidateDayBatch(ctx context.Context, vehicleID string, date time.Time) (*domain.AnchorResult, error) {
	day := domain.DayKey(date)

	batch, err := s.store.GetBatch(ctx, vehicleID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch: %w", err)
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: vehicle %s date %s", domain.ErrBatchNotFound, vehicleID, day.Format("2006-01-02"))
	}

	// A batch in finalizing was abandoned by a finalizer that died before
	// stamping validity; Finalize picks it back up and finishes the freeze.
	if batch.State == string(domain.BatchStateOpen) || batch.State == string(domain.BatchStateFinalizing) {
		validity, err := s.aggregator.Finalize(ctx, batch.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to finalize batch: %w", err)
		}

		s.applyCleanDayRecovery(ctx, batch, validity)

		// Reload to pick up the frozen state and validity fields
		batch, err = s.store.GetBatchByID(ctx, batch.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload batch: %w", err)
		}
		if batch == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrBatchNotFound, vehicleID)
		}
	}

	result, err := s.anchor.Anchor(ctx, batch)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		// Best effort, the notifier logs its own failures
		_ = s.notifier.NotifyAnchoring(ctx, result, vehicleID, day)
	}

	return result, nil
}

func (s *service) GetBatchesForVehicle(ctx context.Context, vehicleID string, limit int) ([]*schema.TelemetryBatch, error) {
	return s.store.ListBatchesForVehicle(ctx, vehicleID, limit)
}

// applyCleanDayRecovery credits the vehicle for a fully clean day. Recovery is
// best effort: a failed credit never blocks consolidation.
func (s *service) applyCleanDayRecovery(ctx context.Context, batch *schema.TelemetryBatch, validity *domain.BatchValidity) {
	if validity.FraudScore != 0 || batch.ReadingCount < cleanDayMinReadings {
		return
	}

	_, err := s.trust.UpdateTrustScore(ctx, batch.VehicleID, cleanDayRecovery, "clean daily batch", domain.TrustSourceFraudEngine, nil)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to apply clean-day trust recovery",
			zap.String("vehicle_id", batch.VehicleID),
			zap.String("batch_id", batch.ID),
			zap.Error(err))
		return
	}

	logger.InfoCtx(ctx, "Applied clean-day trust recovery",
		zap.String("vehicle_id", batch.VehicleID),
		zap.String("batch_id", batch.ID))
}
