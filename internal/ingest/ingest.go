// Package ingest wires the telemetry feed into the fraud pipeline: each
// incoming reading is classified against the vehicle's last accepted mileage,
// persisted, folded into the daily batch, and reflected in the trust score
// when it is flagged.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/veridrive/veridrive/internal/aggregator"
	"github.com/veridrive/veridrive/internal/classifier"
	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/logger"
	"github.com/veridrive/veridrive/internal/registry"
	"github.com/veridrive/veridrive/internal/store"
	"github.com/veridrive/veridrive/internal/store/schema"
	"github.com/veridrive/veridrive/internal/trust"
)

// Pipeline processes raw telemetry readings end to end
//
//go:generate mockgen -source=ingest.go -destination=../mocks/ingest.go -package=mocks -mock_names=Pipeline=MockPipeline
type Pipeline interface {
	// ProcessReading classifies, persists and aggregates a single reading.
	// A returned error means the reading was not durably processed and the
	// message should be redelivered. Redeliveries are safe: the reading row
	// goes first and the remaining steps are resumed from what it records.
	ProcessReading(ctx context.Context, reading *domain.TelemetryReading) error
}

type pipeline struct {
	store      store.Store
	trust      trust.Service
	aggregator aggregator.Service
	quarantine registry.QuarantineRegistry
}

// NewPipeline creates a new ingest pipeline. quarantine may be nil when no
// quarantine list is configured.
func NewPipeline(st store.Store, trustSvc trust.Service, agg aggregator.Service, quarantine registry.QuarantineRegistry) Pipeline {
	return &pipeline{
		store:      st,
		trust:      trustSvc,
		aggregator: agg,
		quarantine: quarantine,
	}
}

func (p *pipeline) ProcessReading(ctx context.Context, reading *domain.TelemetryReading) error {
	if p.quarantine != nil && p.quarantine.IsQuarantined(reading.VehicleID) {
		logger.WarnCtx(ctx, "Dropping reading from quarantined vehicle",
			zap.String("vehicle_id", reading.VehicleID))
		return nil
	}

	vehicle, err := p.store.GetVehicleByID(ctx, reading.VehicleID)
	if err != nil {
		return fmt.Errorf("failed to look up vehicle: %w", err)
	}
	if vehicle == nil {
		return fmt.Errorf("%w: %s", domain.ErrVehicleNotFound, reading.VehicleID)
	}

	previous, err := p.store.GetLatestReading(ctx, reading.VehicleID)
	if err != nil {
		return fmt.Errorf("failed to load latest reading: %w", err)
	}

	if previous != nil && !reading.Timestamp.After(previous.Timestamp) {
		// A redelivery carries the exact reading we already stored; resume
		// whatever did not finish before the previous delivery failed.
		if sameReading(previous, reading) {
			return p.resumeDelivery(ctx, vehicle, previous)
		}
		// Stale reports cannot be classified against a later baseline. Drop
		// them rather than rewriting history.
		logger.WarnCtx(ctx, "Dropping out-of-order telemetry reading",
			zap.String("vehicle_id", reading.VehicleID),
			zap.Time("reading_ts", reading.Timestamp),
			zap.Time("latest_ts", previous.Timestamp))
		return nil
	}

	verdict := p.classify(previous, reading)

	// The reading row goes first: it is the durable record a redelivery is
	// matched against, so a failure in any later step cannot fold the same
	// reading into the batch twice.
	row := toRow(reading, verdict)
	if err := p.store.CreateReading(ctx, row); err != nil {
		return fmt.Errorf("failed to persist reading: %w", err)
	}

	return p.aggregateAndScore(ctx, vehicle, row, verdict)
}

// aggregateAndScore folds a persisted reading into the daily batch and applies
// the trust penalty for flagged verdicts
func (p *pipeline) aggregateAndScore(ctx context.Context, vehicle *schema.Vehicle, row *schema.TelemetryReading, verdict domain.ValidationVerdict) error {
	_, err := p.aggregator.AppendReading(ctx, row, verdict)
	switch {
	case err == nil:
		// The aggregator stamped row.BatchID inside its own transaction
	case errors.Is(err, domain.ErrInvalidBatchState):
		// The day's batch is already frozen. Keep the reading, leave it
		// unbatched.
		logger.WarnCtx(ctx, "Reading arrived after its day was finalized",
			zap.String("vehicle_id", row.VehicleID),
			zap.Time("reading_ts", row.Timestamp))
	default:
		return fmt.Errorf("failed to aggregate reading: %w", err)
	}

	if err := p.applyTrustDelta(ctx, vehicle, row, verdict); err != nil {
		return err
	}

	logger.DebugCtx(ctx, "Processed telemetry reading",
		zap.String("vehicle_id", row.VehicleID),
		zap.Float64("mileage", row.Mileage),
		zap.String("verdict", row.Verdict),
		zap.Float64("delta_km", verdict.DeltaKM))

	return nil
}

// resumeDelivery finishes a delivery whose reading row was stored but whose
// later steps did not all complete. The batch_id stamp records whether the
// batch append landed, and the vehicle's trust chain records whether the
// penalty landed, so each step runs at most once across redeliveries.
func (p *pipeline) resumeDelivery(ctx context.Context, vehicle *schema.Vehicle, row *schema.TelemetryReading) error {
	logger.InfoCtx(ctx, "Resuming redelivered telemetry reading",
		zap.String("vehicle_id", row.VehicleID),
		zap.Time("reading_ts", row.Timestamp),
		zap.Bool("batched", row.BatchID != nil))

	verdict := verdictFromRow(row)
	if row.BatchID != nil {
		return p.applyTrustDelta(ctx, vehicle, row, verdict)
	}
	return p.aggregateAndScore(ctx, vehicle, row, verdict)
}

// sameReading reports whether a stored row and an incoming wire reading are
// the same device report
func sameReading(stored *schema.TelemetryReading, incoming *domain.TelemetryReading) bool {
	return stored.Timestamp.Equal(incoming.Timestamp.UTC()) &&
		stored.DeviceID == incoming.DeviceID &&
		stored.Mileage == incoming.Mileage
}

// classify runs the odometer classifier against the last accepted reading.
// The first reading for a vehicle has no baseline and is accepted as valid.
func (p *pipeline) classify(previous *schema.TelemetryReading, reading *domain.TelemetryReading) domain.ValidationVerdict {
	if previous == nil {
		return domain.ValidationVerdict{
			Status:     domain.VerdictValid,
			DeltaKM:    0,
			FraudScore: 0,
			ReasonCode: domain.ReasonNone,
		}
	}

	elapsedHours := reading.Timestamp.Sub(previous.Timestamp).Hours()
	return classifier.Classify(previous.Mileage, reading.Mileage, elapsedHours)
}

// verdictFromRow rebuilds the classifier verdict recorded on a stored reading
func verdictFromRow(row *schema.TelemetryReading) domain.ValidationVerdict {
	verdict := domain.ValidationVerdict{
		Status:     domain.VerdictStatus(row.Verdict),
		ReasonCode: domain.ReasonCode(row.ReasonCode),
	}

	switch verdict.ReasonCode {
	case domain.ReasonRollback:
		verdict.FraudScore = domain.FraudScoreRollback
	case domain.ReasonImpossibleDistance:
		verdict.FraudScore = domain.FraudScoreImpossibleDistance
	case domain.ReasonSuddenJump:
		verdict.FraudScore = domain.FraudScoreSuddenJump
	}

	return verdict
}

// applyTrustDelta penalizes the vehicle's trust score for flagged readings.
// The penalty is derived from the verdict's fraud contribution so repeated
// tampering drains the score faster than sporadic anomalies.
func (p *pipeline) applyTrustDelta(ctx context.Context, vehicle *schema.Vehicle, row *schema.TelemetryReading, verdict domain.ValidationVerdict) error {
	var change int
	var reason string

	switch verdict.Status {
	case domain.VerdictRollback:
		change = -(verdict.FraudScore / 2)
		reason = "odometer rollback detected"
	case domain.VerdictSuspicious:
		change = -(verdict.FraudScore / 3)
		switch verdict.ReasonCode {
		case domain.ReasonImpossibleDistance:
			reason = "impossible distance reported"
		case domain.ReasonSuddenJump:
			reason = "sudden mileage jump"
		default:
			reason = "suspicious reading"
		}
	default:
		return nil
	}

	// The penalty's event timestamp is the reading timestamp; a trust chain
	// already at or past it means an earlier delivery applied this penalty
	if vehicle.LastTrustEventAt != nil && !row.Timestamp.After(*vehicle.LastTrustEventAt) {
		logger.DebugCtx(ctx, "Trust penalty already recorded",
			zap.String("vehicle_id", row.VehicleID),
			zap.Time("event_ts", row.Timestamp))
		return nil
	}

	ts := row.Timestamp
	_, err := p.trust.UpdateTrustScore(ctx, row.VehicleID, change, reason, domain.TrustSourceFraudEngine, &ts)
	if err != nil {
		// A concurrent writer already recorded a later event; the penalty for
		// this stale timestamp is intentionally skipped.
		if errors.Is(err, domain.ErrOutOfOrderEvent) {
			logger.WarnCtx(ctx, "Skipping out-of-order trust penalty",
				zap.String("vehicle_id", row.VehicleID),
				zap.Time("event_ts", ts))
			return nil
		}
		return fmt.Errorf("failed to apply trust penalty: %w", err)
	}

	logger.InfoCtx(ctx, "Applied trust penalty",
		zap.String("vehicle_id", row.VehicleID),
		zap.Int("change", change),
		zap.String("reason", reason))

	return nil
}

// toRow converts a wire-format reading into its persisted form
func toRow(reading *domain.TelemetryReading, verdict domain.ValidationVerdict) *schema.TelemetryReading {
	row := &schema.TelemetryReading{
		VehicleID:     reading.VehicleID,
		DeviceID:      reading.DeviceID,
		Mileage:       reading.Mileage,
		Timestamp:     reading.Timestamp.UTC(),
		SignalQuality: reading.SignalQuality,
		SpeedKMH:      reading.SpeedKMH,
		EngineRPM:     reading.EngineRPM,
		Verdict:       string(verdict.Status),
		ReasonCode:    string(verdict.ReasonCode),
	}

	if reading.Position != nil {
		row.Latitude = &reading.Position.Latitude
		row.Longitude = &reading.Position.Longitude
	}

	return row
}
