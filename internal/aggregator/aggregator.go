// Package aggregator consolidates a vehicle's raw readings into daily batches
// and computes the day-level validity verdict at finalize time.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/veridrive/veridrive/internal/adapter"
	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/logger"
	"github.com/veridrive/veridrive/internal/store"
	"github.com/veridrive/veridrive/internal/store/schema"
)

// tripGapThreshold is the idle gap between readings that starts a new trip segment
const tripGapThreshold = 30 * time.Minute

// Service defines the telemetry batch aggregator operations
//
//go:generate mockgen -source=aggregator.go -destination=../mocks/aggregator.go -package=mocks -mock_names=Service=MockAggregator
type Service interface {
	// AppendReading appends a classified, already-persisted reading to the
	// vehicle's open batch for the reading's calendar day, opening the batch
	// if it is the day's first reading. The reading row is stamped with the
	// batch id in the same transaction as the batch update, so callers can
	// tell from the stamp whether a delivery's append landed. Appending to a
	// non-open batch fails with domain.ErrInvalidBatchState; late readings
	// are rejected rather than reopening a frozen day.
	AppendReading(ctx context.Context, reading *schema.TelemetryReading, verdict domain.ValidationVerdict) (*schema.TelemetryBatch, error)

	// Finalize freezes an open batch and computes its validity. The four
	// day-level checks are cumulative, unlike the per-reading classifier.
	// A batch abandoned in the finalizing state by a dead finalizer is
	// picked up and finished.
	Finalize(ctx context.Context, batchID string) (*domain.BatchValidity, error)
}

type service struct {
	store   store.Store
	clock   adapter.Clock
	entropy *ulid.MonotonicEntropy
}

// NewService creates a new batch aggregator
func NewService(st store.Store, clock adapter.Clock) Service {
	return &service{
		store:   st,
		clock:   clock,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (s *service) AppendReading(ctx context.Context, reading *schema.TelemetryReading, verdict domain.ValidationVerdict) (*schema.TelemetryBatch, error) {
	day := domain.DayKey(reading.Timestamp)

	batch, err := s.store.GetBatch(ctx, reading.VehicleID, day)
	if err != nil {
		return nil, err
	}

	if batch == nil {
		batch, err = s.openBatch(ctx, reading, day)
		if err != nil {
			return nil, err
		}
	}

	if batch.State != string(domain.BatchStateOpen) {
		return nil, fmt.Errorf("%w: batch %s is %s", domain.ErrInvalidBatchState, batch.ID, batch.State)
	}

	s.applyReading(batch, reading, verdict)

	if err := s.store.UpdateBatchContent(ctx, batch, reading.ID); err != nil {
		return nil, err
	}

	batchID := batch.ID
	reading.BatchID = &batchID

	return batch, nil
}

// openBatch creates the day's batch seeded with the first reading's mileage.
// A concurrent opener losing the uniqueness race falls back to the winner's row.
func (s *service) openBatch(ctx context.Context, reading *schema.TelemetryReading, day time.Time) (*schema.TelemetryBatch, error) {
	batch := &schema.TelemetryBatch{
		ID:           ulid.MustNew(ulid.Timestamp(s.clock.Now()), s.entropy).String(),
		VehicleID:    reading.VehicleID,
		DeviceID:     reading.DeviceID,
		Date:         day,
		State:        string(domain.BatchStateOpen),
		StartMileage: reading.Mileage,
		EndMileage:   reading.Mileage,
		Segments:     []domain.TripSegment{},
		AnchorStatus: string(domain.AnchorStatusPending),
		CreatedAt:    s.clock.Now().UTC(),
	}

	err := s.store.CreateBatch(ctx, batch)
	if err == nil {
		logger.DebugCtx(ctx, "Opened daily batch",
			zap.String("batch_id", batch.ID),
			zap.String("vehicle_id", reading.VehicleID),
			zap.Time("date", day))
		return batch, nil
	}
	if !errors.Is(err, domain.ErrBatchAlreadyExists) {
		return nil, err
	}

	existing, getErr := s.store.GetBatch(ctx, reading.VehicleID, day)
	if getErr != nil {
		return nil, getErr
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: vehicle %s date %s", domain.ErrBatchNotFound, reading.VehicleID, day.Format("2006-01-02"))
	}
	return existing, nil
}

// applyReading folds one reading into the batch's running day summary
func (s *service) applyReading(batch *schema.TelemetryBatch, reading *schema.TelemetryReading, verdict domain.ValidationVerdict) {
	n := float64(batch.ReadingCount + 1)

	batch.EndMileage = reading.Mileage
	batch.DistanceKM = batch.EndMileage - batch.StartMileage
	batch.AvgSignalQuality += (reading.SignalQuality - batch.AvgSignalQuality) / n
	if reading.SpeedKMH != nil {
		batch.AvgSpeedKMH += (*reading.SpeedKMH - batch.AvgSpeedKMH) / n
	}
	if reading.EngineRPM != nil {
		batch.AvgEngineRPM += (*reading.EngineRPM - batch.AvgEngineRPM) / n
	}
	batch.ReadingCount++

	if verdict.Status == domain.VerdictRollback {
		batch.RollbackCount++
	}

	batch.Segments = extendSegments(batch.Segments, reading)
}

// extendSegments grows the current trip segment or starts a new one after an
// idle gap
func extendSegments(segments []domain.TripSegment, reading *schema.TelemetryReading) []domain.TripSegment {
	ts := reading.Timestamp.UTC()

	if len(segments) > 0 {
		last := &segments[len(segments)-1]
		if ts.Sub(last.EndTime) <= tripGapThreshold {
			last.EndTime = ts
			last.EndMileage = reading.Mileage
			last.DistanceKM = last.EndMileage - last.StartMileage
			return segments
		}
	}

	return append(segments, domain.TripSegment{
		StartTime:    ts,
		EndTime:      ts,
		StartMileage: reading.Mileage,
		EndMileage:   reading.Mileage,
	})
}

func (s *service) Finalize(ctx context.Context, batchID string) (*domain.BatchValidity, error) {
	// The open->finalizing transition is the serialization point: no reading
	// can be appended past it, so content read afterwards is frozen. Reading
	// before the transition would let a racing append slip into the stored
	// row without ever being seen by the validity checks.
	transitionErr := s.store.TransitionBatchState(ctx, batchID, domain.BatchStateOpen, domain.BatchStateFinalizing)
	if transitionErr != nil && !errors.Is(transitionErr, domain.ErrInvalidBatchState) {
		return nil, transitionErr
	}

	batch, err := s.store.GetBatchByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBatchNotFound, batchID)
	}

	// Losing the transition while the batch sits in finalizing means the
	// previous finalizer died before stamping validity; finish its work. Any
	// other state is a genuine loss to a concurrent finalizer.
	if transitionErr != nil && batch.State != string(domain.BatchStateFinalizing) {
		return nil, fmt.Errorf("%w: batch %s is %s", domain.ErrInvalidBatchState, batchID, batch.State)
	}

	validity := ComputeValidity(batch)

	if err := s.store.FinalizeBatch(ctx, batchID, validity, s.clock.Now().UTC()); err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Finalized daily batch",
		zap.String("batch_id", batchID),
		zap.String("vehicle_id", batch.VehicleID),
		zap.Bool("is_valid", validity.IsValid),
		zap.Int("fraud_score", validity.FraudScore),
		zap.Strings("anomalies", validity.Anomalies))

	return &validity, nil
}

// ComputeValidity runs the four ordered day-level checks. Contributions are
// cumulative; the fraud score is the unclamped sum and the batch is valid
// while it stays below the threshold.
func ComputeValidity(batch *schema.TelemetryBatch) domain.BatchValidity {
	fraudScore := 0
	anomalies := []string{}

	if batch.DistanceKM < 0 {
		fraudScore += domain.FraudScoreDayRollback
		anomalies = append(anomalies, "mileage rollback detected")
	}

	if batch.DistanceKM > tripDurationHours(batch)*domain.MaxPlausibleSpeedKMH {
		fraudScore += domain.FraudScoreDayUnrealistic
		anomalies = append(anomalies, "unrealistic mileage increase")
	}

	if batch.ReadingCount > 0 && batch.AvgSignalQuality < domain.MinAvgSignalQuality {
		fraudScore += domain.FraudScoreLowSignalQuality
		anomalies = append(anomalies, "low data quality")
	}

	if batch.RollbackCount > 0 {
		fraudScore += domain.FraudScorePerFlaggedReading * batch.RollbackCount
		anomalies = append(anomalies, "tampering detected in data points")
	}

	return domain.BatchValidity{
		IsValid:    fraudScore < domain.BatchFraudThreshold,
		FraudScore: fraudScore,
		Anomalies:  anomalies,
	}
}

// tripDurationHours is the driven time of the day: the sum of segment durations
func tripDurationHours(batch *schema.TelemetryBatch) float64 {
	var total time.Duration
	for _, segment := range batch.Segments {
		total += segment.EndTime.Sub(segment.StartTime)
	}
	return total.Hours()
}
