// Package trust owns the authoritative per-vehicle trust score. All score
// mutations flow through this service: live updates append to the per-vehicle
// event chain, and the recompute path replays that chain to repair state.
package trust

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veridrive/veridrive/internal/adapter"
	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/logger"
	"github.com/veridrive/veridrive/internal/store"
	"github.com/veridrive/veridrive/internal/store/schema"
)

// maxCASRetries bounds how many times an update re-reads state after losing
// the optimistic concurrency race before giving up.
const maxCASRetries = 8

// UpdateResult is the outcome of an applied trust score update
type UpdateResult struct {
	PreviousScore int    `json:"previous_score"`
	NewScore      int    `json:"new_score"`
	EventID       string `json:"event_id"`
}

// CurrentScore is the read-only trust state snapshot for a vehicle
type CurrentScore struct {
	CurrentScore  int    `json:"current_score"`
	PreviousScore int    `json:"previous_score"`
	LatestEventID string `json:"latest_event_id,omitempty"`
}

// Service defines the trust score ledger operations
//
//go:generate mockgen -source=trust.go -destination=../mocks/trust.go -package=mocks -mock_names=Service=MockTrustService
type Service interface {
	// UpdateTrustScore applies a signed delta to a vehicle's trust score,
	// appending an immutable event. A nil eventTimestamp defaults to now.
	UpdateTrustScore(ctx context.Context, vehicleID string, change int, reason string, source domain.TrustEventSource, eventTimestamp *time.Time) (*UpdateResult, error)
	// GetCurrentTrustScore returns the current trust state for a vehicle
	GetCurrentTrustScore(ctx context.Context, vehicleID string) (*CurrentScore, error)
	// GetTrustScoreHistory returns trust events most recent first
	GetTrustScoreHistory(ctx context.Context, vehicleID string, limit int) ([]*schema.TrustEvent, error)
	// RecomputeTrustScore replays the full event chain from the initial score
	// and overwrites the vehicle's current score with the result
	RecomputeTrustScore(ctx context.Context, vehicleID string) (int, error)
	// SeedTrustScore sets the score directly, recording a seed event whose
	// change bridges the previous score to the target
	SeedTrustScore(ctx context.Context, vehicleID string, initialScore int) (*UpdateResult, error)
}

type service struct {
	store store.Store
	clock adapter.Clock
}

// NewService creates a new trust score ledger service
func NewService(st store.Store, clock adapter.Clock) Service {
	return &service{store: st, clock: clock}
}

// UpdateTrustScore applies a signed delta to a vehicle's trust score.
//
// Concurrent updates to the same vehicle serialize through an optimistic
// compare-and-swap loop keyed by the vehicle's trust_event_count: the store
// rejects the append when another updater advanced the count first, and the
// loser re-reads the fresh score and retries. The clamp is applied to the
// current score on every attempt, never to a stale one.
func (s *service) UpdateTrustScore(ctx context.Context, vehicleID string, change int, reason string, source domain.TrustEventSource, eventTimestamp *time.Time) (*UpdateResult, error) {
	if change < -domain.MaxTrustScore || change > domain.MaxTrustScore {
		return nil, fmt.Errorf("trust score change %d out of range [-100, 100]", change)
	}
	if !domain.IsValidTrustEventSource(source) {
		return nil, fmt.Errorf("invalid trust event source %q", source)
	}

	ts := s.clock.Now().UTC()
	if eventTimestamp != nil {
		ts = eventTimestamp.UTC()
	}

	var result *UpdateResult
	operation := func() error {
		vehicle, err := s.store.GetVehicleByID(ctx, vehicleID)
		if err != nil {
			return backoff.Permanent(err)
		}
		if vehicle == nil {
			return backoff.Permanent(fmt.Errorf("%w: %s", domain.ErrVehicleNotFound, vehicleID))
		}

		// Backfilled signals must go through the recompute path, not live updates
		if vehicle.LastTrustEventAt != nil && ts.Before(*vehicle.LastTrustEventAt) {
			return backoff.Permanent(fmt.Errorf("%w: event at %s precedes last event at %s",
				domain.ErrOutOfOrderEvent, ts.Format(time.RFC3339Nano), vehicle.LastTrustEventAt.Format(time.RFC3339Nano)))
		}

		previousScore := vehicle.TrustScore
		newScore := domain.ClampScore(previousScore + change)

		event := schema.TrustEvent{
			ID:             uuid.NewString(),
			VehicleID:      vehicleID,
			Change:         change,
			Reason:         reason,
			Source:         string(source),
			PreviousScore:  previousScore,
			NewScore:       newScore,
			EventTimestamp: ts,
			CreatedAt:      s.clock.Now().UTC(),
		}

		err = s.store.AppendTrustEvent(ctx, store.AppendTrustEventInput{
			Event:              event,
			ExpectedEventCount: vehicle.TrustEventCount,
		})
		if err != nil {
			if errors.Is(err, domain.ErrStaleTrustState) {
				// Lost the race; retry from a fresh read
				logger.DebugCtx(ctx, "Trust update lost optimistic race, retrying",
					zap.String("vehicle_id", vehicleID))
				return err
			}
			return backoff.Permanent(err)
		}

		result = &UpdateResult{
			PreviousScore: previousScore,
			NewScore:      newScore,
			EventID:       event.ID,
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxCASRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return result, nil
}

// GetCurrentTrustScore returns the current trust state for a vehicle
func (s *service) GetCurrentTrustScore(ctx context.Context, vehicleID string) (*CurrentScore, error) {
	vehicle, err := s.store.GetVehicleByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrVehicleNotFound, vehicleID)
	}

	score := &CurrentScore{
		CurrentScore:  vehicle.TrustScore,
		PreviousScore: vehicle.TrustScore,
	}

	events, err := s.store.GetTrustHistory(ctx, vehicleID, 1)
	if err != nil {
		return nil, err
	}
	if len(events) > 0 {
		score.PreviousScore = events[0].PreviousScore
		score.LatestEventID = events[0].ID
	}

	return score, nil
}

// GetTrustScoreHistory returns trust events most recent first
func (s *service) GetTrustScoreHistory(ctx context.Context, vehicleID string, limit int) ([]*schema.TrustEvent, error) {
	vehicle, err := s.store.GetVehicleByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrVehicleNotFound, vehicleID)
	}

	return s.store.GetTrustHistory(ctx, vehicleID, limit)
}

// RecomputeTrustScore replays the full event chain from the initial score,
// reapplying the clamp after every step, and overwrites the vehicle's current
// score with the result. It creates no new events and is idempotent.
func (s *service) RecomputeTrustScore(ctx context.Context, vehicleID string) (int, error) {
	vehicle, err := s.store.GetVehicleByID(ctx, vehicleID)
	if err != nil {
		return 0, err
	}
	if vehicle == nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrVehicleNotFound, vehicleID)
	}

	events, err := s.store.GetTrustEventsChronological(ctx, vehicleID)
	if err != nil {
		return 0, err
	}

	score := domain.InitialTrustScore
	for _, event := range events {
		score = domain.ClampScore(score + event.Change)
	}

	if err := s.store.OverwriteTrustScore(ctx, vehicleID, score); err != nil {
		return 0, err
	}

	logger.InfoCtx(ctx, "Recomputed trust score",
		zap.String("vehicle_id", vehicleID),
		zap.Int("previous", vehicle.TrustScore),
		zap.Int("recomputed", score),
		zap.Int("events", len(events)))

	return score, nil
}

// SeedTrustScore sets the score directly, bypassing delta math, but still
// clamped and still recorded on the event chain. The bridging change is
// recomputed on every attempt so a concurrent update cannot skew the target.
func (s *service) SeedTrustScore(ctx context.Context, vehicleID string, initialScore int) (*UpdateResult, error) {
	target := domain.ClampScore(initialScore)

	var result *UpdateResult
	operation := func() error {
		vehicle, err := s.store.GetVehicleByID(ctx, vehicleID)
		if err != nil {
			return backoff.Permanent(err)
		}
		if vehicle == nil {
			return backoff.Permanent(fmt.Errorf("%w: %s", domain.ErrVehicleNotFound, vehicleID))
		}

		now := s.clock.Now().UTC()
		event := schema.TrustEvent{
			ID:             uuid.NewString(),
			VehicleID:      vehicleID,
			Change:         target - vehicle.TrustScore,
			Reason:         "administrative seed",
			Source:         string(domain.TrustSourceSeed),
			PreviousScore:  vehicle.TrustScore,
			NewScore:       target,
			EventTimestamp: now,
			CreatedAt:      now,
		}

		err = s.store.AppendTrustEvent(ctx, store.AppendTrustEventInput{
			Event:              event,
			ExpectedEventCount: vehicle.TrustEventCount,
		})
		if err != nil {
			if errors.Is(err, domain.ErrStaleTrustState) {
				return err
			}
			return backoff.Permanent(err)
		}

		result = &UpdateResult{
			PreviousScore: event.PreviousScore,
			NewScore:      target,
			EventID:       event.ID,
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxCASRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return result, nil
}
