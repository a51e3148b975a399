package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/veridrive/veridrive/internal/adapter"
	"github.com/veridrive/veridrive/internal/consolidation"
	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/logger"
	"github.com/veridrive/veridrive/internal/store"
	"github.com/veridrive/veridrive/internal/store/schema"
)

const (
	SWEEP_CYCLE_INTERVAL = 15 * time.Minute // Time to sleep between sweep cycles
	STALE_FINALIZING_AGE = 1 * time.Hour    // Age before a finalizing batch counts as abandoned
)

// ConsolidationSweeperConfig holds configuration for the consolidation sweeper
type ConsolidationSweeperConfig struct {
	BatchLimit       int           // Batches to pick up per query
	WorkerPoolSize   int           // Concurrent workers
	WorkerQueueSize  int           // Pending tasks the pool accepts
	RetryFailedAfter time.Duration // Minimum age of a failed anchoring attempt before retry
}

// consolidationSweeper closes out stale open batches and retries failed
// anchorings. It never touches the current day: readings may still arrive.
type consolidationSweeper struct {
	config        *ConsolidationSweeperConfig
	store         store.Store
	consolidation consolidation.Service
	pool          pond.Pool
	clock         adapter.Clock
	running       atomic.Bool
	stopChan      chan struct{}
	stoppedCh     chan struct{}
}

// NewConsolidationSweeper creates a new consolidation sweeper
func NewConsolidationSweeper(
	config *ConsolidationSweeperConfig,
	st store.Store,
	consolidationSvc consolidation.Service,
	clock adapter.Clock,
) Sweeper {
	return &consolidationSweeper{
		config:        config,
		store:         st,
		consolidation: consolidationSvc,
		clock:         clock,
		stopChan:      make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *consolidationSweeper) Name() string {
	return "consolidation-sweeper"
}

// Start begins the sweeper's main loop
func (s *consolidationSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh) // Signal that we've stopped
	}()

	logger.InfoCtx(ctx, "Starting consolidation sweeper",
		zap.Int("batch_limit", s.config.BatchLimit),
		zap.Int("worker_pool_size", s.config.WorkerPoolSize),
		zap.Duration("retry_failed_after", s.config.RetryFailedAfter),
	)

	// Create worker pool
	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.WorkerQueueSize),
		pond.WithContext(ctx),
	)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Consolidation sweeper stopping due to context cancellation", zap.Error(ctx.Err()))
			s.cleanup()
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Consolidation sweeper stop requested")
			s.cleanup()
			return nil
		default:
			if err := s.runSweepCycle(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.ErrorCtx(ctx, err)
				}
			}
		}
	}
}

// cleanup stops the worker pool and waits for tasks to complete
func (s *consolidationSweeper) cleanup() {
	if s.pool != nil {
		s.pool.StopAndWait()
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *consolidationSweeper) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping consolidation sweeper")

	// Signal stop to the main loop
	close(s.stopChan)

	// Wait for main loop to exit, but respect context cancellation
	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Consolidation sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Consolidation sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runSweepCycle runs a single sweep cycle
func (s *consolidationSweeper) runSweepCycle(ctx context.Context) error {
	startTime := s.clock.Now()
	logger.InfoCtx(ctx, "Starting sweep cycle")

	// Open batches from completed days. Today's open batches are skipped so
	// late-arriving readings can still land.
	today := domain.DayKey(s.clock.Now())
	stale, err := s.store.ListOpenBatchesBefore(ctx, today, s.config.BatchLimit)
	if err != nil {
		return fmt.Errorf("failed to list stale open batches: %w", err)
	}

	// Anchoring failures past the retry age
	attemptedBefore := s.clock.Now().Add(-s.config.RetryFailedAfter)
	retryable, err := s.store.ListRetryableBatches(ctx, attemptedBefore, s.config.BatchLimit)
	if err != nil {
		return fmt.Errorf("failed to list retryable batches: %w", err)
	}

	// Batches whose finalizer died between the state transition and the
	// validity stamp; consolidation finishes the freeze for them
	stuckBefore := s.clock.Now().Add(-STALE_FINALIZING_AGE)
	stuck, err := s.store.ListStaleFinalizingBatches(ctx, stuckBefore, s.config.BatchLimit)
	if err != nil {
		return fmt.Errorf("failed to list stale finalizing batches: %w", err)
	}

	batches := append(stale, retryable...)
	batches = append(batches, stuck...)
	if len(batches) == 0 {
		logger.InfoCtx(ctx, "No batches to consolidate, waiting...")
		if !s.sleep(ctx, SWEEP_CYCLE_INTERVAL) {
			return ctx.Err() // Context canceled during sleep
		}
		return nil
	}

	logger.InfoCtx(ctx, "Found batches to consolidate",
		zap.Int("stale_open", len(stale)),
		zap.Int("retryable", len(retryable)),
		zap.Int("stuck_finalizing", len(stuck)))

	var anchoredCount, partialCount, failedCount, errorCount atomic.Int32

	for _, batch := range batches {
		s.pool.Submit(func() {
			s.consolidateBatch(ctx, batch, &anchoredCount, &partialCount, &failedCount, &errorCount)
		})
	}

	// Wait for all consolidations to complete
	s.pool.StopAndWait()

	// Recreate pool for next cycle
	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.WorkerQueueSize),
		pond.WithContext(ctx),
	)

	duration := s.clock.Since(startTime)
	logger.InfoCtx(ctx, "Sweep cycle completed",
		zap.Duration("duration", duration),
		zap.Int("total", len(batches)),
		zap.Int32("anchored", anchoredCount.Load()),
		zap.Int32("partial", partialCount.Load()),
		zap.Int32("failed", failedCount.Load()),
		zap.Int32("errors", errorCount.Load()),
	)

	if !s.sleep(ctx, SWEEP_CYCLE_INTERVAL) {
		return ctx.Err() // Context canceled during sleep
	}

	return nil
}

// consolidateBatch consolidates one batch and updates the cycle counters
func (s *consolidationSweeper) consolidateBatch(
	ctx context.Context,
	batch *schema.TelemetryBatch,
	anchoredCount, partialCount, failedCount, errorCount *atomic.Int32,
) {
	result, err := s.consolidation.ConsolidateDayBatch(ctx, batch.VehicleID, batch.Date)
	if err != nil {
		// A concurrent consolidation winning the state race is expected,
		// not an error worth alerting on
		if errors.Is(err, domain.ErrInvalidBatchState) {
			logger.DebugCtx(ctx, "Batch consolidated concurrently",
				zap.String("batch_id", batch.ID))
			return
		}
		errorCount.Add(1)
		logger.ErrorCtx(ctx, err,
			zap.String("batch_id", batch.ID),
			zap.String("vehicle_id", batch.VehicleID))
		return
	}

	switch result.Status {
	case domain.AnchorStatusAnchored:
		anchoredCount.Add(1)
	case domain.AnchorStatusPartial:
		partialCount.Add(1)
	default:
		failedCount.Add(1)
	}
}

// sleep sleeps for the given duration but can be interrupted by context cancellation
// Returns true if sleep completed normally, false if interrupted by context
func (s *consolidationSweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true // Sleep completed
	case <-ctx.Done():
		return false // Interrupted by context cancellation
	}
}
