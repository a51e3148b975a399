package sweeper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/logger"
	"github.com/veridrive/veridrive/internal/mocks"
	"github.com/veridrive/veridrive/internal/store/schema"
	"github.com/veridrive/veridrive/internal/sweeper"
)

// testSweeperMocks contains all the mocks needed for testing the sweeper
type testSweeperMocks struct {
	ctrl          *gomock.Controller
	store         *mocks.MockStore
	consolidation *mocks.MockConsolidation
	clock         *mocks.MockClock
	sweeper       sweeper.Sweeper
}

// setupTestSweeper creates all the mocks and sweeper for testing
func setupTestSweeper(t *testing.T) *testSweeperMocks {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: true,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	ctrl := gomock.NewController(t)

	tm := &testSweeperMocks{
		ctrl:          ctrl,
		store:         mocks.NewMockStore(ctrl),
		consolidation: mocks.NewMockConsolidation(ctrl),
		clock:         mocks.NewMockClock(ctrl),
	}

	config := &sweeper.ConsolidationSweeperConfig{
		BatchLimit:       10,
		WorkerPoolSize:   2,
		WorkerQueueSize:  20,
		RetryFailedAfter: 6 * time.Hour,
	}

	tm.sweeper = sweeper.NewConsolidationSweeper(
		config,
		tm.store,
		tm.consolidation,
		tm.clock,
	)

	return tm
}

// tearDownTestSweeper cleans up the test mocks
func tearDownTestSweeper(mocks *testSweeperMocks) {
	mocks.ctrl.Finish()
}

// expectClock wires the common clock expectations: a fixed now and an
// After channel that fires quickly so Stop gets a chance to run
func expectClock(tm *testSweeperMocks, now time.Time) {
	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	tm.clock.EXPECT().Since(now).Return(time.Second).AnyTimes()
	tm.clock.EXPECT().After(gomock.Any()).DoAndReturn(func(d time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		go func() {
			time.Sleep(50 * time.Millisecond)
			ch <- time.Now()
		}()
		return ch
	}).AnyTimes()
}

// expectNoStuckFinalizers wires the empty answer for the abandoned-finalizer
// query that every sweep cycle ends with
func expectNoStuckFinalizers(tm *testSweeperMocks, now time.Time) {
	tm.store.EXPECT().
		ListStaleFinalizingBatches(gomock.Any(), now.Add(-sweeper.STALE_FINALIZING_AGE), 10).
		Return([]*schema.TelemetryBatch{}, nil).
		AnyTimes()
}

func staleBatch(vehicleID string, date time.Time) *schema.TelemetryBatch {
	return &schema.TelemetryBatch{
		ID:        "batch-" + vehicleID,
		VehicleID: vehicleID,
		DeviceID:  "DEV-1",
		Date:      date,
		State:     string(domain.BatchStateOpen),
	}
}

func TestConsolidationSweeper_Name(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	assert.Equal(t, "consolidation-sweeper", mocks.sweeper.Name())
}

func TestConsolidationSweeper_ConsolidatesStaleOpenBatch(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	today := domain.DayKey(now)
	yesterday := today.AddDate(0, 0, -1)
	batch := staleBatch("VH-001", yesterday)

	expectClock(mocks, now)
	expectNoStuckFinalizers(mocks, now)

	// First cycle finds yesterday's open batch, later cycles come up empty
	gomock.InOrder(
		mocks.store.EXPECT().
			ListOpenBatchesBefore(gomock.Any(), today, 10).
			Return([]*schema.TelemetryBatch{batch}, nil).
			Times(1),
		mocks.store.EXPECT().
			ListOpenBatchesBefore(gomock.Any(), today, 10).
			Return([]*schema.TelemetryBatch{}, nil).
			MinTimes(1),
	)

	mocks.store.EXPECT().
		ListRetryableBatches(gomock.Any(), now.Add(-6*time.Hour), 10).
		Return([]*schema.TelemetryBatch{}, nil).
		AnyTimes()

	mocks.consolidation.EXPECT().
		ConsolidateDayBatch(gomock.Any(), "VH-001", yesterday).
		Return(&domain.AnchorResult{
			BatchID: batch.ID,
			Status:  domain.AnchorStatusAnchored,
			Success: true,
		}, nil)

	go func() {
		time.Sleep(200 * time.Millisecond)
		_ = mocks.sweeper.Stop(ctx)
	}()

	err := mocks.sweeper.Start(ctx)
	require.NoError(t, err)
}

func TestConsolidationSweeper_RetriesFailedAnchoring(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	today := domain.DayKey(now)
	batchDate := today.AddDate(0, 0, -2)

	retryable := &schema.TelemetryBatch{
		ID:           "batch-retry",
		VehicleID:    "VH-002",
		Date:         batchDate,
		State:        string(domain.BatchStateFinalized),
		AnchorStatus: string(domain.AnchorStatusFailed),
	}

	expectClock(mocks, now)
	expectNoStuckFinalizers(mocks, now)

	mocks.store.EXPECT().
		ListOpenBatchesBefore(gomock.Any(), today, 10).
		Return([]*schema.TelemetryBatch{}, nil).
		AnyTimes()

	gomock.InOrder(
		mocks.store.EXPECT().
			ListRetryableBatches(gomock.Any(), now.Add(-6*time.Hour), 10).
			Return([]*schema.TelemetryBatch{retryable}, nil).
			Times(1),
		mocks.store.EXPECT().
			ListRetryableBatches(gomock.Any(), now.Add(-6*time.Hour), 10).
			Return([]*schema.TelemetryBatch{}, nil).
			MinTimes(1),
	)

	mocks.consolidation.EXPECT().
		ConsolidateDayBatch(gomock.Any(), "VH-002", batchDate).
		Return(&domain.AnchorResult{
			BatchID: retryable.ID,
			Status:  domain.AnchorStatusPartial,
			Success: true,
		}, nil)

	go func() {
		time.Sleep(200 * time.Millisecond)
		_ = mocks.sweeper.Stop(ctx)
	}()

	err := mocks.sweeper.Start(ctx)
	require.NoError(t, err)
}

func TestConsolidationSweeper_NoBatchesToConsolidate(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	expectClock(mocks, now)
	expectNoStuckFinalizers(mocks, now)

	mocks.store.EXPECT().
		ListOpenBatchesBefore(gomock.Any(), domain.DayKey(now), 10).
		Return([]*schema.TelemetryBatch{}, nil).
		AnyTimes()

	mocks.store.EXPECT().
		ListRetryableBatches(gomock.Any(), now.Add(-6*time.Hour), 10).
		Return([]*schema.TelemetryBatch{}, nil).
		AnyTimes()

	go func() {
		time.Sleep(150 * time.Millisecond)
		_ = mocks.sweeper.Stop(ctx)
	}()

	err := mocks.sweeper.Start(ctx)
	require.NoError(t, err)
}

func TestConsolidationSweeper_ConsolidationError_HandledGracefully(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	today := domain.DayKey(now)
	yesterday := today.AddDate(0, 0, -1)
	batch := staleBatch("VH-003", yesterday)

	expectClock(mocks, now)
	expectNoStuckFinalizers(mocks, now)

	gomock.InOrder(
		mocks.store.EXPECT().
			ListOpenBatchesBefore(gomock.Any(), today, 10).
			Return([]*schema.TelemetryBatch{batch}, nil).
			Times(1),
		mocks.store.EXPECT().
			ListOpenBatchesBefore(gomock.Any(), today, 10).
			Return([]*schema.TelemetryBatch{}, nil).
			MinTimes(1),
	)

	mocks.store.EXPECT().
		ListRetryableBatches(gomock.Any(), now.Add(-6*time.Hour), 10).
		Return([]*schema.TelemetryBatch{}, nil).
		AnyTimes()

	mocks.consolidation.EXPECT().
		ConsolidateDayBatch(gomock.Any(), "VH-003", yesterday).
		Return(nil, errors.New("transaction ledger unreachable"))

	go func() {
		time.Sleep(200 * time.Millisecond)
		_ = mocks.sweeper.Stop(ctx)
	}()

	// Sweeper continues despite consolidation errors
	err := mocks.sweeper.Start(ctx)
	require.NoError(t, err)
}

func TestConsolidationSweeper_ConcurrentConsolidation_NotAnError(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	today := domain.DayKey(now)
	yesterday := today.AddDate(0, 0, -1)
	batch := staleBatch("VH-004", yesterday)

	expectClock(mocks, now)
	expectNoStuckFinalizers(mocks, now)

	gomock.InOrder(
		mocks.store.EXPECT().
			ListOpenBatchesBefore(gomock.Any(), today, 10).
			Return([]*schema.TelemetryBatch{batch}, nil).
			Times(1),
		mocks.store.EXPECT().
			ListOpenBatchesBefore(gomock.Any(), today, 10).
			Return([]*schema.TelemetryBatch{}, nil).
			MinTimes(1),
	)

	mocks.store.EXPECT().
		ListRetryableBatches(gomock.Any(), now.Add(-6*time.Hour), 10).
		Return([]*schema.TelemetryBatch{}, nil).
		AnyTimes()

	// Another worker won the state transition race
	mocks.consolidation.EXPECT().
		ConsolidateDayBatch(gomock.Any(), "VH-004", yesterday).
		Return(nil, domain.ErrInvalidBatchState)

	go func() {
		time.Sleep(200 * time.Millisecond)
		_ = mocks.sweeper.Stop(ctx)
	}()

	err := mocks.sweeper.Start(ctx)
	require.NoError(t, err)
}

func TestConsolidationSweeper_StoreError_HandledGracefully(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	expectClock(mocks, now)
	expectNoStuckFinalizers(mocks, now)

	mocks.store.EXPECT().
		ListOpenBatchesBefore(gomock.Any(), domain.DayKey(now), 10).
		Return(nil, errors.New("database connection failed")).
		AnyTimes()

	go func() {
		time.Sleep(150 * time.Millisecond)
		_ = mocks.sweeper.Stop(ctx)
	}()

	// Sweeper continues despite store errors
	err := mocks.sweeper.Start(ctx)
	require.NoError(t, err)
}

func TestConsolidationSweeper_MultipleBatches(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	today := domain.DayKey(now)
	yesterday := today.AddDate(0, 0, -1)

	batch1 := staleBatch("VH-005", yesterday)
	batch2 := staleBatch("VH-006", yesterday)

	expectClock(mocks, now)
	expectNoStuckFinalizers(mocks, now)

	gomock.InOrder(
		mocks.store.EXPECT().
			ListOpenBatchesBefore(gomock.Any(), today, 10).
			Return([]*schema.TelemetryBatch{batch1, batch2}, nil).
			Times(1),
		mocks.store.EXPECT().
			ListOpenBatchesBefore(gomock.Any(), today, 10).
			Return([]*schema.TelemetryBatch{}, nil).
			MinTimes(1),
	)

	mocks.store.EXPECT().
		ListRetryableBatches(gomock.Any(), now.Add(-6*time.Hour), 10).
		Return([]*schema.TelemetryBatch{}, nil).
		AnyTimes()

	// Workers consolidate in parallel, order is not guaranteed
	mocks.consolidation.EXPECT().
		ConsolidateDayBatch(gomock.Any(), "VH-005", yesterday).
		Return(&domain.AnchorResult{Status: domain.AnchorStatusAnchored, Success: true}, nil)
	mocks.consolidation.EXPECT().
		ConsolidateDayBatch(gomock.Any(), "VH-006", yesterday).
		Return(&domain.AnchorResult{Status: domain.AnchorStatusFailed}, nil)

	go func() {
		time.Sleep(250 * time.Millisecond)
		_ = mocks.sweeper.Stop(ctx)
	}()

	err := mocks.sweeper.Start(ctx)
	require.NoError(t, err)
}

func TestConsolidationSweeper_ResumesStuckFinalizingBatch(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	today := domain.DayKey(now)
	yesterday := today.AddDate(0, 0, -1)

	// A finalizer died after winning the open->finalizing transition; the
	// batch would sit there forever unless the sweeper picks it up
	stuck := staleBatch("VH-007", yesterday)
	stuck.State = string(domain.BatchStateFinalizing)

	expectClock(mocks, now)

	mocks.store.EXPECT().
		ListOpenBatchesBefore(gomock.Any(), today, 10).
		Return([]*schema.TelemetryBatch{}, nil).
		AnyTimes()

	mocks.store.EXPECT().
		ListRetryableBatches(gomock.Any(), now.Add(-6*time.Hour), 10).
		Return([]*schema.TelemetryBatch{}, nil).
		AnyTimes()

	gomock.InOrder(
		mocks.store.EXPECT().
			ListStaleFinalizingBatches(gomock.Any(), now.Add(-sweeper.STALE_FINALIZING_AGE), 10).
			Return([]*schema.TelemetryBatch{stuck}, nil).
			Times(1),
		mocks.store.EXPECT().
			ListStaleFinalizingBatches(gomock.Any(), now.Add(-sweeper.STALE_FINALIZING_AGE), 10).
			Return([]*schema.TelemetryBatch{}, nil).
			MinTimes(1),
	)

	mocks.consolidation.EXPECT().
		ConsolidateDayBatch(gomock.Any(), "VH-007", yesterday).
		Return(&domain.AnchorResult{
			BatchID: stuck.ID,
			Status:  domain.AnchorStatusAnchored,
			Success: true,
		}, nil)

	go func() {
		time.Sleep(200 * time.Millisecond)
		_ = mocks.sweeper.Stop(ctx)
	}()

	err := mocks.sweeper.Start(ctx)
	require.NoError(t, err)
}

func TestConsolidationSweeper_StopBeforeStart(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx := context.Background()

	// Stop before starting should not error
	err := mocks.sweeper.Stop(ctx)
	require.NoError(t, err)
}

func TestConsolidationSweeper_DoubleStart(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	expectClock(mocks, now)
	expectNoStuckFinalizers(mocks, now)

	mocks.store.EXPECT().
		ListOpenBatchesBefore(gomock.Any(), domain.DayKey(now), 10).
		Return([]*schema.TelemetryBatch{}, nil).
		AnyTimes()

	mocks.store.EXPECT().
		ListRetryableBatches(gomock.Any(), now.Add(-6*time.Hour), 10).
		Return([]*schema.TelemetryBatch{}, nil).
		AnyTimes()

	errChan := make(chan error, 1)
	go func() {
		errChan <- mocks.sweeper.Start(ctx)
	}()

	// Give first start time to begin
	time.Sleep(50 * time.Millisecond)

	// Try to start again - should fail
	err := mocks.sweeper.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")

	// Stop first instance
	_ = mocks.sweeper.Stop(ctx)
	<-errChan
}

func TestConsolidationSweeper_ContextCancellation(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	expectClock(mocks, now)
	expectNoStuckFinalizers(mocks, now)

	mocks.store.EXPECT().
		ListOpenBatchesBefore(gomock.Any(), domain.DayKey(now), 10).
		Return([]*schema.TelemetryBatch{}, nil).
		AnyTimes()

	mocks.store.EXPECT().
		ListRetryableBatches(gomock.Any(), now.Add(-6*time.Hour), 10).
		Return([]*schema.TelemetryBatch{}, nil).
		AnyTimes()

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	err := mocks.sweeper.Start(ctx)
	require.NoError(t, err)
}
