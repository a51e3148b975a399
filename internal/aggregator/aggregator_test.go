package aggregator_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridrive/veridrive/internal/aggregator"
	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/logger"
	mockspkg "github.com/veridrive/veridrive/internal/mocks"
	"github.com/veridrive/veridrive/internal/store/schema"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type testAggregatorMocks struct {
	ctrl  *gomock.Controller
	store *mockspkg.MockStore
	clock *mockspkg.MockClock
}

func setupTestAggregator(t *testing.T) (*testAggregatorMocks, aggregator.Service) {
	ctrl := gomock.NewController(t)

	tm := &testAggregatorMocks{
		ctrl:  ctrl,
		store: mockspkg.NewMockStore(ctrl),
		clock: mockspkg.NewMockClock(ctrl),
	}

	return tm, aggregator.NewService(tm.store, tm.clock)
}

func tearDownTestAggregator(mocks *testAggregatorMocks) {
	mocks.ctrl.Finish()
}

func testReading(ts time.Time, mileage float64) *schema.TelemetryReading {
	return &schema.TelemetryReading{
		VehicleID:     "VH-001",
		DeviceID:      "DEV-001",
		Mileage:       mileage,
		Timestamp:     ts,
		SignalQuality: 95,
	}
}

func validVerdict() domain.ValidationVerdict {
	return domain.ValidationVerdict{Status: domain.VerdictValid}
}

func TestAggregator_AppendReading_OpensBatchOnFirstReading(t *testing.T) {
	mocks, svc := setupTestAggregator(t)
	defer tearDownTestAggregator(mocks)

	ctx := context.Background()
	ts := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	day := domain.DayKey(ts)

	reading := testReading(ts, 12000)
	reading.ID = 7

	mocks.clock.EXPECT().Now().Return(ts).AnyTimes()
	mocks.store.EXPECT().
		GetBatch(ctx, "VH-001", day).
		Return(nil, nil)
	mocks.store.EXPECT().
		CreateBatch(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, batch *schema.TelemetryBatch) error {
			assert.NotEmpty(t, batch.ID)
			assert.Equal(t, "VH-001", batch.VehicleID)
			assert.Equal(t, day, batch.Date)
			assert.Equal(t, string(domain.BatchStateOpen), batch.State)
			assert.Equal(t, 12000.0, batch.StartMileage)
			return nil
		})
	mocks.store.EXPECT().
		UpdateBatchContent(ctx, gomock.Any(), int64(7)).
		Return(nil)

	batch, err := svc.AppendReading(ctx, reading, validVerdict())

	assert.NoError(t, err)
	assert.Equal(t, 1, batch.ReadingCount)
	assert.Equal(t, 12000.0, batch.StartMileage)
	assert.Equal(t, 12000.0, batch.EndMileage)
	assert.Equal(t, 0.0, batch.DistanceKM)
	assert.Len(t, batch.Segments, 1)
	// The reading row carries the stamp of the batch that absorbed it
	require.NotNil(t, reading.BatchID)
	assert.Equal(t, batch.ID, *reading.BatchID)
}

func TestAggregator_AppendReading_FallsBackToWinnerOnRace(t *testing.T) {
	mocks, svc := setupTestAggregator(t)
	defer tearDownTestAggregator(mocks)

	ctx := context.Background()
	ts := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	day := domain.DayKey(ts)

	winner := &schema.TelemetryBatch{
		ID:           "01BATCH",
		VehicleID:    "VH-001",
		Date:         day,
		State:        string(domain.BatchStateOpen),
		StartMileage: 11990,
		EndMileage:   11990,
		ReadingCount: 1,
		Segments:     []domain.TripSegment{},
	}

	mocks.clock.EXPECT().Now().Return(ts).AnyTimes()
	mocks.store.EXPECT().
		GetBatch(ctx, "VH-001", day).
		Return(nil, nil)
	mocks.store.EXPECT().
		CreateBatch(ctx, gomock.Any()).
		Return(domain.ErrBatchAlreadyExists)
	mocks.store.EXPECT().
		GetBatch(ctx, "VH-001", day).
		Return(winner, nil)
	mocks.store.EXPECT().
		UpdateBatchContent(ctx, gomock.Any(), gomock.Any()).
		Return(nil)

	batch, err := svc.AppendReading(ctx, testReading(ts, 12000), validVerdict())

	assert.NoError(t, err)
	assert.Equal(t, "01BATCH", batch.ID)
	assert.Equal(t, 2, batch.ReadingCount)
	assert.Equal(t, 12000.0, batch.EndMileage)
	assert.Equal(t, 10.0, batch.DistanceKM)
}

func TestAggregator_AppendReading_RejectsNonOpenBatch(t *testing.T) {
	mocks, svc := setupTestAggregator(t)
	defer tearDownTestAggregator(mocks)

	ctx := context.Background()
	ts := time.Date(2026, 3, 15, 23, 50, 0, 0, time.UTC)
	day := domain.DayKey(ts)

	mocks.store.EXPECT().
		GetBatch(ctx, "VH-001", day).
		Return(&schema.TelemetryBatch{
			ID:    "01BATCH",
			State: string(domain.BatchStateFinalized),
		}, nil)

	batch, err := svc.AppendReading(ctx, testReading(ts, 12000), validVerdict())

	assert.Nil(t, batch)
	assert.ErrorIs(t, err, domain.ErrInvalidBatchState)
}

func TestAggregator_AppendReading_TracksRollbackCount(t *testing.T) {
	mocks, svc := setupTestAggregator(t)
	defer tearDownTestAggregator(mocks)

	ctx := context.Background()
	ts := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	day := domain.DayKey(ts)

	open := &schema.TelemetryBatch{
		ID:           "01BATCH",
		VehicleID:    "VH-001",
		Date:         day,
		State:        string(domain.BatchStateOpen),
		StartMileage: 12000,
		EndMileage:   12100,
		ReadingCount: 4,
		Segments:     []domain.TripSegment{},
	}

	mocks.store.EXPECT().
		GetBatch(ctx, "VH-001", day).
		Return(open, nil)
	mocks.store.EXPECT().
		UpdateBatchContent(ctx, gomock.Any(), gomock.Any()).
		Return(nil)

	verdict := domain.ValidationVerdict{
		Status:     domain.VerdictRollback,
		DeltaKM:    -80,
		FraudScore: domain.FraudScoreRollback,
		ReasonCode: domain.ReasonRollback,
	}
	batch, err := svc.AppendReading(ctx, testReading(ts, 12020), verdict)

	assert.NoError(t, err)
	assert.Equal(t, 1, batch.RollbackCount)
	assert.Equal(t, 20.0, batch.DistanceKM)
}

func TestAggregator_AppendReading_SegmentsSplitOnIdleGap(t *testing.T) {
	mocks, svc := setupTestAggregator(t)
	defer tearDownTestAggregator(mocks)

	ctx := context.Background()
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	morning := day.Add(9 * time.Hour)

	open := &schema.TelemetryBatch{
		ID:           "01BATCH",
		VehicleID:    "VH-001",
		Date:         day,
		State:        string(domain.BatchStateOpen),
		StartMileage: 12000,
		EndMileage:   12030,
		ReadingCount: 2,
		Segments: []domain.TripSegment{
			{
				StartTime:    morning,
				EndTime:      morning.Add(20 * time.Minute),
				StartMileage: 12000,
				EndMileage:   12030,
				DistanceKM:   30,
			},
		},
	}

	mocks.store.EXPECT().
		GetBatch(ctx, "VH-001", day).
		Return(open, nil).
		Times(2)
	mocks.store.EXPECT().
		UpdateBatchContent(ctx, gomock.Any(), gomock.Any()).
		Return(nil).
		Times(2)

	// Within the 30 minute gap: extends the current segment
	batch, err := svc.AppendReading(ctx, testReading(morning.Add(40*time.Minute), 12045), validVerdict())
	assert.NoError(t, err)
	assert.Len(t, batch.Segments, 1)
	assert.Equal(t, 45.0, batch.Segments[0].DistanceKM)

	// Past the gap threshold: starts an afternoon segment
	afternoon := morning.Add(5 * time.Hour)
	batch, err = svc.AppendReading(ctx, testReading(afternoon, 12050), validVerdict())
	assert.NoError(t, err)
	assert.Len(t, batch.Segments, 2)
	assert.Equal(t, 12050.0, batch.Segments[1].StartMileage)
}

func TestAggregator_Finalize_Success(t *testing.T) {
	mocks, svc := setupTestAggregator(t)
	defer tearDownTestAggregator(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 16, 0, 10, 0, 0, time.UTC)
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	batch := &schema.TelemetryBatch{
		ID:               "01BATCH",
		VehicleID:        "VH-001",
		Date:             day,
		State:            string(domain.BatchStateOpen),
		StartMileage:     12000,
		EndMileage:       12150,
		DistanceKM:       150,
		ReadingCount:     20,
		AvgSignalQuality: 92,
		Segments: []domain.TripSegment{
			{StartTime: day.Add(9 * time.Hour), EndTime: day.Add(12 * time.Hour)},
		},
	}

	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	gomock.InOrder(
		// Content is read only after the transition closed the append window
		mocks.store.EXPECT().
			TransitionBatchState(ctx, "01BATCH", domain.BatchStateOpen, domain.BatchStateFinalizing).
			Return(nil),
		mocks.store.EXPECT().
			GetBatchByID(ctx, "01BATCH").
			Return(batch, nil),
		mocks.store.EXPECT().
			FinalizeBatch(ctx, "01BATCH", gomock.Any(), now).
			DoAndReturn(func(_ context.Context, _ string, validity domain.BatchValidity, _ time.Time) error {
				assert.True(t, validity.IsValid)
				assert.Equal(t, 0, validity.FraudScore)
				return nil
			}),
	)

	validity, err := svc.Finalize(ctx, "01BATCH")

	assert.NoError(t, err)
	assert.True(t, validity.IsValid)
	assert.Empty(t, validity.Anomalies)
}

func TestAggregator_Finalize_CoversReadingsRacingTheFreeze(t *testing.T) {
	mocks, svc := setupTestAggregator(t)
	defer tearDownTestAggregator(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 16, 0, 10, 0, 0, time.UTC)
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	// The row as stored after a rollback reading won the race against the
	// finalizer and was folded in just before the state transition
	frozen := &schema.TelemetryBatch{
		ID:               "01BATCH",
		VehicleID:        "VH-001",
		Date:             day,
		State:            string(domain.BatchStateFinalizing),
		StartMileage:     12000,
		EndMileage:       11500,
		DistanceKM:       -500,
		ReadingCount:     12,
		RollbackCount:    1,
		AvgSignalQuality: 92,
		Segments: []domain.TripSegment{
			{StartTime: day.Add(9 * time.Hour), EndTime: day.Add(12 * time.Hour)},
		},
	}

	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	gomock.InOrder(
		mocks.store.EXPECT().
			TransitionBatchState(ctx, "01BATCH", domain.BatchStateOpen, domain.BatchStateFinalizing).
			Return(nil),
		mocks.store.EXPECT().
			GetBatchByID(ctx, "01BATCH").
			Return(frozen, nil),
		mocks.store.EXPECT().
			FinalizeBatch(ctx, "01BATCH", gomock.Any(), now).
			DoAndReturn(func(_ context.Context, _ string, validity domain.BatchValidity, _ time.Time) error {
				// The late rollback must be reflected in the stamped verdict
				assert.False(t, validity.IsValid)
				assert.Equal(t, domain.FraudScoreDayRollback+domain.FraudScorePerFlaggedReading, validity.FraudScore)
				return nil
			}),
	)

	validity, err := svc.Finalize(ctx, "01BATCH")

	assert.NoError(t, err)
	assert.False(t, validity.IsValid)
	assert.Contains(t, validity.Anomalies, "mileage rollback detected")
}

func TestAggregator_Finalize_ResumesAbandonedFinalizing(t *testing.T) {
	mocks, svc := setupTestAggregator(t)
	defer tearDownTestAggregator(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 16, 2, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	// Left in finalizing by a finalizer that died before stamping validity
	abandoned := &schema.TelemetryBatch{
		ID:               "01BATCH",
		VehicleID:        "VH-001",
		Date:             day,
		State:            string(domain.BatchStateFinalizing),
		DistanceKM:       80,
		ReadingCount:     10,
		AvgSignalQuality: 90,
		Segments: []domain.TripSegment{
			{StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour)},
		},
	}

	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	gomock.InOrder(
		mocks.store.EXPECT().
			TransitionBatchState(ctx, "01BATCH", domain.BatchStateOpen, domain.BatchStateFinalizing).
			Return(domain.ErrInvalidBatchState),
		mocks.store.EXPECT().
			GetBatchByID(ctx, "01BATCH").
			Return(abandoned, nil),
		mocks.store.EXPECT().
			FinalizeBatch(ctx, "01BATCH", gomock.Any(), now).
			Return(nil),
	)

	validity, err := svc.Finalize(ctx, "01BATCH")

	assert.NoError(t, err)
	assert.True(t, validity.IsValid)
}

func TestAggregator_Finalize_LosesToCompletedFinalizer(t *testing.T) {
	mocks, svc := setupTestAggregator(t)
	defer tearDownTestAggregator(mocks)

	ctx := context.Background()

	mocks.store.EXPECT().
		TransitionBatchState(ctx, "01BATCH", domain.BatchStateOpen, domain.BatchStateFinalizing).
		Return(domain.ErrInvalidBatchState)
	mocks.store.EXPECT().
		GetBatchByID(ctx, "01BATCH").
		Return(&schema.TelemetryBatch{ID: "01BATCH", State: string(domain.BatchStateFinalized)}, nil)

	validity, err := svc.Finalize(ctx, "01BATCH")

	assert.Nil(t, validity)
	assert.ErrorIs(t, err, domain.ErrInvalidBatchState)
}

func TestAggregator_Finalize_BatchNotFound(t *testing.T) {
	mocks, svc := setupTestAggregator(t)
	defer tearDownTestAggregator(mocks)

	ctx := context.Background()

	mocks.store.EXPECT().
		TransitionBatchState(ctx, "missing", domain.BatchStateOpen, domain.BatchStateFinalizing).
		Return(domain.ErrInvalidBatchState)
	mocks.store.EXPECT().
		GetBatchByID(ctx, "missing").
		Return(nil, nil)

	validity, err := svc.Finalize(ctx, "missing")

	assert.Nil(t, validity)
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
}

func TestAggregator_ComputeValidity(t *testing.T) {
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	drivenHour := []domain.TripSegment{
		{StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour)},
	}

	tests := []struct {
		name           string
		batch          *schema.TelemetryBatch
		wantValid      bool
		wantFraudScore int
		wantAnomalies  []string
	}{
		{
			name: "clean day",
			batch: &schema.TelemetryBatch{
				DistanceKM:       80,
				ReadingCount:     10,
				AvgSignalQuality: 90,
				Segments:         drivenHour,
			},
			wantValid:      true,
			wantFraudScore: 0,
			wantAnomalies:  []string{},
		},
		{
			name: "negative day distance",
			batch: &schema.TelemetryBatch{
				DistanceKM:       -120,
				ReadingCount:     8,
				AvgSignalQuality: 90,
				Segments:         drivenHour,
			},
			wantValid:      false,
			wantFraudScore: domain.FraudScoreDayRollback,
			wantAnomalies:  []string{"mileage rollback detected"},
		},
		{
			name: "distance exceeds plausible speed for driven time",
			batch: &schema.TelemetryBatch{
				DistanceKM:       500, // 1 driven hour at 120 km/h tops out at 120
				ReadingCount:     10,
				AvgSignalQuality: 90,
				Segments:         drivenHour,
			},
			wantValid:      true, // 30 alone stays below the threshold
			wantFraudScore: domain.FraudScoreDayUnrealistic,
			wantAnomalies:  []string{"unrealistic mileage increase"},
		},
		{
			name: "low signal quality",
			batch: &schema.TelemetryBatch{
				DistanceKM:       50,
				ReadingCount:     10,
				AvgSignalQuality: 55,
				Segments:         drivenHour,
			},
			wantValid:      true,
			wantFraudScore: domain.FraudScoreLowSignalQuality,
			wantAnomalies:  []string{"low data quality"},
		},
		{
			name: "flagged readings accumulate",
			batch: &schema.TelemetryBatch{
				DistanceKM:       50,
				ReadingCount:     10,
				RollbackCount:    3,
				AvgSignalQuality: 90,
				Segments:         drivenHour,
			},
			wantValid:      true, // 30 < 50
			wantFraudScore: 3 * domain.FraudScorePerFlaggedReading,
			wantAnomalies:  []string{"tampering detected in data points"},
		},
		{
			name: "cumulative checks cross threshold together",
			batch: &schema.TelemetryBatch{
				DistanceKM:       50,
				ReadingCount:     10,
				RollbackCount:    3,
				AvgSignalQuality: 55,
				Segments:         drivenHour,
			},
			wantValid:      false, // 20 + 30 = 50, at threshold
			wantFraudScore: domain.FraudScoreLowSignalQuality + 3*domain.FraudScorePerFlaggedReading,
			wantAnomalies:  []string{"low data quality", "tampering detected in data points"},
		},
		{
			name: "empty batch computes clean",
			batch: &schema.TelemetryBatch{
				Segments: []domain.TripSegment{},
			},
			wantValid:      true,
			wantFraudScore: 0,
			wantAnomalies:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validity := aggregator.ComputeValidity(tt.batch)

			assert.Equal(t, tt.wantValid, validity.IsValid)
			assert.Equal(t, tt.wantFraudScore, validity.FraudScore)
			assert.Equal(t, tt.wantAnomalies, validity.Anomalies)
		})
	}
}
