package trust_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/logger"
	mockspkg "github.com/veridrive/veridrive/internal/mocks"
	"github.com/veridrive/veridrive/internal/store"
	"github.com/veridrive/veridrive/internal/store/schema"
	"github.com/veridrive/veridrive/internal/trust"
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

type testTrustMocks struct {
	ctrl  *gomock.Controller
	store *mockspkg.MockStore
	clock *mockspkg.MockClock
}

func setupTestTrust(t *testing.T) (*testTrustMocks, trust.Service) {
	ctrl := gomock.NewController(t)

	tm := &testTrustMocks{
		ctrl:  ctrl,
		store: mockspkg.NewMockStore(ctrl),
		clock: mockspkg.NewMockClock(ctrl),
	}

	return tm, trust.NewService(tm.store, tm.clock)
}

func tearDownTestTrust(mocks *testTrustMocks) {
	mocks.ctrl.Finish()
}

func testVehicle(score int, eventCount int64, lastEventAt *time.Time) *schema.Vehicle {
	return &schema.Vehicle{
		ID:               "VH-001",
		VIN:              "1HGBH41JXMN109186",
		DeviceID:         "DEV-001",
		TrustScore:       score,
		TrustEventCount:  eventCount,
		LastTrustEventAt: lastEventAt,
	}
}

func TestTrust_UpdateTrustScore_Success(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-001").
		Return(testVehicle(80, 3, nil), nil)
	mocks.store.EXPECT().
		AppendTrustEvent(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.AppendTrustEventInput) error {
			assert.Equal(t, int64(3), input.ExpectedEventCount)
			assert.Equal(t, "VH-001", input.Event.VehicleID)
			assert.Equal(t, -15, input.Event.Change)
			assert.Equal(t, 80, input.Event.PreviousScore)
			assert.Equal(t, 65, input.Event.NewScore)
			assert.Equal(t, string(domain.TrustSourceFraudEngine), input.Event.Source)
			assert.NotEmpty(t, input.Event.ID)
			return nil
		})

	result, err := svc.UpdateTrustScore(ctx, "VH-001", -15, "odometer rollback detected", domain.TrustSourceFraudEngine, nil)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 80, result.PreviousScore)
	assert.Equal(t, 65, result.NewScore)
	assert.NotEmpty(t, result.EventID)
}

func TestTrust_UpdateTrustScore_ClampsAtFloor(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-001").
		Return(testVehicle(10, 7, nil), nil)
	mocks.store.EXPECT().
		AppendTrustEvent(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.AppendTrustEventInput) error {
			// Delta is recorded as requested; only the resulting score clamps
			assert.Equal(t, -40, input.Event.Change)
			assert.Equal(t, 0, input.Event.NewScore)
			return nil
		})

	result, err := svc.UpdateTrustScore(ctx, "VH-001", -40, "severe fraud", domain.TrustSourceFraudEngine, nil)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.NewScore)
}

func TestTrust_UpdateTrustScore_ClampsAtCeiling(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-001").
		Return(testVehicle(99, 2, nil), nil)
	mocks.store.EXPECT().
		AppendTrustEvent(ctx, gomock.Any()).
		Return(nil)

	result, err := svc.UpdateTrustScore(ctx, "VH-001", 5, "clean daily batch", domain.TrustSourceFraudEngine, nil)

	assert.NoError(t, err)
	assert.Equal(t, 99, result.PreviousScore)
	assert.Equal(t, 100, result.NewScore)
}

func TestTrust_UpdateTrustScore_ChangeOutOfRange(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()

	_, err := svc.UpdateTrustScore(ctx, "VH-001", -101, "too big", domain.TrustSourceManual, nil)
	assert.Error(t, err)

	_, err = svc.UpdateTrustScore(ctx, "VH-001", 101, "too big", domain.TrustSourceManual, nil)
	assert.Error(t, err)
}

func TestTrust_UpdateTrustScore_InvalidSource(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()

	_, err := svc.UpdateTrustScore(ctx, "VH-001", -10, "reason", domain.TrustEventSource("unknown"), nil)
	assert.Error(t, err)
}

func TestTrust_UpdateTrustScore_VehicleNotFound(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-404").
		Return(nil, nil)

	result, err := svc.UpdateTrustScore(ctx, "VH-404", -10, "reason", domain.TrustSourceManual, nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrVehicleNotFound)
}

func TestTrust_UpdateTrustScore_OutOfOrderRejected(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	lastEventAt := now.Add(-1 * time.Hour)
	stale := now.Add(-2 * time.Hour)

	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-001").
		Return(testVehicle(80, 3, &lastEventAt), nil)

	result, err := svc.UpdateTrustScore(ctx, "VH-001", -10, "late signal", domain.TrustSourceFraudEngine, &stale)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrOutOfOrderEvent)
}

func TestTrust_UpdateTrustScore_EqualTimestampAccepted(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	lastEventAt := now

	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-001").
		Return(testVehicle(80, 3, &lastEventAt), nil)
	mocks.store.EXPECT().
		AppendTrustEvent(ctx, gomock.Any()).
		Return(nil)

	result, err := svc.UpdateTrustScore(ctx, "VH-001", -10, "same instant", domain.TrustSourceFraudEngine, &now)

	assert.NoError(t, err)
	assert.Equal(t, 70, result.NewScore)
}

func TestTrust_UpdateTrustScore_RetriesOnStaleState(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	mocks.clock.EXPECT().Now().Return(now).AnyTimes()

	// First attempt reads a stale snapshot and loses the append race
	first := mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-001").
		Return(testVehicle(80, 3, nil), nil)
	firstAppend := mocks.store.EXPECT().
		AppendTrustEvent(ctx, gomock.Any()).
		Return(domain.ErrStaleTrustState).
		After(first)

	// Second attempt re-reads the advanced state and succeeds
	second := mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-001").
		Return(testVehicle(75, 4, nil), nil).
		After(firstAppend)
	mocks.store.EXPECT().
		AppendTrustEvent(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.AppendTrustEventInput) error {
			assert.Equal(t, int64(4), input.ExpectedEventCount)
			assert.Equal(t, 75, input.Event.PreviousScore)
			assert.Equal(t, 65, input.Event.NewScore)
			return nil
		}).
		After(second)

	result, err := svc.UpdateTrustScore(ctx, "VH-001", -10, "retry path", domain.TrustSourceFraudEngine, nil)

	assert.NoError(t, err)
	assert.Equal(t, 75, result.PreviousScore)
	assert.Equal(t, 65, result.NewScore)
}

func TestTrust_UpdateTrustScore_StoreErrorIsPermanent(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-001").
		Return(testVehicle(80, 3, nil), nil)
	mocks.store.EXPECT().
		AppendTrustEvent(ctx, gomock.Any()).
		Return(assert.AnError)

	result, err := svc.UpdateTrustScore(ctx, "VH-001", -10, "reason", domain.TrustSourceFraudEngine, nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestTrust_GetCurrentTrustScore_WithHistory(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()

	mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-001").
		Return(testVehicle(65, 5, nil), nil)
	mocks.store.EXPECT().
		GetTrustHistory(ctx, "VH-001", 1).
		Return([]*schema.TrustEvent{
			{ID: "evt-5", PreviousScore: 80, NewScore: 65},
		}, nil)

	score, err := svc.GetCurrentTrustScore(ctx, "VH-001")

	assert.NoError(t, err)
	assert.Equal(t, 65, score.CurrentScore)
	assert.Equal(t, 80, score.PreviousScore)
	assert.Equal(t, "evt-5", score.LatestEventID)
}

func TestTrust_GetCurrentTrustScore_NoHistory(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()

	mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-001").
		Return(testVehicle(100, 0, nil), nil)
	mocks.store.EXPECT().
		GetTrustHistory(ctx, "VH-001", 1).
		Return(nil, nil)

	score, err := svc.GetCurrentTrustScore(ctx, "VH-001")

	assert.NoError(t, err)
	assert.Equal(t, 100, score.CurrentScore)
	assert.Equal(t, 100, score.PreviousScore)
	assert.Empty(t, score.LatestEventID)
}

func TestTrust_GetTrustScoreHistory_VehicleNotFound(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()

	mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-404").
		Return(nil, nil)

	events, err := svc.GetTrustScoreHistory(ctx, "VH-404", 10)

	assert.Nil(t, events)
	assert.ErrorIs(t, err, domain.ErrVehicleNotFound)
}

func TestTrust_RecomputeTrustScore_ReplaysChain(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()

	mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-001").
		Return(testVehicle(42, 3, nil), nil)
	mocks.store.EXPECT().
		GetTrustEventsChronological(ctx, "VH-001").
		Return([]*schema.TrustEvent{
			{Change: -50},
			{Change: -70}, // takes running score to the floor, not below
			{Change: 30},
		}, nil)
	mocks.store.EXPECT().
		OverwriteTrustScore(ctx, "VH-001", 30).
		Return(nil)

	score, err := svc.RecomputeTrustScore(ctx, "VH-001")

	assert.NoError(t, err)
	assert.Equal(t, 30, score)
}

func TestTrust_RecomputeTrustScore_EmptyChain(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()

	mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-001").
		Return(testVehicle(55, 0, nil), nil)
	mocks.store.EXPECT().
		GetTrustEventsChronological(ctx, "VH-001").
		Return(nil, nil)
	mocks.store.EXPECT().
		OverwriteTrustScore(ctx, "VH-001", domain.InitialTrustScore).
		Return(nil)

	score, err := svc.RecomputeTrustScore(ctx, "VH-001")

	assert.NoError(t, err)
	assert.Equal(t, domain.InitialTrustScore, score)
}

func TestTrust_SeedTrustScore_BridgesPreviousScore(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-001").
		Return(testVehicle(70, 4, nil), nil)
	mocks.store.EXPECT().
		AppendTrustEvent(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.AppendTrustEventInput) error {
			assert.Equal(t, -30, input.Event.Change)
			assert.Equal(t, 70, input.Event.PreviousScore)
			assert.Equal(t, 40, input.Event.NewScore)
			assert.Equal(t, string(domain.TrustSourceSeed), input.Event.Source)
			return nil
		})

	result, err := svc.SeedTrustScore(ctx, "VH-001", 40)

	assert.NoError(t, err)
	assert.Equal(t, 70, result.PreviousScore)
	assert.Equal(t, 40, result.NewScore)
}

func TestTrust_SeedTrustScore_ClampsTarget(t *testing.T) {
	mocks, svc := setupTestTrust(t)
	defer tearDownTestTrust(mocks)

	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	mocks.store.EXPECT().
		GetVehicleByID(ctx, "VH-001").
		Return(testVehicle(50, 2, nil), nil)
	mocks.store.EXPECT().
		AppendTrustEvent(ctx, gomock.Any()).
		Return(nil)

	result, err := svc.SeedTrustScore(ctx, "VH-001", 250)

	assert.NoError(t, err)
	assert.Equal(t, 100, result.NewScore)
}
