package jetstream_test

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"

	"github.com/veridrive/veridrive/internal/adapter"
	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/logger"
	mockspkg "github.com/veridrive/veridrive/internal/mocks"
	jetstreamprovider "github.com/veridrive/veridrive/internal/providers/jetstream"
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

type testJetStreamMocks struct {
	ctrl     *gomock.Controller
	natsJS   *mockspkg.MockNatsJetStream
	natsConn *mockspkg.MockNatsConn
	js       *mockspkg.MockJetStream
	consumer *mockspkg.MockNatsConsumer
}

func setupTestJetStream(t *testing.T) *testJetStreamMocks {
	ctrl := gomock.NewController(t)

	return &testJetStreamMocks{
		ctrl:     ctrl,
		natsJS:   mockspkg.NewMockNatsJetStream(ctrl),
		natsConn: mockspkg.NewMockNatsConn(ctrl),
		js:       mockspkg.NewMockJetStream(ctrl),
		consumer: mockspkg.NewMockNatsConsumer(ctrl),
	}
}

func tearDownTestJetStream(mocks *testJetStreamMocks) {
	mocks.ctrl.Finish()
}

func testConfig() jetstreamprovider.Config {
	return jetstreamprovider.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "TELEMETRY_READINGS",
		ConsumerName:   "telemetry-bridge",
		MaxReconnects:  10,
		ReconnectWait:  1 * time.Second,
		ConnectionName: "test-bridge",
		AckWaitTimeout: 30 * time.Second,
		MaxDeliver:     5,
	}
}

func TestPublisher_PublishReading_Success(t *testing.T) {
	mocks := setupTestJetStream(t)
	defer tearDownTestJetStream(mocks)

	ctx := context.Background()
	cfg := testConfig()

	mocks.natsJS.EXPECT().
		Connect(cfg.URL, gomock.Any()).
		Return(mocks.natsConn, mocks.js, nil)

	pub, err := jetstreamprovider.NewPublisher(cfg, mocks.natsJS, adapter.NewJSON())
	assert.NoError(t, err)

	mocks.js.EXPECT().
		Publish(ctx, "telemetry.readings.VH-001", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte, _ ...natsjs.PublishOpt) (*natsjs.PubAck, error) {
			var reading domain.TelemetryReading
			assert.NoError(t, json.Unmarshal(data, &reading))
			assert.Equal(t, "VH-001", reading.VehicleID)
			assert.Equal(t, 12000.0, reading.Mileage)
			return &natsjs.PubAck{Stream: cfg.StreamName}, nil
		})

	err = pub.PublishReading(ctx, &domain.TelemetryReading{
		VehicleID: "VH-001",
		DeviceID:  "DEV-001",
		Mileage:   12000,
		Timestamp: time.Now().UTC(),
	})

	assert.NoError(t, err)
}

func TestPublisher_PublishReading_PublishError(t *testing.T) {
	mocks := setupTestJetStream(t)
	defer tearDownTestJetStream(mocks)

	ctx := context.Background()
	cfg := testConfig()

	mocks.natsJS.EXPECT().
		Connect(cfg.URL, gomock.Any()).
		Return(mocks.natsConn, mocks.js, nil)

	pub, err := jetstreamprovider.NewPublisher(cfg, mocks.natsJS, adapter.NewJSON())
	assert.NoError(t, err)

	mocks.js.EXPECT().
		Publish(ctx, gomock.Any(), gomock.Any()).
		Return(nil, assert.AnError)

	err = pub.PublishReading(ctx, &domain.TelemetryReading{VehicleID: "VH-001"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish reading")
}

func TestPublisher_Close(t *testing.T) {
	mocks := setupTestJetStream(t)
	defer tearDownTestJetStream(mocks)

	cfg := testConfig()

	mocks.natsJS.EXPECT().
		Connect(cfg.URL, gomock.Any()).
		Return(mocks.natsConn, mocks.js, nil)
	mocks.natsConn.EXPECT().Close()

	pub, err := jetstreamprovider.NewPublisher(cfg, mocks.natsJS, adapter.NewJSON())
	assert.NoError(t, err)

	pub.Close()
}

func TestSubscriber_NewSubscriber_ConnectError(t *testing.T) {
	mocks := setupTestJetStream(t)
	defer tearDownTestJetStream(mocks)

	cfg := testConfig()

	mocks.natsJS.EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(nil, nil, assert.AnError)

	sub, err := jetstreamprovider.NewSubscriber(cfg, mocks.natsJS, adapter.NewJSON())

	assert.Error(t, err)
	assert.Nil(t, sub)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestSubscriber_SubscribeReadings_CreateConsumerError(t *testing.T) {
	mocks := setupTestJetStream(t)
	defer tearDownTestJetStream(mocks)

	ctx := context.Background()
	cfg := testConfig()

	mocks.natsJS.EXPECT().
		Connect(cfg.URL, gomock.Any()).
		Return(mocks.natsConn, mocks.js, nil)

	sub, err := jetstreamprovider.NewSubscriber(cfg, mocks.natsJS, adapter.NewJSON())
	assert.NoError(t, err)

	mocks.js.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(),
			"TELEMETRY_READINGS",
			natsjs.ConsumerConfig{
				Durable:       cfg.ConsumerName,
				AckPolicy:     natsjs.AckExplicitPolicy,
				AckWait:       cfg.AckWaitTimeout,
				MaxDeliver:    cfg.MaxDeliver,
				FilterSubject: "telemetry.readings.>",
			}).
		Return(nil, assert.AnError)

	err = sub.SubscribeReadings(ctx, func(context.Context, *domain.TelemetryReading) error { return nil })

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create/update consumer")
}

func TestSubscriber_SubscribeReadings_ProcessesMessages(t *testing.T) {
	mocks := setupTestJetStream(t)
	defer tearDownTestJetStream(mocks)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := testConfig()

	mocks.natsJS.EXPECT().
		Connect(cfg.URL, gomock.Any()).
		Return(mocks.natsConn, mocks.js, nil)

	sub, err := jetstreamprovider.NewSubscriber(cfg, mocks.natsJS, adapter.NewJSON())
	assert.NoError(t, err)

	handlerCh := make(chan adapter.MessageHandler, 1)
	consumeCtx := mockspkg.NewMockConsumeContext(mocks.ctrl)
	consumeCtx.EXPECT().Stop()

	mocks.js.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(mocks.consumer, nil)
	mocks.consumer.EXPECT().
		Consume(gomock.Any()).
		DoAndReturn(func(handler adapter.MessageHandler, _ ...natsjs.PullConsumeOpt) (adapter.ConsumeContext, error) {
			handlerCh <- handler
			return consumeCtx, nil
		})

	// Valid payload is acked after the handler succeeds
	valid, _ := json.Marshal(&domain.TelemetryReading{VehicleID: "VH-001", Mileage: 12000})
	validMsg := mockspkg.NewMockJetStreamMessage(mocks.ctrl)
	validMsg.EXPECT().Data().Return(valid)
	acked := make(chan struct{})
	validMsg.EXPECT().Ack().DoAndReturn(func() error {
		close(acked)
		return nil
	})

	// Unparseable payload is terminated without reaching the handler
	badMsg := mockspkg.NewMockJetStreamMessage(mocks.ctrl)
	badMsg.EXPECT().Data().Return([]byte("{not json"))
	termed := make(chan struct{})
	badMsg.EXPECT().Term().DoAndReturn(func() error {
		close(termed)
		return nil
	})

	// Handler failure NAKs the message for redelivery
	failing, _ := json.Marshal(&domain.TelemetryReading{VehicleID: "VH-FAIL"})
	failMsg := mockspkg.NewMockJetStreamMessage(mocks.ctrl)
	failMsg.EXPECT().Data().Return(failing)
	naked := make(chan struct{})
	failMsg.EXPECT().Nak().DoAndReturn(func() error {
		close(naked)
		return nil
	})

	var mu sync.Mutex
	var handled []string
	handler := func(_ context.Context, reading *domain.TelemetryReading) error {
		mu.Lock()
		handled = append(handled, reading.VehicleID)
		mu.Unlock()
		if reading.VehicleID == "VH-FAIL" {
			return assert.AnError
		}
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- sub.SubscribeReadings(ctx, handler)
	}()

	// Wait for the consume loop to come up
	var deliver adapter.MessageHandler
	select {
	case deliver = <-handlerCh:
	case <-time.After(time.Second):
		t.Fatal("consume loop never started")
	}

	deliver(validMsg)
	deliver(badMsg)
	deliver(failMsg)

	select {
	case <-acked:
	case <-time.After(time.Second):
		t.Fatal("valid message was never acked")
	}
	select {
	case <-termed:
	case <-time.After(time.Second):
		t.Fatal("unparseable message was never terminated")
	}
	select {
	case <-naked:
	case <-time.After(time.Second):
		t.Fatal("failing message was never NAKed")
	}

	cancel()
	err = <-done
	assert.ErrorIs(t, err, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"VH-001", "VH-FAIL"}, handled)
}

func TestSubscriber_Close(t *testing.T) {
	mocks := setupTestJetStream(t)
	defer tearDownTestJetStream(mocks)

	cfg := testConfig()

	mocks.natsJS.EXPECT().
		Connect(cfg.URL, gomock.Any()).
		Return(mocks.natsConn, mocks.js, nil)
	mocks.natsConn.EXPECT().Close()

	sub, err := jetstreamprovider.NewSubscriber(cfg, mocks.natsJS, adapter.NewJSON())
	assert.NoError(t, err)

	sub.Close()
}
