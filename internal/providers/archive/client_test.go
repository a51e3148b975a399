package archive_test

import (
	"context"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/veridrive/veridrive/internal/adapter"
	"github.com/veridrive/veridrive/internal/ledger"
	"github.com/veridrive/veridrive/internal/logger"
	mockspkg "github.com/veridrive/veridrive/internal/mocks"
	"github.com/veridrive/veridrive/internal/providers/archive"
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

type testArchiveMocks struct {
	ctrl *gomock.Controller
	http *mockspkg.MockHTTPClient
}

func setupTestArchive(t *testing.T, cfg archive.Config) (*testArchiveMocks, ledger.PermanentLedger) {
	ctrl := gomock.NewController(t)

	tm := &testArchiveMocks{
		ctrl: ctrl,
		http: mockspkg.NewMockHTTPClient(ctrl),
	}

	return tm, archive.NewClient(tm.http, adapter.NewJSON(), nil, cfg)
}

func tearDownTestArchive(mocks *testArchiveMocks) {
	mocks.ctrl.Finish()
}

func TestArchive_Upload_Success(t *testing.T) {
	mocks, c := setupTestArchive(t, archive.Config{
		GatewayURL: "https://archive.example.com/",
		APIKey:     "test-key",
	})
	defer tearDownTestArchive(mocks)

	ctx := context.Background()
	content := []byte(`{"batch_id":"01JBATCH"}`)
	tags := []string{"vehicle:VH-001", "date:2026-03-15"}

	mocks.http.EXPECT().
		Post(ctx, "https://archive.example.com/v1/objects", "application/json", content, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ string, _ []byte, headers map[string]string) ([]byte, error) {
			assert.Equal(t, "vehicle:VH-001,date:2026-03-15", headers["X-Archive-Tags"])
			assert.Equal(t, "Bearer test-key", headers["Authorization"])
			return []byte(`{"reference_id":"ref-abc123"}`), nil
		})

	ref, err := c.Upload(ctx, content, "application/json", tags)

	assert.NoError(t, err)
	assert.Equal(t, "ref-abc123", ref)
}

func TestArchive_Upload_AnonymousGateway(t *testing.T) {
	mocks, c := setupTestArchive(t, archive.Config{
		GatewayURL: "https://archive.example.com",
	})
	defer tearDownTestArchive(mocks)

	ctx := context.Background()

	mocks.http.EXPECT().
		Post(ctx, "https://archive.example.com/v1/objects", "application/json", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ string, _ []byte, headers map[string]string) ([]byte, error) {
			_, hasAuth := headers["Authorization"]
			assert.False(t, hasAuth)
			return []byte(`{"reference_id":"ref-abc123"}`), nil
		})

	ref, err := c.Upload(ctx, []byte("{}"), "application/json", nil)

	assert.NoError(t, err)
	assert.Equal(t, "ref-abc123", ref)
}

func TestArchive_Upload_HTTPError(t *testing.T) {
	mocks, c := setupTestArchive(t, archive.Config{GatewayURL: "https://archive.example.com"})
	defer tearDownTestArchive(mocks)

	ctx := context.Background()

	mocks.http.EXPECT().
		Post(ctx, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, assert.AnError)

	ref, err := c.Upload(ctx, []byte("{}"), "application/json", nil)

	assert.Empty(t, ref)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload to archive gateway")
}

func TestArchive_Upload_MalformedResponse(t *testing.T) {
	mocks, c := setupTestArchive(t, archive.Config{GatewayURL: "https://archive.example.com"})
	defer tearDownTestArchive(mocks)

	ctx := context.Background()

	mocks.http.EXPECT().
		Post(ctx, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte("not json"), nil)

	ref, err := c.Upload(ctx, []byte("{}"), "application/json", nil)

	assert.Empty(t, ref)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode archive response")
}

func TestArchive_Upload_EmptyReference(t *testing.T) {
	mocks, c := setupTestArchive(t, archive.Config{GatewayURL: "https://archive.example.com"})
	defer tearDownTestArchive(mocks)

	ctx := context.Background()

	mocks.http.EXPECT().
		Post(ctx, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte(`{"reference_id":""}`), nil)

	ref, err := c.Upload(ctx, []byte("{}"), "application/json", nil)

	assert.Empty(t, ref)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty reference")
}
