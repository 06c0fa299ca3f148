package autotel_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jagreehal/autotel-go"
)

type recordingSubscriber struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingSubscriber) Name() string { return "recording" }

func (r *recordingSubscriber) Send(_ context.Context, event string, _ map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSubscriber) Close() error { return nil }

func (r *recordingSubscriber) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestInit_Basic(t *testing.T) {
	cleanup, err := autotel.Init(context.Background(),
		autotel.WithService("test-service"),
	)
	require.NoError(t, err)
	require.NotNil(t, cleanup)
	defer cleanup(context.Background())
}

func TestInit_WithSubscribers_TrackAndFlush(t *testing.T) {
	sub := &recordingSubscriber{}
	cleanup, err := autotel.Init(context.Background(),
		autotel.WithService("test-service"),
		autotel.WithSubscribers(sub),
		autotel.WithEventBatchSize(10),
	)
	require.NoError(t, err)
	defer cleanup(context.Background())

	autotel.Track(context.Background(), "signed_up", map[string]any{"plan": "pro"})
	require.NoError(t, autotel.Flush(context.Background()))

	assert.Equal(t, 1, sub.count())
}

func TestTrack_WithoutInit_IsNoop(t *testing.T) {
	// Track/Flush must never panic when no queue is active.
	autotel.Track(context.Background(), "ignored", nil)
	assert.NoError(t, autotel.Flush(context.Background()))
}

func TestInit_WithGRPCProtocol(t *testing.T) {
	cleanup, err := autotel.Init(context.Background(),
		autotel.WithService("test"),
		autotel.WithProtocol(autotel.ProtocolGRPC),
	)
	require.NoError(t, err)
	defer cleanup(context.Background())
}

func TestInit_WithBackendPreset(t *testing.T) {
	cfg := autotel.DefaultConfig()
	cfg.ServiceName = "test"
	cfg.BackendPreset = "honeycomb"

	cleanup, err := autotel.InitWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup(context.Background())

	assert.Equal(t, "api.honeycomb.io:443", cfg.Endpoint)
}
