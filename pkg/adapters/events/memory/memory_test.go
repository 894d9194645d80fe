package memory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishFanOut(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var a, b atomic.Int32
	require.NoError(t, bus.Subscribe(ctx, domain.TopicAlerts, func(ctx context.Context, e domain.Event) error {
		a.Add(1)
		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx, domain.TopicAlerts, func(ctx context.Context, e domain.Event) error {
		b.Add(1)
		return errors.New("ignored")
	}))

	require.NoError(t, bus.Publish(ctx, domain.TopicAlerts, domain.Event{ID: "1", Type: domain.EventTypeAlertRaised}))
	require.NoError(t, bus.Publish(ctx, domain.TopicPosts, domain.Event{ID: "2", Type: domain.EventTypePostIngested}))
	bus.Wait()

	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(1), b.Load())
	require.NoError(t, bus.Close())
}

func TestUnsubscribeOnCancel(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	require.NoError(t, bus.Subscribe(ctx, domain.TopicPosts, func(ctx context.Context, e domain.Event) error {
		calls.Add(1)
		return nil
	}))
	cancel()

	assert.Eventually(t, func() bool {
		bus.mu.RLock()
		defer bus.mu.RUnlock()
		return len(bus.subscribers[domain.TopicPosts]) == 0
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, bus.Publish(context.Background(), domain.TopicPosts, domain.Event{ID: "1"}))
	bus.Wait()
	assert.Equal(t, int32(0), calls.Load())
	require.NoError(t, bus.Close())
}
