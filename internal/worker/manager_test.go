package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type loopWorker struct {
	*Lifecycle
	started atomic.Bool
}

func (w *loopWorker) Start(ctx context.Context) error {
	w.started.Store(true)
	select {
	case <-w.Stopping():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type stuckWorker struct {
	*Lifecycle
	release chan struct{}
}

func (w *stuckWorker) Start(ctx context.Context) error {
	<-w.release
	return nil
}

func TestWorkerManager_StartStop(t *testing.T) {
	m := NewWorkerManager(zap.NewNop(), time.Second)
	w := &loopWorker{Lifecycle: NewLifecycle("loop", zap.NewNop())}
	m.Register(w)

	require.NoError(t, m.Start(context.Background()))
	require.Eventually(t, w.started.Load, time.Second, 5*time.Millisecond)

	assert.NoError(t, m.Stop())
	assert.True(t, w.Stopped())
	// repeated Stop on a worker is a no-op
	assert.NoError(t, w.Stop())
}

func TestWorkerManager_NoWorkers(t *testing.T) {
	assert.Error(t, NewWorkerManager(zap.NewNop(), 0).Start(context.Background()))
}

func TestWorkerManager_StopTimeout(t *testing.T) {
	m := NewWorkerManager(zap.NewNop(), 50*time.Millisecond)
	w := &stuckWorker{Lifecycle: NewLifecycle("stuck", zap.NewNop()), release: make(chan struct{})}
	defer close(w.release)
	m.Register(w)

	require.NoError(t, m.Start(context.Background()))

	err := m.Stop()
	assert.ErrorContains(t, err, "timed out")
	assert.Equal(t, "stuck", w.Name())
}

func TestLifecycle_Wait(t *testing.T) {
	t.Run("elapses", func(t *testing.T) {
		l := NewLifecycle("wait", zap.NewNop())
		assert.True(t, l.Wait(context.Background(), time.Millisecond))
	})

	t.Run("interrupted by stop", func(t *testing.T) {
		l := NewLifecycle("wait", zap.NewNop())
		go func() {
			time.Sleep(10 * time.Millisecond)
			_ = l.Stop()
		}()

		start := time.Now()
		assert.False(t, l.Wait(context.Background(), time.Minute))
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("interrupted by context", func(t *testing.T) {
		l := NewLifecycle("wait", zap.NewNop())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.False(t, l.Wait(ctx, time.Minute))
		assert.False(t, l.Stopped())
	})

	t.Run("zero duration after stop", func(t *testing.T) {
		l := NewLifecycle("wait", zap.NewNop())
		require.NoError(t, l.Stop())
		assert.False(t, l.Wait(context.Background(), 0))
	})
}
