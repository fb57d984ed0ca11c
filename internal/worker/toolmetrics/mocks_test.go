package toolmetrics

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/travel-discovery-mcp/internal/domain"
)

type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) ClaimPending(ctx context.Context, stream, group, consumer string, minIdle time.Duration, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, minIdle, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

type MockMetricsRepository struct {
	mock.Mock
}

func (m *MockMetricsRepository) Save(ctx context.Context, metric *domain.ToolMetric) error {
	args := m.Called(ctx, metric)
	return args.Error(0)
}

// memoryRepository - потокобезопасное хранилище для тестов Recorder
type memoryRepository struct {
	mu      sync.Mutex
	saved   []domain.ToolMetric
	release chan struct{}
	err     error
}

func (r *memoryRepository) Save(_ context.Context, m *domain.ToolMetric) error {
	if r.release != nil {
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, *m)
	return nil
}

func (r *memoryRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

type countingCounters struct {
	dropped atomic.Int64
	failed  atomic.Int64
}

func (c *countingCounters) MetricDroppedInc() { c.dropped.Add(1) }
func (c *countingCounters) MetricFailedInc()  { c.failed.Add(1) }
