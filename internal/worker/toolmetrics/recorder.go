// Package toolmetrics доставляет записи о вызовах инструментов в хранилище:
// асинхронный Recorder в процессе сервера и PersistWorker, переносящий
// записи из Redis Stream в PostgreSQL.
package toolmetrics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/domain"
	"github.com/travel-discovery-mcp/internal/domain/repository"
	"github.com/travel-discovery-mcp/internal/worker"
)

const defaultSaveTimeout = 5 * time.Second

// Counters - счётчики потерянных записей
type Counters interface {
	MetricDroppedInc()
	MetricFailedInc()
}

type noopCounters struct{}

func (noopCounters) MetricDroppedInc() {}
func (noopCounters) MetricFailedInc()  {}

// Recorder принимает записи без блокировки и сохраняет их в фоне.
// При заполненном буфере запись отбрасывается и учитывается в Counters.
type Recorder struct {
	*worker.Lifecycle
	repo        repository.MetricsRepository
	queue       chan domain.ToolMetric
	counters    Counters
	saveTimeout time.Duration
}

func NewRecorder(repo repository.MetricsRepository, bufferSize int, counters Counters, logger *zap.Logger) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if counters == nil {
		counters = noopCounters{}
	}
	return &Recorder{
		Lifecycle:   worker.NewLifecycle("tool-metrics-recorder", logger),
		repo:        repo,
		queue:       make(chan domain.ToolMetric, bufferSize),
		counters:    counters,
		saveTimeout: defaultSaveTimeout,
	}
}

// Record ставит запись в очередь. Никогда не блокирует вызов инструмента.
func (r *Recorder) Record(_ context.Context, m domain.ToolMetric) {
	select {
	case r.queue <- m:
	default:
		r.counters.MetricDroppedInc()
		r.Logger().Warn("Tool metric dropped, recorder buffer is full",
			zap.String("tool", m.ToolName),
			zap.Int("buffer_size", cap(r.queue)))
	}
}

// Start сохраняет записи до остановки, затем дописывает оставшиеся в буфере
func (r *Recorder) Start(ctx context.Context) error {
	r.Logger().Info("Starting tool metrics recorder", zap.Int("buffer_size", cap(r.queue)))

	for {
		select {
		case m := <-r.queue:
			r.save(m)
		case <-r.Stopping():
			r.drain()
			return nil
		case <-ctx.Done():
			r.drain()
			return nil
		}
	}
}

func (r *Recorder) drain() {
	flushed := 0
	for {
		select {
		case m := <-r.queue:
			r.save(m)
			flushed++
		default:
			r.Logger().Info("Tool metrics recorder stopped", zap.Int("flushed", flushed))
			return
		}
	}
}

func (r *Recorder) save(m domain.ToolMetric) {
	ctx, cancel := context.WithTimeout(context.Background(), r.saveTimeout)
	defer cancel()

	if err := r.repo.Save(ctx, &m); err != nil {
		r.counters.MetricFailedInc()
		r.Logger().Error("Failed to store tool metric",
			zap.String("id", m.ID.String()),
			zap.String("tool", m.ToolName),
			zap.Error(err))
	}
}
