package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Worker - фоновая задача, которой управляет WorkerManager
type Worker interface {
	// Start блокируется до остановки воркера или отмены ctx
	Start(ctx context.Context) error
	Stop() error
	Name() string
}

// Lifecycle - общая часть воркеров метрик: имя, логгер с полем worker
// и сигнал остановки, который закрывается один раз.
type Lifecycle struct {
	name   string
	logger *zap.Logger
	stop   chan struct{}
	once   sync.Once
}

func NewLifecycle(name string, logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		name:   name,
		logger: logger.With(zap.String("worker", name)),
		stop:   make(chan struct{}),
	}
}

func (l *Lifecycle) Name() string {
	return l.name
}

// Logger - логгер с полем worker
func (l *Lifecycle) Logger() *zap.Logger {
	return l.logger
}

// Stop закрывает Stopping(); повторные вызовы ничего не делают
func (l *Lifecycle) Stop() error {
	l.once.Do(func() {
		l.logger.Info("Stopping worker")
		close(l.stop)
	})
	return nil
}

// Stopping закрывается при вызове Stop
func (l *Lifecycle) Stopping() <-chan struct{} {
	return l.stop
}

func (l *Lifecycle) Stopped() bool {
	select {
	case <-l.stop:
		return true
	default:
		return false
	}
}

// Wait ждёт d. false - если раньше пришёл Stop или отменён ctx.
func (l *Lifecycle) Wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return !l.Stopped() && ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-l.stop:
		return false
	case <-ctx.Done():
		return false
	}
}
