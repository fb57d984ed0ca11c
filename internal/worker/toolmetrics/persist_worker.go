package toolmetrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/domain"
	"github.com/travel-discovery-mcp/internal/domain/repository"
	"github.com/travel-discovery-mcp/internal/worker"
)

const (
	defaultBatchSize      = 50
	defaultPendingMinIdle = 30 * time.Second
	errorBackoff          = time.Second
	emptyQueueSleep       = 100 * time.Millisecond
)

// PersistWorker переносит записи из domain.StreamToolMetrics в хранилище
type PersistWorker struct {
	*worker.Lifecycle
	streams        repository.StreamRepository
	store          repository.MetricsRepository
	consumerGroup  string
	consumerName   string
	batchSize      int
	pendingMinIdle time.Duration
}

func NewPersistWorker(
	streams repository.StreamRepository,
	store repository.MetricsRepository,
	consumerGroup string,
	batchSize int,
	pendingMinIdle time.Duration,
	logger *zap.Logger,
) *PersistWorker {
	hostname, _ := os.Hostname()
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if pendingMinIdle < 0 {
		pendingMinIdle = defaultPendingMinIdle
	}

	return &PersistWorker{
		Lifecycle:      worker.NewLifecycle("tool-metrics-persist", logger),
		streams:        streams,
		store:          store,
		consumerGroup:  consumerGroup,
		consumerName:   fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		batchSize:      batchSize,
		pendingMinIdle: pendingMinIdle,
	}
}

// Start запускает воркер
func (w *PersistWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting tool metrics persist worker",
		zap.String("consumer_group", w.consumerGroup),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.batchSize),
		zap.Duration("pending_min_idle", w.pendingMinIdle))

	if err := w.streams.CreateConsumerGroup(ctx, domain.StreamToolMetrics, w.consumerGroup); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		if w.Stopped() {
			logger.Info("Worker stopped")
			return nil
		}
		if ctx.Err() != nil {
			logger.Info("Context cancelled")
			return ctx.Err()
		}

		processed, err := w.processBatch(ctx)
		pause := time.Duration(0)
		switch {
		case err != nil && ctx.Err() == nil:
			logger.Error("Failed to process batch", zap.Error(err))
			pause = errorBackoff
		case processed == 0:
			pause = emptyQueueSleep
		}

		if pause > 0 {
			w.Wait(ctx, pause)
		}
	}
}

// processBatch возвращает количество прочитанных сообщений.
// Сначала забираются простаивающие pending сообщения, затем добираются новые.
// Битые сообщения подтверждаются и отбрасываются, несохранённые остаются в pending
// и возвращаются следующими батчами после pendingMinIdle.
func (w *PersistWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streams.ClaimPending(ctx, domain.StreamToolMetrics, w.consumerGroup, w.consumerName, w.pendingMinIdle, w.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		logger.Warn("Failed to claim pending messages", zap.Error(err))
	}

	if len(messages) < w.batchSize {
		fresh, err := w.streams.ConsumeBatch(ctx, domain.StreamToolMetrics, w.consumerGroup, w.consumerName, w.batchSize-len(messages))
		if err != nil && len(messages) == 0 {
			return 0, fmt.Errorf("failed to consume batch: %w", err)
		}
		if err != nil {
			logger.Warn("Failed to consume new messages", zap.Error(err))
		}
		messages = append(messages, fresh...)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	ackIDs := make([]string, 0, len(messages))
	var saveErr error

	for _, msg := range messages {
		metric, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse tool metric, dropping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			ackIDs = append(ackIDs, msg.ID)
			continue
		}

		if err := w.store.Save(ctx, metric); err != nil {
			logger.Error("Failed to store tool metric",
				zap.String("message_id", msg.ID),
				zap.String("id", metric.ID.String()),
				zap.Error(err))
			saveErr = errors.Join(saveErr, err)
			continue
		}
		ackIDs = append(ackIDs, msg.ID)
	}

	if err := w.streams.AckMessages(ctx, domain.StreamToolMetrics, w.consumerGroup, ackIDs); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	logger.Debug("Batch processed",
		zap.Int("received", len(messages)),
		zap.Int("acked", len(ackIDs)))

	if saveErr != nil {
		return len(messages), fmt.Errorf("failed to store %d tool metrics: %w", len(messages)-len(ackIDs), saveErr)
	}
	return len(messages), nil
}

func parseMessage(msg domain.StreamMessage) (*domain.ToolMetric, error) {
	if msg.Data == "" {
		return nil, errors.New("empty message")
	}

	var metric domain.ToolMetric
	if err := json.Unmarshal([]byte(msg.Data), &metric); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if metric.ID == uuid.Nil || metric.ToolName == "" {
		return nil, errors.New("missing id or tool_name")
	}
	return &metric, nil
}
