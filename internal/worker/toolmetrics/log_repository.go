package toolmetrics

import (
	"context"

	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/domain"
	"github.com/travel-discovery-mcp/internal/domain/repository"
)

type logRepository struct {
	logger *zap.Logger
}

// NewLogRepository - приёмник METRICS_SINK=log: одна строка лога на запись
func NewLogRepository(logger *zap.Logger) repository.MetricsRepository {
	return &logRepository{logger: logger}
}

func (r *logRepository) Save(_ context.Context, m *domain.ToolMetric) error {
	fields := []zap.Field{
		zap.String("id", m.ID.String()),
		zap.String("tool", m.ToolName),
		zap.String("status", string(m.Status)),
		zap.Float64("duration_seconds", m.DurationSeconds),
		zap.Any("context", m.Context),
		zap.Time("created_at", m.CreatedAt),
	}
	if m.ResultCount != nil {
		fields = append(fields, zap.Int("result_count", *m.ResultCount))
	}
	if m.Error != nil {
		fields = append(fields,
			zap.String("error_type", m.Error.Type),
			zap.String("error_message", m.Error.Message))
	}

	r.logger.Info("Tool metric", fields...)
	return nil
}
