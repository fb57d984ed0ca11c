package redis

import (
	"context"

	"github.com/travel-discovery-mcp/internal/domain"
	"github.com/travel-discovery-mcp/internal/domain/repository"
)

type metricsRepository struct {
	streams repository.StreamRepository
}

// NewMetricsRepository - записи о вызовах уходят в стрим domain.StreamToolMetrics,
// откуда их забирает воркер
func NewMetricsRepository(streams repository.StreamRepository) repository.MetricsRepository {
	return &metricsRepository{streams: streams}
}

func (r *metricsRepository) Save(ctx context.Context, metric *domain.ToolMetric) error {
	return r.streams.PublishToStream(ctx, domain.StreamToolMetrics, metric)
}
