package repository

import (
	"context"

	"github.com/travel-discovery-mcp/internal/domain"
)

// MetricsRepository - хранилище записей о вызовах инструментов
type MetricsRepository interface {
	// Save сохраняет одну запись
	Save(ctx context.Context, metric *domain.ToolMetric) error
}
