package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/domain"
	"github.com/travel-discovery-mcp/internal/domain/repository"
)

const insertToolMetricQuery = `
	INSERT INTO tool_metrics (
		id, tool_name, status, duration_seconds, context,
		result_count, error_type, error_message, created_at
	) VALUES (
		:id, :tool_name, :status, :duration_seconds, CAST(:context AS jsonb),
		:result_count, :error_type, :error_message, :created_at
	)
	ON CONFLICT (id) DO NOTHING`

// toolMetricRow - строка таблицы tool_metrics
type toolMetricRow struct {
	ID              string    `db:"id"`
	ToolName        string    `db:"tool_name"`
	Status          string    `db:"status"`
	DurationSeconds float64   `db:"duration_seconds"`
	Context         string    `db:"context"`
	ResultCount     *int      `db:"result_count"`
	ErrorType       *string   `db:"error_type"`
	ErrorMessage    *string   `db:"error_message"`
	CreatedAt       time.Time `db:"created_at"`
}

type metricsRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMetricsRepository создает репозиторий записей о вызовах инструментов
func NewMetricsRepository(db *DB, logger *zap.Logger) repository.MetricsRepository {
	return &metricsRepository{
		db:     db,
		logger: logger,
	}
}

// Save сохраняет запись. Повторная запись с тем же id игнорируется.
func (r *metricsRepository) Save(ctx context.Context, metric *domain.ToolMetric) error {
	row, err := toRow(metric)
	if err != nil {
		return err
	}

	if _, err := r.db.NamedExecContext(ctx, insertToolMetricQuery, row); err != nil {
		r.logger.Error("Failed to save tool metric",
			zap.String("id", row.ID),
			zap.String("tool", row.ToolName),
			zap.Error(err))
		return fmt.Errorf("failed to save tool metric: %w", err)
	}

	r.logger.Debug("Tool metric saved", zap.String("id", row.ID), zap.String("tool", row.ToolName))
	return nil
}

func toRow(m *domain.ToolMetric) (*toolMetricRow, error) {
	ctxJSON := []byte("{}")
	if m.Context != nil {
		var err error
		if ctxJSON, err = json.Marshal(m.Context); err != nil {
			return nil, fmt.Errorf("failed to marshal metric context: %w", err)
		}
	}

	row := &toolMetricRow{
		ID:              m.ID.String(),
		ToolName:        m.ToolName,
		Status:          string(m.Status),
		DurationSeconds: m.DurationSeconds,
		Context:         string(ctxJSON),
		ResultCount:     m.ResultCount,
		CreatedAt:       m.CreatedAt.UTC(),
	}
	if m.Error != nil {
		row.ErrorType = &m.Error.Type
		row.ErrorMessage = &m.Error.Message
	}
	return row, nil
}
