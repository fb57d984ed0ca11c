package domain

import (
	"time"

	"github.com/google/uuid"
)

// MetricStatus - итог вызова инструмента
type MetricStatus string

const (
	MetricStatusSuccess MetricStatus = "success"
	MetricStatusFailure MetricStatus = "failure"
)

// MetricError - описание ошибки вызова
type MetricError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ToolMetric - запись об одном вызове инструмента
type ToolMetric struct {
	ID              uuid.UUID              `json:"id" db:"id"`
	ToolName        string                 `json:"tool_name" db:"tool_name"`
	Status          MetricStatus           `json:"status" db:"status"`
	DurationSeconds float64                `json:"duration_seconds" db:"duration_seconds"`
	Context         map[string]interface{} `json:"context"`
	ResultCount     *int                   `json:"result_count,omitempty"`
	Error           *MetricError           `json:"error,omitempty"`
	CreatedAt       time.Time              `json:"created_at" db:"created_at"`
}
