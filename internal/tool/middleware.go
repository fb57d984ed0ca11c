package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/domain"
	apperrors "github.com/travel-discovery-mcp/internal/pkg/errors"
	"github.com/travel-discovery-mcp/internal/pkg/requestid"
)

// MetricsSink принимает запись о вызове инструмента. Ошибки сохранения
// обрабатываются внутри и не влияют на результат вызова.
type MetricsSink interface {
	Record(ctx context.Context, m domain.ToolMetric)
}

// MultiSink передаёт запись во все вложенные приёмники
type MultiSink []MetricsSink

func (s MultiSink) Record(ctx context.Context, m domain.ToolMetric) {
	for _, sink := range s {
		if sink != nil {
			sink.Record(ctx, m)
		}
	}
}

// ResultCounter реализуют ответы, для которых известно число результатов
type ResultCounter interface {
	ResultCount() int
}

// ErrorBody - ошибка в формате, который получает клиент
type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// ErrorEnvelope - результат неуспешного вызова инструмента
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// Middleware оборачивает обработчик инструмента
type Middleware func(Handler) Handler

// Trace замеряет вызов, пишет одну запись в sink и превращает любую
// ошибку (включая panic) в ErrorEnvelope. Обёрнутый обработчик никогда не
// возвращает error.
func Trace(name string, sink MetricsSink, logger *zap.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, args json.RawMessage) (result interface{}, err error) {
			ctx, reqID := requestid.Ensure(ctx)
			start := time.Now()

			metric := domain.ToolMetric{
				ID:       uuid.New(),
				ToolName: name,
				Context:  argumentsContext(args),
			}

			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("Tool handler panicked",
						zap.String("tool", name),
						zap.String("request_id", reqID),
						zap.Any("panic", rec),
						zap.Stack("stack"))
					result, err = failure(ctx, sink, logger, metric, start, reqID, fmt.Errorf("panic: %v", rec)), nil
				}
			}()

			res, callErr := next(ctx, args)
			if callErr != nil {
				return failure(ctx, sink, logger, metric, start, reqID, callErr), nil
			}

			metric.Status = domain.MetricStatusSuccess
			metric.DurationSeconds = time.Since(start).Seconds()
			metric.CreatedAt = time.Now().UTC()
			if counter, ok := res.(ResultCounter); ok {
				n := counter.ResultCount()
				metric.ResultCount = &n
			}

			logger.Info("Tool call completed",
				zap.String("tool", name),
				zap.String("request_id", reqID),
				zap.Float64("duration_seconds", metric.DurationSeconds))

			record(ctx, sink, metric)
			return res, nil
		}
	}
}

func failure(ctx context.Context, sink MetricsSink, logger *zap.Logger, metric domain.ToolMetric, start time.Time, reqID string, callErr error) ErrorEnvelope {
	appErr := apperrors.FromError(callErr)

	metric.Status = domain.MetricStatusFailure
	metric.DurationSeconds = time.Since(start).Seconds()
	metric.CreatedAt = time.Now().UTC()
	metric.Error = &domain.MetricError{Type: appErr.Type, Message: appErr.Message}

	fields := []zap.Field{
		zap.String("tool", metric.ToolName),
		zap.String("request_id", reqID),
		zap.String("error_type", appErr.Type),
		zap.Float64("duration_seconds", metric.DurationSeconds),
		zap.Error(callErr),
	}
	if appErr.Type == apperrors.TypeInternal {
		logger.Error("Tool call failed", fields...)
	} else {
		logger.Warn("Tool call failed", fields...)
	}

	record(ctx, sink, metric)

	return ErrorEnvelope{Error: ErrorBody{
		Type:    appErr.Type,
		Message: appErr.Message,
		Hint:    appErr.Hint,
	}}
}

func record(ctx context.Context, sink MetricsSink, m domain.ToolMetric) {
	if sink != nil {
		sink.Record(ctx, m)
	}
}

// argumentsContext - копия входных аргументов для записи метрики
func argumentsContext(args json.RawMessage) map[string]interface{} {
	if len(args) == 0 {
		return map[string]interface{}{}
	}
	var m map[string]interface{}
	if err := json.Unmarshal(args, &m); err != nil || m == nil {
		return map[string]interface{}{"raw": string(args)}
	}
	return m
}
