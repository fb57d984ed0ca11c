package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/travel-discovery-mcp/internal/pkg/errors"
)

// Recovery - паника в обработчике превращается в ответ internal_error,
// стек и request_id уходят в лог
func Recovery(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			fields := []zap.Field{
				zap.Any("panic", r),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Stack("stack"),
			}
			if id, ok := c.Locals("requestid").(string); ok {
				fields = append(fields, zap.String("request_id", id))
			}
			logger.Error("Panic recovered", fields...)

			err = apperrors.FromError(fmt.Errorf("panic: %v", r))
		}()

		return c.Next()
	}
}
