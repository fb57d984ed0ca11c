package handler

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/travel-discovery-mcp/internal/pkg/errors"
	"github.com/travel-discovery-mcp/internal/pkg/requestid"
	"github.com/travel-discovery-mcp/internal/pkg/utils"
	"github.com/travel-discovery-mcp/internal/tool"
)

// ToolHandler обрабатывает REST вызовы инструментов
type ToolHandler struct {
	registry *tool.Registry
	logger   *zap.Logger
}

// NewToolHandler создает новый экземпляр ToolHandler
func NewToolHandler(registry *tool.Registry, logger *zap.Logger) *ToolHandler {
	return &ToolHandler{
		registry: registry,
		logger:   logger,
	}
}

// ListTools godoc
// @Summary List available tools
// @Description Возвращает каталог инструментов с описаниями и JSON-схемами входных параметров
// @Tags Tools
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]tool.Tool}
// @Router /api/v1/tools [get]
func (h *ToolHandler) ListTools(c *fiber.Ctx) error {
	tools := h.registry.List()
	return utils.SendSuccess(c, tools, &utils.Meta{Total: len(tools)})
}

// CallTool godoc
// @Summary Call a tool
// @Description Вызывает инструмент по имени. Тело запроса - аргументы инструмента (плоские или в {"params": {...}}).
// @Tags Tools
// @Accept json
// @Produce json
// @Param name path string true "Tool name" Enums(positions_autocomplete, resolve_positions, search_day_results, search_calendar_prices, search_cheapest_summary, search_fastest_summary)
// @Param arguments body object false "Tool arguments"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} tool.ErrorEnvelope "bad_input, range_exceeded"
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} tool.ErrorEnvelope "resolution_failed"
// @Failure 502 {object} tool.ErrorEnvelope "upstream_unavailable"
// @Router /api/v1/tools/{name} [post]
func (h *ToolHandler) CallTool(c *fiber.Ctx) error {
	name := c.Params("name")
	start := time.Now()

	ctx := c.UserContext()
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		ctx = requestid.With(ctx, id)
	}

	h.logger.Debug("Handling tool call", zap.String("tool", name))

	body := c.Body()
	args := make(json.RawMessage, len(body))
	copy(args, body)

	result, err := h.registry.Call(ctx, name, args)
	if err != nil {
		if errors.Is(err, tool.ErrUnknownTool) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Error: apperrors.NewBadInput("Unknown tool: "+name, "Use GET /api/v1/tools to list available tools."),
			})
		}
		return utils.SendError(c, err)
	}

	if envelope, ok := result.(tool.ErrorEnvelope); ok {
		return c.Status(apperrors.StatusFor(envelope.Error.Type)).JSON(envelope)
	}

	meta := &utils.Meta{TimeMSec: float64(time.Since(start).Microseconds()) / 1000}
	if counter, ok := result.(tool.ResultCounter); ok {
		meta.Total = counter.ResultCount()
	}
	return utils.SendSuccess(c, result, meta)
}
