package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// MCPHandler - MCP Streamable HTTP эндпоинт
type MCPHandler struct {
	handler fiber.Handler
}

func NewMCPHandler(h http.Handler) *MCPHandler {
	return &MCPHandler{handler: adaptor.HTTPHandler(h)}
}

// Handle godoc
// @Summary MCP endpoint
// @Description Принимает одно сообщение JSON-RPC 2.0 протокола MCP (initialize, ping, tools/list, tools/call). Для уведомлений возвращает 202 без тела.
// @Tags MCP
// @Accept json
// @Produce json
// @Param message body object true "JSON-RPC 2.0 message"
// @Success 200 {object} map[string]interface{}
// @Success 202 "Notification accepted"
// @Router /mcp [post]
func (h *MCPHandler) Handle(c *fiber.Ctx) error {
	// id из middleware.RequestID доходит до инструментов через заголовок
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		c.Request().Header.Set(fiber.HeaderXRequestID, id)
	}
	return h.handler(c)
}
