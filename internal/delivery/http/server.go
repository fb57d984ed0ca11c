package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/config"
	"github.com/travel-discovery-mcp/internal/delivery/http/handler"
	"github.com/travel-discovery-mcp/internal/delivery/http/middleware"
	apperrors "github.com/travel-discovery-mcp/internal/pkg/errors"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	toolHandler    *handler.ToolHandler
	mcpHandler     *handler.MCPHandler
	metricsHandler http.Handler
}

// NewServer - создание нового HTTP сервера. metricsHandler может быть nil.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	toolHandler *handler.ToolHandler,
	mcpHandler *handler.MCPHandler,
	metricsHandler http.Handler,
) *Server {
	// Upstream запросы идут с таймаутом DISCOVERY_TIMEOUT, ответ должен успеть уйти после него
	writeTimeout := 2*cfg.Discovery.Timeout + 5*time.Second

	app := fiber.New(fiber.Config{
		AppName:      "Travel Discovery MCP",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		toolHandler:    toolHandler,
		mcpHandler:     mcpHandler,
		metricsHandler: metricsHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	if s.metricsHandler != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(s.metricsHandler))
	}

	s.app.Post("/mcp", s.mcpHandler.Handle)

	api := s.app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Get("/tools", s.toolHandler.ListTools)
	api.Post("/tools/:name", s.toolHandler.CallTool)
}

// App - доступ к fiber.App для тестов
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки роутинга и необработанные ошибки в формате AppError
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := err.(*fiber.Error); ok {
			if e.Code >= fiber.StatusInternalServerError {
				logger.Error("HTTP Error", zap.String("path", c.Path()), zap.Int("status", e.Code), zap.Error(err))
			}
			return c.Status(e.Code).JSON(fiber.Map{
				"error": fiber.Map{
					"error_type": errorTypeForStatus(e.Code),
					"message":    e.Message,
				},
			})
		}

		appErr := apperrors.FromError(err)
		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", appErr.StatusCode),
			zap.Error(err),
		)
		return c.Status(appErr.StatusCode).JSON(fiber.Map{"error": appErr})
	}
}

func errorTypeForStatus(code int) string {
	if code >= fiber.StatusInternalServerError {
		return apperrors.TypeInternal
	}
	return apperrors.TypeBadInput
}
