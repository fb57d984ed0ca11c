package main

// @title Travel Discovery MCP API
// @version 1.0.0
// @description Инструменты поиска поездок поверх travel-discovery API: автодополнение и разрешение позиций, поиск рейсов на дату, календарь цен, сводки самых дешёвых и самых быстрых вариантов.
// @description
// @description Инструменты доступны через REST (/api/v1/tools) и MCP Streamable HTTP (/mcp).

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/travel-discovery-mcp/docs/swagger"
	"github.com/travel-discovery-mcp/internal/app"
	"github.com/travel-discovery-mcp/internal/config"
	httpDelivery "github.com/travel-discovery-mcp/internal/delivery/http"
	"github.com/travel-discovery-mcp/internal/delivery/http/handler"
	"github.com/travel-discovery-mcp/internal/delivery/mcpserver"
	"github.com/travel-discovery-mcp/internal/pkg/logger"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Travel Discovery MCP server")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("discovery_base_url", cfg.Discovery.BaseURL),
		zap.String("metrics_sink", cfg.Metrics.Sink),
	)

	// 3. Build clients, use cases and the tool catalog
	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := application.Start(ctx); err != nil {
		log.Fatal("Failed to start background workers", zap.Error(err))
	}

	// 4. Initialize HTTP handlers and server
	toolHandler := handler.NewToolHandler(application.Registry, log)
	mcpHandler := handler.NewMCPHandler(mcpserver.NewHTTPHandler(application.MCP))

	server := httpDelivery.NewServer(cfg, log, toolHandler, mcpHandler, application.Metrics.Handler())

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 5. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	cancel()
	if err := application.Close(); err != nil {
		log.Error("Failed to close application", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
