package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/app"
	"github.com/travel-discovery-mcp/internal/config"
	"github.com/travel-discovery-mcp/internal/delivery/mcpserver"
	"github.com/travel-discovery-mcp/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdout занят протоколом
	log, err := logger.NewWithOutput(cfg.Log.Level, "stderr")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		log.Fatal("Failed to start background workers", zap.Error(err))
	}

	serveErr := mcpserver.ServeStdio(ctx, application.MCP, os.Stdin, os.Stdout, log)

	if err := application.Close(); err != nil {
		log.Error("Failed to close application", zap.Error(err))
	}

	if serveErr != nil {
		log.Error("Stdio server failed", zap.Error(serveErr))
		os.Exit(1)
	}
}
