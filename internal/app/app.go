// Package app собирает зависимости сервера инструментов: upstream клиенты,
// use cases, каталог инструментов, приёмник метрик и фоновые воркеры.
// Используется обоими транспортами (cmd/api и cmd/stdio).
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/config"
	"github.com/travel-discovery-mcp/internal/delivery/mcpserver"
	"github.com/travel-discovery-mcp/internal/domain/repository"
	"github.com/travel-discovery-mcp/internal/infrastructure/discovery"
	"github.com/travel-discovery-mcp/internal/pkg/metrics"
	natsRepo "github.com/travel-discovery-mcp/internal/repository/nats"
	"github.com/travel-discovery-mcp/internal/repository/postgres"
	redisRepo "github.com/travel-discovery-mcp/internal/repository/redis"
	"github.com/travel-discovery-mcp/internal/tool"
	"github.com/travel-discovery-mcp/internal/usecase"
	"github.com/travel-discovery-mcp/internal/usecase/dto"
	"github.com/travel-discovery-mcp/internal/worker"
	"github.com/travel-discovery-mcp/internal/worker/toolmetrics"
)

const (
	ServerName = "travel-discovery-mcp"
	Version    = "1.0.0"
)

// App - собранное приложение
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *metrics.Collector
	Registry *tool.Registry
	MCP      *server.MCPServer

	workers *worker.WorkerManager
	closers []func() error
}

// New создаёт все зависимости. При ошибке уже открытые соединения закрываются.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics.NewCollector(),
		workers: worker.NewWorkerManager(log, worker.DefaultShutdownTimeout),
	}

	// Позиции запрашиваются без ключа, поиск - с ключом
	positionsClient := discovery.NewClient(&cfg.Discovery, "", a.Metrics, log)
	searchClient := discovery.NewClient(&cfg.Discovery, cfg.Discovery.APIKey, a.Metrics, log)

	defaults := dto.Defaults{
		Locale:   cfg.Search.DefaultLocale,
		Currency: cfg.Search.DefaultCurrency,
		Limit:    cfg.Search.MaxResults,
	}
	endpoints := usecase.Endpoints{
		Positions:       cfg.Discovery.Endpoints.Positions,
		DayResults:      cfg.Discovery.Endpoints.DayResults,
		CalendarPrices:  cfg.Discovery.Endpoints.CalendarPrices,
		CheapestSummary: cfg.Discovery.Endpoints.CheapestSummary,
		FastestSummary:  cfg.Discovery.Endpoints.FastestSummary,
	}

	locationUC := usecase.NewLocationUseCase(positionsClient, endpoints.Positions, defaults, log)
	searchUC := usecase.NewSearchUseCase(searchClient, locationUC, endpoints, defaults, log)

	sink, err := a.metricsSink()
	if err != nil {
		_ = a.closeAll()
		return nil, err
	}

	registry, err := tool.NewCatalog(locationUC, searchUC, sink, log)
	if err != nil {
		_ = a.closeAll()
		return nil, fmt.Errorf("failed to build tool catalog: %w", err)
	}

	mcpServer, err := mcpserver.NewServer(registry, ServerName, Version, log)
	if err != nil {
		_ = a.closeAll()
		return nil, fmt.Errorf("failed to build MCP server: %w", err)
	}

	a.Registry = registry
	a.MCP = mcpServer

	log.Info("Application initialized",
		zap.String("metrics_sink", cfg.Metrics.Sink),
		zap.Int("tools", len(registry.List())))

	return a, nil
}

// metricsSink - Prometheus всегда, плюс хранилище METRICS_SINK через асинхронный Recorder
func (a *App) metricsSink() (tool.MetricsSink, error) {
	repo, err := a.metricsRepository()
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return a.Metrics, nil
	}

	recorder := toolmetrics.NewRecorder(repo, a.Config.Metrics.BufferSize, a.Metrics, a.Logger)
	a.workers.Register(recorder)
	return tool.MultiSink{a.Metrics, recorder}, nil
}

func (a *App) metricsRepository() (repository.MetricsRepository, error) {
	cfg := a.Config

	switch cfg.Metrics.Sink {
	case config.MetricsSinkNone:
		return nil, nil

	case config.MetricsSinkPostgres:
		db, err := postgres.New(context.Background(), &cfg.Database, a.Logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return postgres.NewMetricsRepository(db, a.Logger), nil

	case config.MetricsSinkRedis:
		client, err := redisRepo.Connect(context.Background(), &cfg.Redis, a.Logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return redisRepo.NewMetricsRepository(client.Streams(cfg.Worker.StreamReadTimeout)), nil

	case config.MetricsSinkNATS:
		client, err := natsRepo.Connect(&cfg.NATS, a.Logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { client.Close(); return nil })
		return natsRepo.NewMetricsPublisher(client.Conn(), cfg.NATS.Subject), nil

	default:
		return toolmetrics.NewLogRepository(a.Logger), nil
	}
}

// Start запускает фоновые воркеры, если они есть
func (a *App) Start(ctx context.Context) error {
	if err := a.workers.Start(ctx); err != nil && !errors.Is(err, worker.ErrNoWorkers) {
		return err
	}
	return nil
}

// Close останавливает воркеры (с дозаписью буфера метрик) и закрывает соединения
func (a *App) Close() error {
	err := a.workers.Stop()
	return errors.Join(err, a.closeAll())
}

func (a *App) closeAll() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
