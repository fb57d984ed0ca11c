package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/config"
	"github.com/travel-discovery-mcp/internal/domain/repository"
)

const (
	connectTimeout = 5 * time.Second
	clientName     = "travel-discovery-mcp"
)

// Client - подключение к Redis, через которое идёт стрим записей о вызовах инструментов
type Client struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// Connect открывает подключение и проверяет его PING в пределах ctx и connectTimeout
func Connect(ctx context.Context, cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	rdb := redis.NewClient(&redis.Options{
		Addr:       addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		ClientName: clientName,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}

	logger = logger.With(zap.String("redis_addr", addr))
	logger.Info("Redis connected", zap.Int("db", cfg.DB))

	return &Client{rdb: rdb, logger: logger}, nil
}

// Streams - репозиторий стримов поверх этого подключения
func (c *Client) Streams(block time.Duration) repository.StreamRepository {
	return NewStreamRepository(c.rdb, block, c.logger)
}

func (c *Client) Close() error {
	c.logger.Info("Closing Redis connection")
	return c.rdb.Close()
}
