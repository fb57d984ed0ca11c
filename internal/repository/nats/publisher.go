package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/config"
	"github.com/travel-discovery-mcp/internal/domain"
	"github.com/travel-discovery-mcp/internal/domain/repository"
)

// Conn - часть *nats.Conn, нужная для публикации
type Conn interface {
	Publish(subject string, data []byte) error
}

// Client - соединение с NATS
type Client struct {
	nc     *nats.Conn
	logger *zap.Logger
}

func Connect(cfg *config.NATSConfig, logger *zap.Logger) (*Client, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name("travel-discovery-mcp"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	logger.Info("NATS connected", zap.String("url", nc.ConnectedUrl()))
	return &Client{nc: nc, logger: logger}, nil
}

func (c *Client) Conn() *nats.Conn {
	return c.nc
}

func (c *Client) Close() {
	if c.nc == nil {
		return
	}
	if err := c.nc.Drain(); err != nil {
		c.logger.Warn("Failed to drain NATS connection", zap.Error(err))
	}
	c.nc.Close()
}

type metricsPublisher struct {
	conn    Conn
	subject string
}

// NewMetricsPublisher - запись публикуется в subject.<tool_name>
func NewMetricsPublisher(conn Conn, subject string) repository.MetricsRepository {
	return &metricsPublisher{conn: conn, subject: subject}
}

func (p *metricsPublisher) Save(_ context.Context, metric *domain.ToolMetric) error {
	b, err := json.Marshal(metric)
	if err != nil {
		return fmt.Errorf("failed to marshal tool metric: %w", err)
	}

	subject := p.subject + "." + subjectToken(metric.ToolName)
	if err := p.conn.Publish(subject, b); err != nil {
		return fmt.Errorf("failed to publish tool metric: %w", err)
	}
	return nil
}

// subjectToken - токен subject не может содержать пробелы, '.', '*' и '>'
func subjectToken(s string) string {
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "\t", "_")
	s = repl.Replace(strings.TrimSpace(s))
	if s == "" {
		s = "_"
	}
	return s
}
