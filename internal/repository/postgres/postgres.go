package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/config"
)

const (
	driverPgx = "pgx"
	driverPq  = "postgres"

	connectTimeout = 5 * time.Second
)

// DB - пул соединений к базе, в которую пишется таблица tool_metrics
type DB struct {
	*sqlx.DB
	driver string
	logger *zap.Logger
}

// New открывает пул через драйвер из DB_DRIVER и проверяет соединение.
// Ожидание ограничено ctx и connectTimeout.
func New(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s pool: %w", cfg.Driver, err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach tool metrics database at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	logger = logger.With(zap.String("driver", cfg.Driver))
	logger.Info("Tool metrics database connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName),
		zap.Int("max_conns", cfg.MaxConns),
	)

	return &DB{DB: db, driver: cfg.Driver, logger: logger}, nil
}

// buildDSN - pgx получает URL, lib/pq строку key=value
func buildDSN(cfg *config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case driverPgx:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(cfg.User, cfg.Password),
			Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Path:   "/" + cfg.DBName,
		}
		if cfg.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
		}
		return u.String(), nil

	case driverPq:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			cfg.Host, cfg.Port, quoteValue(cfg.User), quoteValue(cfg.Password), quoteValue(cfg.DBName))
		if cfg.SSLMode != "" {
			dsn += " sslmode=" + cfg.SSLMode
		}
		return dsn, nil

	default:
		return "", fmt.Errorf("unsupported database driver %q, expected %q or %q", cfg.Driver, driverPgx, driverPq)
	}
}

// quoteValue экранирует значение для строки key=value lib/pq
func quoteValue(v string) string {
	if v == "" {
		return "''"
	}
	needQuote := false
	escaped := make([]rune, 0, len(v))
	for _, r := range v {
		switch r {
		case '\'', '\\':
			escaped = append(escaped, '\\')
			needQuote = true
		case ' ':
			needQuote = true
		}
		escaped = append(escaped, r)
	}
	if needQuote {
		return "'" + string(escaped) + "'"
	}
	return v
}

// Close закрывает пул и пишет итоговую статистику соединений
func (db *DB) Close() error {
	stats := db.Stats()
	db.logger.Info("Closing tool metrics database",
		zap.Int("open_connections", stats.OpenConnections),
		zap.Int64("wait_count", stats.WaitCount),
		zap.Duration("wait_duration", stats.WaitDuration),
	)
	return db.DB.Close()
}

func (db *DB) Health(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s ping: %w", db.driver, err)
	}
	return nil
}

// NewDBForTest оборачивает готовое соединение, например sqlmock
func NewDBForTest(sqlxDB *sqlx.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{
		DB:     sqlxDB,
		driver: sqlxDB.DriverName(),
		logger: logger,
	}
}
