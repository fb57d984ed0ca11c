package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "github.com/travel-discovery-mcp/internal/pkg/errors"
)

// Поддерживаемые приёмники метрик вызовов инструментов
const (
	MetricsSinkLog      = "log"
	MetricsSinkPostgres = "postgres"
	MetricsSinkRedis    = "redis"
	MetricsSinkNATS     = "nats"
	MetricsSinkNone     = "none"
)

type Config struct {
	Server    ServerConfig
	Discovery DiscoveryConfig
	Search    SearchConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Metrics   MetricsConfig
	Log       LogConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// DiscoveryConfig - настройки upstream API
type DiscoveryConfig struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	UserAgent string
	Endpoints EndpointsConfig
}

// EndpointsConfig - пути эндпоинтов upstream API
type EndpointsConfig struct {
	Positions       string
	DayResults      string
	CalendarPrices  string
	CheapestSummary string
	FastestSummary  string
}

// SearchConfig - значения по умолчанию для параметров инструментов
type SearchConfig struct {
	DefaultLocale   string
	DefaultCurrency string
	MaxResults      int
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type NATSConfig struct {
	URL     string
	Subject string
}

// MetricsConfig - куда отправлять записи о вызовах инструментов
type MetricsConfig struct {
	Sink       string
	BufferSize int
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	BatchSize         int
	StreamReadTimeout time.Duration
	PendingMinIdle    time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8000)
	v.SetDefault("API_ENV", "development")

	v.SetDefault("DISCOVERY_TIMEOUT", 10)
	v.SetDefault("DISCOVERY_USER_AGENT", "mcp-travel-server/1.0")
	v.SetDefault("DISCOVERY_POSITION_ENDPOINT", "/nemo/position/suggest")
	v.SetDefault("DISCOVERY_DAY_RESULTS_ENDPOINT", "/v2/discovery/results")
	v.SetDefault("DISCOVERY_CALENDAR_PRICES_ENDPOINT", "/v2/discovery/price-calendar")
	v.SetDefault("DISCOVERY_CHEAPEST_SUMMARY_ENDPOINT", "/v2/discovery/results/summary/cheapest")
	v.SetDefault("DISCOVERY_FASTEST_SUMMARY_ENDPOINT", "/v2/discovery/results/summary/fastest")

	v.SetDefault("DEFAULT_LOCALE", "en")
	v.SetDefault("DEFAULT_CURRENCY", "EUR")
	v.SetDefault("MAX_RESULTS", 20)

	v.SetDefault("DB_DRIVER", "pgx")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)

	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("NATS_SUBJECT", "travel.tool.metrics")

	v.SetDefault("METRICS_SINK", MetricsSinkLog)
	v.SetDefault("METRICS_BUFFER_SIZE", 256)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("WORKER_CONSUMER_GROUP", "tool-metrics-writers")
	v.SetDefault("WORKER_BATCH_SIZE", 50)
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 2000)
	v.SetDefault("WORKER_PENDING_MIN_IDLE", 30000)
}

// Load - загрузка конфигурации из .env (если есть) и переменных окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile - загрузка конфигурации из указанного файла и окружения.
// Отсутствующий файл не считается ошибкой.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewConfigurationError("failed to read config", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		Discovery: DiscoveryConfig{
			BaseURL:   strings.TrimRight(v.GetString("DISCOVERY_BASE_URL"), "/"),
			APIKey:    v.GetString("DISCOVERY_API_KEY"),
			Timeout:   time.Duration(v.GetInt("DISCOVERY_TIMEOUT")) * time.Second,
			UserAgent: v.GetString("DISCOVERY_USER_AGENT"),
			Endpoints: EndpointsConfig{
				Positions:       v.GetString("DISCOVERY_POSITION_ENDPOINT"),
				DayResults:      v.GetString("DISCOVERY_DAY_RESULTS_ENDPOINT"),
				CalendarPrices:  v.GetString("DISCOVERY_CALENDAR_PRICES_ENDPOINT"),
				CheapestSummary: v.GetString("DISCOVERY_CHEAPEST_SUMMARY_ENDPOINT"),
				FastestSummary:  v.GetString("DISCOVERY_FASTEST_SUMMARY_ENDPOINT"),
			},
		},
		Search: SearchConfig{
			DefaultLocale:   v.GetString("DEFAULT_LOCALE"),
			DefaultCurrency: v.GetString("DEFAULT_CURRENCY"),
			MaxResults:      v.GetInt("MAX_RESULTS"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("DB_DRIVER"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		NATS: NATSConfig{
			URL:     v.GetString("NATS_URL"),
			Subject: v.GetString("NATS_SUBJECT"),
		},
		Metrics: MetricsConfig{
			Sink:       strings.ToLower(strings.TrimSpace(v.GetString("METRICS_SINK"))),
			BufferSize: v.GetInt("METRICS_BUFFER_SIZE"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			BatchSize:         v.GetInt("WORKER_BATCH_SIZE"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			PendingMinIdle:    time.Duration(v.GetInt("WORKER_PENDING_MIN_IDLE")) * time.Millisecond,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate - проверка обязательных параметров, ошибки фатальны при старте
func (c *Config) Validate() error {
	if c.Discovery.BaseURL == "" {
		return apperrors.NewConfigurationError("DISCOVERY_BASE_URL is required", nil)
	}
	u, err := url.Parse(c.Discovery.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("DISCOVERY_BASE_URL is not a valid absolute URL: %q", c.Discovery.BaseURL), err)
	}
	if c.Discovery.Timeout <= 0 {
		return apperrors.NewConfigurationError("DISCOVERY_TIMEOUT must be positive", nil)
	}

	switch c.Metrics.Sink {
	case MetricsSinkLog, MetricsSinkPostgres, MetricsSinkRedis, MetricsSinkNATS, MetricsSinkNone:
	default:
		return apperrors.NewConfigurationError(fmt.Sprintf("unknown METRICS_SINK %q", c.Metrics.Sink), nil)
	}
	if c.Metrics.BufferSize <= 0 {
		c.Metrics.BufferSize = 256
	}

	switch c.Database.Driver {
	case "pgx", "postgres":
	default:
		return apperrors.NewConfigurationError(fmt.Sprintf("unsupported DB_DRIVER %q", c.Database.Driver), nil)
	}

	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 20
	}

	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
