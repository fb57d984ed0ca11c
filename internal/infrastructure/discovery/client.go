package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/config"
	"github.com/travel-discovery-mcp/internal/domain/repository"
	apperrors "github.com/travel-discovery-mcp/internal/pkg/errors"
)

const (
	// maxErrorBody - сколько байт тела ответа сохранять в ошибке
	maxErrorBody = 512
	// maxResponseBody - предел размера ответа upstream
	maxResponseBody = 16 << 20
)

// LatencyObserver получает задержку каждого запроса. statusCode 0 - транспортная ошибка.
type LatencyObserver interface {
	ObserveUpstream(endpoint string, statusCode int, d time.Duration)
}

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	observer   LatencyObserver
	maxBody    int64
	logger     *zap.Logger
}

// NewClient создает клиент upstream API. apiKey может быть пустым.
func NewClient(cfg *config.DiscoveryConfig, apiKey string, observer LatencyObserver, logger *zap.Logger) repository.DiscoveryRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		apiKey:    apiKey,
		userAgent: cfg.UserAgent,
		observer:  observer,
		maxBody:   maxResponseBody,
		logger:    logger,
	}
}

// Get выполняет GET запрос и декодирует JSON ответ. Повторов нет.
func (c *client) Get(ctx context.Context, endpoint string, params url.Values) (interface{}, error) {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, apperrors.NewUpstreamUnavailable(fmt.Sprintf("failed to create request for %s", endpoint), err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	c.logger.Debug("Calling discovery API",
		zap.String("endpoint", endpoint),
		zap.String("query", params.Encode()))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(endpoint, 0, elapsed)
		c.logger.Error("Discovery API request failed",
			zap.String("endpoint", endpoint),
			zap.Duration("latency", elapsed),
			zap.Error(err))
		return nil, apperrors.NewUpstreamUnavailable(fmt.Sprintf("request to %s failed", endpoint), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	elapsed = time.Since(start)
	c.observe(endpoint, resp.StatusCode, elapsed)
	if err != nil {
		c.logger.Error("Failed to read response body",
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return nil, apperrors.NewUpstreamUnavailable(fmt.Sprintf("failed to read response from %s", endpoint), err)
	}
	if int64(len(body)) > c.maxBody {
		c.logger.Error("Discovery API response too large",
			zap.String("endpoint", endpoint),
			zap.Int64("limit_bytes", c.maxBody))
		return nil, apperrors.NewUpstreamUnavailable(fmt.Sprintf("response from %s exceeds %d bytes", endpoint, c.maxBody), nil)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		snippet := truncate(body, maxErrorBody)
		c.logger.Error("Discovery API returned error",
			zap.String("endpoint", endpoint),
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("latency", elapsed),
			zap.String("body", snippet))
		reason := fmt.Sprintf("%s returned status %d: %s", endpoint, resp.StatusCode, snippet)
		return nil, apperrors.NewUpstreamUnavailable(reason, nil).WithDetails(map[string]interface{}{
			"reason":      reason,
			"endpoint":    endpoint,
			"status_code": resp.StatusCode,
		})
	}

	var payload interface{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		c.logger.Error("Failed to decode response",
			zap.String("endpoint", endpoint),
			zap.String("body", truncate(body, maxErrorBody)),
			zap.Error(err))
		return nil, apperrors.NewUpstreamUnavailable(fmt.Sprintf("invalid JSON from %s", endpoint), err)
	}

	c.logger.Debug("Discovery API call successful",
		zap.String("endpoint", endpoint),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("latency", elapsed))

	return payload, nil
}

func (c *client) observe(endpoint string, statusCode int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(endpoint, statusCode, d)
	}
}

// truncate обрезает тело до limit байт, не разрывая UTF-8 символ
func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "..."
}
