package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/travel-discovery-mcp/internal/domain"
)

// Collector - метрики процесса в формате Prometheus
type Collector struct {
	reg *prometheus.Registry

	ToolInvocations *prometheus.CounterVec   // labels: tool, status
	ToolDuration    *prometheus.HistogramVec // labels: tool
	ToolResults     *prometheus.HistogramVec // labels: tool

	UpstreamRequests *prometheus.CounterVec   // labels: endpoint, code
	UpstreamLatency  *prometheus.HistogramVec // labels: endpoint

	MetricRecordsDropped prometheus.Counter
	MetricRecordsFailed  prometheus.Counter
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		ToolInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travel_tool_invocations_total",
			Help: "Total tool invocations by outcome.",
		}, []string{"tool", "status"}),
		ToolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travel_tool_duration_seconds",
			Help:    "Wall-clock duration of tool invocations.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		}, []string{"tool"}),
		ToolResults: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travel_tool_result_count",
			Help:    "Number of results returned by successful tool invocations.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}, []string{"tool"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travel_upstream_requests_total",
			Help: "Upstream discovery API requests by endpoint and status code (0 for transport errors).",
		}, []string{"endpoint", "code"}),
		UpstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travel_upstream_latency_seconds",
			Help:    "Latency of upstream discovery API requests.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"endpoint"}),
		MetricRecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travel_metric_records_dropped_total",
			Help: "Tool metric records dropped because the recorder buffer was full.",
		}),
		MetricRecordsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travel_metric_records_failed_total",
			Help: "Tool metric records the configured sink failed to store.",
		}),
	}

	reg.MustRegister(
		c.ToolInvocations, c.ToolDuration, c.ToolResults,
		c.UpstreamRequests, c.UpstreamLatency,
		c.MetricRecordsDropped, c.MetricRecordsFailed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Registry - доступ к реестру (для тестов и дополнительных коллекторов)
func (c *Collector) Registry() *prometheus.Registry {
	return c.reg
}

// Record учитывает вызов инструмента
func (c *Collector) Record(_ context.Context, m domain.ToolMetric) {
	c.ToolInvocations.WithLabelValues(m.ToolName, string(m.Status)).Inc()
	c.ToolDuration.WithLabelValues(m.ToolName).Observe(m.DurationSeconds)
	if m.ResultCount != nil {
		c.ToolResults.WithLabelValues(m.ToolName).Observe(float64(*m.ResultCount))
	}
}

// ObserveUpstream учитывает запрос к upstream API. statusCode 0 - транспортная ошибка.
func (c *Collector) ObserveUpstream(endpoint string, statusCode int, d time.Duration) {
	c.UpstreamRequests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	c.UpstreamLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (c *Collector) MetricDroppedInc() {
	c.MetricRecordsDropped.Inc()
}

func (c *Collector) MetricFailedInc() {
	c.MetricRecordsFailed.Inc()
}
