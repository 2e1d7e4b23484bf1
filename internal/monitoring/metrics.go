package monitoring

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const (
	metricsNamespace = "edubloom"
	meterName        = "github.com/ZanzyTHEbar/edubloom-ai"
	maxResponseTimes = 1000
)

// Metrics holds in-process counters for /health and the OpenTelemetry
// instruments exported on /metrics.
type Metrics struct {
	RequestCount    int64
	ErrorCount      int64
	PredictCount    int64
	ExplainCount    int64
	RetrainCount    int64
	SamplesIngested int64
	StartTime       time.Time

	responseTimes      []time.Duration
	responseTimesMutex sync.RWMutex

	requestCountByStatus map[int]int64
	statusMutex          sync.RWMutex

	provider *sdkmetric.MeterProvider
	registry *prometheus.Registry

	requests        metric.Int64Counter
	requestDuration metric.Float64Histogram
	riskScores      metric.Float64Histogram
	samples         metric.Int64Counter
}

// NewMetrics creates the metrics instance with its own Prometheus registry,
// so several instances (one per test router) never collide.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
		promexporter.WithNamespace(metricsNamespace),
		promexporter.WithoutScopeInfo(),
	)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(meterName)

	m := &Metrics{
		StartTime:            time.Now(),
		responseTimes:        make([]time.Duration, 0, maxResponseTimes),
		requestCountByStatus: make(map[int]int64),
		provider:             provider,
		registry:             registry,
	}

	if m.requests, err = meter.Int64Counter("http_requests",
		metric.WithDescription("HTTP requests served, by route and status")); err != nil {
		return nil, err
	}
	if m.requestDuration, err = meter.Float64Histogram("http_request_duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.riskScores, err = meter.Float64Histogram("risk_score",
		metric.WithDescription("Risk scores returned, by endpoint"),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1)); err != nil {
		return nil, err
	}
	if m.samples, err = meter.Int64Counter("retrain_samples_ingested",
		metric.WithDescription("CSV rows acknowledged by the retrain endpoint")); err != nil {
		return nil, err
	}

	return m, nil
}

// Handler serves the Prometheus exposition format for this instance.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Shutdown flushes and stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}

// RecordRequest records one finished HTTP request
func (m *Metrics) RecordRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration) {
	atomic.AddInt64(&m.RequestCount, 1)
	if statusCode >= 400 {
		atomic.AddInt64(&m.ErrorCount, 1)
	}
	m.recordResponseTime(duration)

	m.statusMutex.Lock()
	m.requestCountByStatus[statusCode]++
	m.statusMutex.Unlock()

	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(statusCode)),
	)
	m.requests.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordScore records a risk score returned by predict or explain
func (m *Metrics) RecordScore(ctx context.Context, endpoint string, riskScore float64) {
	switch endpoint {
	case "explain":
		atomic.AddInt64(&m.ExplainCount, 1)
	default:
		atomic.AddInt64(&m.PredictCount, 1)
	}
	m.riskScores.Record(ctx, riskScore, metric.WithAttributes(attribute.String("endpoint", endpoint)))
}

// RecordRetrain records an acknowledged retrain upload
func (m *Metrics) RecordRetrain(ctx context.Context, samples int) {
	atomic.AddInt64(&m.RetrainCount, 1)
	atomic.AddInt64(&m.SamplesIngested, int64(samples))
	m.samples.Add(ctx, int64(samples))
}

func (m *Metrics) recordResponseTime(duration time.Duration) {
	m.responseTimesMutex.Lock()
	m.responseTimes = append(m.responseTimes, duration)
	if len(m.responseTimes) > maxResponseTimes {
		m.responseTimes = m.responseTimes[1:]
	}
	m.responseTimesMutex.Unlock()
}

// GetPercentileResponseTime calculates percentile response time over the
// most recent requests
func (m *Metrics) GetPercentileResponseTime(percentile float64) time.Duration {
	m.responseTimesMutex.RLock()
	times := make([]time.Duration, len(m.responseTimes))
	copy(times, m.responseTimes)
	m.responseTimesMutex.RUnlock()

	if len(times) == 0 {
		return 0
	}

	sort.Slice(times, func(i, j int) bool {
		return times[i] < times[j]
	})

	index := int(float64(len(times)-1) * percentile / 100.0)
	if index >= len(times) {
		index = len(times) - 1
	}
	return times[index]
}

// GetStatusCodeDistribution returns request count by status code
func (m *Metrics) GetStatusCodeDistribution() map[int]int64 {
	m.statusMutex.RLock()
	defer m.statusMutex.RUnlock()

	distribution := make(map[int]int64, len(m.requestCountByStatus))
	for code, count := range m.requestCountByStatus {
		distribution[code] = count
	}
	return distribution
}

// GetStats returns current metrics statistics
func (m *Metrics) GetStats() map[string]interface{} {
	requests := atomic.LoadInt64(&m.RequestCount)
	errors := atomic.LoadInt64(&m.ErrorCount)

	errorRate := float64(0)
	if requests > 0 {
		errorRate = float64(errors) / float64(requests) * 100
	}

	return map[string]interface{}{
		"uptime_seconds":           time.Since(m.StartTime).Seconds(),
		"start_time":               m.StartTime.Format(time.RFC3339),
		"total_requests":           requests,
		"error_count":              errors,
		"error_rate_percent":       errorRate,
		"predictions":              atomic.LoadInt64(&m.PredictCount),
		"explanations":             atomic.LoadInt64(&m.ExplainCount),
		"retrain_uploads":          atomic.LoadInt64(&m.RetrainCount),
		"samples_ingested":         atomic.LoadInt64(&m.SamplesIngested),
		"p50_response_time_ms":     float64(m.GetPercentileResponseTime(50)) / 1e6,
		"p95_response_time_ms":     float64(m.GetPercentileResponseTime(95)) / 1e6,
		"p99_response_time_ms":     float64(m.GetPercentileResponseTime(99)) / 1e6,
		"status_code_distribution": m.GetStatusCodeDistribution(),
	}
}
