package prometheus

import (
	"strconv"
	"time"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements MetricsCollector using Prometheus
type Collector struct {
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	classifications   *prometheus.CounterVec
	postsCollected    *prometheus.CounterVec
	campaignsDetected prometheus.Counter
	detectionDuration prometheus.Histogram
	alertsRaised      *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	workerPoolIdle    prometheus.Gauge
	workerPoolBusy    prometheus.Gauge
	workerPoolStopped prometheus.Gauge
	postsProcessed    *prometheus.CounterVec
	processDuration   prometheus.Histogram
	llmCalls          *prometheus.CounterVec
	llmLatency        *prometheus.HistogramVec
}

// NewCollector creates a Prometheus metrics collector registered with reg.
// Pass prometheus.DefaultRegisterer to expose metrics through promhttp.Handler.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hexaciphers_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hexaciphers_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		),
		classifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hexaciphers_classifications_total",
				Help: "Total number of texts classified",
			},
			[]string{"model", "sentiment", "classification"},
		),
		postsCollected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hexaciphers_posts_collected_total",
				Help: "Total number of posts collected",
			},
			[]string{"platform"},
		),
		campaignsDetected: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hexaciphers_campaigns_detected_total",
				Help: "Total number of campaigns detected",
			},
		),
		detectionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hexaciphers_campaign_detection_duration_seconds",
				Help:    "Campaign detection duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
		),
		alertsRaised: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hexaciphers_alerts_raised_total",
				Help: "Total number of alerts raised",
			},
			[]string{"type", "severity"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hexaciphers_cache_lookups_total",
				Help: "Total number of cache lookups",
			},
			[]string{"result"},
		),
		workerPoolIdle: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "hexaciphers_worker_pool_idle",
				Help: "Number of idle workers",
			},
		),
		workerPoolBusy: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "hexaciphers_worker_pool_busy",
				Help: "Number of busy workers",
			},
		),
		workerPoolStopped: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "hexaciphers_worker_pool_stopped",
				Help: "Number of stopped workers",
			},
		),
		postsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hexaciphers_posts_processed_total",
				Help: "Total number of posts processed by workers",
			},
			[]string{"status"},
		),
		processDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hexaciphers_post_processing_duration_seconds",
				Help:    "Post processing duration in seconds",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 20},
			},
		),
		llmCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hexaciphers_llm_calls_total",
				Help: "Total number of LLM API calls",
			},
			[]string{"model", "status"},
		),
		llmLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hexaciphers_llm_latency_seconds",
				Help:    "LLM API call latency in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20},
			},
			[]string{"model"},
		),
	}
}

// RecordRequest records a served HTTP request
func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordClassification records a classified text
func (c *Collector) RecordClassification(model string, sentiment domain.Sentiment, classification domain.Classification) {
	c.classifications.WithLabelValues(model, string(sentiment), string(classification)).Inc()
}

// RecordPostsCollected adds collected posts for a platform
func (c *Collector) RecordPostsCollected(platform domain.Platform, count int) {
	c.postsCollected.WithLabelValues(string(platform)).Add(float64(count))
}

// RecordCampaignsDetected records one detection run
func (c *Collector) RecordCampaignsDetected(count int, duration time.Duration) {
	c.campaignsDetected.Add(float64(count))
	c.detectionDuration.Observe(duration.Seconds())
}

// RecordAlert records a raised alert
func (c *Collector) RecordAlert(alertType domain.AlertType, severity domain.Severity) {
	c.alertsRaised.WithLabelValues(string(alertType), string(severity)).Inc()
}

// RecordCacheLookup records a cache hit or miss
func (c *Collector) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// RecordWorkerPoolStatus records worker pool status
func (c *Collector) RecordWorkerPoolStatus(idle, busy, stopped int) {
	c.workerPoolIdle.Set(float64(idle))
	c.workerPoolBusy.Set(float64(busy))
	c.workerPoolStopped.Set(float64(stopped))
}

// RecordPostProcessed records a post handled by a worker
func (c *Collector) RecordPostProcessed(status string, duration time.Duration) {
	c.postsProcessed.WithLabelValues(status).Inc()
	c.processDuration.Observe(duration.Seconds())
}

// RecordLLMCall records an LLM API call and its latency
func (c *Collector) RecordLLMCall(model, status string, duration time.Duration) {
	c.llmCalls.WithLabelValues(model, status).Inc()
	c.llmLatency.WithLabelValues(model).Observe(duration.Seconds())
}
