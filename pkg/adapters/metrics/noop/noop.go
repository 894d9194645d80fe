// Package noop provides a MetricsCollector that discards everything, for
// CLI commands and tests.
package noop

import (
	"time"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
)

// Collector discards all metrics
type Collector struct{}

// NewCollector creates a no-op collector
func NewCollector() *Collector {
	return &Collector{}
}

func (*Collector) RecordRequest(method, route string, status int, duration time.Duration) {}

func (*Collector) RecordClassification(model string, sentiment domain.Sentiment, classification domain.Classification) {
}

func (*Collector) RecordPostsCollected(platform domain.Platform, count int) {}

func (*Collector) RecordCampaignsDetected(count int, duration time.Duration) {}

func (*Collector) RecordAlert(alertType domain.AlertType, severity domain.Severity) {}

func (*Collector) RecordCacheLookup(hit bool) {}

func (*Collector) RecordWorkerPoolStatus(idle, busy, stopped int) {}

func (*Collector) RecordPostProcessed(status string, duration time.Duration) {}

func (*Collector) RecordLLMCall(model, status string, duration time.Duration) {}
