package prometheus

import (
	"testing"
	"time"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorRecords(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordRequest("GET", "/api/stats", 200, 10*time.Millisecond)
	c.RecordRequest("GET", "/api/stats", 200, 20*time.Millisecond)
	c.RecordPostsCollected(domain.PlatformTwitter, 5)
	c.RecordAlert(domain.AlertTrendingNegative, domain.SeverityHigh)
	c.RecordCacheLookup(true)
	c.RecordCacheLookup(false)
	c.RecordCacheLookup(false)
	c.RecordCampaignsDetected(3, time.Second)
	c.RecordWorkerPoolStatus(2, 1, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/api/stats", "200")))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.postsCollected.WithLabelValues("Twitter")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.alertsRaised.WithLabelValues("trending_negative", "high")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.campaignsDetected))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.workerPoolIdle))
}

func TestCollectorSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCollector(prometheus.NewRegistry())
		NewCollector(prometheus.NewRegistry())
	})
}
