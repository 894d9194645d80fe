package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// backlogWarnRatio is the queue fill level that triggers a backlog warning
const backlogWarnRatio = 0.8

// HealthMonitor periodically reports classification progress of the pool
type HealthMonitor struct {
	pool     *Pool
	interval time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// totals seen by the previous check
	lastClassified int64
	lastFailed     int64
}

// HealthStatus describes the worker pool and its classification backlog
type HealthStatus struct {
	TotalWorkers   int `json:"total_workers"`
	IdleWorkers    int `json:"idle_workers"`
	BusyWorkers    int `json:"busy_workers"`
	StoppedWorkers int `json:"stopped_workers"`

	// QueuedPosts are ingested posts waiting for a free worker
	QueuedPosts   int `json:"queued_posts"`
	QueueCapacity int `json:"queue_capacity"`
	// PendingAnalysis counts posts still without labels: queued plus in flight
	PendingAnalysis int `json:"pending_analysis"`

	PostsClassified     int64     `json:"posts_classified"`
	PostsFailed         int64     `json:"posts_failed"`
	PostsSkipped        int64     `json:"posts_skipped"`
	AntiIndiaClassified int64     `json:"anti_india_classified"`
	LastClassifiedAt    time.Time `json:"last_classified_at,omitempty"`

	Healthy   bool      `json:"healthy"`
	Timestamp time.Time `json:"timestamp"`
}

// BacklogRatio is how full the classification queue is, from 0 to 1
func (s *HealthStatus) BacklogRatio() float64 {
	if s.QueueCapacity == 0 {
		return 0
	}
	return float64(s.QueuedPosts) / float64(s.QueueCapacity)
}

// NewHealthMonitor creates a new health monitor
func NewHealthMonitor(pool *Pool, interval time.Duration, logger *zap.Logger) *HealthMonitor {
	return &HealthMonitor{
		pool:     pool,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start starts the health monitor
func (h *HealthMonitor) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running || h.interval <= 0 {
		return
	}
	h.running = true

	h.wg.Add(1)
	go h.run()
}

// Stop stops the health monitor
func (h *HealthMonitor) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	close(h.stopCh)
	h.mu.Unlock()

	h.wg.Wait()
}

func (h *HealthMonitor) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
			h.checkHealth()
		}
	}
}

// checkHealth logs classification progress, records pool gauges and warns
// when the backlog stalls or posts start failing
func (h *HealthMonitor) checkHealth() {
	status := h.GetStatus()

	h.logger.Debug("classification pool health check",
		zap.Int("busy", status.BusyWorkers),
		zap.Int("idle", status.IdleWorkers),
		zap.Int("pending_analysis", status.PendingAnalysis),
		zap.Int64("classified", status.PostsClassified),
		zap.Int64("anti_india", status.AntiIndiaClassified),
		zap.Int64("failed", status.PostsFailed),
		zap.Bool("healthy", status.Healthy))

	h.pool.metrics.RecordWorkerPoolStatus(
		status.IdleWorkers,
		status.BusyWorkers,
		status.StoppedWorkers,
	)

	if !status.Healthy {
		h.logger.Warn("classification pool is unhealthy",
			zap.Int("stopped", status.StoppedWorkers),
			zap.Int("total", status.TotalWorkers))
	}

	if status.BacklogRatio() >= backlogWarnRatio {
		h.logger.Warn("classification backlog near capacity, consider raising WORKER_POOL_SIZE",
			zap.Int("queued", status.QueuedPosts),
			zap.Int("capacity", status.QueueCapacity))
	}

	h.mu.Lock()
	newFailures := status.PostsFailed - h.lastFailed
	progressed := status.PostsClassified > h.lastClassified
	h.lastFailed = status.PostsFailed
	h.lastClassified = status.PostsClassified
	h.mu.Unlock()

	if newFailures > 0 {
		h.logger.Warn("posts failed classification since last check",
			zap.Int64("failed", newFailures),
			zap.String("classifier", h.pool.classifier.Name()))
	}
	if status.QueuedPosts > 0 && !progressed {
		h.logger.Warn("classification stalled with posts waiting",
			zap.Int("queued", status.QueuedPosts),
			zap.Time("last_classified_at", status.LastClassifiedAt))
	}
}

// GetStatus returns the current health status
func (h *HealthMonitor) GetStatus() *HealthStatus {
	workerStatuses := h.pool.GetStatus()

	var idle, busy, stopped int
	for _, status := range workerStatuses {
		switch status {
		case WorkerStatusIdle:
			idle++
		case WorkerStatusBusy:
			busy++
		case WorkerStatusStopped:
			stopped++
		}
	}

	total := len(workerStatuses)
	queued := len(h.pool.jobs)
	counts := &h.pool.counts

	status := &HealthStatus{
		TotalWorkers:        total,
		IdleWorkers:         idle,
		BusyWorkers:         busy,
		StoppedWorkers:      stopped,
		QueuedPosts:         queued,
		QueueCapacity:       cap(h.pool.jobs),
		PendingAnalysis:     queued + busy,
		PostsClassified:     counts.classified.Load(),
		PostsFailed:         counts.failed.Load(),
		PostsSkipped:        counts.skipped.Load(),
		AntiIndiaClassified: counts.antiIndia.Load(),
		Timestamp:           time.Now(),
	}
	if last := counts.lastClassified.Load(); last > 0 {
		status.LastClassifiedAt = time.Unix(0, last).UTC()
	}
	status.Healthy = total > 0 && stopped == 0 && status.BacklogRatio() < 1
	return status
}

// IsHealthy returns true if the worker pool is healthy
func (h *HealthMonitor) IsHealthy() bool {
	return h.GetStatus().Healthy
}
