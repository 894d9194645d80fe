package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hexaciphers/hexaciphers/internal/application/analysis"
	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/hexaciphers/hexaciphers/pkg/ports"
	"go.uber.org/zap"
)

// Post processing outcomes recorded in metrics
const (
	ProcessStatusSuccess = "success"
	ProcessStatusFailed  = "failed"
	ProcessStatusSkipped = "skipped"
)

// Pool manages a pool of worker goroutines that classify ingested posts
type Pool struct {
	size       int
	eventBus   ports.EventBus
	store      ports.Store
	cache      ports.Cache
	classifier ports.Classifier
	processor  *analysis.TextProcessor
	metrics    ports.MetricsCollector
	logger     *zap.Logger
	health     *HealthMonitor

	jobs    chan int64
	workers []*worker
	counts  outcomeCounts
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// outcomeCounts tallies processed posts since the pool started
type outcomeCounts struct {
	classified     atomic.Int64
	failed         atomic.Int64
	skipped        atomic.Int64
	antiIndia      atomic.Int64
	lastClassified atomic.Int64 // unix nanos
}

func (c *outcomeCounts) record(status string) {
	switch status {
	case ProcessStatusSuccess:
		c.classified.Add(1)
		c.lastClassified.Store(time.Now().UnixNano())
	case ProcessStatusFailed:
		c.failed.Add(1)
	case ProcessStatusSkipped:
		c.skipped.Add(1)
	}
}

// worker represents a single worker goroutine
type worker struct {
	id      string
	pool    *Pool
	status  WorkerStatus
	mu      sync.RWMutex
	lastJob time.Time
}

// WorkerStatus represents worker status
type WorkerStatus string

const (
	WorkerStatusIdle    WorkerStatus = "idle"
	WorkerStatusBusy    WorkerStatus = "busy"
	WorkerStatusStopped WorkerStatus = "stopped"
)

// NewPool creates a new worker pool
func NewPool(
	size int,
	queueSize int,
	eventBus ports.EventBus,
	store ports.Store,
	cache ports.Cache,
	classifier ports.Classifier,
	processor *analysis.TextProcessor,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
	healthCheckInterval time.Duration,
) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	pool := &Pool{
		size:       size,
		eventBus:   eventBus,
		store:      store,
		cache:      cache,
		classifier: classifier,
		processor:  processor,
		metrics:    metrics,
		logger:     logger,
		jobs:       make(chan int64, queueSize),
		workers:    make([]*worker, size),
		ctx:        ctx,
		cancel:     cancel,
	}

	pool.health = NewHealthMonitor(pool, healthCheckInterval, logger)

	return pool
}

// Start subscribes to post events and starts the workers
func (p *Pool) Start() error {
	p.logger.Info("starting worker pool", zap.Int("size", p.size))

	if err := p.eventBus.Subscribe(p.ctx, domain.TopicPosts, p.enqueue); err != nil {
		return fmt.Errorf("failed to subscribe to post events: %w", err)
	}

	for i := 0; i < p.size; i++ {
		w := &worker{
			id:      fmt.Sprintf("worker-%d", i),
			pool:    p,
			status:  WorkerStatusIdle,
			lastJob: time.Now(),
		}
		p.workers[i] = w

		p.wg.Add(1)
		go w.run(p.ctx)
	}

	p.health.Start()

	p.logger.Info("worker pool started", zap.Int("workers", p.size))
	return nil
}

// Shutdown gracefully shuts down the worker pool
func (p *Pool) Shutdown(ctx context.Context) error {
	p.logger.Info("shutting down worker pool")

	p.health.Stop()
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool shut down complete")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout")
	}
}

// GetStatus returns the status of all workers
func (p *Pool) GetStatus() map[string]WorkerStatus {
	status := make(map[string]WorkerStatus)
	for _, w := range p.workers {
		if w == nil {
			continue
		}
		w.mu.RLock()
		status[w.id] = w.status
		w.mu.RUnlock()
	}
	return status
}

// enqueue hands ingested posts to the workers; other post events are ignored
func (p *Pool) enqueue(ctx context.Context, event domain.Event) error {
	if event.Type != domain.EventTypePostIngested {
		return nil
	}

	id, err := postID(event.Data["post_id"])
	if err != nil {
		return fmt.Errorf("event %s: %w", event.ID, err)
	}

	select {
	case p.jobs <- id:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// postID reads a post ID as decoded by either event bus
func postID(v interface{}) (int64, error) {
	switch id := v.(type) {
	case int64:
		return id, nil
	case int:
		return int64(id), nil
	case float64:
		return int64(id), nil
	case json.Number:
		return id.Int64()
	case string:
		return strconv.ParseInt(id, 10, 64)
	}
	return 0, fmt.Errorf("invalid post_id %v", v)
}

// run is the main worker loop
func (w *worker) run(ctx context.Context) {
	defer w.pool.wg.Done()

	w.pool.logger.Debug("worker started", zap.String("worker_id", w.id))

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.status = WorkerStatusStopped
			w.mu.Unlock()
			w.pool.logger.Debug("worker stopped", zap.String("worker_id", w.id))
			return
		case id := <-w.pool.jobs:
			w.handlePost(ctx, id)
		}
	}
}

// handlePost classifies a stored post and writes the labels back
func (w *worker) handlePost(ctx context.Context, id int64) {
	w.mu.Lock()
	w.status = WorkerStatusBusy
	w.lastJob = time.Now()
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.status = WorkerStatusIdle
		w.mu.Unlock()
	}()

	start := time.Now()
	status := ProcessStatusSuccess
	defer func() {
		w.pool.counts.record(status)
		w.pool.metrics.RecordPostProcessed(status, time.Since(start))
	}()

	post, err := w.pool.store.GetPost(ctx, id)
	if err != nil {
		status = ProcessStatusFailed
		if errors.Is(err, domain.ErrNotFound) {
			w.pool.logger.Warn("queued post not found",
				zap.String("worker_id", w.id),
				zap.Int64("post_id", id))
			return
		}
		w.pool.logger.Error("failed to load post",
			zap.String("worker_id", w.id),
			zap.Int64("post_id", id),
			zap.Error(err))
		return
	}

	if post.Analyzed() {
		status = ProcessStatusSkipped
		return
	}

	result, err := w.pool.classifier.Classify(ctx, post.Content)
	if err != nil {
		status = ProcessStatusFailed
		w.pool.logger.Error("classification failed",
			zap.String("worker_id", w.id),
			zap.Int64("post_id", id),
			zap.Error(err))
		return
	}

	post.Sentiment = result.Sentiment.Sentiment
	post.Classification = result.IndiaClassification.Classification
	post.Language = w.pool.processor.DetectLanguage(post.Content)
	if translated := w.pool.processor.Translate(post.Content); translated != post.Content {
		post.TranslatedText = translated
	}

	if err := w.pool.store.UpdatePostAnalysis(ctx, post); err != nil {
		status = ProcessStatusFailed
		w.pool.logger.Error("failed to save post analysis",
			zap.String("worker_id", w.id),
			zap.Int64("post_id", id),
			zap.Error(err))
		return
	}

	w.pool.metrics.RecordClassification(w.pool.classifier.Name(), post.Sentiment, post.Classification)
	if post.Classification == domain.ClassificationAntiIndia {
		w.pool.counts.antiIndia.Add(1)
	}
	if err := w.pool.cache.Delete(ctx, domain.StatsCacheKey); err != nil {
		w.pool.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}

	w.publishClassified(ctx, post)

	w.pool.logger.Debug("post classified",
		zap.String("worker_id", w.id),
		zap.Int64("post_id", id),
		zap.String("sentiment", string(post.Sentiment)),
		zap.String("classification", string(post.Classification)),
		zap.Duration("duration", time.Since(start)))
}

// publishClassified publishes a post.classified event
func (w *worker) publishClassified(ctx context.Context, post *domain.Post) {
	event := domain.Event{
		ID:        uuid.New().String(),
		Type:      domain.EventTypePostClassified,
		Timestamp: time.Now().UTC(),
		Data: map[string]interface{}{
			"post_id":        post.ID,
			"sentiment":      string(post.Sentiment),
			"classification": string(post.Classification),
		},
	}

	if err := w.pool.eventBus.Publish(ctx, domain.TopicPosts, event); err != nil {
		w.pool.logger.Error("failed to publish event",
			zap.String("worker_id", w.id),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
