package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scanner periodically runs campaign detection and alert evaluation
type Scanner struct {
	manager  *Manager
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScanner creates a scanner; each pass is bounded by timeout when positive
func NewScanner(manager *Manager, interval, timeout time.Duration, logger *zap.Logger) *Scanner {
	return &Scanner{
		manager:  manager,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Start starts the scan loop
func (s *Scanner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})

	s.wg.Add(1)
	go s.run(s.stopCh)

	s.logger.Info("campaign scanner started", zap.Duration("interval", s.interval))
}

// Stop stops the scan loop and waits for an in-flight pass to finish
func (s *Scanner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("campaign scanner stopped")
}

func (s *Scanner) run(stopCh <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.scan(stopCh)
		}
	}
}

// scan runs one pass; closing stopCh cancels it
func (s *Scanner) scan(stopCh <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := ctx.Done()
	go func() {
		select {
		case <-stopCh:
			cancel()
		case <-done:
		}
	}()

	if s.timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, s.timeout)
		defer cancelTimeout()
	}

	result, err := s.manager.RunScan(ctx)
	if err != nil {
		s.logger.Error("scheduled scan failed", zap.Error(err))
		return
	}

	s.logger.Info("scheduled scan completed",
		zap.Int("campaigns", len(result.Campaigns)),
		zap.Int("alerts", len(result.Alerts)))
}
