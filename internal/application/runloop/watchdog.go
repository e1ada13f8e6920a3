package runloop

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Monitored is the component the watchdog inspects on the loop
type Monitored interface {
	// Outstanding reports whether an action or settle delay is in flight
	Outstanding() bool

	// StateAge returns how long the component has been in its current state
	StateAge() time.Duration
}

// StallRecorder counts detected stalls
type StallRecorder interface {
	RecordStall()
}

// Watchdog flags actions that never completed and an unresponsive loop
type Watchdog struct {
	loop     *Loop
	target   Monitored
	metrics  StallRecorder
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	status  HealthStatus
}

// HealthStatus represents the outcome of the last check
type HealthStatus struct {
	Responsive  bool          `json:"responsive"`
	Outstanding bool          `json:"outstanding"`
	Stalled     bool          `json:"stalled"`
	StateAge    time.Duration `json:"state_age"`
	Healthy     bool          `json:"healthy"`
	Timestamp   time.Time     `json:"timestamp"`
}

// NewWatchdog creates a watchdog checking target every interval.
// An outstanding action older than timeout counts as stalled.
func NewWatchdog(loop *Loop, target Monitored, metrics StallRecorder, interval, timeout time.Duration, logger *zap.Logger) *Watchdog {
	return &Watchdog{
		loop:     loop,
		target:   target,
		metrics:  metrics,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
		stopCh:   make(chan struct{}),
		status:   HealthStatus{Responsive: true, Healthy: true, Timestamp: time.Now()},
	}
}

// Start starts the watchdog
func (w *Watchdog) Start() {
	w.mu.Lock()
	if w.running || w.interval <= 0 {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run()
}

// Stop stops the watchdog
func (w *Watchdog) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
}

func (w *Watchdog) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

type reading struct {
	outstanding bool
	age         time.Duration
}

// check inspects the target on the loop and records the result
func (w *Watchdog) check() {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	// the task may still run after Do gives up, so it only hands its
	// reading over through the buffered channel
	readings := make(chan reading, 1)
	err := w.loop.Do(ctx, func() {
		readings <- reading{
			outstanding: w.target.Outstanding(),
			age:         w.target.StateAge(),
		}
	})

	var r reading
	if err == nil {
		r = <-readings
	}
	outstanding, age := r.outstanding, r.age

	next := HealthStatus{
		Responsive:  err == nil,
		Outstanding: outstanding,
		StateAge:    age,
		Timestamp:   time.Now(),
	}
	next.Stalled = next.Responsive && outstanding && w.timeout > 0 && age > w.timeout
	next.Healthy = next.Responsive && !next.Stalled

	w.mu.Lock()
	wasStalled := w.status.Stalled
	w.status = next
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("run loop unresponsive", zap.Error(err))
		return
	}

	if next.Stalled && !wasStalled {
		w.metrics.RecordStall()
		w.logger.Warn("action outstanding past timeout, actor may never raise action end",
			zap.Duration("state_age", age),
			zap.Duration("timeout", w.timeout))
	}

	w.logger.Debug("run loop health check",
		zap.Bool("outstanding", outstanding),
		zap.Duration("state_age", age),
		zap.Bool("healthy", next.Healthy))
}

// GetStatus returns the result of the last check
func (w *Watchdog) GetStatus() HealthStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

// IsHealthy returns true if the last check passed
func (w *Watchdog) IsHealthy() bool {
	return w.GetStatus().Healthy
}
