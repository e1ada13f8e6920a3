package runloop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrStopped is returned when work is submitted to a loop that is not running
var ErrStopped = errors.New("run loop stopped")

// Status represents the loop status
type Status string

const (
	StatusIdle    Status = "idle"
	StatusBusy    Status = "busy"
	StatusStopped Status = "stopped"
)

// Loop serializes work onto one goroutine
type Loop struct {
	queue  chan func()
	logger *zap.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	started  bool
	status   Status
	lastTask time.Time
	tasks    uint64
}

// NewLoop creates a loop with a buffered queue of queueSize tasks
func NewLoop(queueSize int, logger *zap.Logger) *Loop {
	if queueSize < 1 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Loop{
		queue:  make(chan func(), queueSize),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		status: StatusIdle,
	}
}

// Start starts the loop goroutine
func (l *Loop) Start() {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	l.wg.Add(1)
	go l.run()

	l.logger.Info("run loop started", zap.Int("queue_size", cap(l.queue)))
}

// Post queues fn without waiting for it to run
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.ctx.Done():
		return ErrStopped
	default:
	}

	select {
	case l.queue <- fn:
		return nil
	case <-l.ctx.Done():
		return ErrStopped
	}
}

// Do runs fn on the loop and waits for it to return.
// Must not be called from the loop itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}

	select {
	case l.queue <- task:
	case <-ctx.Done():
		return fmt.Errorf("failed to queue task: %w", ctx.Err())
	case <-l.ctx.Done():
		return ErrStopped
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to wait for task: %w", ctx.Err())
	case <-l.ctx.Done():
		return ErrStopped
	}
}

// AfterFunc runs f on the loop once d has elapsed.
// Cancelling from the loop guarantees f does not run.
func (l *Loop) AfterFunc(d time.Duration, f func()) (cancel func()) {
	var cancelled atomic.Bool

	t := time.AfterFunc(d, func() {
		err := l.Post(func() {
			if cancelled.Load() {
				return
			}
			f()
		})
		if err != nil {
			l.logger.Debug("timer dropped", zap.Error(err))
		}
	})

	return func() {
		cancelled.Store(true)
		t.Stop()
	}
}

// Status returns the loop status and the time the last task started
func (l *Loop) Status() (Status, time.Time) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.status, l.lastTask
}

// Tasks returns the number of tasks run so far
func (l *Loop) Tasks() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tasks
}

// Shutdown stops the loop and waits for the running task to finish.
// Tasks still queued are discarded.
func (l *Loop) Shutdown(ctx context.Context) error {
	l.logger.Info("shutting down run loop")

	l.cancel()

	l.mu.RLock()
	started := l.started
	l.mu.RUnlock()
	if !started {
		l.setStatus(StatusStopped)
		return nil
	}

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		l.logger.Info("run loop shut down complete")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout")
	}
}

// run is the loop goroutine
func (l *Loop) run() {
	defer l.wg.Done()

	for {
		select {
		case <-l.ctx.Done():
			l.setStatus(StatusStopped)
			l.logger.Info("run loop stopped")
			return
		case fn := <-l.queue:
			l.execute(fn)
		}
	}
}

func (l *Loop) execute(fn func()) {
	l.mu.Lock()
	l.status = StatusBusy
	l.lastTask = time.Now()
	l.tasks++
	l.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
		l.setStatus(StatusIdle)
	}()

	fn()
}

func (l *Loop) setStatus(s Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status == StatusStopped {
		return
	}
	l.status = s
}
