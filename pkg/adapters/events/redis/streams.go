package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aescanero/blockqueue/pkg/domain"
)

// StreamWriter is the subset of the Redis client the mirror needs
type StreamWriter interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamsMirror copies bus events into a Redis stream.
// Events are queued without blocking the raiser and dropped when the queue is full.
type StreamsMirror struct {
	client    StreamWriter
	streamKey string
	maxLen    int64
	logger    *zap.Logger

	mu      sync.RWMutex
	closed  bool
	queue   chan domain.Event
	dropped atomic.Uint64
	wg      sync.WaitGroup
}

// NewStreamsMirror creates a mirror writing to prefix:sessionID
func NewStreamsMirror(client StreamWriter, prefix, sessionID string, maxLen int64, bufferSize int, logger *zap.Logger) *StreamsMirror {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &StreamsMirror{
		client:    client,
		streamKey: getStreamKey(prefix, sessionID),
		maxLen:    maxLen,
		logger:    logger,
		queue:     make(chan domain.Event, bufferSize),
	}
}

// Start starts the writer goroutine
func (m *StreamsMirror) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.run(ctx)

	m.logger.Info("event mirror started", zap.String("stream", m.streamKey))
}

// Observe queues an event, it is meant to be passed to Bus.Tap
func (m *StreamsMirror) Observe(event domain.Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return
	}

	select {
	case m.queue <- event:
	default:
		n := m.dropped.Add(1)
		m.logger.Warn("event mirror queue full, event dropped",
			zap.String("type", string(event.Type)),
			zap.Uint64("dropped", n))
	}
}

// Dropped returns the number of events lost to a full queue
func (m *StreamsMirror) Dropped() uint64 {
	return m.dropped.Load()
}

// StreamKey returns the Redis stream key
func (m *StreamsMirror) StreamKey() string {
	return m.streamKey
}

// Publish writes one event to the stream
func (m *StreamsMirror) Publish(ctx context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: m.streamKey,
		Values: map[string]interface{}{
			"type": string(event.Type),
			"data": string(data),
		},
	}
	if m.maxLen > 0 {
		args.MaxLen = m.maxLen
		args.Approx = true
	}

	if _, err := m.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	m.logger.Debug("event mirrored",
		zap.String("type", string(event.Type)),
		zap.Uint64("seq", event.Seq),
		zap.String("stream", m.streamKey))

	return nil
}

// Close stops accepting events and waits until the queue is drained
func (m *StreamsMirror) Close() error {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.queue)
	}
	m.mu.Unlock()

	m.wg.Wait()
	return nil
}

func (m *StreamsMirror) run(ctx context.Context) {
	defer m.wg.Done()

	for event := range m.queue {
		if err := m.Publish(ctx, event); err != nil {
			m.logger.Error("failed to mirror event",
				zap.String("type", string(event.Type)),
				zap.String("stream", m.streamKey),
				zap.Error(err))
		}
	}
}

// getStreamKey returns the Redis stream key for a session
func getStreamKey(prefix, sessionID string) string {
	return fmt.Sprintf("%s:%s", prefix, sessionID)
}
