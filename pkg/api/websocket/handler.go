package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aescanero/blockqueue/pkg/domain"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Tapper registers an observer for every bus event
type Tapper interface {
	Tap(fn func(domain.Event)) (cancel func())
}

// Handler streams bus events to WebSocket clients
type Handler struct {
	bus        Tapper
	bufferSize int
	logger     *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(bus Tapper, bufferSize int, logger *zap.Logger) *Handler {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &Handler{
		bus:        bus,
		bufferSize: bufferSize,
		logger:     logger,
	}
}

// HandleEventStream upgrades the request and streams every bus event as JSON.
// Events are dropped for a client that cannot keep up.
func (h *Handler) HandleEventStream(c *gin.Context) {
	events := make(chan domain.Event, h.bufferSize)

	// tap before the handshake completes so no event after connect is missed
	cancelTap := h.bus.Tap(func(e domain.Event) {
		select {
		case events <- e:
		default:
			h.logger.Warn("event channel full, dropping event",
				zap.String("event_type", string(e.Type)),
				zap.Uint64("seq", e.Seq))
		}
	})
	defer cancelTap()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	h.logger.Info("WebSocket connection established", zap.String("client", c.ClientIP()))

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	go h.readPump(conn, cancel)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket connection closed", zap.String("client", c.ClientIP()))
			return
		case event := <-events:
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal event", zap.Error(err))
				continue
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Error("failed to write message", zap.Error(err))
				return
			}
		}
	}
}

// readPump discards client messages and cancels once the peer goes away
func (h *Handler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
