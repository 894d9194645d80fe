package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/hexaciphers/hexaciphers/pkg/ports"
	"go.uber.org/zap"
)

const (
	sendBuffer = 16
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client is one connected dashboard
type client struct {
	conn     *websocket.Conn
	send     chan []byte
	severity domain.Severity
}

// Handler streams raised alerts to connected WebSocket clients
type Handler struct {
	eventBus ports.EventBus
	logger   *zap.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHandler creates a new WebSocket handler
func NewHandler(eventBus ports.EventBus, logger *zap.Logger) *Handler {
	return &Handler{
		eventBus: eventBus,
		logger:   logger,
		clients:  make(map[*client]struct{}),
	}
}

// Start subscribes to alert events until ctx is cancelled
func (h *Handler) Start(ctx context.Context) error {
	return h.eventBus.Subscribe(ctx, domain.TopicAlerts, h.broadcast)
}

// ClientCount returns the number of connected clients
func (h *Handler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// HandleAlertStream upgrades the request and streams alerts until the client
// goes away. An optional ?severity= narrows the stream to one severity.
func (h *Handler) HandleAlertStream(c *gin.Context) {
	var severity domain.Severity
	if raw := c.Query("severity"); raw != "" {
		s, err := domain.ParseSeverity(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			return
		}
		severity = s
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}

	cl := &client{
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		severity: severity,
	}
	h.register(cl)

	h.logger.Info("WebSocket connection established",
		zap.String("client", c.ClientIP()),
		zap.String("severity", string(severity)))

	go h.readLoop(cl)
	h.writeLoop(cl)
}

func (h *Handler) register(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[cl] = struct{}{}
}

func (h *Handler) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// readLoop discards client messages and unregisters the client on disconnect
func (h *Handler) readLoop(cl *client) {
	defer h.unregister(cl)

	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop owns all writes to the connection
func (h *Handler) writeLoop(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("failed to write message", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// broadcast fans an alert event out to every matching client
func (h *Handler) broadcast(ctx context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal event", zap.Error(err))
		return nil
	}
	severity := alertSeverity(data)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for cl := range h.clients {
		if cl.severity != "" && !strings.EqualFold(string(cl.severity), severity) {
			continue
		}
		select {
		case cl.send <- data:
		default:
			h.logger.Warn("client send buffer full, dropping alert",
				zap.String("event_id", event.ID))
		}
	}
	return nil
}

// alertSeverity reads data.alert.severity from an encoded event
func alertSeverity(encoded []byte) string {
	var envelope struct {
		Data struct {
			Alert struct {
				Severity string `json:"severity"`
			} `json:"alert"`
		} `json:"data"`
	}
	if err := json.Unmarshal(encoded, &envelope); err != nil {
		return ""
	}
	return envelope.Data.Alert.Severity
}
