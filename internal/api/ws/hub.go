package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/TermDeck/backend/internal/domain/terminal"
	"github.com/GriffinCanCode/TermDeck/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TermDeck/backend/internal/infrastructure/monitoring"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Desktop UI connects from an app-local origin
	},
}

// Buffered per client; a full queue means the client is too slow and
// loses events instead of stalling session readers.
const sendBufferSize = 256

type client struct {
	id   string
	conn *websocket.Conn
	send chan terminal.Event
}

// Hub fans terminal events out to connected UI clients. It is the
// Sink injected into the terminal registry.
type Hub struct {
	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu      sync.RWMutex
	clients map[string]*client
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[string]*client),
	}
}

// WithMetrics attaches connection/message metrics collection.
func (h *Hub) WithMetrics(m *monitoring.Metrics) *Hub {
	h.metrics = m
	return h
}

// Emit implements terminal.Sink. Non-blocking: events for slow clients
// are dropped silently, never escalated, since a session reader cannot
// meaningfully retry emission.
func (h *Hub) Emit(evt terminal.Event) {
	if h.metrics != nil {
		switch evt.Type {
		case terminal.EventOutput:
			h.metrics.OutputBytes.Add(float64(len(evt.Data)))
		case terminal.EventExit:
			h.metrics.ExitEvents.Inc()
		}
		h.metrics.WSMessages.WithLabelValues("out", string(evt.Type)).Inc()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, cl := range h.clients {
		select {
		case cl.send <- evt:
		default:
		}
	}
}

// HandleConnection upgrades the request and streams events until the
// client disconnects. The UI sends nothing on this channel; the read
// loop exists to detect disconnect.
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan terminal.Event, sendBufferSize),
	}
	h.register(cl)
	defer h.unregister(cl)

	go cl.writePump(h.logger)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// ClientCount returns the number of connected UI clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	h.clients[cl.id] = cl
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
	}
	h.logger.Info("ui client connected", zap.String("client_id", cl.id))
}

// unregister removes the client and closes its queue in one critical
// section; Emit only sends while holding the read lock with the client
// still mapped, so no send can race the close.
func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	delete(h.clients, cl.id)
	close(cl.send)
	h.mu.Unlock()

	cl.conn.Close()
	if h.metrics != nil {
		h.metrics.WSConnections.Dec()
	}
	h.logger.Info("ui client disconnected", zap.String("client_id", cl.id))
}

func (cl *client) writePump(logger *logging.Logger) {
	for evt := range cl.send {
		if err := cl.conn.WriteJSON(evt); err != nil {
			logger.Debug("websocket write failed",
				zap.String("client_id", cl.id),
				zap.Error(err),
			)
			cl.conn.Close()
			return
		}
	}
}
