// Package websocket pushes live dashboard updates (the activity feed and
// system status) to connected browsers over a gorilla/websocket hub.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"fleetadmin/internal/infrastructure"
	"fleetadmin/pkg/contracts/events"
)

// Hub maintains the set of active clients and fans broadcast messages out
// to them. Slow clients are disconnected rather than allowed to stall the
// feed for everyone else.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	totalConnections int64
	messagesSent     int64
	droppedClients   int64

	quit        chan struct{}
	done        chan struct{}
	running     bool
	metricsQuit chan struct{}
}

// NewHub creates a hub. Call Start before registering clients.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		clients:     make(map[*Client]bool),
		broadcast:   make(chan []byte, 64),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		logger:      logger.With(slog.String("component", "websocket.hub")),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		metricsQuit: make(chan struct{}),
	}
}

// Start launches the hub loop and periodic metrics reporting.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.Run()
	go h.reportMetrics()
}

// Run is the hub's main loop. Start runs it in its own goroutine. Client
// send channels are closed only here, so broadcasts never race a close.
func (h *Hub) Run() {
	for {
		select {
		case <-h.quit:
			h.logger.Info("Hub shutting down")
			h.closeAllClients()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.totalConnections++
			h.mu.Unlock()

			h.logger.Info("Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			GetMetrics().RecordConnection()

			h.sendDirect(client, h.envelope(events.MessageTypeConnect, map[string]any{
				"status":    "connected",
				"client_id": client.id,
			}, client.traceID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				count := len(h.clients)
				h.mu.Unlock()

				h.logger.Info("Client unregistered",
					slog.Int("total_clients", count),
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)))

				GetMetrics().RecordDisconnection(time.Since(client.connectedAt))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

// fanOut delivers one message to every client, dropping clients whose send
// buffers are full.
func (h *Hub) fanOut(message []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	var dropped int
	for _, client := range clients {
		select {
		case client.send <- message:
			h.mu.Lock()
			h.messagesSent++
			h.mu.Unlock()
		default:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				close(client.send)
				delete(h.clients, client)
			}
			h.droppedClients++
			h.mu.Unlock()
			dropped++

			GetMetrics().RecordDroppedMessage()
			h.logger.Warn("Client send buffer full, disconnecting",
				slog.String("client_id", client.id))
		}
	}

	if dropped > 0 {
		h.logger.Warn("Broadcast dropped slow clients",
			slog.Int("delivered", len(clients)-dropped),
			slog.Int("dropped", dropped))
	}
}

// sendDirect delivers a message to one client without going through the
// broadcast queue.
func (h *Hub) sendDirect(client *Client, data []byte) {
	if data == nil {
		return
	}
	select {
	case client.send <- data:
	default:
		h.logger.Warn("Failed direct send, client buffer full",
			slog.String("client_id", client.id))
	}
}

// envelope builds and marshals the standard message frame. Marshal failures
// are logged and yield nil; callers skip nil payloads.
func (h *Hub) envelope(msgType events.MessageType, data any, traceID string) []byte {
	msg := events.WebSocketMessage{
		BaseMessage: events.BaseMessage{
			ID:        uuid.New().String(),
			Type:      msgType,
			Timestamp: time.Now().UTC(),
			TraceID:   traceID,
		},
		Data: data,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Error marshaling websocket message",
			slog.String("error", err.Error()),
			slog.String("message_type", string(msgType)))
		return nil
	}
	return payload
}

// enqueue pushes a marshaled message onto the broadcast queue. The queue is
// buffered; when it is full the message is dropped so publishers never block.
func (h *Hub) enqueue(data []byte) {
	if data == nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
		GetMetrics().RecordDroppedMessage()
		h.logger.Warn("Broadcast queue full, dropping message")
	}
}

// BroadcastActivity pushes one activity feed entry to every client.
func (h *Hub) BroadcastActivity(payload events.ActivityPayload) {
	h.enqueue(h.envelope(events.MessageTypeActivity, payload, ""))
}

// BroadcastSystemStatus pushes a backend status change to every client.
func (h *Hub) BroadcastSystemStatus(payload events.SystemStatusPayload) {
	h.enqueue(h.envelope(events.MessageTypeSystemStatus, payload, ""))
}

// BroadcastError pushes a client-facing error to every client.
func (h *Hub) BroadcastError(payload events.ErrorPayload) {
	h.enqueue(h.envelope(events.MessageTypeError, payload, ""))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub. If the hub is already stopping, the
// client's send channel is closed so its write pump exits.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
		close(client.send)
	}
}

// Unregister removes a client from the hub. Safe to call during shutdown;
// a stopping hub closes remaining send channels itself.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// Stop shuts the hub down and waits for the run loop to close every client
// send channel.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	close(h.metricsQuit)
	<-h.done
}

// closeAllClients disconnects every remaining client. Called by Run on its
// way out.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// Snapshot returns current hub counters for the health endpoints.
func (h *Hub) Snapshot() map[string]any {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return map[string]any{
		"active_clients":    len(h.clients),
		"total_connections": h.totalConnections,
		"messages_sent":     h.messagesSent,
		"dropped_clients":   h.droppedClients,
	}
}

func (h *Hub) reportMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.metricsQuit:
			return

		case <-ticker.C:
			h.mu.RLock()
			active := len(h.clients)
			sent := h.messagesSent
			total := h.totalConnections
			h.mu.RUnlock()

			GetMetrics().RecordQueueDepth(int64(len(h.broadcast)))

			h.logger.InfoContext(context.Background(), "WebSocket hub metrics",
				slog.Int("active_clients", active),
				slog.Int64("total_connections", total),
				slog.Int64("messages_sent", sent),
				slog.Int("broadcast_queue", len(h.broadcast)))
		}
	}
}
