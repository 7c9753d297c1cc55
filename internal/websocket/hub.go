package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"supplychain/internal/infrastructure"
	"supplychain/pkg/contracts/events"
)

// ErrHubStopped is returned by Publish once the hub has been stopped
var ErrHubStopped = errors.New("websocket hub stopped")

// Options tunes client keep-alive and buffering
type Options struct {
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
	SendBuffer int
}

// DefaultOptions returns the keep-alive settings used when none are configured
func DefaultOptions() Options {
	return Options{
		PingPeriod: 30 * time.Second,
		PongWait:   60 * time.Second,
		WriteWait:  10 * time.Second,
		SendBuffer: 16,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PongWait <= 0 {
		o.PongWait = d.PongWait
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = (o.PongWait * 9) / 10
	}
	if o.WriteWait <= 0 {
		o.WriteWait = d.WriteWait
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = d.SendBuffer
	}
	return o
}

// Hub maintains the set of open dashboard pages and pushes dataset events to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger  *slog.Logger
	metrics *Metrics
	opts    Options

	quit    chan struct{}
	done    chan struct{}
	running bool

	totalConnections int64
	messagesSent     int64
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(logger *slog.Logger, opts Options, metrics *Metrics) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		metrics:    metrics,
		opts:       opts.withDefaults(),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the hub loop in a new goroutine. It is a no-op when already running.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	select {
	case <-h.quit:
		return
	default:
	}
	h.running = true

	go h.Run()
}

// Run is the hub's main loop; it owns every client's send channel
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.quit:
			h.closeAll()
			h.logger.Info("hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.totalConnections++
			count := len(h.clients)
			h.mu.Unlock()

			ctx := client.context()
			h.metrics.connected(ctx)
			h.logger.InfoContext(ctx, "client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			h.greet(ctx, client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; !ok {
				h.mu.Unlock()
				continue
			}
			delete(h.clients, client)
			close(client.send)
			count := len(h.clients)
			h.mu.Unlock()

			ctx := client.context()
			h.metrics.disconnected(ctx, time.Since(client.connectedAt))
			h.logger.InfoContext(ctx, "client unregistered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.Duration("connection_duration", time.Since(client.connectedAt)))

		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

// greet sends the connect message to a newly registered client
func (h *Hub) greet(ctx context.Context, client *Client) {
	msg := events.NewMessage(events.MessageTypeConnect, client.traceID, map[string]string{
		"client_id": client.id,
	})
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case client.send <- data:
	default:
		h.logger.WarnContext(ctx, "failed to send connection message, client buffer full",
			slog.String("client_id", client.id))
	}
}

// fanOut delivers message to every client, dropping clients that cannot keep up
func (h *Hub) fanOut(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := context.Background()
	delivered := 0
	for client := range h.clients {
		select {
		case client.send <- message:
			delivered++
		default:
			close(client.send)
			delete(h.clients, client)
			h.metrics.dropped(ctx)
			h.metrics.disconnected(ctx, time.Since(client.connectedAt))
			h.logger.WarnContext(client.context(), "client send buffer full, disconnecting",
				slog.String("client_id", client.id))
		}
	}
	h.messagesSent += int64(delivered)
	h.metrics.sent(ctx, delivered)

	h.logger.Debug("broadcast delivered",
		slog.Int("client_count", delivered),
		slog.Int("message_size", len(message)))
}

// closeAll closes every client's send channel so their write pumps exit
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// Publish queues msg for every connected client. The trace ID of ctx is
// attached when msg carries none.
func (h *Hub) Publish(ctx context.Context, msg events.WebSocketMessage) error {
	if msg.TraceID == "" {
		msg.TraceID = infrastructure.GetTraceID(ctx)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case <-h.quit:
		return ErrHubStopped
	default:
	}

	select {
	case h.broadcast <- data:
		return nil
	case <-h.quit:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NotifyDataset tells open pages that the dataset was reloaded or failed to reload
func (h *Hub) NotifyDataset(ctx context.Context, event events.DatasetEvent) {
	msgType := events.MessageTypeDatasetReloaded
	if event.Error != "" {
		msgType = events.MessageTypeDatasetFailed
	}

	if err := h.Publish(ctx, events.NewMessage(msgType, "", event)); err != nil {
		h.logger.WarnContext(ctx, "dataset notification not delivered",
			slog.String("type", string(msgType)),
			slog.String("error", err.Error()))
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
		close(client.send)
	}
}

// remove asks the hub loop to drop client
func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns counters for the health endpoint
func (h *Hub) Stats() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return map[string]interface{}{
		"active_clients":    len(h.clients),
		"total_connections": h.totalConnections,
		"messages_sent":     h.messagesSent,
	}
}

// Stop gracefully stops the hub and waits for the loop to exit
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done
}
