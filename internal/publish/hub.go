package publish

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/http/requestutil"
	"github.com/preston-bernstein/sports-hub-service/internal/logging"
	"github.com/preston-bernstein/sports-hub-service/internal/metrics"
)

// FeedSource returns the current feed for clients that connect or ask for it.
type FeedSource func(ctx context.Context) games.Feed

// Hub broadcasts events to connected websocket display clients.
type Hub struct {
	logger   *slog.Logger
	metrics  *metrics.Recorder
	upgrader websocket.Upgrader
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	clients map[*client]struct{}
	source  FeedSource
}

// NewHub builds a hub. allowOrigin decides websocket origin checks; nil allows every origin.
func NewHub(logger *slog.Logger, recorder *metrics.Recorder, allowOrigin func(r *http.Request) bool) *Hub {
	if allowOrigin == nil {
		allowOrigin = func(*http.Request) bool { return true }
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		logger:  logger,
		metrics: recorder,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     allowOrigin,
		},
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
		clients: make(map[*client]struct{}),
	}
}

// SetSource sets where the current feed is read from.
func (h *Hub) SetSource(src FeedSource) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.source = src
}

// ServeHTTP upgrades the request and registers the connection as a client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn(logging.FromContext(r.Context(), h.logger), "websocket upgrade failed", slog.Any("error", err))
		return
	}

	c := newClient(uuid.NewString(), requestutil.ClientIP(r), conn, h)
	if !h.register(c) {
		_ = conn.Close()
		return
	}

	go c.writePump(h.ctx)
	go c.readPump(h.ctx)

	h.sendFeed(h.ctx, c)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.cancel()
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
		h.metrics.AddWebsocketClients(-1)
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ctx.Err() != nil {
		return false
	}
	h.clients[c] = struct{}{}
	h.metrics.AddWebsocketClients(1)
	logging.Info(h.logger, "websocket client connected",
		slog.String(logging.FieldClientID, c.id),
		slog.String(logging.FieldClientIP, c.remote),
		slog.Int(logging.FieldCount, len(h.clients)),
	)
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
	h.metrics.AddWebsocketClients(-1)
	logging.Info(h.logger, "websocket client disconnected",
		slog.String(logging.FieldClientID, c.id),
		slog.Int(logging.FieldCount, len(h.clients)),
	)
}

func (h *Hub) handle(ctx context.Context, c *client, msg ClientMessage) {
	if msg.Type == "get" && msg.Request == "feed" {
		h.sendFeed(ctx, c)
		return
	}
	if data, err := encode(EventError, TextPayload{Message: "unsupported request"}, h.now()); err == nil {
		c.trySend(data)
	}
}

func (h *Hub) sendFeed(ctx context.Context, c *client) {
	h.mu.RLock()
	src := h.source
	h.mu.RUnlock()
	if src == nil {
		return
	}
	data, err := encode(EventFeedUpdated, src(ctx), h.now())
	if err != nil {
		logging.Error(h.logger, "encode feed failed", err)
		return
	}
	if !c.trySend(data) {
		h.unregister(c)
	}
}

func (h *Hub) broadcast(msgType string, payload any) {
	data, err := encode(msgType, payload, h.now())
	if err != nil {
		logging.Error(h.logger, "encode broadcast failed", err, slog.String("type", msgType))
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.trySend(data) {
			logging.Warn(h.logger, "websocket client too slow, disconnecting", slog.String(logging.FieldClientID, c.id))
			h.unregister(c)
		}
	}
}

// FeedUpdated pushes the feed to every client.
func (h *Hub) FeedUpdated(_ context.Context, feed games.Feed) {
	h.broadcast(EventFeedUpdated, feed)
}

// Log pushes an informational message to every client.
func (h *Hub) Log(_ context.Context, msg string) {
	h.broadcast(EventLog, TextPayload{Message: msg})
}

// Warn pushes a warning to every client.
func (h *Hub) Warn(_ context.Context, msg string) {
	h.broadcast(EventWarn, TextPayload{Message: msg})
}

// Error pushes an error message to every client.
func (h *Hub) Error(_ context.Context, msg string) {
	h.broadcast(EventError, TextPayload{Message: msg})
}
