package ws

import (
	"sync"

	"task_tracker/internal/domain"
	"task_tracker/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var feedClients = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "task_feed_clients",
	Help: "Websocket clients subscribed to the task feed",
})

func init() {
	prometheus.MustRegister(feedClients)
}

// Hub fans task events out to every connected client.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	feedClients.Inc()
	return true
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(c)
}

// remove must be called with h.mu held.
func (h *Hub) remove(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.Send)
	feedClients.Dec()
}

// Publish implements service.EventPublisher. Clients whose buffer is full are dropped.
func (h *Hub) Publish(ev domain.TaskEvent) {
	msg, err := encodeEvent(ev)
	if err != nil {
		logger.Error("encode task event", "error", err, "type", ev.Type)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("dropping slow feed client", "remote", c.remote)
			h.remove(c)
		}
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.remove(c)
	}
}
