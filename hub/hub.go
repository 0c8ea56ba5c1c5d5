package hub

import (
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/nus-fboa2016-si/whiteboard/backlog"
	"github.com/nus-fboa2016-si/whiteboard/domain"
	"github.com/nus-fboa2016-si/whiteboard/registry"
)

// Hub owns the registry and the backlog. Every operation runs under mu, so
// the order in which draw events are appended is the order they are relayed.
type Hub struct {
	mu       sync.Mutex
	registry *registry.Registry
	backlog  *backlog.Backlog
}

func New(capacity int) *Hub {
	return &Hub{
		registry: registry.New(),
		backlog:  backlog.New(capacity),
	}
}

// Join registers conn, announces the new count to everyone and hands conn
// the backlog as one batch before any live stroke can reach it.
func (h *Hub) Join(conn domain.Connection) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := h.registry.Register(conn)
	h.broadcast(nil, domain.UserCountFrame(count))

	history := h.backlog.Snapshot()
	h.deliver(conn, domain.BufferedLinesFrame(history))

	slog.Info("client connected", "clientId", conn.ID(), "clients", count, "backlog", len(history))
	return count
}

// Leave deregisters conn. Calling it for a connection that already left
// returns the current count and sends nothing.
func (h *Hub) Leave(conn domain.Connection) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.registry.Contains(conn) {
		return h.registry.Count()
	}
	count := h.registry.Deregister(conn)
	h.broadcast(nil, domain.UserCountFrame(count))

	slog.Info("client disconnected", "clientId", conn.ID(), "clients", count)
	return count
}

// Draw records event and relays it to every live connection except origin.
func (h *Hub) Draw(origin domain.Connection, event domain.DrawEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.registry.Contains(origin) {
		return errors.Wrapf(domain.ErrNotRegistered, "draw from %s", origin.ID())
	}
	h.backlog.Append(event)
	h.broadcast(origin, domain.DrawLineFrame(event))
	return nil
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registry.Count()
}

func (h *Hub) Stats() (clients, buffered int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registry.Count(), h.backlog.Len()
}

func (h *Hub) broadcast(skip domain.Connection, frame []byte) {
	h.registry.Each(skip, func(conn domain.Connection) {
		h.deliver(conn, frame)
	})
}

// deliver never blocks. A recipient that cannot take the frame is closed;
// its session then leaves through the normal disconnect path.
func (h *Hub) deliver(conn domain.Connection, frame []byte) {
	if err := conn.Send(frame); err != nil {
		slog.Warn("dropping client", "clientId", conn.ID(), "error", err)
		if err := conn.Close(); err != nil {
			slog.Debug("close after failed send", "clientId", conn.ID(), "error", err)
		}
	}
}
