package registry

import (
	"log/slog"

	"github.com/nus-fboa2016-si/whiteboard/domain"
)

// Registry holds the live connections and the count derived from them.
// It is not safe for concurrent use; the hub serializes access.
type Registry struct {
	clients map[string]domain.Connection
	count   int
}

func New() *Registry {
	return &Registry{clients: make(map[string]domain.Connection)}
}

func (r *Registry) Register(conn domain.Connection) int {
	if _, ok := r.clients[conn.ID()]; ok {
		slog.Warn("connection registered twice", "clientId", conn.ID())
		return r.count
	}
	r.clients[conn.ID()] = conn
	r.count++
	return r.count
}

// Deregister is a no-op returning the current count when conn is not live,
// so duplicate disconnect notifications are harmless.
func (r *Registry) Deregister(conn domain.Connection) int {
	if _, ok := r.clients[conn.ID()]; !ok {
		return r.count
	}
	delete(r.clients, conn.ID())
	r.count--
	if r.count < 0 {
		slog.Error("registry count underflow", "clientId", conn.ID(), "count", r.count, "clients", len(r.clients))
		r.count = 0
	}
	return r.count
}

func (r *Registry) Contains(conn domain.Connection) bool {
	_, ok := r.clients[conn.ID()]
	return ok
}

func (r *Registry) Count() int {
	return r.count
}

// Each calls fn for every live connection except skip. A nil skip visits all.
func (r *Registry) Each(skip domain.Connection, fn func(domain.Connection)) {
	for id, conn := range r.clients {
		if skip != nil && id == skip.ID() {
			continue
		}
		fn(conn)
	}
}
