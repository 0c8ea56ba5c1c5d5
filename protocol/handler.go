package protocol

import (
	"bytes"
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/nus-fboa2016-si/whiteboard/domain"
)

type Handler struct {
	relay domain.Relay
}

func NewHandler(r domain.Relay) *Handler {
	return &Handler{relay: r}
}

func (h *Handler) Handle(conn domain.Connection, data []byte) {
	var msg domain.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Warn("invalid message", "clientId", conn.ID(), "error", err)
		return
	}

	switch msg.Event {
	case domain.EventDrawLine:
		if len(msg.Data) == 0 || bytes.Equal(msg.Data, []byte("null")) {
			slog.Debug("empty draw line", "clientId", conn.ID())
			return
		}
		if err := h.relay.Draw(conn, domain.DrawEvent(msg.Data)); err != nil {
			if errors.Is(err, domain.ErrNotRegistered) {
				slog.Debug("late draw line dropped", "clientId", conn.ID())
				return
			}
			slog.Warn("draw line failed", "clientId", conn.ID(), "error", err)
		}
	case domain.EventGetUserCount:
		if err := conn.Send(domain.UserCountFrame(h.relay.Count())); err != nil {
			slog.Warn("user count reply failed", "clientId", conn.ID(), "error", err)
		}
	default:
		slog.Warn("unknown event", "clientId", conn.ID(), "event", msg.Event)
	}
}
