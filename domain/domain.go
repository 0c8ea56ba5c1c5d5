package domain

import (
	"encoding/json"
	"errors"
)

const (
	EventDrawLine      = "draw line"
	EventGetUserCount  = "get user count"
	EventUserCount     = "user count"
	EventBufferedLines = "buffered lines"
)

var (
	ErrSendQueueFull = errors.New("send queue full")
	ErrConnClosed    = errors.New("connection closed")
	ErrNotRegistered = errors.New("connection not registered")
)

// DrawEvent is one stroke segment as sent by a client. The server relays the
// bytes as-is and never looks inside.
type DrawEvent = json.RawMessage

// Message is the envelope of every frame on the wire.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type Connection interface {
	ID() string
	Send(data []byte) error
	Close() error
}

type Relay interface {
	Join(conn Connection) int
	Leave(conn Connection) int
	Draw(origin Connection, event DrawEvent) error
	Count() int
}

type MessageHandler interface {
	Handle(conn Connection, data []byte)
}
