package websocket

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nus-fboa2016-si/whiteboard/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

const (
	DefaultSendQueueSize  = 256
	DefaultMaxMessageSize = 4096
)

type State int32

const (
	StateConnecting State = iota
	StateActive
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateDisconnected:
		return "disconnected"
	}
	return "unknown"
}

type Options struct {
	SendQueueSize  int
	MaxMessageSize int64
}

// Conn is one client session. Outbound frames go through a bounded queue
// drained by writePump, so a slow peer never stalls the hub.
type Conn struct {
	id      string
	ws      *websocket.Conn
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	state   atomic.Int32
	maxSize int64
	relay   domain.Relay
	handler domain.MessageHandler
}

func NewConn(id string, ws *websocket.Conn, r domain.Relay, h domain.MessageHandler, opts Options) *Conn {
	if opts.SendQueueSize <= 0 {
		opts.SendQueueSize = DefaultSendQueueSize
	}
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = DefaultMaxMessageSize
	}
	return &Conn{
		id:      id,
		ws:      ws,
		send:    make(chan []byte, opts.SendQueueSize),
		done:    make(chan struct{}),
		maxSize: opts.MaxMessageSize,
		relay:   r,
		handler: h,
	}
}

func (c *Conn) ID() string { return c.id }

func (c *Conn) State() State { return State(c.state.Load()) }

func (c *Conn) Send(data []byte) error {
	if c.closed() {
		return domain.ErrConnClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return domain.ErrSendQueueFull
	}
}

// Close is safe to call more than once and from any goroutine. The socket
// itself is closed by writePump once it has sent the close frame.
func (c *Conn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *Conn) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Start moves the session to active and runs its pumps.
func (c *Conn) Start() {
	c.relay.Join(c)
	c.state.Store(int32(StateActive))
	go c.writePump()
	go c.readPump()
}

func (c *Conn) disconnect() {
	if !c.state.CompareAndSwap(int32(StateActive), int32(StateDisconnected)) {
		return
	}
	c.relay.Leave(c)
	c.Close()
}

func (c *Conn) readPump() {
	defer c.disconnect()

	c.ws.SetReadLimit(c.maxSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("read error", "clientId", c.id, "error", err)
			}
			return
		}
		if c.closed() || c.State() != StateActive {
			return
		}
		c.handler.Handle(c, data)
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
		if err := c.ws.Close(); err != nil {
			slog.Debug("socket close", "clientId", c.id, "error", err)
		}
	}()

	for {
		select {
		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Debug("write error", "clientId", c.id, "error", err)
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
