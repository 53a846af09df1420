package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

const sendBuffer = 256

var (
	// ErrQueueFull means the recipient's outbound queue could not accept
	// the event; the single delivery is dropped.
	ErrQueueFull = errors.New("outbound queue full")
	// ErrNotActive means the connection has not reached, or has left,
	// the active state.
	ErrNotActive = errors.New("connection not active")
)

// State is a connection lifecycle phase
type State int32

const (
	StateConnecting State = iota
	StateAuthenticated
	StateActive
	StateClosing
	StateClosed
)

// Member is one connected peer as seen by the registry and router
type Member interface {
	ID() string
	User() string
	Send(b []byte) error
	Active() bool
}

// Conn wraps one websocket with its outbound queue and lifecycle state
type Conn struct {
	id    string
	user  string // set from the verified token at handshake
	ws    *websocket.Conn
	out   chan []byte
	state atomic.Int32
	once  sync.Once
	log   *slog.Logger
}

// Accept upgrades HTTP to websocket (allow all origins)
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

// NewConn wraps a WS connection whose token already verified as user
func NewConn(sock *websocket.Conn, user string, log *slog.Logger) *Conn {
	c := &Conn{
		id:   uuid.New().String(),
		user: user,
		ws:   sock,
		out:  make(chan []byte, sendBuffer),
		log:  log,
	}
	c.state.Store(int32(StateAuthenticated))
	return c
}

func (c *Conn) ID() string   { return c.id }
func (c *Conn) User() string { return c.user }
func (c *Conn) State() State { return State(c.state.Load()) }
func (c *Conn) Active() bool { return c.State() == StateActive }

// Activate admits the connection into the event loop
func (c *Conn) Activate() {
	c.state.CompareAndSwap(int32(StateAuthenticated), int32(StateActive))
}

// Send queues b for delivery without blocking. A full queue or an
// inactive connection drops this one delivery.
func (c *Conn) Send(b []byte) error {
	if !c.Active() {
		return ErrNotActive
	}
	select {
	case c.out <- b:
		return nil
	default:
		return ErrQueueFull
	}
}

// Read blocks until it receives a text/binary message
// Returns false if connection is closed
func (c *Conn) Read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			return data, true
		}
	}
}

// WriteLoop sends outbound messages + periodic pings
// Exits when ctx is cancelled
func (c *Conn) WriteLoop(ctx context.Context) {
	t := time.NewTicker(20 * time.Second)
	defer t.Stop()

	for {
		select {
		case b := <-c.out:
			_ = c.ws.Write(ctx, websocket.MessageText, b)
		case <-t.C:
			_ = c.ws.Ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Close transitions closing -> closed once; queued outbound events are
// abandoned with the channel.
func (c *Conn) Close() {
	c.once.Do(func() {
		c.state.Store(int32(StateClosing))
		_ = c.ws.Close(websocket.StatusNormalClosure, "bye")
		c.state.Store(int32(StateClosed))
	})
}
