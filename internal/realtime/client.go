package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Gaurav220900/Social/internal/config"
	"github.com/Gaurav220900/Social/pkg/log"
)

// ErrSendBufferFull is returned when a connection's send channel is full or
// already closed. The router treats it as a stale handle.
var ErrSendBufferFull = errors.New("send buffer full or closed")

var _ Conn = (*Client)(nil)

// Client is the gorilla-backed realtime connection. All writes go through
// the buffered send channel so each connection observes pushes in the order
// they were routed.
type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	session *Session
	cfg     config.WebSocketConfig

	closeOnce sync.Once
}

// NewClient wraps an upgraded websocket connection for userID.
func NewClient(id, userID string, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	return &Client{
		id:      id,
		conn:    conn,
		send:    make(chan []byte, cfg.SendBuffer),
		session: NewSession(id, userID),
		cfg:     cfg,
	}
}

// ID returns the connection id.
func (c *Client) ID() string {
	return c.id
}

// Session returns the per-connection session state.
func (c *Client) Session() *Session {
	return c.session
}

// Send queues a frame for the write pump. A full channel means the peer
// stopped draining, so the socket is closed; the read pump then unregisters
// the connection.
func (c *Client) Send(data []byte) (err error) {
	defer func() {
		if recover() != nil {
			err = ErrSendBufferFull
		}
	}()

	select {
	case c.send <- data:
		return nil
	default:
		c.conn.Close()
		return ErrSendBufferFull
	}
}

// CloseSend closes the send channel, letting the write pump finish.
func (c *Client) CloseSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// ReadPump reads frames off the socket and hands them to handler. It owns
// read deadlines and pong handling. On exit the connection is unregistered
// and closed.
func (c *Client) ReadPump(registry *Registry, handler func(*Client, []byte)) {
	defer func() {
		registry.Unregister(c.id)
		c.CloseSend()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				l := log.L()
				l.Warn().Err(err).Str(log.FieldConnID, c.id).Msg("websocket read error")
			}
			break
		}

		c.session.Touch()
		handler(c, message)
	}
}

// WritePump drains the send channel onto the socket and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Push encodes and queues a single event for this connection only.
func (c *Client) Push(event string, payload interface{}) {
	data, err := Encode(event, payload)
	if err != nil {
		l := log.L()
		l.Error().Err(err).Str(log.FieldEvent, event).Msg("failed to encode event")
		return
	}
	if err := c.Send(data); err != nil {
		l := log.L()
		l.Warn().Err(err).Str(log.FieldConnID, c.id).Str(log.FieldEvent, event).Msg("push failed")
	}
}
