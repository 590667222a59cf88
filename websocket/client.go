package websocket

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"gabber/appcontext"
	"gabber/chat"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Configure properly for production
	},
}

// Options tunes per-connection transport behavior.
type Options struct {
	SendBuffer     int
	MaxMessageSize int64
	RateLimit      RateLimitConfig
}

// Client wraps one websocket connection and implements chat.Conn. The
// connection id is a uuid so the core never holds the socket itself.
type Client struct {
	id      string
	conn    *websocket.Conn
	hub     *chat.Hub
	send    chan []byte
	addr    string
	limiter *rateLimiter

	mu     sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn, hub *chat.Hub, opts Options) *Client {
	if conn != nil && opts.MaxMessageSize > 0 {
		conn.SetReadLimit(opts.MaxMessageSize)
	}
	sendBuffer := opts.SendBuffer
	if sendBuffer <= 0 {
		sendBuffer = 256
	}

	addr := ""
	if conn != nil {
		addr = conn.RemoteAddr().String()
	}

	return &Client{
		id:      uuid.NewString(),
		conn:    conn,
		hub:     hub,
		send:    make(chan []byte, sendBuffer),
		addr:    addr,
		limiter: newRateLimiter(opts.RateLimit.Burst, opts.RateLimit.RefillInterval),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send enqueues a payload without blocking. It reports false when the
// connection is closed or its buffer is full; the hub treats both as a
// no-op, and a peer that cannot drain its buffer is dropped.
func (c *Client) Send(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		log.Printf("Send buffer full for %s; dropping connection", c.addr)
		c.closed = true
		close(c.send)
		return false
	}
}

// closeSend marks the client closed and closes the send channel exactly
// once, letting writePump flush and send the close frame.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Handler upgrades the request and hands the connection to the hub.
func Handler(hub *chat.Hub, opts Options) func(*appcontext.AppContext) {
	return func(ctx *appcontext.AppContext) {
		conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			ctx.Logger.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := newClient(conn, hub, opts)
		hub.Register(client)

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c.id)
		c.closeSend()
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error from %s: %v", c.addr, err)
			}
			break
		}

		if c.limiter != nil && !c.limiter.allow() {
			log.Printf("Rate limit exceeded for %s; discarding frame", c.addr)
			continue
		}

		c.hub.Dispatch(c, raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
