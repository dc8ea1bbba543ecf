package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBuffer = 32
	readLimit  = 4 * 1024
	pongWait   = 60 * time.Second
)

// Client is one dashboard connection. It only receives events; inbound
// frames are read to notice disconnects and then discarded.
type Client struct {
	conn         *websocket.Conn
	send         chan []byte
	done         chan struct{}
	closeOnce    sync.Once
	writeMu      sync.Mutex
	writeTimeout time.Duration
	logger       *zap.Logger
	onClose      func(*Client)
}

// NewClient wraps an upgraded connection.
func NewClient(conn *websocket.Conn, writeTimeout time.Duration, logger *zap.Logger, onClose func(*Client)) *Client {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Client{
		conn:         conn,
		send:         make(chan []byte, sendBuffer),
		done:         make(chan struct{}),
		writeTimeout: writeTimeout,
		logger:       logger,
		onClose:      onClose,
	}
}

// RemoteAddr returns the peer address.
func (c *Client) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Start launches the write pump and blocks in the read pump.
func (c *Client) Start() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer c.Close()
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.logger.Debug("dashboard read closed", zap.String("remote", c.RemoteAddr()), zap.Error(err))
			return
		}
	}
}

func (c *Client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		}
	}
}

// Send enqueues msg, dropping it when the client is slow or gone.
func (c *Client) Send(msg []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- msg:
	default:
		c.logger.Warn("dropping event for slow dashboard", zap.String("remote", c.RemoteAddr()))
	}
}

// Ping sends a websocket ping.
func (c *Client) Ping() error {
	return c.write(websocket.PingMessage, nil)
}

func (c *Client) write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.conn.WriteMessage(messageType, data)
}

// Close tears the connection down once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = c.conn.Close()
		if c.onClose != nil {
			c.onClose(c)
		}
	})
}
