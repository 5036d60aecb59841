package transport

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"whiteboard/internal/board"
	"whiteboard/internal/handlers"
	"whiteboard/internal/protocol"
)

// connection: one joined websocket. The read pump owns reads, the write pump owns every write after the snapshot.
type connection struct {
	conn *websocket.Conn
	hub  handlers.HubAPI
	sub  *board.Subscriber
	mgr  *Manager
	log  zerolog.Logger

	quit       chan struct{}
	quitOnce   sync.Once
	closeCode  int
	closeText  string
	writerDone chan struct{}
}

func newConnection(conn *websocket.Conn, hub handlers.HubAPI, sub *board.Subscriber, mgr *Manager, log zerolog.Logger) *connection {
	return &connection{
		conn:       conn,
		hub:        hub,
		sub:        sub,
		mgr:        mgr,
		log:        log,
		quit:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
}

// stop: asks the write pump to send a close frame and exit
func (c *connection) stop(code int, text string) {
	c.quitOnce.Do(func() {
		c.closeCode = code
		c.closeText = text
		close(c.quit)
	})
}

// readPump: reads until the connection dies, the client leaves or sends garbage.
// Returns the close code to send back.
func (c *connection) readPump(ctx context.Context) (int, string) {
	pongWait := c.mgr.opts.PongWait
	limits := c.mgr.opts.Limits
	clientID := c.sub.ClientID

	// Set up pong handler to extend deadline when pong received
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug().Err(err).Msg("read failed")
			}
			return websocket.CloseGoingAway, ""
		}

		// Any frame proves the client is alive
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		if !limits.ValidateMessageSize(len(msg)) {
			c.log.Warn().Int("bytes", len(msg)).Msg("message too large, dropped")
			continue
		}

		if !c.mgr.sessions.Allow(clientID) {
			c.log.Debug().Msg("rate limit exceeded, dropped")
			continue
		}

		in, err := protocol.Decode(msg)
		if err != nil {
			c.log.Warn().Err(err).Msg("malformed message, closing")
			return websocket.CloseUnsupportedData, "malformed message"
		}

		err = c.mgr.router.Route(ctx, c.hub, clientID, in)
		switch {
		case err == nil:
		case errors.Is(err, handlers.ErrLeave):
			return websocket.CloseNormalClosure, ""
		case errors.Is(err, board.ErrHubClosed), errors.Is(err, board.ErrNotSubscribed):
			c.log.Debug().Err(err).Msg("subscription gone")
			return websocket.CloseGoingAway, "subscription ended"
		default:
			c.log.Debug().Err(err).Str("type", string(in.Type())).Msg("message dropped")
		}
	}
}

// writePump: drains the outbox onto the socket and keeps the connection alive with pings
func (c *connection) writePump() {
	defer close(c.writerDone)

	pingPeriod := (c.mgr.opts.PongWait * 9) / 10 // Send pings at 90% of pong deadline
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.sub.Outbound():
			if !ok {
				// evicted, replaced by a newer connection, or the hub stopped
				c.writeClose(websocket.CloseGoingAway, "subscription ended")
				_ = c.conn.Close() // unblocks the read pump
				return
			}
			if err := c.writeFrame(msg); err != nil {
				c.log.Debug().Err(err).Msg("write failed")
				_ = c.conn.Close()
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.mgr.opts.WriteWait)); err != nil {
				_ = c.conn.Close() // Connection dead
				return
			}

		case <-c.quit:
			c.writeClose(c.closeCode, c.closeText)
			return
		}
	}
}

func (c *connection) writeFrame(msg protocol.Outbound) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.mgr.opts.WriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *connection) writeClose(code int, text string) {
	deadline := time.Now().Add(c.mgr.opts.WriteWait)
	_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
}
