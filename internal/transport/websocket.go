// Package transport terminates client websocket connections and bridges them to board hubs.
package transport

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"whiteboard/internal/board"
	"whiteboard/internal/handlers"
	"whiteboard/internal/middleware"
	"whiteboard/internal/user"
)

// Options: connection settings
type Options struct {
	// AllowedOrigins: exact Origin values accepted on upgrade; empty accepts any
	AllowedOrigins []string
	JoinTimeout    time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	OutboxSize     int
	Limits         *middleware.Limits
}

// Manager: accepts websocket connections, runs the join handshake and ties each
// connection to one board subscription for its lifetime
type Manager struct {
	registry *board.Registry
	sessions *user.SessionManager
	router   *handlers.MessageRouter
	upgrader websocket.Upgrader
	opts     Options
	log      zerolog.Logger
}

func NewManager(registry *board.Registry, sessions *user.SessionManager, opts Options, logger zerolog.Logger) *Manager {
	if opts.WriteWait <= 0 {
		opts.WriteWait = 10 * time.Second
	}
	if opts.PongWait <= 0 {
		opts.PongWait = 60 * time.Second
	}
	if opts.JoinTimeout <= 0 {
		opts.JoinTimeout = 5 * time.Second
	}
	if opts.Limits == nil {
		opts.Limits = &middleware.Limits{MaxMessageSize: 512 * 1024}
	}

	m := &Manager{
		registry: registry,
		sessions: sessions,
		router:   handlers.NewMessageRouter(opts.Limits, sessions),
		opts:     opts,
		log:      logger.With().Str("component", "transport").Logger(),
	}
	m.upgrader = websocket.Upgrader{CheckOrigin: m.checkOrigin}
	return m
}

// checkOrigin: CORS for the upgrade
func (m *Manager) checkOrigin(r *http.Request) bool {
	if len(m.opts.AllowedOrigins) == 0 {
		return true
	}

	origin := r.Header.Get("Origin")
	for _, allowed := range m.opts.AllowedOrigins {
		if origin == strings.TrimSpace(allowed) {
			return true
		}
	}
	return false
}

// ServeHTTP: upgrades HTTP to websocket and serves one board subscription
func (m *Manager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Warn().Err(err).Str("ip", middleware.ClientIP(r)).Msg("upgrade failed")
		return
	}
	defer conn.Close()

	log := m.log.With().Str("conn", uuid.NewString()).Str("ip", middleware.ClientIP(r)).Logger()
	// oversized frames are dropped one by one below, this cap only bounds memory
	conn.SetReadLimit(int64(m.opts.Limits.MaxMessageSize) * 4)

	join, err := readJoin(conn, m.opts.JoinTimeout)
	if err != nil {
		log.Warn().Err(err).Msg("handshake failed")
		reject(conn, m.opts.WriteWait, websocket.ClosePolicyViolation, "first message must be join")
		return
	}

	boardID := join.BoardID
	if boardID == "" {
		boardID = r.URL.Query().Get("board")
	}
	if boardID == "" {
		log.Warn().Msg("join without board id")
		reject(conn, m.opts.WriteWait, websocket.ClosePolicyViolation, "board id missing")
		return
	}

	clientID := join.ClientID
	if clientID == "" {
		clientID = user.GenerateID()
	}
	log = log.With().Str("board", boardID).Str("client", clientID).Logger()

	session := m.sessions.Acquire(clientID)
	defer m.sessions.Release(clientID)

	hub, err := m.registry.Acquire(boardID)
	if err != nil {
		log.Warn().Err(err).Msg("board unavailable")
		reject(conn, m.opts.WriteWait, websocket.CloseTryAgainLater, err.Error())
		return
	}
	defer m.registry.Release(boardID, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := board.NewSubscriber(clientID, join.DisplayName, session.Color, m.opts.OutboxSize)
	snap, err := hub.Join(ctx, sub)
	if err != nil {
		log.Warn().Err(err).Msg("join refused")
		reject(conn, m.opts.WriteWait, websocket.CloseTryAgainLater, err.Error())
		return
	}
	// exactly one Leave per joined connection, however it ends
	defer func() {
		if err := hub.Leave(context.Background(), sub); err != nil {
			log.Debug().Err(err).Msg("leave")
		}
	}()

	c := newConnection(conn, hub, sub, m, log)
	if err := c.writeFrame(snap); err != nil {
		log.Warn().Err(err).Msg("snapshot write failed")
		return
	}
	log.Info().Int("objects", len(snap.Objects)).Int("cursors", len(snap.Cursors)).Msg("client joined")

	go c.writePump()
	code, reason := c.readPump(ctx)
	c.stop(code, reason)
	<-c.writerDone

	log.Info().Int("close_code", code).Msg("client disconnected")
}
