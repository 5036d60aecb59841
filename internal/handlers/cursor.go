package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"whiteboard/internal/middleware"
	"whiteboard/internal/presence"
	"whiteboard/internal/protocol"
)

// pendingMove: latest throttled move of a client, sent when its throttle window ends
type pendingMove struct {
	hub   HubAPI
	msg   *protocol.MoveCursor
	timer *time.Timer
}

// CursorHandler handles cursor position update messages
type CursorHandler struct {
	sessionMgr SessionProvider
	limits     *middleware.Limits
	now        func() time.Time
	afterFunc  func(time.Duration, func()) *time.Timer

	mu      sync.Mutex
	pending map[string]*pendingMove
}

// NewCursorHandler creates a new cursor handler with dependencies
func NewCursorHandler(sessionMgr SessionProvider, limits *middleware.Limits) *CursorHandler {
	return &CursorHandler{
		sessionMgr: sessionMgr,
		limits:     limits,
		now:        time.Now,
		afterFunc:  time.AfterFunc,
		pending:    make(map[string]*pendingMove),
	}
}

// Handle processes cursor messages with server-side throttling.
// A move inside the throttle window replaces any earlier held move and is delivered when the window ends,
// so the last position of a burst always reaches the hub.
func (h *CursorHandler) Handle(ctx context.Context, hub HubAPI, clientID string, msg *protocol.MoveCursor) error {
	h.mu.Lock()
	now := h.now()
	lastCursorTime, exists := h.sessionMgr.LastCursor(clientID)
	if !exists {
		h.mu.Unlock()
		return fmt.Errorf("session not found")
	}

	if !h.limits.CursorDue(lastCursorTime, now) {
		h.holdLocked(hub, clientID, msg, lastCursorTime.Add(h.limits.CursorThrottle).Sub(now))
		h.mu.Unlock()
		return nil // throttled
	}

	if p, ok := h.pending[clientID]; ok {
		p.timer.Stop()
		delete(h.pending, clientID)
	}
	h.sessionMgr.UpdateLastCursor(clientID, now)
	h.mu.Unlock()

	return h.send(ctx, hub, clientID, msg)
}

func (h *CursorHandler) holdLocked(hub HubAPI, clientID string, msg *protocol.MoveCursor, wait time.Duration) {
	if p, ok := h.pending[clientID]; ok {
		p.hub = hub
		p.msg = msg
		return
	}

	p := &pendingMove{hub: hub, msg: msg}
	p.timer = h.afterFunc(wait, func() { h.flush(clientID, p) })
	h.pending[clientID] = p
}

// flush: delivers a held move unless a newer direct move already superseded it
func (h *CursorHandler) flush(clientID string, p *pendingMove) {
	h.mu.Lock()
	if h.pending[clientID] != p {
		h.mu.Unlock()
		return
	}
	delete(h.pending, clientID)
	hub, msg := p.hub, p.msg
	h.sessionMgr.UpdateLastCursor(clientID, h.now())
	h.mu.Unlock()

	// the client may have left meanwhile; the hub then reports it unsubscribed
	_ = h.send(context.Background(), hub, clientID, msg)
}

func (h *CursorHandler) send(ctx context.Context, hub HubAPI, clientID string, msg *protocol.MoveCursor) error {
	pos := presence.Position{X: msg.X, Y: msg.Y}
	if err := hub.HandleCursorMove(ctx, clientID, pos, msg.DisplayName, msg.Color); err != nil {
		return fmt.Errorf("cursor: %w", err)
	}
	return nil
}
