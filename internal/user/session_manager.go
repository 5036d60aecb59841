package user

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SessionManager: sessions by client id
type SessionManager struct {
	sessions map[string]*Session
	colors   *ColorGenerator
	limit    rate.Limit
	burst    int
	now      func() time.Time
	mu       sync.RWMutex
}

// NewSessionManager: every session gets its own limiter of messagesPerSecond with burst
func NewSessionManager(messagesPerSecond float64, burst int) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		colors:   NewColorGenerator(),
		limit:    rate.Limit(messagesPerSecond),
		burst:    burst,
		now:      time.Now,
	}
}

// Acquire: gets or creates the session of clientID and marks one more connection using it.
// The returned session's Color and ClientID are immutable; everything else belongs to the manager.
func (sm *SessionManager) Acquire(clientID string) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[clientID]
	if !exists {
		session = &Session{
			ClientID:    clientID,
			Color:       sm.colors.NextColor(),
			RateLimiter: rate.NewLimiter(sm.limit, sm.burst),
		}
		sm.sessions[clientID] = session
	}
	session.active++
	session.LastSeen = sm.now()
	return session
}

// Release: one connection of clientID is gone
func (sm *SessionManager) Release(clientID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if session, exists := sm.sessions[clientID]; exists {
		if session.active > 0 {
			session.active--
		}
		session.LastSeen = sm.now()
	}
}

// Allow: spends one message from the client's budget. Unknown clients are refused.
func (sm *SessionManager) Allow(clientID string) bool {
	sm.mu.RLock()
	session, exists := sm.sessions[clientID]
	sm.mu.RUnlock()

	if !exists {
		return false
	}
	return session.RateLimiter.Allow() // limiter is safe for concurrent use
}

// LastCursor: gets the last cursor update time for a session
func (sm *SessionManager) LastCursor(clientID string) (time.Time, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if session, exists := sm.sessions[clientID]; exists {
		return session.LastCursorUpdate, true
	}
	return time.Time{}, false
}

// UpdateLastCursor: updates the last cursor update time for a session
func (sm *SessionManager) UpdateLastCursor(clientID string, lastCursorUpdate time.Time) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if session, exists := sm.sessions[clientID]; exists {
		session.LastCursorUpdate = lastCursorUpdate
	}
}

// Cleanup: removes sessions without connections idle for longer than maxIdle, returns how many
func (sm *SessionManager) Cleanup(maxIdle time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := sm.now()
	removed := 0
	for clientID, session := range sm.sessions {
		if session.active == 0 && now.Sub(session.LastSeen) > maxIdle {
			delete(sm.sessions, clientID)
			removed++
		}
	}
	return removed
}

// Len: number of sessions
func (sm *SessionManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}
