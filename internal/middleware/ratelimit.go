package middleware

import "time"

// Limits: resource limits for boards and connections
type Limits struct {
	MaxRoomSize       int
	MaxObjects        int
	MaxMessageSize    int
	MaxRooms          int
	MessagesPerSecond float64
	BurstSize         int
	CursorThrottle    time.Duration
}

// ValidateMessageSize: checks if a message is within the size limit
func (l *Limits) ValidateMessageSize(msgSize int) bool {
	return msgSize <= l.MaxMessageSize
}

// CursorDue: reports whether a cursor move at now is far enough from the previous one
func (l *Limits) CursorDue(last, now time.Time) bool {
	return last.IsZero() || now.Sub(last) >= l.CursorThrottle
}
