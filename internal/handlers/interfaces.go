//go:generate go run go.uber.org/mock/mockgen -source=interfaces.go -destination=../mocks/mock_handlers.go -package=mocks

package handlers

import (
	"context"
	"time"

	"whiteboard/internal/object"
	"whiteboard/internal/presence"
)

// HubAPI defines the board operations handlers forward to
type HubAPI interface {
	HandleObjectMutation(ctx context.Context, clientID, objectID string, m object.Mutation, hint *int64) error
	HandleObjectDelete(ctx context.Context, clientID, objectID string) error
	HandleCursorMove(ctx context.Context, clientID string, pos presence.Position, displayName, color string) error
}

// SessionProvider defines the session state the cursor throttle needs
type SessionProvider interface {
	LastCursor(clientID string) (time.Time, bool)
	UpdateLastCursor(clientID string, t time.Time)
}
