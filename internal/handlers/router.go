package handlers

import (
	"context"
	"errors"
	"fmt"

	"whiteboard/internal/middleware"
	"whiteboard/internal/protocol"
)

var (
	// ErrLeave: the client asked to leave; the connection should end its session
	ErrLeave = errors.New("client left")
	// ErrAlreadyJoined: a connection joins exactly once, during the handshake
	ErrAlreadyJoined = errors.New("already joined")
)

// MessageRouter routes decoded messages to appropriate handlers
type MessageRouter struct {
	objectHandler *ObjectHandler
	cursorHandler *CursorHandler
}

func NewMessageRouter(limits *middleware.Limits, sessionMgr SessionProvider) *MessageRouter {
	return &MessageRouter{
		objectHandler: NewObjectHandler(),
		cursorHandler: NewCursorHandler(sessionMgr, limits),
	}
}

// Route: process a message via appropriate handler
func (mr *MessageRouter) Route(ctx context.Context, hub HubAPI, clientID string, msg protocol.Inbound) error {
	switch m := msg.(type) {
	case *protocol.MutateObject:
		return mr.objectHandler.HandleMutate(ctx, hub, clientID, m)
	case *protocol.DeleteObject:
		return mr.objectHandler.HandleDelete(ctx, hub, clientID, m)
	case *protocol.MoveCursor:
		return mr.cursorHandler.Handle(ctx, hub, clientID, m)
	case *protocol.Leave:
		return ErrLeave
	case *protocol.Join:
		return ErrAlreadyJoined
	default:
		return fmt.Errorf("unroutable message type: %s", msg.Type())
	}
}
