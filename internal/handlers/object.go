package handlers

import (
	"context"
	"fmt"

	"whiteboard/internal/protocol"
)

// ObjectHandler: handles object messages (mutate, delete)
type ObjectHandler struct{}

func NewObjectHandler() *ObjectHandler {
	return &ObjectHandler{}
}

// HandleMutate: mutateObject messages
func (h *ObjectHandler) HandleMutate(ctx context.Context, hub HubAPI, clientID string, msg *protocol.MutateObject) error {
	if err := hub.HandleObjectMutation(ctx, clientID, msg.ObjectID, msg.Mutation, msg.VersionHint); err != nil {
		return fmt.Errorf("mutate %s: %w", msg.ObjectID, err)
	}
	return nil
}

// HandleDelete: deleteObject messages
func (h *ObjectHandler) HandleDelete(ctx context.Context, hub HubAPI, clientID string, msg *protocol.DeleteObject) error {
	if err := hub.HandleObjectDelete(ctx, clientID, msg.ObjectID); err != nil {
		return fmt.Errorf("delete %s: %w", msg.ObjectID, err)
	}
	return nil
}
