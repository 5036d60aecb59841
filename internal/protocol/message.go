// Package protocol defines the JSON frames exchanged between clients and the sync server.
//
// Every frame is an object with a "type" field. Client frames are decoded with Decode,
// server frames are encoded with Encode (and decoded by Go clients with DecodeOutbound).
package protocol

import (
	"encoding/json"
	"fmt"

	"whiteboard/internal/object"
	"whiteboard/internal/presence"
)

type Type string

// Client → server
const (
	TypeJoin         Type = "join"
	TypeMutateObject Type = "mutateObject"
	TypeDeleteObject Type = "deleteObject"
	TypeMoveCursor   Type = "moveCursor"
	TypeLeave        Type = "leave"
)

// Server → client
const (
	TypeSnapshot      Type = "snapshot"
	TypeObjectUpdated Type = "objectUpdated"
	TypeObjectDeleted Type = "objectDeleted"
	TypeCursorUpdated Type = "cursorUpdated"
	TypeCursorRemoved Type = "cursorRemoved"
	TypeError         Type = "error"
)

// =============================================================================
// Inbound
// =============================================================================

// Inbound: a decoded client frame
type Inbound interface {
	Type() Type
}

type Join struct {
	BoardID     string `json:"boardId"`
	ClientID    string `json:"clientId"`
	DisplayName string `json:"displayName,omitempty"`
}

// MutateObject: create or update one object. A nil VersionHint is a fire-and-forget update.
type MutateObject struct {
	ObjectID    string
	Mutation    object.Mutation
	VersionHint *int64
}

type DeleteObject struct {
	ObjectID string `json:"objectId"`
}

type MoveCursor struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	DisplayName string  `json:"displayName,omitempty"`
	Color       string  `json:"color,omitempty"`
}

type Leave struct{}

func (Join) Type() Type         { return TypeJoin }
func (MutateObject) Type() Type { return TypeMutateObject }
func (DeleteObject) Type() Type { return TypeDeleteObject }
func (MoveCursor) Type() Type   { return TypeMoveCursor }
func (Leave) Type() Type        { return TypeLeave }

// =============================================================================
// Outbound
// =============================================================================

// Outbound: a server frame. Values are immutable once handed to a connection.
type Outbound interface {
	Type() Type
}

// ObjectState: wire form of a stored object. Payload is *object.Stroke or *object.Note.
type ObjectState struct {
	ObjectID string         `json:"objectId"`
	Variant  object.Variant `json:"variant"`
	Payload  any            `json:"payload"`
	Version  int64          `json:"version"`
}

type CursorState struct {
	ClientID    string  `json:"clientId"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	DisplayName string  `json:"displayName"`
	Color       string  `json:"color"`
}

// Snapshot: full board state, sent once on join
type Snapshot struct {
	MsgType  Type          `json:"type"`
	BoardID  string        `json:"boardId"`
	ClientID string        `json:"clientId"`
	Color    string        `json:"color"`
	Objects  []ObjectState `json:"objects"`
	Cursors  []CursorState `json:"cursors"`
}

type ObjectUpdated struct {
	MsgType Type        `json:"type"`
	Object  ObjectState `json:"object"`
}

type ObjectDeleted struct {
	MsgType  Type   `json:"type"`
	ObjectID string `json:"objectId"`
}

type CursorUpdated struct {
	MsgType Type        `json:"type"`
	Cursor  CursorState `json:"cursor"`
}

type CursorRemoved struct {
	MsgType  Type   `json:"type"`
	ClientID string `json:"clientId"`
}

// Error: sent before the server closes a connection it refuses
type Error struct {
	MsgType Type   `json:"type"`
	Message string `json:"message"`
}

func (Snapshot) Type() Type      { return TypeSnapshot }
func (ObjectUpdated) Type() Type { return TypeObjectUpdated }
func (ObjectDeleted) Type() Type { return TypeObjectDeleted }
func (CursorUpdated) Type() Type { return TypeCursorUpdated }
func (CursorRemoved) Type() Type { return TypeCursorRemoved }
func (Error) Type() Type         { return TypeError }

// StateOf: wire form of d. d must not be mutated afterwards.
func StateOf(d object.Drawing) ObjectState {
	return ObjectState{
		ObjectID: d.ID,
		Variant:  d.Variant,
		Payload:  d.Payload(),
		Version:  d.Version,
	}
}

// CursorOf: wire form of c
func CursorOf(c presence.Cursor) CursorState {
	return CursorState{
		ClientID:    c.ClientID,
		X:           c.Position.X,
		Y:           c.Position.Y,
		DisplayName: c.DisplayName,
		Color:       c.Color,
	}
}

// UnmarshalJSON: decodes the payload into the struct matching the variant
func (s *ObjectState) UnmarshalJSON(data []byte) error {
	var raw struct {
		ObjectID string          `json:"objectId"`
		Variant  object.Variant  `json:"variant"`
		Payload  json.RawMessage `json:"payload"`
		Version  int64           `json:"version"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.ObjectID = raw.ObjectID
	s.Variant = raw.Variant
	s.Version = raw.Version

	switch raw.Variant {
	case object.VariantStroke:
		var st object.Stroke
		if err := json.Unmarshal(raw.Payload, &st); err != nil {
			return fmt.Errorf("stroke payload: %w", err)
		}
		s.Payload = &st
	case object.VariantNote:
		var n object.Note
		if err := json.Unmarshal(raw.Payload, &n); err != nil {
			return fmt.Errorf("note payload: %w", err)
		}
		s.Payload = &n
	default:
		return fmt.Errorf("unknown variant %q", raw.Variant)
	}
	return nil
}
