package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"whiteboard/internal/object"
)

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
)

type envelope struct {
	Type Type `json:"type"`
}

type mutateWire struct {
	ObjectID    string          `json:"objectId"`
	Variant     object.Variant  `json:"variant"`
	Payload     json.RawMessage `json:"payload"`
	VersionHint *int64          `json:"versionHint,omitempty"`
}

// Decode: parses one client frame
func Decode(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case TypeJoin:
		var msg Join
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("%w: join: %v", ErrMalformed, err)
		}
		if len(msg.BoardID) > object.MaxIDLength || len(msg.ClientID) > object.MaxIDLength {
			return nil, fmt.Errorf("%w: join: identifier too long", ErrMalformed)
		}
		return &msg, nil

	case TypeMutateObject:
		return decodeMutate(data)

	case TypeDeleteObject:
		var msg DeleteObject
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("%w: deleteObject: %v", ErrMalformed, err)
		}
		if err := checkObjectID(msg.ObjectID); err != nil {
			return nil, err
		}
		return &msg, nil

	case TypeMoveCursor:
		var msg MoveCursor
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("%w: moveCursor: %v", ErrMalformed, err)
		}
		return &msg, nil

	case TypeLeave:
		return &Leave{}, nil

	case "":
		return nil, fmt.Errorf("%w: missing message type", ErrMalformed)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, env.Type)
	}
}

func decodeMutate(data []byte) (*MutateObject, error) {
	var w mutateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: mutateObject: %v", ErrMalformed, err)
	}
	if err := checkObjectID(w.ObjectID); err != nil {
		return nil, err
	}
	if len(w.Payload) == 0 {
		return nil, fmt.Errorf("%w: mutateObject: missing payload", ErrMalformed)
	}

	msg := &MutateObject{
		ObjectID:    w.ObjectID,
		Mutation:    object.Mutation{Variant: w.Variant},
		VersionHint: w.VersionHint,
	}

	switch w.Variant {
	case object.VariantStroke:
		var p object.StrokePatch
		if err := json.Unmarshal(w.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: stroke payload: %v", ErrMalformed, err)
		}
		msg.Mutation.Stroke = &p
	case object.VariantNote:
		var p object.NotePatch
		if err := json.Unmarshal(w.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: note payload: %v", ErrMalformed, err)
		}
		msg.Mutation.Note = &p
	default:
		return nil, fmt.Errorf("%w: unknown variant %q", ErrMalformed, w.Variant)
	}
	return msg, nil
}

func checkObjectID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: missing objectId", ErrMalformed)
	}
	if len(id) > object.MaxIDLength {
		return fmt.Errorf("%w: objectId too long", ErrMalformed)
	}
	return nil
}

// Encode: serializes a server frame, filling in its type
func Encode(msg Outbound) ([]byte, error) {
	switch m := msg.(type) {
	case Snapshot:
		m.MsgType = TypeSnapshot
		if m.Objects == nil {
			m.Objects = []ObjectState{}
		}
		if m.Cursors == nil {
			m.Cursors = []CursorState{}
		}
		return json.Marshal(m)
	case ObjectUpdated:
		m.MsgType = TypeObjectUpdated
		return json.Marshal(m)
	case ObjectDeleted:
		m.MsgType = TypeObjectDeleted
		return json.Marshal(m)
	case CursorUpdated:
		m.MsgType = TypeCursorUpdated
		return json.Marshal(m)
	case CursorRemoved:
		m.MsgType = TypeCursorRemoved
		return json.Marshal(m)
	case Error:
		m.MsgType = TypeError
		return json.Marshal(m)
	default:
		return nil, fmt.Errorf("protocol.Encode: unsupported message %T", msg)
	}
}

// DecodeOutbound: parses one server frame (client side)
func DecodeOutbound(data []byte) (Outbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var (
		msg Outbound
		err error
	)
	switch env.Type {
	case TypeSnapshot:
		var m Snapshot
		err = json.Unmarshal(data, &m)
		msg = m
	case TypeObjectUpdated:
		var m ObjectUpdated
		err = json.Unmarshal(data, &m)
		msg = m
	case TypeObjectDeleted:
		var m ObjectDeleted
		err = json.Unmarshal(data, &m)
		msg = m
	case TypeCursorUpdated:
		var m CursorUpdated
		err = json.Unmarshal(data, &m)
		msg = m
	case TypeCursorRemoved:
		var m CursorRemoved
		err = json.Unmarshal(data, &m)
		msg = m
	case TypeError:
		var m Error
		err = json.Unmarshal(data, &m)
		msg = m
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, env.Type, err)
	}
	return msg, nil
}
