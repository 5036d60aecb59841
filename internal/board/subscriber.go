package board

import "whiteboard/internal/protocol"

// Subscriber: one joined connection of a board.
// The hub is the only writer of its outbox and closes it when the subscription ends.
type Subscriber struct {
	ClientID    string
	DisplayName string
	Color       string

	send chan protocol.Outbound
	// cursorGone: a CursorRemoved was already announced since the last cursor move
	cursorGone bool
}

// NewSubscriber: buffer is the outbox capacity. A subscriber whose outbox is full gets evicted.
func NewSubscriber(clientID, displayName, color string, buffer int) *Subscriber {
	if buffer < 1 {
		buffer = 1
	}
	return &Subscriber{
		ClientID:    clientID,
		DisplayName: displayName,
		Color:       color,
		send:        make(chan protocol.Outbound, buffer),
	}
}

// Outbound: frames to deliver, closed once the hub drops the subscriber
func (s *Subscriber) Outbound() <-chan protocol.Outbound {
	return s.send
}
