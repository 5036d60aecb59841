package transport

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"whiteboard/internal/protocol"
)

// readJoin: reads the first frame of a new connection, which must be a join, within timeout
func readJoin(conn *websocket.Conn, timeout time.Duration) (*protocol.Join, error) {
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to receive join message: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{}) // Clear timeout

	in, err := protocol.Decode(msg)
	if err != nil {
		return nil, fmt.Errorf("invalid join message: %w", err)
	}

	join, ok := in.(*protocol.Join)
	if !ok {
		return nil, fmt.Errorf("expected join message, got: %s", in.Type())
	}
	return join, nil
}

// reject: tells the client why it is refused, then closes the websocket handshake cleanly
func reject(conn *websocket.Conn, writeWait time.Duration, code int, reason string) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if data, err := protocol.Encode(protocol.Error{Message: reason}); err == nil {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
}
