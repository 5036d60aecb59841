package board

import "errors"

var (
	// ErrHubClosed: the hub (or registry) was torn down while a command was in flight
	ErrHubClosed     = errors.New("board hub closed")
	ErrRoomFull      = errors.New("board is full")
	ErrTooManyBoards = errors.New("server at maximum board capacity")
	// ErrNotSubscribed: the client was never joined, or was evicted or replaced
	ErrNotSubscribed = errors.New("client not subscribed to board")
)
