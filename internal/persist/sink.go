//go:generate go run go.uber.org/mock/mockgen -source=sink.go -destination=../mocks/mock_sink.go -package=mocks

package persist

import "whiteboard/internal/object"

// Sink observes accepted object changes of every board.
// Calls come from hub goroutines and must not block.
type Sink interface {
	ObjectUpdated(boardID string, obj object.Drawing)
	ObjectDeleted(boardID, objectID string)
}

// Nop: sink that drops everything
type Nop struct{}

func (Nop) ObjectUpdated(string, object.Drawing) {}
func (Nop) ObjectDeleted(string, string)         {}
