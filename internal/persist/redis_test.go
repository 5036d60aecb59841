package persist

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard/internal/object"
	"whiteboard/internal/protocol"
)

func note(id, text string, version int64) object.Drawing {
	return object.Drawing{
		ID:      id,
		Variant: object.VariantNote,
		Note:    &object.Note{Text: text, Color: object.DefaultNoteColor, Width: 150, Height: 100},
		Version: version,
	}
}

func TestBoardKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "wb:board:b1:objects", BoardKey("b1"))
	assert.NotEqual(t, BoardKey("b1"), BoardKey("b2"))
}

func TestRedisSink_CoalescesPerObject(t *testing.T) {
	t.Parallel()
	s := newRedisSink(nil, time.Second, zerolog.Nop())

	s.ObjectUpdated("b1", note("n1", "one", 1))
	s.ObjectUpdated("b1", note("n1", "two", 2))
	s.ObjectUpdated("b2", note("n1", "other board", 1))
	s.ObjectUpdated("b1", note("n2", "x", 1))
	s.ObjectDeleted("b1", "n2")

	batch := s.take()
	require.Len(t, batch, 3)

	var state protocol.ObjectState
	require.NoError(t, json.Unmarshal(batch[pendingKey{"b1", "n1"}], &state))
	assert.Equal(t, int64(2), state.Version)
	assert.Equal(t, "two", state.Payload.(*object.Note).Text)

	data, ok := batch[pendingKey{"b1", "n2"}]
	assert.True(t, ok)
	assert.Nil(t, data)

	assert.Empty(t, s.take())
}

func TestRedisSink_RequeueKeepsNewerWrites(t *testing.T) {
	t.Parallel()
	s := newRedisSink(nil, time.Second, zerolog.Nop())

	s.ObjectUpdated("b1", note("n1", "old", 1))
	s.ObjectUpdated("b1", note("n2", "keep", 1))
	failed := s.take()

	s.ObjectUpdated("b1", note("n1", "new", 2))
	s.requeue(failed)

	batch := s.take()
	require.Len(t, batch, 2)
	var state protocol.ObjectState
	require.NoError(t, json.Unmarshal(batch[pendingKey{"b1", "n1"}], &state))
	assert.Equal(t, int64(2), state.Version)
}

func TestRedisSink_KicksWhenFull(t *testing.T) {
	t.Parallel()
	s := newRedisSink(nil, time.Hour, zerolog.Nop())
	s.maxPending = 2

	s.ObjectDeleted("b1", "a")
	select {
	case <-s.kick:
		t.Fatal("kicked before the batch was full")
	default:
	}

	s.ObjectDeleted("b1", "b")
	select {
	case <-s.kick:
	default:
		t.Fatal("expected an early flush signal")
	}
}

// Runs against a real Redis when REDIS_ADDR is set.
func TestRedisSink_FlushIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	s, err := NewRedisSink(ctx, addr, "", 0, time.Second, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	board := "itest-" + time.Now().Format("150405.000000")
	defer client.Del(ctx, BoardKey(board))

	s.ObjectUpdated(board, note("n1", "hello", 1))
	s.ObjectUpdated(board, note("n2", "bye", 1))
	require.NoError(t, s.Flush(ctx))

	fields, err := client.HGetAll(ctx, BoardKey(board)).Result()
	require.NoError(t, err)
	assert.Len(t, fields, 2)

	s.ObjectDeleted(board, "n2")
	require.NoError(t, s.Flush(ctx))

	fields, err = client.HGetAll(ctx, BoardKey(board)).Result()
	require.NoError(t, err)
	assert.Len(t, fields, 1)
	assert.Contains(t, fields, "n1")
}
