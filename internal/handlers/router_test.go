package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"whiteboard/internal/middleware"
	"whiteboard/internal/mocks"
	"whiteboard/internal/object"
	"whiteboard/internal/presence"
	"whiteboard/internal/protocol"
)

func newTestRouter(t *testing.T) (*MessageRouter, *mocks.MockHubAPI, *mocks.MockSessionProvider) {
	t.Helper()
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionProvider(ctrl)
	limits := &middleware.Limits{CursorThrottle: 33 * time.Millisecond}
	return NewMessageRouter(limits, sessions), mocks.NewMockHubAPI(ctrl), sessions
}

func TestRoute_Mutate(t *testing.T) {
	t.Parallel()
	router, hub, _ := newTestRouter(t)
	ctx := context.Background()

	hint := int64(2)
	msg := &protocol.MutateObject{
		ObjectID:    "n1",
		Mutation:    object.Mutation{Variant: object.VariantNote, Note: &object.NotePatch{}},
		VersionHint: &hint,
	}
	hub.EXPECT().HandleObjectMutation(ctx, "c1", "n1", msg.Mutation, &hint).Return(nil)

	require.NoError(t, router.Route(ctx, hub, "c1", msg))
}

func TestRoute_MutateErrorWrapped(t *testing.T) {
	t.Parallel()
	router, hub, _ := newTestRouter(t)
	ctx := context.Background()

	hub.EXPECT().HandleObjectMutation(ctx, "c1", "s1", gomock.Any(), gomock.Nil()).Return(object.ErrVariantMismatch)

	err := router.Route(ctx, hub, "c1", &protocol.MutateObject{ObjectID: "s1"})
	require.ErrorIs(t, err, object.ErrVariantMismatch)
	assert.Contains(t, err.Error(), "s1")
}

func TestRoute_Delete(t *testing.T) {
	t.Parallel()
	router, hub, _ := newTestRouter(t)
	ctx := context.Background()

	hub.EXPECT().HandleObjectDelete(ctx, "c1", "n1").Return(nil)
	require.NoError(t, router.Route(ctx, hub, "c1", &protocol.DeleteObject{ObjectID: "n1"}))
}

func TestRoute_LeaveAndJoin(t *testing.T) {
	t.Parallel()
	router, hub, _ := newTestRouter(t)
	ctx := context.Background()

	require.ErrorIs(t, router.Route(ctx, hub, "c1", &protocol.Leave{}), ErrLeave)
	require.ErrorIs(t, router.Route(ctx, hub, "c1", &protocol.Join{BoardID: "b"}), ErrAlreadyJoined)
}

// heldTimers: replaces time.AfterFunc so held cursor moves fire only when the test says so
type heldTimers struct {
	waits []time.Duration
	fns   []func()
}

func (ht *heldTimers) afterFunc(t *testing.T) func(time.Duration, func()) *time.Timer {
	return func(d time.Duration, fn func()) *time.Timer {
		ht.waits = append(ht.waits, d)
		ht.fns = append(ht.fns, fn)
		timer := time.NewTimer(time.Hour)
		t.Cleanup(func() { timer.Stop() })
		return timer
	}
}

func TestCursorHandler_Throttle(t *testing.T) {
	t.Parallel()
	router, hub, sessions := newTestRouter(t)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	router.cursorHandler.now = func() time.Time { return now }
	timers := &heldTimers{}
	router.cursorHandler.afterFunc = timers.afterFunc(t)

	// first move goes through
	sessions.EXPECT().LastCursor("c1").Return(time.Time{}, true)
	sessions.EXPECT().UpdateLastCursor("c1", now)
	hub.EXPECT().HandleCursorMove(ctx, "c1", presence.Position{X: 10, Y: 20}, "Ann", "#ff0000").Return(nil)
	require.NoError(t, router.Route(ctx, hub, "c1", &protocol.MoveCursor{X: 10, Y: 20, DisplayName: "Ann", Color: "#ff0000"}))

	// too soon: held back, and a later move in the same window replaces it
	last := now.Add(-10 * time.Millisecond)
	sessions.EXPECT().LastCursor("c1").Return(last, true).Times(2)
	require.NoError(t, router.Route(ctx, hub, "c1", &protocol.MoveCursor{X: 11, Y: 21}))
	require.NoError(t, router.Route(ctx, hub, "c1", &protocol.MoveCursor{X: 12, Y: 22}))
	require.Len(t, timers.fns, 1)
	assert.Equal(t, 23*time.Millisecond, timers.waits[0])

	// the window ends: only the latest position is delivered
	sessions.EXPECT().UpdateLastCursor("c1", now)
	hub.EXPECT().HandleCursorMove(gomock.Any(), "c1", presence.Position{X: 12, Y: 22}, "", "").Return(nil)
	timers.fns[0]()

	// firing again is a no-op
	timers.fns[0]()
}

func TestCursorHandler_DueMoveSupersedesHeldMove(t *testing.T) {
	t.Parallel()
	router, hub, sessions := newTestRouter(t)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	router.cursorHandler.now = func() time.Time { return now }
	timers := &heldTimers{}
	router.cursorHandler.afterFunc = timers.afterFunc(t)

	sessions.EXPECT().LastCursor("c1").Return(now.Add(-time.Millisecond), true)
	require.NoError(t, router.Route(ctx, hub, "c1", &protocol.MoveCursor{X: 1, Y: 1}))
	require.Len(t, timers.fns, 1)

	sessions.EXPECT().LastCursor("c1").Return(now.Add(-time.Second), true)
	sessions.EXPECT().UpdateLastCursor("c1", now)
	hub.EXPECT().HandleCursorMove(ctx, "c1", presence.Position{X: 2, Y: 2}, "", "").Return(nil)
	require.NoError(t, router.Route(ctx, hub, "c1", &protocol.MoveCursor{X: 2, Y: 2}))

	// the held move is stale now and never reaches the hub
	timers.fns[0]()
}

func TestCursorHandler_UnknownSession(t *testing.T) {
	t.Parallel()
	router, hub, sessions := newTestRouter(t)

	sessions.EXPECT().LastCursor("ghost").Return(time.Time{}, false)
	require.Error(t, router.Route(context.Background(), hub, "ghost", &protocol.MoveCursor{}))
}

func TestCursorHandler_HubErrorWrapped(t *testing.T) {
	t.Parallel()
	router, hub, sessions := newTestRouter(t)
	ctx := context.Background()
	hubErr := errors.New("hub gone")

	sessions.EXPECT().LastCursor("c1").Return(time.Time{}, true)
	sessions.EXPECT().UpdateLastCursor("c1", gomock.Any())
	hub.EXPECT().HandleCursorMove(ctx, "c1", gomock.Any(), "", "").Return(hubErr)

	require.ErrorIs(t, router.Route(ctx, hub, "c1", &protocol.MoveCursor{}), hubErr)
}
