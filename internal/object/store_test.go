package object

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func strokeAppend(points ...Point) Mutation {
	return Mutation{Variant: VariantStroke, Stroke: &StrokePatch{Points: points}}
}

func noteText(text string) Mutation {
	return Mutation{Variant: VariantNote, Note: &NotePatch{Text: ptr(text)}}
}

func TestStore_ApplyCreatesAtVersionOne(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	res, err := s.Apply("s1", strokeAppend(Point{0, 0}), nil)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.True(t, res.Created)
	assert.Equal(t, int64(1), res.Object.Version)
	assert.Equal(t, []Point{{0, 0}}, res.Object.Stroke.Points)
	assert.Equal(t, DefaultStrokeColor, res.Object.Stroke.Color)
	assert.Equal(t, float64(DefaultStrokeWidth), res.Object.Stroke.Width)
}

func TestStore_ApplyCreateIgnoresHint(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	res, err := s.Apply("n1", noteText("hi"), ptr(int64(42)))
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, int64(1), res.Object.Version)
	assert.Equal(t, "hi", res.Object.Note.Text)
	assert.Equal(t, DefaultNoteColor, res.Object.Note.Color)
	assert.Equal(t, float64(DefaultNoteWidth), res.Object.Note.Width)
	assert.Equal(t, float64(DefaultNoteHeight), res.Object.Note.Height)
}

func TestStore_VersionCountsAcceptedMutations(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	_, err := s.Apply("n1", noteText("v1"), nil)
	require.NoError(t, err)

	accepted := 1
	for i := 0; i < 10; i++ {
		var hint *int64
		switch i % 3 {
		case 0:
			hint = nil
		case 1:
			cur, _ := s.Get("n1")
			hint = ptr(cur.Version)
		case 2:
			hint = ptr(int64(0)) // always stale
		}
		res, err := s.Apply("n1", noteText("x"), hint)
		require.NoError(t, err)
		if res.Accepted {
			accepted++
		}
		cur, _ := s.Get("n1")
		assert.Equal(t, int64(accepted), cur.Version)
	}
}

func TestStore_StaleHintRejectedWithoutChange(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	_, err := s.Apply("n1", noteText("one"), nil)
	require.NoError(t, err)
	res, err := s.Apply("n1", noteText("two"), ptr(int64(1)))
	require.NoError(t, err)
	require.True(t, res.Accepted)
	require.Equal(t, int64(2), res.Object.Version)

	res, err = s.Apply("n1", noteText("stale"), ptr(int64(1)))
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, int64(2), res.Object.Version)
	assert.Equal(t, "two", res.Object.Note.Text)

	cur, ok := s.Get("n1")
	require.True(t, ok)
	assert.Equal(t, "two", cur.Note.Text)
	assert.Equal(t, int64(2), cur.Version)
}

func TestStore_HintAheadIsAccepted(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	_, err := s.Apply("n1", noteText("one"), nil)
	require.NoError(t, err)
	res, err := s.Apply("n1", noteText("two"), ptr(int64(7)))
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, int64(2), res.Object.Version)
}

func TestStore_StrokeAppendMergesPoints(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	_, err := s.Apply("s1", strokeAppend(Point{0, 0}), nil)
	require.NoError(t, err)
	_, err = s.Apply("s1", strokeAppend(Point{1, 1}, Point{2, 2}), nil)
	require.NoError(t, err)

	got, ok := s.Get("s1")
	require.True(t, ok)
	assert.Equal(t, []Point{{0, 0}, {1, 1}, {2, 2}}, got.Stroke.Points)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, 1, s.Len())
}

func TestStore_StrokeWithHintReplacesPoints(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	_, err := s.Apply("s1", strokeAppend(Point{0, 0}, Point{1, 1}), nil)
	require.NoError(t, err)

	m := Mutation{Variant: VariantStroke, Stroke: &StrokePatch{Points: []Point{{5, 5}}, Color: ptr("#ff0000")}}
	_, err = s.Apply("s1", m, ptr(int64(1)))
	require.NoError(t, err)

	got, _ := s.Get("s1")
	assert.Equal(t, []Point{{5, 5}}, got.Stroke.Points)
	assert.Equal(t, "#ff0000", got.Stroke.Color)

	// recolor only, points untouched
	m = Mutation{Variant: VariantStroke, Stroke: &StrokePatch{Width: ptr(9.0)}}
	_, err = s.Apply("s1", m, ptr(int64(2)))
	require.NoError(t, err)
	got, _ = s.Get("s1")
	assert.Equal(t, []Point{{5, 5}}, got.Stroke.Points)
	assert.Equal(t, 9.0, got.Stroke.Width)
}

func TestStore_NoteMergesPartialPatch(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	_, err := s.Apply("n1", Mutation{Variant: VariantNote, Note: &NotePatch{X: ptr(10.0), Y: ptr(20.0)}}, nil)
	require.NoError(t, err)
	_, err = s.Apply("n1", noteText("moved"), ptr(int64(1)))
	require.NoError(t, err)

	got, _ := s.Get("n1")
	assert.Equal(t, 10.0, got.Note.X)
	assert.Equal(t, 20.0, got.Note.Y)
	assert.Equal(t, "moved", got.Note.Text)
}

func TestStore_VariantMismatch(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	_, err := s.Apply("x", strokeAppend(Point{0, 0}), nil)
	require.NoError(t, err)

	res, err := s.Apply("x", noteText("nope"), nil)
	require.ErrorIs(t, err, ErrVariantMismatch)
	assert.False(t, res.Accepted)

	got, _ := s.Get("x")
	assert.Equal(t, int64(1), got.Version)
}

func TestStore_InvalidMutation(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	_, err := s.Apply("x", Mutation{Variant: VariantStroke}, nil)
	require.ErrorIs(t, err, ErrInvalidPayload)

	_, err = s.Apply("x", Mutation{Variant: "circle"}, nil)
	require.ErrorIs(t, err, ErrInvalidPayload)
	assert.Equal(t, 0, s.Len())
}

func TestStore_MaxObjects(t *testing.T) {
	t.Parallel()
	s := NewStore(2)

	_, err := s.Apply("a", noteText("a"), nil)
	require.NoError(t, err)
	_, err = s.Apply("b", noteText("b"), nil)
	require.NoError(t, err)

	_, err = s.Apply("c", noteText("c"), nil)
	require.ErrorIs(t, err, ErrTooManyObjects)

	// updates to existing objects still go through
	res, err := s.Apply("a", noteText("a2"), nil)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
}

func TestStore_PointLimitAfterMerge(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	points := make([]Point, MaxPointsInPath)
	_, err := s.Apply("s1", strokeAppend(points...), nil)
	require.NoError(t, err)

	_, err = s.Apply("s1", strokeAppend(Point{1, 1}), nil)
	require.True(t, errors.Is(err, ErrInvalidPayload))

	got, _ := s.Get("s1")
	assert.Len(t, got.Stroke.Points, MaxPointsInPath)
	assert.Equal(t, int64(1), got.Version)
}

func TestStore_DeleteIdempotent(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	_, err := s.Apply("n1", noteText("x"), nil)
	require.NoError(t, err)

	assert.True(t, s.Delete("n1"))
	assert.False(t, s.Delete("n1"))
	assert.False(t, s.Delete("never"))
	assert.Equal(t, 0, s.Len())
}

func TestStore_SnapshotOrderedAndDetached(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	for _, id := range []string{"c", "a", "b"} {
		_, err := s.Apply(id, strokeAppend(Point{1, 1}), nil)
		require.NoError(t, err)
	}

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "c", snap[0].ID)
	assert.Equal(t, "a", snap[1].ID)
	assert.Equal(t, "b", snap[2].ID)

	// mutating the snapshot must not reach the store
	snap[0].Stroke.Points[0] = Point{99, 99}
	snap[0].Stroke.Points = append(snap[0].Stroke.Points, Point{7, 7})

	got, _ := s.Get("c")
	assert.Equal(t, []Point{{1, 1}}, got.Stroke.Points)
}

func TestStore_ResultDetachedFromStore(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	res, err := s.Apply("s1", strokeAppend(Point{1, 1}), nil)
	require.NoError(t, err)
	res.Object.Stroke.Points[0] = Point{5, 5}

	got, _ := s.Get("s1")
	assert.Equal(t, Point{1, 1}, got.Stroke.Points[0])
}
