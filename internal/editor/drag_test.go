package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrag_BeginRequiresExistingClip(t *testing.T) {
	e := New(testAssets())
	d := NewDrag(e)

	assert.False(t, d.Begin(DragMove, "missing", 0))
	assert.False(t, d.Active())
}

func TestDrag_GesturesAreExclusive(t *testing.T) {
	e := New(testAssets())
	id := place(t, e, "vid", "video-1", 0)
	d := NewDrag(e)

	require.True(t, d.Begin(DragMove, id, 100))
	assert.False(t, d.Begin(DragTrimEnd, id, 100))
	assert.Equal(t, DragMove, d.Kind())
}

func TestDrag_UpdatePreviewsWithoutCommitting(t *testing.T) {
	e := New(testAssets())
	id := place(t, e, "vid", "video-1", 5)
	d := NewDrag(e)

	require.True(t, d.Begin(DragMove, id, 100))

	// 50px at 10 px/s is a 5s shift.
	preview, ok := d.Update(150, 10)
	require.True(t, ok)
	assert.Equal(t, 10.0, preview.TimelineStart)

	// The model is untouched and nothing hit the history.
	cur := e.Current()
	track, idx := cur.FindClip(id)
	assert.Equal(t, 5.0, track.Clips[idx].TimelineStart)
	assert.True(t, e.CanUndo()) // only the placement itself
	e.Undo()
	assert.False(t, e.CanUndo())
}

func TestDrag_UpdateRecomputesFromOrigin(t *testing.T) {
	e := New(testAssets())
	id := place(t, e, "vid", "video-1", 5)
	d := NewDrag(e)
	require.True(t, d.Begin(DragMove, id, 100))

	// A jittery pointer stream lands where the last position says, not
	// where the increments accumulate.
	d.Update(200, 10)
	d.Update(40, 10)
	preview, ok := d.Update(120, 10)
	require.True(t, ok)
	assert.Equal(t, 7.0, preview.TimelineStart)
}

func TestDrag_EndCommitsSingleHistoryEntry(t *testing.T) {
	e := New(testAssets())
	id := place(t, e, "vid", "video-1", 5)
	d := NewDrag(e)

	require.True(t, d.Begin(DragMove, id, 100))
	d.Update(110, 10)
	d.Update(180, 10)
	tl := d.End(150, 10)

	track, idx := tl.FindClip(id)
	assert.Equal(t, 10.0, track.Clips[idx].TimelineStart)
	assert.False(t, d.Active())

	// One undo reverts the whole gesture.
	undone := e.Undo()
	track, idx = undone.FindClip(id)
	assert.Equal(t, 5.0, track.Clips[idx].TimelineStart)
}

func TestDrag_EndWithoutMovementCommitsNothing(t *testing.T) {
	e := New(testAssets())
	id := place(t, e, "vid", "video-1", 5)
	d := NewDrag(e)

	require.True(t, d.Begin(DragMove, id, 100))
	d.End(100, 10)

	// Only the placement remains undoable.
	e.Undo()
	assert.False(t, e.CanUndo())
}

func TestDrag_TrimStartGesture(t *testing.T) {
	e := New(testAssets())
	id := place(t, e, "vid", "video-1", 5)
	d := NewDrag(e)

	require.True(t, d.Begin(DragTrimStart, id, 0))
	tl := d.End(20, 10)

	track, idx := tl.FindClip(id)
	c := track.Clips[idx]
	assert.Equal(t, 2.0, c.TrimStart)
	assert.Equal(t, 7.0, c.TimelineStart)
	assert.Equal(t, 8.0, c.Duration)
}

func TestDrag_TrimEndGesture(t *testing.T) {
	e := New(testAssets())
	id := place(t, e, "vid", "video-1", 0)
	d := NewDrag(e)

	require.True(t, d.Begin(DragTrimEnd, id, 0))
	tl := d.End(-30, 10)

	track, idx := tl.FindClip(id)
	assert.Equal(t, 7.0, track.Clips[idx].Duration)
}

func TestDrag_RejectedTrimPreviewFallsBackToOriginal(t *testing.T) {
	e := New(testAssets())
	id := place(t, e, "vid", "video-1", 0)
	d := NewDrag(e)

	require.True(t, d.Begin(DragTrimEnd, id, 0))
	preview, ok := d.Update(-95, 10)
	require.True(t, ok)
	assert.Equal(t, 10.0, preview.Duration)
}

func TestDrag_Cancel(t *testing.T) {
	e := New(testAssets())
	id := place(t, e, "vid", "video-1", 5)
	d := NewDrag(e)

	require.True(t, d.Begin(DragMove, id, 100))
	d.Cancel()

	assert.False(t, d.Active())
	cur := e.Current()
	track, idx := cur.FindClip(id)
	assert.Equal(t, 5.0, track.Clips[idx].TimelineStart)

	_, ok := d.Update(200, 10)
	assert.False(t, ok)
}

func TestDrag_PreviewMatchesCommit(t *testing.T) {
	e := New(testAssets())
	id := place(t, e, "vid", "video-1", 5)
	d := NewDrag(e)

	require.True(t, d.Begin(DragTrimStart, id, 0))
	preview, ok := d.Update(30, 10)
	require.True(t, ok)

	tl := d.End(30, 10)
	track, idx := tl.FindClip(id)
	committed := track.Clips[idx]

	assert.Equal(t, preview.TrimStart, committed.TrimStart)
	assert.Equal(t, preview.TimelineStart, committed.TimelineStart)
	assert.Equal(t, preview.Duration, committed.Duration)
}
