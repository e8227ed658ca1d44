package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cutform/cutform-engine/internal/db"
	"github.com/cutform/cutform-engine/internal/editor"
	"github.com/cutform/cutform-engine/internal/media"
	"github.com/cutform/cutform-engine/internal/timeline"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeSource struct {
	position float64
	seeks    int
	playing  bool
}

func (f *fakeSource) Position() float64 { return f.position }
func (f *fakeSource) SeekTo(offset float64) {
	f.seeks++
	f.position = offset
}
func (f *fakeSource) Play()  { f.playing = true }
func (f *fakeSource) Pause() { f.playing = false }

func setupSession(t *testing.T) (*Session, *media.Registry, *fakeClock) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	registry, err := media.NewRegistry(context.Background(), media.NewRepository(database.Conn()), nil)
	require.NoError(t, err)

	clock := &fakeClock{now: time.Unix(1000, 0)}
	sess := New(Config{Registry: registry, Clock: clock})
	return sess, registry, clock
}

// registerImage ingests an image asset, which resolves without probing.
func registerImage(t *testing.T, registry *media.Registry, handle string) string {
	t.Helper()
	asset, err := registry.Register(context.Background(), media.KindImage, handle, handle)
	require.NoError(t, err)
	return asset.ID
}

func placeImage(t *testing.T, sess *Session, registry *media.Registry, at float64) string {
	t.Helper()
	assetID := registerImage(t, registry, "/media/still.png")
	snap := sess.PlaceClip(assetID, "video-1", at)
	for _, track := range snap.Tracks {
		for _, c := range track.Clips {
			if c.AssetID == assetID && c.TimelineStart == at {
				return c.InstanceID
			}
		}
	}
	t.Fatal("placed clip not found in snapshot")
	return ""
}

func TestSnapshot_InitialState(t *testing.T) {
	sess, _, _ := setupSession(t)

	snap := sess.Snapshot()

	assert.Len(t, snap.Tracks, 3)
	assert.Equal(t, 0.0, snap.CurrentTime)
	assert.Equal(t, timeline.MinDuration, snap.TotalDuration)
	assert.False(t, snap.Playing)
	assert.False(t, snap.CanUndo)
	assert.False(t, snap.CanRedo)
	assert.Empty(t, snap.SelectedID)
}

func TestPlaceClip_ReflectedInSnapshot(t *testing.T) {
	sess, registry, _ := setupSession(t)

	id := placeImage(t, sess, registry, 2)

	snap := sess.Snapshot()
	assert.True(t, snap.CanUndo)
	require.NotEmpty(t, id)
}

func TestTogglePlayAndTick_AdvancesPlayhead(t *testing.T) {
	sess, _, clock := setupSession(t)

	snap := sess.TogglePlay()
	require.True(t, snap.Playing)

	clock.advance(500 * time.Millisecond)
	sess.Tick()

	snap = sess.Snapshot()
	assert.InDelta(t, 0.5, snap.CurrentTime, 1e-9)
}

func TestTick_StopsAtTimelineEnd(t *testing.T) {
	sess, _, clock := setupSession(t)

	sess.TogglePlay()
	clock.advance(25 * time.Second)
	sess.Tick()

	snap := sess.Snapshot()
	assert.Equal(t, timeline.MinDuration, snap.CurrentTime)
	assert.False(t, snap.Playing)
}

func TestScrub_PausesAndJumps(t *testing.T) {
	sess, _, _ := setupSession(t)
	sess.TogglePlay()

	snap := sess.Scrub(7)

	assert.False(t, snap.Playing)
	assert.Equal(t, 7.0, snap.CurrentTime)
}

func TestCurrentFrame_ResolvesActiveClips(t *testing.T) {
	sess, registry, _ := setupSession(t)
	id := placeImage(t, sess, registry, 0)
	sess.SetEffect(id, timeline.EffectBrightness, 120)

	sess.Scrub(2)
	frame := sess.CurrentFrame()

	require.Len(t, frame.Clips, 1)
	assert.Equal(t, id, frame.Clips[0].Clip.InstanceID)
	assert.Equal(t, 2.0, frame.Clips[0].Offset)
	assert.Equal(t, "brightness(120%)", frame.Clips[0].Style.Filter)

	// Off the clip, the frame is empty.
	sess.Scrub(10)
	assert.Empty(t, sess.CurrentFrame().Clips)
}

func TestUndoRedo_ThroughSession(t *testing.T) {
	sess, registry, _ := setupSession(t)
	placeImage(t, sess, registry, 0)

	snap := sess.Undo()
	assert.False(t, snap.CanUndo)
	assert.True(t, snap.CanRedo)

	snap = sess.Redo()
	assert.True(t, snap.CanUndo)
	assert.False(t, snap.CanRedo)
}

func TestSourceSync_FollowsPlayback(t *testing.T) {
	sess, registry, clock := setupSession(t)
	assetID := registerImage(t, registry, "/media/still.png")
	sess.PlaceClip(assetID, "video-1", 0)

	src := &fakeSource{}
	sess.AttachSource(assetID, src)

	sess.Scrub(1)
	assert.False(t, src.playing)

	sess.TogglePlay()
	assert.True(t, src.playing)

	clock.advance(time.Second)
	sess.Tick()
	assert.True(t, src.playing)

	// Past the clip the source pauses even though playback continues.
	clock.advance(6 * time.Second)
	sess.Tick()
	assert.False(t, src.playing)
}

func TestDrag_ThroughSession(t *testing.T) {
	sess, registry, _ := setupSession(t)
	id := placeImage(t, sess, registry, 2)

	require.True(t, sess.DragBegin(editor.DragMove, id, 100))

	preview, ok := sess.DragUpdate(150, 10)
	require.True(t, ok)
	assert.Equal(t, 7.0, preview.TimelineStart)

	snap := sess.DragEnd(150, 10)
	var moved *timeline.Clip
	for _, track := range snap.Tracks {
		for i := range track.Clips {
			if track.Clips[i].InstanceID == id {
				moved = &track.Clips[i]
			}
		}
	}
	require.NotNil(t, moved)
	assert.Equal(t, 7.0, moved.TimelineStart)
}

func TestDragCancel_LeavesModelUntouched(t *testing.T) {
	sess, registry, _ := setupSession(t)
	id := placeImage(t, sess, registry, 2)

	require.True(t, sess.DragBegin(editor.DragMove, id, 100))
	sess.DragUpdate(900, 10)
	sess.DragCancel()

	tl := sess.Timeline()
	track, idx := tl.FindClip(id)
	require.NotNil(t, track)
	assert.Equal(t, 2.0, track.Clips[idx].TimelineStart)
}

func TestTimeline_ReturnsIsolatedCopy(t *testing.T) {
	sess, registry, _ := setupSession(t)
	id := placeImage(t, sess, registry, 0)

	tl := sess.Timeline()
	track, idx := tl.FindClip(id)
	track.Clips[idx].TimelineStart = 99

	again := sess.Timeline()
	track, idx = again.FindClip(id)
	assert.Equal(t, 0.0, track.Clips[idx].TimelineStart)
}

func TestRun_TicksUntilContextEnds(t *testing.T) {
	sess, _, clock := setupSession(t)
	sess.tickDur = time.Millisecond
	sess.TogglePlay()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sess.Run(ctx)
		close(done)
	}()

	clock.advance(100 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	assert.InDelta(t, 0.1, sess.Snapshot().CurrentTime, 1e-9)
}
