package player

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cutform/cutform-engine/internal/timeline"
)

// fakeSource records the calls the pool makes.
type fakeSource struct {
	position float64
	seeks    []float64
	playing  bool
}

func (f *fakeSource) Position() float64 { return f.position }
func (f *fakeSource) SeekTo(offset float64) {
	f.seeks = append(f.seeks, offset)
	f.position = offset
}
func (f *fakeSource) Play()  { f.playing = true }
func (f *fakeSource) Pause() { f.playing = false }

func activeFor(assetID string, offset float64) []ActiveClip {
	return []ActiveClip{{
		TrackID:   "video-1",
		TrackKind: timeline.TrackVideo,
		Clip:      timeline.Clip{InstanceID: "c1", AssetID: assetID},
		Offset:    offset,
	}}
}

func TestSync_PlaysActiveSource(t *testing.T) {
	pool := NewSourcePool()
	src := &fakeSource{position: 3}
	pool.Attach("a1", src)

	pool.Sync(activeFor("a1", 3.05), true)

	assert.True(t, src.playing)
	assert.Empty(t, src.seeks)
}

func TestSync_SeeksOnlyBeyondDriftThreshold(t *testing.T) {
	pool := NewSourcePool()
	src := &fakeSource{position: 3}
	pool.Attach("a1", src)

	// Within the threshold: no seek, continuous playback is not thrashed.
	pool.Sync(activeFor("a1", 3.1), true)
	assert.Empty(t, src.seeks)

	pool.Sync(activeFor("a1", 3.5), true)
	assert.Equal(t, []float64{3.5}, src.seeks)
}

func TestSync_PausesInactiveSources(t *testing.T) {
	pool := NewSourcePool()
	active := &fakeSource{}
	idle := &fakeSource{playing: true}
	pool.Attach("a1", active)
	pool.Attach("a2", idle)

	pool.Sync(activeFor("a1", 0), true)

	assert.True(t, active.playing)
	assert.False(t, idle.playing)
}

func TestSync_PausedPlayheadPausesSources(t *testing.T) {
	pool := NewSourcePool()
	src := &fakeSource{playing: true, position: 5}
	pool.Attach("a1", src)

	pool.Sync(activeFor("a1", 2), false)

	assert.False(t, src.playing)
	assert.Equal(t, []float64{2}, src.seeks)
}

func TestSync_IgnoresTextClips(t *testing.T) {
	pool := NewSourcePool()
	src := &fakeSource{playing: true}
	pool.Attach("a1", src)

	text := []ActiveClip{{
		TrackID:   "text-1",
		TrackKind: timeline.TrackText,
		Clip:      timeline.Clip{InstanceID: "t1", Text: timeline.DefaultTextStyle("x")},
		Offset:    1,
	}}
	pool.Sync(text, true)

	// No asset backs the text clip, so the attached source reads as unseen.
	assert.False(t, src.playing)
}

func TestDetach_PausesFirst(t *testing.T) {
	pool := NewSourcePool()
	src := &fakeSource{playing: true}
	pool.Attach("a1", src)

	pool.Detach("a1")

	assert.False(t, src.playing)

	// Sync after detach no longer touches the source.
	pool.Sync(activeFor("a1", 0), true)
	assert.False(t, src.playing)
}

func TestAttach_ReplacesExisting(t *testing.T) {
	pool := NewSourcePool()
	old := &fakeSource{}
	replacement := &fakeSource{}
	pool.Attach("a1", old)
	pool.Attach("a1", replacement)

	pool.Sync(activeFor("a1", 0), true)

	assert.False(t, old.playing)
	assert.True(t, replacement.playing)
}
