package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestScheduler_StartsPausedAtZero(t *testing.T) {
	s := NewScheduler(newFakeClock())

	assert.False(t, s.Playing())
	assert.Equal(t, 0.0, s.CurrentTime())
}

func TestTogglePlay_FlipsState(t *testing.T) {
	s := NewScheduler(newFakeClock())

	assert.True(t, s.TogglePlay(20))
	assert.True(t, s.Playing())

	assert.False(t, s.TogglePlay(20))
	assert.False(t, s.Playing())
}

func TestTick_AdvancesByWallClockDelta(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(clock)
	s.TogglePlay(20)

	clock.advance(500 * time.Millisecond)
	assert.InDelta(t, 0.5, s.Tick(20), 1e-9)

	// A slow tick advances by the real elapsed time, not a fixed step.
	clock.advance(2 * time.Second)
	assert.InDelta(t, 2.5, s.Tick(20), 1e-9)
}

func TestTick_WhenPausedDoesNothing(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(clock)

	clock.advance(5 * time.Second)
	assert.Equal(t, 0.0, s.Tick(20))
}

func TestTick_ClampsAtEndAndPauses(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(clock)
	s.TogglePlay(10)

	clock.advance(15 * time.Second)
	got := s.Tick(10)

	assert.Equal(t, 10.0, got)
	assert.False(t, s.Playing())
}

func TestTogglePlay_AtEndRestartsFromZero(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(clock)
	s.TogglePlay(10)
	clock.advance(15 * time.Second)
	s.Tick(10)

	s.TogglePlay(10)

	assert.True(t, s.Playing())
	assert.Equal(t, 0.0, s.CurrentTime())
}

func TestTogglePlay_NearEndRestartsFromZero(t *testing.T) {
	s := NewScheduler(newFakeClock())
	s.Scrub(9.97)

	s.TogglePlay(10)

	assert.Equal(t, 0.0, s.CurrentTime())
}

func TestTogglePlay_MidTimelineResumesInPlace(t *testing.T) {
	s := NewScheduler(newFakeClock())
	s.Scrub(4)

	s.TogglePlay(10)

	assert.Equal(t, 4.0, s.CurrentTime())
}

func TestScrub_PausesAndJumps(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(clock)
	s.TogglePlay(20)

	s.Scrub(7.5)

	assert.False(t, s.Playing())
	assert.Equal(t, 7.5, s.CurrentTime())
}

func TestScrub_NegativeClampsToZero(t *testing.T) {
	s := NewScheduler(newFakeClock())

	s.Scrub(-3)

	assert.Equal(t, 0.0, s.CurrentTime())
}

func TestTogglePlay_ResetsDeltaBaseline(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(clock)

	// Time passing while paused must not count once playback resumes.
	clock.advance(time.Hour)
	s.TogglePlay(20)
	clock.advance(time.Second)

	assert.InDelta(t, 1.0, s.Tick(20), 1e-9)
}

func TestPause_StopsWithoutMoving(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(clock)
	s.TogglePlay(20)
	clock.advance(3 * time.Second)
	s.Tick(20)

	s.Pause()

	assert.False(t, s.Playing())
	assert.InDelta(t, 3.0, s.CurrentTime(), 1e-9)
}
