// Package player advances the shared playhead and keeps external media
// sources in sync with it. It only ever reads timeline snapshots; the
// editor owns all mutation.
package player

import "time"

const (
	// DriftThreshold is the tolerated gap, in seconds, between a media
	// source's reported position and the offset the playhead implies.
	// Seeks below it would thrash continuous playback.
	DriftThreshold = 0.2

	// endEpsilon widens the "already at the end" check so toggling play
	// on a finished timeline restarts from zero.
	endEpsilon = 0.05
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Scheduler is a two-state machine (paused/playing) around the single
// authoritative currentTime. Playback advances by measured wall-clock
// deltas, not fixed steps, so slow ticks do not slow the playhead.
type Scheduler struct {
	clock    Clock
	playing  bool
	current  float64
	lastTick time.Time
}

func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = systemClock{}
	}
	return &Scheduler{clock: clock}
}

func (s *Scheduler) Playing() bool { return s.playing }

func (s *Scheduler) CurrentTime() float64 { return s.current }

// TogglePlay flips between paused and playing. Starting playback at (or
// past) the end restarts from zero. Reports the new playing state.
func (s *Scheduler) TogglePlay(totalDuration float64) bool {
	if s.playing {
		s.playing = false
		return false
	}

	if s.current >= totalDuration-endEpsilon {
		s.current = 0
	}
	s.lastTick = s.clock.Now()
	s.playing = true
	return true
}

// Pause stops playback without moving the playhead.
func (s *Scheduler) Pause() {
	s.playing = false
}

// Scrub jumps the playhead, always interrupting playback. The single
// currentTime means a scrub supersedes any in-flight advancement.
func (s *Scheduler) Scrub(t float64) {
	s.playing = false
	if t < 0 {
		t = 0
	}
	s.current = t
}

// Tick advances the playhead by the wall-clock delta since the previous
// tick. Reaching the end clamps to totalDuration and pauses. Returns the
// new current time.
func (s *Scheduler) Tick(totalDuration float64) float64 {
	if !s.playing {
		return s.current
	}

	now := s.clock.Now()
	s.current += now.Sub(s.lastTick).Seconds()
	s.lastTick = now

	if s.current >= totalDuration {
		s.current = totalDuration
		s.playing = false
	}
	return s.current
}
