// Package session owns one editing session: the asset registry view, the
// editor/history pair and the playback scheduler, all behind a single
// mutex. The original cooperative frame-driven model maps onto a server
// as one lock around one authoritative state: edits, scrubs and playback
// ticks serialize, so a scrub always supersedes an in-flight advancement.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cutform/cutform-engine/internal/compositor"
	"github.com/cutform/cutform-engine/internal/editor"
	"github.com/cutform/cutform-engine/internal/media"
	"github.com/cutform/cutform-engine/internal/player"
	"github.com/cutform/cutform-engine/internal/timeline"
)

const DefaultTickInterval = 33 * time.Millisecond

type Config struct {
	Registry     *media.Registry
	Logger       *slog.Logger
	Clock        player.Clock
	TickInterval time.Duration
}

type Session struct {
	logger  *slog.Logger
	tickDur time.Duration

	mu     sync.Mutex
	editor *editor.Editor
	drag   *editor.Drag
	sched  *player.Scheduler
	pool   *player.SourcePool
}

func New(cfg Config) *Session {
	ed := editor.New(cfg.Registry)
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	return &Session{
		logger:  cfg.Logger,
		tickDur: tick,
		editor:  ed,
		drag:    editor.NewDrag(ed),
		sched:   player.NewScheduler(cfg.Clock),
		pool:    player.NewSourcePool(),
	}
}

// Run drives the frame loop until the context ends. Each tick advances
// the playhead (when playing) and reconciles attached sources.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tickDur)
	defer ticker.Stop()

	if s.logger != nil {
		s.logger.Info("session frame loop started", "tick", s.tickDur)
	}

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.Info("session frame loop stopped")
			}
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick runs one frame: advance the playhead if playing, then sync
// sources. Exported so tests can drive frames deterministically.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tl := s.editor.Current()
	s.sched.Tick(tl.TotalDuration())
	s.pool.Sync(player.ActiveClips(tl, s.sched.CurrentTime()), s.sched.Playing())
}

// Snapshot is the outbound render state: what the preview should look
// like, not how to paint it.
type Snapshot struct {
	Tracks        []timeline.Track `json:"tracks"`
	CurrentTime   float64          `json:"current_time"`
	TotalDuration float64          `json:"total_duration"`
	Playing       bool             `json:"playing"`
	SelectedID    string           `json:"selected_id,omitempty"`
	CanUndo       bool             `json:"can_undo"`
	CanRedo       bool             `json:"can_redo"`
}

// FrameClip is one active clip with its resolved compositor style.
type FrameClip struct {
	TrackID   string             `json:"track_id"`
	TrackKind timeline.TrackKind `json:"track_kind"`
	Clip      timeline.Clip      `json:"clip"`
	Offset    float64            `json:"offset"`
	Style     compositor.Style   `json:"style"`
}

// Frame is the per-tick render set at the current playhead.
type Frame struct {
	CurrentTime float64     `json:"current_time"`
	Playing     bool        `json:"playing"`
	Clips       []FrameClip `json:"clips"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	tl := s.editor.Current()
	return Snapshot{
		Tracks:        tl.Tracks,
		CurrentTime:   s.sched.CurrentTime(),
		TotalDuration: tl.TotalDuration(),
		Playing:       s.sched.Playing(),
		SelectedID:    s.editor.Selected(),
		CanUndo:       s.editor.CanUndo(),
		CanRedo:       s.editor.CanRedo(),
	}
}

// CurrentFrame resolves the active clips and their styles at the
// playhead.
func (s *Session) CurrentFrame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	tl := s.editor.Current()
	now := s.sched.CurrentTime()

	frame := Frame{CurrentTime: now, Playing: s.sched.Playing()}
	for _, ac := range player.ActiveClips(tl, now) {
		frame.Clips = append(frame.Clips, FrameClip{
			TrackID:   ac.TrackID,
			TrackKind: ac.TrackKind,
			Clip:      ac.Clip,
			Offset:    ac.Offset,
			Style:     compositor.Resolve(ac.Clip, now),
		})
	}
	return frame
}

// edit wraps an editor call, returning the post-operation snapshot.
func (s *Session) edit(op func(ed *editor.Editor)) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	op(s.editor)
	return s.snapshotLocked()
}

func (s *Session) PlaceClip(assetID, trackID string, at float64) Snapshot {
	return s.edit(func(ed *editor.Editor) { ed.PlaceClip(assetID, trackID, at) })
}

func (s *Session) AddTextClip(text string, at, duration float64, intro, outro *timeline.Transition) Snapshot {
	return s.edit(func(ed *editor.Editor) { ed.AddTextClip(text, at, duration, intro, outro) })
}

func (s *Session) MoveClip(instanceID string, newStart float64) Snapshot {
	return s.edit(func(ed *editor.Editor) { ed.MoveClip(instanceID, newStart) })
}

func (s *Session) TrimStart(instanceID string, delta float64) Snapshot {
	return s.edit(func(ed *editor.Editor) { ed.TrimStart(instanceID, delta) })
}

func (s *Session) TrimEnd(instanceID string, delta float64) Snapshot {
	return s.edit(func(ed *editor.Editor) { ed.TrimEnd(instanceID, delta) })
}

func (s *Session) SplitClip(instanceID string, atTime float64) Snapshot {
	return s.edit(func(ed *editor.Editor) { ed.SplitClip(instanceID, atTime) })
}

func (s *Session) DuplicateClip(instanceID string) Snapshot {
	return s.edit(func(ed *editor.Editor) { ed.DuplicateClip(instanceID) })
}

func (s *Session) DeleteClip(instanceID string) Snapshot {
	return s.edit(func(ed *editor.Editor) { ed.DeleteClip(instanceID) })
}

func (s *Session) SetEffect(instanceID string, t timeline.EffectType, value float64) Snapshot {
	return s.edit(func(ed *editor.Editor) { ed.SetEffect(instanceID, t, value) })
}

func (s *Session) RemoveEffect(instanceID string, t timeline.EffectType) Snapshot {
	return s.edit(func(ed *editor.Editor) { ed.RemoveEffect(instanceID, t) })
}

func (s *Session) SetTransition(instanceID string, edge editor.TransitionEdge, tr *timeline.Transition) Snapshot {
	return s.edit(func(ed *editor.Editor) { ed.SetTransition(instanceID, edge, tr) })
}

func (s *Session) Select(instanceID string) Snapshot {
	return s.edit(func(ed *editor.Editor) { ed.Select(instanceID) })
}

func (s *Session) Undo() Snapshot {
	return s.edit(func(ed *editor.Editor) { ed.Undo() })
}

func (s *Session) Redo() Snapshot {
	return s.edit(func(ed *editor.Editor) { ed.Redo() })
}

// TogglePlay flips play/pause and immediately reconciles sources so the
// first audible frame does not wait for the next tick.
func (s *Session) TogglePlay() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	tl := s.editor.Current()
	s.sched.TogglePlay(tl.TotalDuration())
	s.pool.Sync(player.ActiveClips(tl, s.sched.CurrentTime()), s.sched.Playing())
	return s.snapshotLocked()
}

// Scrub pauses and jumps the playhead, then reconciles sources so the
// paused preview lands on the right frame.
func (s *Session) Scrub(t float64) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sched.Scrub(t)
	s.pool.Sync(player.ActiveClips(s.editor.Current(), s.sched.CurrentTime()), false)
	return s.snapshotLocked()
}

// AttachSource registers the playable element backing an asset.
func (s *Session) AttachSource(assetID string, src player.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool.Attach(assetID, src)
}

// DetachSource removes an asset's playable element.
func (s *Session) DetachSource(assetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool.Detach(assetID)
}

// Timeline returns an isolated copy of the current timeline snapshot.
func (s *Session) Timeline() timeline.Timeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Current()
}

// DragBegin starts a pointer gesture on a clip; gestures are exclusive.
func (s *Session) DragBegin(kind editor.DragKind, instanceID string, originX float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Begin(kind, instanceID, originX)
}

// DragUpdate returns the preview clip for the current pointer position
// without touching the model or history.
func (s *Session) DragUpdate(pointerX, pixelsPerSecond float64) (timeline.Clip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Update(pointerX, pixelsPerSecond)
}

// DragEnd commits the gesture as one history entry.
func (s *Session) DragEnd(pointerX, pixelsPerSecond float64) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag.End(pointerX, pixelsPerSecond)
	return s.snapshotLocked()
}

// DragCancel abandons the gesture without committing.
func (s *Session) DragCancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag.Cancel()
}
