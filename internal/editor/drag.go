package editor

import "github.com/cutform/cutform-engine/internal/timeline"

type DragKind string

const (
	DragMove      DragKind = "move"
	DragTrimStart DragKind = "trim-start"
	DragTrimEnd   DragKind = "trim-end"
)

// Drag is the explicit pointer-gesture state machine: Idle until Begin,
// Dragging until End or Cancel. Every Update recomputes the candidate
// clip from the snapshot captured at Begin, never incrementally from the
// previous frame, so jittery pointer streams cannot accumulate error.
// Only End commits, producing at most one history entry per gesture.
type Drag struct {
	editor *Editor

	active   bool
	kind     DragKind
	originX  float64
	original timeline.Clip
	assetDur float64
}

func NewDrag(e *Editor) *Drag {
	return &Drag{editor: e}
}

// Active reports whether a gesture is in progress.
func (d *Drag) Active() bool { return d.active }

// Kind returns the in-progress gesture kind, empty when idle.
func (d *Drag) Kind() DragKind {
	if !d.active {
		return ""
	}
	return d.kind
}

// Begin enters the Dragging state, capturing the clip snapshot and the
// pointer origin. Reports false when the clip does not exist or a gesture
// is already active (drags are exclusive).
func (d *Drag) Begin(kind DragKind, instanceID string, originX float64) bool {
	if d.active {
		return false
	}

	current := d.editor.Current()
	track, idx := current.FindClip(instanceID)
	if track == nil {
		return false
	}

	clip := track.Clips[idx]
	d.active = true
	d.kind = kind
	d.originX = originX
	d.original = clip.Clone()
	d.assetDur = d.editor.assetDuration(&clip)
	return true
}

// Update computes the candidate clip for the current pointer position.
// It never touches the model or the history; the caller renders the
// returned clip as a preview. Reports false when idle.
func (d *Drag) Update(pointerX, pixelsPerSecond float64) (timeline.Clip, bool) {
	if !d.active || pixelsPerSecond <= 0 {
		return timeline.Clip{}, false
	}

	delta := (pointerX - d.originX) / pixelsPerSecond
	return d.candidate(delta), true
}

// End commits the gesture as a single editor operation and returns to
// Idle. The committed snapshot is returned; a gesture that moved nothing
// commits nothing.
func (d *Drag) End(pointerX, pixelsPerSecond float64) timeline.Timeline {
	if !d.active {
		return d.editor.Current()
	}

	delta := 0.0
	if pixelsPerSecond > 0 {
		delta = (pointerX - d.originX) / pixelsPerSecond
	}

	kind := d.kind
	original := d.original
	d.reset()

	switch kind {
	case DragMove:
		return d.editor.MoveClip(original.InstanceID, original.TimelineStart+delta)
	case DragTrimStart:
		return d.editor.TrimStart(original.InstanceID, delta)
	case DragTrimEnd:
		return d.editor.TrimEnd(original.InstanceID, delta)
	}
	return d.editor.Current()
}

// Cancel abandons the gesture without committing anything.
func (d *Drag) Cancel() {
	d.reset()
}

func (d *Drag) reset() {
	d.active = false
	d.kind = ""
	d.originX = 0
	d.original = timeline.Clip{}
	d.assetDur = 0
}

// candidate mirrors the editor's clamping so the preview matches what End
// will commit.
func (d *Drag) candidate(delta float64) timeline.Clip {
	switch d.kind {
	case DragMove:
		return moveCandidate(d.original.Clone(), d.original.TimelineStart+delta)
	case DragTrimStart:
		if c, ok := trimStartCandidate(d.original.Clone(), d.assetDur, delta); ok {
			return c
		}
	case DragTrimEnd:
		if c, ok := trimEndCandidate(d.original.Clone(), d.assetDur, delta); ok {
			return c
		}
	}
	return d.original.Clone()
}
