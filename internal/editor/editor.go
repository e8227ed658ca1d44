// Package editor is the only writer of the timeline model. Every public
// operation clones the current snapshot, mutates the clone and commits it
// through the history stack. Geometry violations (incompatible track,
// trim below the minimum duration, split outside the clip) are silent
// no-ops: the operation returns the unchanged snapshot and records no
// history entry.
package editor

import (
	"math"

	"github.com/google/uuid"

	"github.com/cutform/cutform-engine/internal/history"
	"github.com/cutform/cutform-engine/internal/media"
	"github.com/cutform/cutform-engine/internal/timeline"
)

// AssetSource is the registry view the editor needs: synchronous metadata
// lookup only.
type AssetSource interface {
	Get(id string) (*media.Asset, bool)
}

type Editor struct {
	assets   AssetSource
	hist     *history.Stack
	current  timeline.Timeline
	selected string
}

func New(assets AssetSource) *Editor {
	tl := timeline.NewDefault()
	return &Editor{
		assets:  assets,
		hist:    history.New(tl),
		current: tl,
	}
}

// Current returns an isolated copy of the present snapshot.
func (e *Editor) Current() timeline.Timeline {
	return e.current.Clone()
}

func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// Undo steps back one snapshot. A no-op at the oldest entry.
func (e *Editor) Undo() timeline.Timeline {
	tl, ok := e.hist.Undo()
	if ok {
		e.current = tl
	}
	return e.Current()
}

// Redo steps forward one snapshot. A no-op at the newest entry.
func (e *Editor) Redo() timeline.Timeline {
	tl, ok := e.hist.Redo()
	if ok {
		e.current = tl
	}
	return e.Current()
}

// Select marks a clip as selected for the inspector. Unknown ids clear
// the selection.
func (e *Editor) Select(instanceID string) {
	if _, idx := e.current.FindClip(instanceID); idx < 0 {
		e.selected = ""
		return
	}
	e.selected = instanceID
}

func (e *Editor) ClearSelection() { e.selected = "" }

// Selected returns the selected instance id, empty when nothing is.
func (e *Editor) Selected() string { return e.selected }

// commit records the candidate snapshot if it actually changed.
func (e *Editor) commit(next timeline.Timeline) timeline.Timeline {
	if e.hist.Push(next) {
		e.current = next
	}
	return e.Current()
}

// trackAccepts implements the track/asset compatibility matrix: a video
// track also takes images (held as static clips), text tracks take no
// assets at all.
func trackAccepts(track timeline.TrackKind, asset media.Kind) bool {
	switch track {
	case timeline.TrackVideo:
		return asset == media.KindVideo || asset == media.KindImage
	case timeline.TrackAudio:
		return asset == media.KindAudio
	default:
		return false
	}
}

// PlaceClip drops an asset onto a track, spanning the asset's full
// duration. Unresolved assets (duration 0) and kind mismatches are
// rejected.
func (e *Editor) PlaceClip(assetID, trackID string, timelineStart float64) timeline.Timeline {
	asset, ok := e.assets.Get(assetID)
	if !ok || !asset.Resolved() {
		return e.Current()
	}

	next := e.current.Clone()
	track := next.FindTrack(trackID)
	if track == nil || !trackAccepts(track.Kind, asset.Kind) {
		return e.Current()
	}

	if timelineStart < 0 {
		timelineStart = 0
	}

	id := uuid.NewString()
	track.Clips = append(track.Clips, timeline.Clip{
		ID:            id,
		InstanceID:    uuid.NewString(),
		AssetID:       asset.ID,
		TrackID:       track.ID,
		TrimStart:     0,
		TrimEnd:       asset.Duration,
		TimelineStart: timelineStart,
		Duration:      asset.Duration,
	})
	track.SortClips()

	return e.commit(next)
}

// AddTextClip inserts a synthetic text clip on the text track with the
// default style, and selects it. A non-positive duration falls back to
// the image default.
func (e *Editor) AddTextClip(text string, timelineStart, duration float64, intro, outro *timeline.Transition) timeline.Timeline {
	if duration <= 0 {
		duration = timeline.ImageDuration
	}
	if duration < timeline.MinClipDuration {
		return e.Current()
	}

	next := e.current.Clone()
	track := next.FindTrackByKind(timeline.TrackText)
	if track == nil {
		return e.Current()
	}

	if timelineStart < 0 {
		timelineStart = 0
	}

	clip := timeline.Clip{
		ID:            uuid.NewString(),
		InstanceID:    uuid.NewString(),
		TrackID:       track.ID,
		TrimStart:     0,
		TrimEnd:       duration,
		TimelineStart: timelineStart,
		Duration:      duration,
		Text:          timeline.DefaultTextStyle(text),
	}
	if intro != nil {
		t := *intro
		clip.Transition = &t
	}
	if outro != nil {
		t := *outro
		clip.OutroTransition = &t
	}

	track.Clips = append(track.Clips, clip)
	track.SortClips()

	out := e.commit(next)
	e.selected = clip.InstanceID
	return out
}

// MoveClip repositions a clip on its track. The start is clamped at 0;
// overlap with siblings is deliberately permitted.
func (e *Editor) MoveClip(instanceID string, newStart float64) timeline.Timeline {
	next := e.current.Clone()
	track, idx := next.FindClip(instanceID)
	if track == nil {
		return e.Current()
	}

	track.Clips[idx] = moveCandidate(track.Clips[idx], newStart)
	track.SortClips()

	return e.commit(next)
}

// TrimStart shifts the clip's in-point by delta seconds. The timeline
// start moves by the same amount so the clip's end stays fixed. Rejected
// when the result would dip below the minimum duration.
func (e *Editor) TrimStart(instanceID string, delta float64) timeline.Timeline {
	next := e.current.Clone()
	track, idx := next.FindClip(instanceID)
	if track == nil {
		return e.Current()
	}

	candidate, ok := trimStartCandidate(track.Clips[idx], e.assetDuration(&track.Clips[idx]), delta)
	if !ok {
		return e.Current()
	}
	track.Clips[idx] = candidate
	track.SortClips()

	return e.commit(next)
}

// TrimEnd grows or shrinks the clip's duration by delta seconds, clamped
// to the asset's own duration. Rejected below the minimum duration.
func (e *Editor) TrimEnd(instanceID string, delta float64) timeline.Timeline {
	next := e.current.Clone()
	track, idx := next.FindClip(instanceID)
	if track == nil {
		return e.Current()
	}

	candidate, ok := trimEndCandidate(track.Clips[idx], e.assetDuration(&track.Clips[idx]), delta)
	if !ok {
		return e.Current()
	}
	track.Clips[idx] = candidate

	return e.commit(next)
}

// SplitClip cuts a clip in two at a timeline instant strictly inside it.
// The halves tile the original interval exactly; the first half keeps the
// intro transition only, the second half the outro only.
func (e *Editor) SplitClip(instanceID string, atTime float64) timeline.Timeline {
	next := e.current.Clone()
	track, idx := next.FindClip(instanceID)
	if track == nil {
		return e.Current()
	}

	original := track.Clips[idx]
	if atTime <= original.TimelineStart || atTime >= original.End() {
		return e.Current()
	}

	leftDuration := atTime - original.TimelineStart
	rightDuration := original.Duration - leftDuration
	if leftDuration < timeline.MinClipDuration || rightDuration < timeline.MinClipDuration {
		return e.Current()
	}

	right := original.Clone()
	right.InstanceID = uuid.NewString()
	right.TimelineStart = atTime
	right.Duration = rightDuration
	right.TrimStart = original.TrimStart + leftDuration
	right.TrimEnd = original.TrimEnd
	right.Transition = nil

	left := &track.Clips[idx]
	left.Duration = leftDuration
	left.TrimEnd = left.TrimStart + leftDuration
	left.OutroTransition = nil

	track.Clips = append(track.Clips, timeline.Clip{})
	copy(track.Clips[idx+2:], track.Clips[idx+1:])
	track.Clips[idx+1] = right

	return e.commit(next)
}

// DuplicateClip inserts an exact copy directly abutting the source's end.
func (e *Editor) DuplicateClip(instanceID string) timeline.Timeline {
	next := e.current.Clone()
	track, idx := next.FindClip(instanceID)
	if track == nil {
		return e.Current()
	}

	source := track.Clips[idx]
	dup := source.Clone()
	dup.InstanceID = uuid.NewString()
	dup.TimelineStart = source.End()

	track.Clips = append(track.Clips, timeline.Clip{})
	copy(track.Clips[idx+2:], track.Clips[idx+1:])
	track.Clips[idx+1] = dup
	track.SortClips()

	return e.commit(next)
}

// DeleteClip removes a clip, clearing the selection if it pointed at it.
func (e *Editor) DeleteClip(instanceID string) timeline.Timeline {
	next := e.current.Clone()
	track, idx := next.FindClip(instanceID)
	if track == nil {
		return e.Current()
	}

	track.Clips = append(track.Clips[:idx], track.Clips[idx+1:]...)

	out := e.commit(next)
	if e.selected == instanceID {
		e.selected = ""
	}
	return out
}

// SetEffect applies an effect value with replace-in-place semantics: one
// active instance per type per clip.
func (e *Editor) SetEffect(instanceID string, effectType timeline.EffectType, value float64) timeline.Timeline {
	next := e.current.Clone()
	track, idx := next.FindClip(instanceID)
	if track == nil {
		return e.Current()
	}

	clip := &track.Clips[idx]
	for i := range clip.Effects {
		if clip.Effects[i].Type == effectType {
			clip.Effects[i].Value = value
			return e.commit(next)
		}
	}
	clip.Effects = append(clip.Effects, timeline.Effect{
		ID:    uuid.NewString(),
		Type:  effectType,
		Value: value,
	})

	return e.commit(next)
}

// RemoveEffect drops the effect of the given type, if present.
func (e *Editor) RemoveEffect(instanceID string, effectType timeline.EffectType) timeline.Timeline {
	next := e.current.Clone()
	track, idx := next.FindClip(instanceID)
	if track == nil {
		return e.Current()
	}

	clip := &track.Clips[idx]
	for i := range clip.Effects {
		if clip.Effects[i].Type == effectType {
			clip.Effects = append(clip.Effects[:i], clip.Effects[i+1:]...)
			break
		}
	}

	return e.commit(next)
}

// TransitionEdge names which end of the clip a transition sits on.
type TransitionEdge string

const (
	EdgeIntro TransitionEdge = "intro"
	EdgeOutro TransitionEdge = "outro"
)

// SetTransition attaches, replaces or clears (nil transition) the
// transition on one edge of a clip.
func (e *Editor) SetTransition(instanceID string, edge TransitionEdge, tr *timeline.Transition) timeline.Timeline {
	if tr != nil && tr.Duration <= 0 {
		return e.Current()
	}

	next := e.current.Clone()
	track, idx := next.FindClip(instanceID)
	if track == nil {
		return e.Current()
	}

	clip := &track.Clips[idx]
	var copied *timeline.Transition
	if tr != nil {
		t := *tr
		copied = &t
	}
	switch edge {
	case EdgeIntro:
		clip.Transition = copied
	case EdgeOutro:
		clip.OutroTransition = copied
	default:
		return e.Current()
	}

	return e.commit(next)
}

// assetDuration returns the trim ceiling for a clip: the backing asset's
// duration, or +Inf for text clips which have no source material.
func (e *Editor) assetDuration(c *timeline.Clip) float64 {
	if c.IsText() {
		return math.Inf(1)
	}
	if asset, ok := e.assets.Get(c.AssetID); ok {
		return asset.Duration
	}
	return math.Inf(1)
}

// moveCandidate computes the clip a move gesture would produce.
func moveCandidate(c timeline.Clip, newStart float64) timeline.Clip {
	if newStart < 0 {
		newStart = 0
	}
	c.TimelineStart = newStart
	return c
}

// trimStartCandidate computes the clip a start-trim would produce. The
// effective delta is clamped so the trim window stays inside the asset
// and the clip stays on the timeline; the gesture is rejected outright
// when the clamped result would fall below the minimum duration.
func trimStartCandidate(c timeline.Clip, assetDuration, delta float64) (timeline.Clip, bool) {
	newTrim := c.TrimStart + delta
	if newTrim < 0 {
		newTrim = 0
	}
	if newTrim > assetDuration {
		newTrim = assetDuration
	}

	effective := newTrim - c.TrimStart
	if c.TimelineStart+effective < 0 {
		effective = -c.TimelineStart
		newTrim = c.TrimStart + effective
	}

	newDuration := c.Duration - effective
	if newDuration < timeline.MinClipDuration {
		return c, false
	}

	c.TrimStart = newTrim
	c.TimelineStart += effective
	c.Duration = newDuration
	c.TrimEnd = c.TrimStart + c.Duration
	return c, true
}

// trimEndCandidate computes the clip an end-trim would produce.
func trimEndCandidate(c timeline.Clip, assetDuration, delta float64) (timeline.Clip, bool) {
	newDuration := c.Duration + delta
	if ceiling := assetDuration - c.TrimStart; newDuration > ceiling {
		newDuration = ceiling
	}
	if newDuration < timeline.MinClipDuration {
		return c, false
	}

	c.Duration = newDuration
	c.TrimEnd = c.TrimStart + newDuration
	return c, true
}
