// Package timeline holds the track/clip data model shared by the editor,
// the playback scheduler and the compositor. The model is a plain value
// type: every mutation produces a new snapshot via Clone, which is what
// makes the undo history cheap to reason about.
package timeline

import "sort"

const (
	// MinClipDuration is the floor for any clip's duration, in seconds.
	// Trims that would shrink a clip below it are rejected.
	MinClipDuration = 1.0

	// MinDuration is the minimum total timeline duration, so an empty
	// timeline still renders a usable ruler.
	MinDuration = 20.0

	// ImageDuration is the fixed duration assigned to image assets.
	ImageDuration = 5.0
)

type TrackKind string

const (
	TrackVideo TrackKind = "video"
	TrackAudio TrackKind = "audio"
	TrackText  TrackKind = "text"
)

type EffectType string

const (
	EffectBrightness EffectType = "brightness"
	EffectContrast   EffectType = "contrast"
	EffectGrayscale  EffectType = "grayscale"
)

type TransitionType string

const (
	TransitionFadeIn    TransitionType = "fade-in"
	TransitionFadeOut   TransitionType = "fade-out"
	TransitionWipeLeft  TransitionType = "wipe-left"
	TransitionWipeRight TransitionType = "wipe-right"
)

// Effect is a per-clip visual adjustment. Value is a percentage: 100 is
// neutral for brightness and contrast, grayscale runs 0-100.
type Effect struct {
	ID    string     `json:"id"`
	Type  EffectType `json:"type"`
	Value float64    `json:"value"`
}

// Transition is a time-windowed visual applied at one edge of a clip.
type Transition struct {
	Type     TransitionType `json:"type"`
	Duration float64        `json:"duration"`
}

// TextStyle carries the render parameters of a synthetic text clip.
type TextStyle struct {
	Text       string  `json:"text"`
	FontSize   float64 `json:"font_size"`
	Color      string  `json:"color"`
	Background string  `json:"background"`
	Position   string  `json:"position"`
}

// DefaultTextStyle returns the style a freshly inserted text clip gets.
func DefaultTextStyle(text string) *TextStyle {
	return &TextStyle{
		Text:       text,
		FontSize:   5,
		Color:      "#ffffff",
		Background: "rgba(0,0,0,0.5)",
		Position:   "center",
	}
}

// Clip is a time-bounded placement on a track. A clip is asset-backed when
// AssetID is set and text-backed when Text is set; exactly one of the two
// holds. InstanceID is the identity used for all lookup and selection, ID
// is retained from creation for traceability only.
type Clip struct {
	ID         string `json:"id"`
	InstanceID string `json:"instance_id"`
	AssetID    string `json:"asset_id,omitempty"`
	TrackID    string `json:"track_id"`

	TrimStart     float64 `json:"trim_start"`
	TrimEnd       float64 `json:"trim_end"`
	TimelineStart float64 `json:"timeline_start"`
	Duration      float64 `json:"duration"`

	Effects         []Effect    `json:"effects,omitempty"`
	Transition      *Transition `json:"transition,omitempty"`
	OutroTransition *Transition `json:"outro_transition,omitempty"`

	Text *TextStyle `json:"text,omitempty"`
}

// IsText reports whether the clip is a synthetic text clip.
func (c *Clip) IsText() bool {
	return c.Text != nil
}

// End returns the clip's end position on the timeline.
func (c *Clip) End() float64 {
	return c.TimelineStart + c.Duration
}

// Contains reports whether t falls inside [TimelineStart, End).
func (c *Clip) Contains(t float64) bool {
	return t >= c.TimelineStart && t < c.End()
}

// Clone returns a deep copy of the clip.
func (c Clip) Clone() Clip {
	out := c
	if c.Effects != nil {
		out.Effects = make([]Effect, len(c.Effects))
		copy(out.Effects, c.Effects)
	}
	if c.Transition != nil {
		t := *c.Transition
		out.Transition = &t
	}
	if c.OutroTransition != nil {
		t := *c.OutroTransition
		out.OutroTransition = &t
	}
	if c.Text != nil {
		txt := *c.Text
		out.Text = &txt
	}
	return out
}

// Track is an ordered lane of clips of a single kind. Clips are kept
// sorted by TimelineStart; ties keep insertion order.
type Track struct {
	ID    string    `json:"id"`
	Kind  TrackKind `json:"kind"`
	Clips []Clip    `json:"clips"`
}

// Clone returns a deep copy of the track.
func (t Track) Clone() Track {
	out := t
	out.Clips = make([]Clip, len(t.Clips))
	for i, c := range t.Clips {
		out.Clips[i] = c.Clone()
	}
	return out
}

// SortClips restores the ordered-by-start invariant after a start change.
func (t *Track) SortClips() {
	sort.SliceStable(t.Clips, func(i, j int) bool {
		return t.Clips[i].TimelineStart < t.Clips[j].TimelineStart
	})
}

// Timeline is the whole track graph. It is a value: callers that want an
// isolated snapshot take Clone().
type Timeline struct {
	Tracks []Track `json:"tracks"`
}

// NewDefault returns the starting timeline: one track per kind.
func NewDefault() Timeline {
	return Timeline{Tracks: []Track{
		{ID: "video-1", Kind: TrackVideo, Clips: []Clip{}},
		{ID: "audio-1", Kind: TrackAudio, Clips: []Clip{}},
		{ID: "text-1", Kind: TrackText, Clips: []Clip{}},
	}}
}

// Clone returns a deep copy of the timeline.
func (tl Timeline) Clone() Timeline {
	out := Timeline{Tracks: make([]Track, len(tl.Tracks))}
	for i, t := range tl.Tracks {
		out.Tracks[i] = t.Clone()
	}
	return out
}

// TotalDuration is the end of the last clip, floored at MinDuration.
func (tl Timeline) TotalDuration() float64 {
	total := MinDuration
	for _, tr := range tl.Tracks {
		for _, c := range tr.Clips {
			if end := c.End(); end > total {
				total = end
			}
		}
	}
	return total
}

// FindTrack returns the track with the given id, or nil.
func (tl *Timeline) FindTrack(id string) *Track {
	for i := range tl.Tracks {
		if tl.Tracks[i].ID == id {
			return &tl.Tracks[i]
		}
	}
	return nil
}

// FindTrackByKind returns the first track of the given kind, or nil.
func (tl *Timeline) FindTrackByKind(kind TrackKind) *Track {
	for i := range tl.Tracks {
		if tl.Tracks[i].Kind == kind {
			return &tl.Tracks[i]
		}
	}
	return nil
}

// FindClip locates a clip by instance id. Returns the owning track and the
// clip index, or (nil, -1) when absent.
func (tl *Timeline) FindClip(instanceID string) (*Track, int) {
	for i := range tl.Tracks {
		for j := range tl.Tracks[i].Clips {
			if tl.Tracks[i].Clips[j].InstanceID == instanceID {
				return &tl.Tracks[i], j
			}
		}
	}
	return nil, -1
}

// Equal reports structural equality between two timelines. Used by the
// history stack to suppress no-op entries.
func (tl Timeline) Equal(other Timeline) bool {
	if len(tl.Tracks) != len(other.Tracks) {
		return false
	}
	for i := range tl.Tracks {
		if !trackEqual(tl.Tracks[i], other.Tracks[i]) {
			return false
		}
	}
	return true
}

func trackEqual(a, b Track) bool {
	if a.ID != b.ID || a.Kind != b.Kind || len(a.Clips) != len(b.Clips) {
		return false
	}
	for i := range a.Clips {
		if !clipEqual(a.Clips[i], b.Clips[i]) {
			return false
		}
	}
	return true
}

func clipEqual(a, b Clip) bool {
	if a.ID != b.ID || a.InstanceID != b.InstanceID || a.AssetID != b.AssetID ||
		a.TrackID != b.TrackID ||
		a.TrimStart != b.TrimStart || a.TrimEnd != b.TrimEnd ||
		a.TimelineStart != b.TimelineStart || a.Duration != b.Duration {
		return false
	}
	if len(a.Effects) != len(b.Effects) {
		return false
	}
	for i := range a.Effects {
		if a.Effects[i] != b.Effects[i] {
			return false
		}
	}
	if !transitionEqual(a.Transition, b.Transition) ||
		!transitionEqual(a.OutroTransition, b.OutroTransition) {
		return false
	}
	return textEqual(a.Text, b.Text)
}

func transitionEqual(a, b *Transition) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func textEqual(a, b *TextStyle) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
