// Package compositor resolves, for a clip at a timeline instant, the
// visual parameters an external renderer should apply: the effect filter
// chain, the transition-driven opacity and the wipe reveal rectangle. It
// is a pure function of (clip, currentTime) and holds no state.
package compositor

import (
	"fmt"
	"strings"

	"github.com/cutform/cutform-engine/internal/timeline"
)

// Rect is a horizontal slice of the clip's box, in fractions of its
// width. The full box is {X: 0, Width: 1}.
type Rect struct {
	X     float64 `json:"x"`
	Width float64 `json:"width"`
}

// FullRect is the rectangle of a clip with no active wipe.
var FullRect = Rect{X: 0, Width: 1}

// Style is the resolved render state of one clip at one instant.
type Style struct {
	Filter  string  `json:"filter,omitempty"`
	Opacity float64 `json:"opacity"`
	Clip    Rect    `json:"clip"`
	Hidden  bool    `json:"hidden,omitempty"`
}

// Resolve computes the style for a clip at the given timeline time.
// Outside the clip's interval the style is Hidden. When a too-short clip
// has overlapping intro and outro windows, the intro wins while inside
// its window; the blending of the two is otherwise deliberately left
// undefined.
func Resolve(c timeline.Clip, currentTime float64) Style {
	s := Style{
		Filter:  filterChain(c.Effects),
		Opacity: 1,
		Clip:    FullRect,
	}

	if !c.Contains(currentTime) {
		s.Hidden = true
		return s
	}

	if c.Transition != nil {
		window := c.Transition.Duration
		if currentTime < c.TimelineStart+window {
			p := progress(currentTime, c.TimelineStart, window)
			applyIntro(&s, c.Transition.Type, p)
			return s
		}
	}

	if c.OutroTransition != nil {
		window := c.OutroTransition.Duration
		start := c.End() - window
		if currentTime >= start {
			p := progress(currentTime, start, window)
			applyOutro(&s, c.OutroTransition.Type, p)
		}
	}

	return s
}

// progress is the normalized position inside a transition window,
// clamped to [0, 1].
func progress(t, windowStart, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	p := (t - windowStart) / duration
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func applyIntro(s *Style, tt timeline.TransitionType, p float64) {
	switch tt {
	case timeline.TransitionFadeIn, timeline.TransitionFadeOut:
		s.Opacity = p
	case timeline.TransitionWipeLeft:
		// reveal left to right
		s.Clip = Rect{X: 0, Width: p}
	case timeline.TransitionWipeRight:
		// reveal right to left
		s.Clip = Rect{X: 1 - p, Width: p}
	}
}

func applyOutro(s *Style, tt timeline.TransitionType, p float64) {
	switch tt {
	case timeline.TransitionFadeIn, timeline.TransitionFadeOut:
		s.Opacity = 1 - p
	case timeline.TransitionWipeLeft:
		// conceal left to right
		s.Clip = Rect{X: p, Width: 1 - p}
	case timeline.TransitionWipeRight:
		// conceal right to left
		s.Clip = Rect{X: 0, Width: 1 - p}
	}
}

// filterChain renders the active effects as a single CSS-equivalent
// filter string, in the order they were applied to the clip.
func filterChain(effects []timeline.Effect) string {
	if len(effects) == 0 {
		return ""
	}
	parts := make([]string, 0, len(effects))
	for _, e := range effects {
		switch e.Type {
		case timeline.EffectBrightness, timeline.EffectContrast, timeline.EffectGrayscale:
			parts = append(parts, fmt.Sprintf("%s(%g%%)", e.Type, e.Value))
		}
	}
	return strings.Join(parts, " ")
}
