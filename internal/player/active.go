package player

import "github.com/cutform/cutform-engine/internal/timeline"

// ActiveClip is one clip the renderer should have on screen (or audible)
// at the current playhead, with the offset into its backing asset.
type ActiveClip struct {
	TrackID   string             `json:"track_id"`
	TrackKind timeline.TrackKind `json:"track_kind"`
	Clip      timeline.Clip      `json:"clip"`
	Offset    float64            `json:"offset"`
}

// ActiveClips resolves the per-track active set at time t. A video track
// contributes at most its first clip containing t (first in track order
// wins when clips overlap); audio and text tracks contribute every
// containing clip. The offset maps the playhead into the asset's own
// time base: t - timelineStart + trimStart.
func ActiveClips(tl timeline.Timeline, t float64) []ActiveClip {
	var active []ActiveClip
	for _, track := range tl.Tracks {
		for _, c := range track.Clips {
			if !c.Contains(t) {
				continue
			}
			active = append(active, ActiveClip{
				TrackID:   track.ID,
				TrackKind: track.Kind,
				Clip:      c.Clone(),
				Offset:    t - c.TimelineStart + c.TrimStart,
			})
			if track.Kind == timeline.TrackVideo {
				break
			}
		}
	}
	return active
}
