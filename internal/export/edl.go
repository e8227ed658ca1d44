// Package export renders the timeline as a CMX3600 EDL cut list. This is
// deliberately not a video render: the EDL hands the edit decisions to an
// external NLE, which owns the actual conforming.
package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cutform/cutform-engine/internal/media"
	"github.com/cutform/cutform-engine/internal/timeline"
)

// AssetLookup resolves an asset id to its record. The registry satisfies
// this.
type AssetLookup interface {
	Get(id string) (*media.Asset, bool)
}

// BuildClips flattens the timeline's video tracks into resolved clips
// ordered by record-in. Text clips have no media and are skipped; clips
// whose asset cannot be resolved are reported by instance id rather than
// failing the whole export.
func BuildClips(tl timeline.Timeline, assets AssetLookup) ([]ResolvedClip, []string) {
	var resolved []ResolvedClip
	var unresolved []string

	for _, track := range tl.Tracks {
		if track.Kind != timeline.TrackVideo {
			continue
		}
		for _, c := range track.Clips {
			if c.IsText() {
				continue
			}
			asset, ok := assets.Get(c.AssetID)
			if !ok || asset.SourceHandle == "" {
				unresolved = append(unresolved, c.InstanceID)
				continue
			}
			resolved = append(resolved, ResolvedClip{
				ClipName:  asset.DisplayName,
				MediaPath: asset.SourceHandle,
				SourceIn:  c.TrimStart,
				SourceOut: c.TrimEnd,
				RecordIn:  c.TimelineStart,
				RecordOut: c.End(),
			})
		}
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].RecordIn < resolved[j].RecordIn
	})
	return resolved, unresolved
}

// GenerateEDL renders the resolved clips as a CMX3600 event list.
func GenerateEDL(clips []ResolvedClip, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	for i, clip := range clips {
		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s",
				i+1, "AX", "V",
				secToTimecode(clip.SourceIn, fps),
				secToTimecode(clip.SourceOut, fps),
				secToTimecode(clip.RecordIn, fps),
				secToTimecode(clip.RecordOut, fps)),
			fmt.Sprintf("* FROM CLIP NAME:  %s", clip.ClipName),
			fmt.Sprintf("* MEDIA PATH:  %s", clip.MediaPath),
		)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func secToTimecode(sec float64, fps int) string {
	totalFrames := int(math.Round(sec * float64(fps)))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
