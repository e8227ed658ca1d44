package export

type ExportRequest struct {
	ProjectName string  `json:"project_name"`
	Format      string  `json:"format"`
	FrameRate   float64 `json:"frame_rate"`
	OutputDir   string  `json:"output_dir"`
}

// ResolvedClip is one timeline clip with its media path resolved, ready
// for timecode rendering. All times are seconds: source in/out is the
// clip's trim window into the asset, record in/out its position on the
// timeline.
type ResolvedClip struct {
	ClipName  string
	MediaPath string
	SourceIn  float64
	SourceOut float64
	RecordIn  float64
	RecordOut float64
}

type ExportResponse struct {
	Status          string   `json:"status"`
	Format          string   `json:"format"`
	OutputPath      string   `json:"output_path"`
	ClipCount       int      `json:"clip_count"`
	UnresolvedClips []string `json:"unresolved_clips,omitempty"`
}
