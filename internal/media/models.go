package media

import "time"

type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindImage Kind = "image"
)

// Asset is an immutable ingested media record. Duration 0 means the probe
// has not resolved yet (or never will); such assets cannot be placed on
// the timeline. Images get a fixed duration and skip probing.
type Asset struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"kind"`
	DisplayName  string    `json:"display_name"`
	SourceHandle string    `json:"source_handle"`
	Duration     float64   `json:"duration"`
	CreatedAt    time.Time `json:"created_at"`
}

// Resolved reports whether the asset has a usable duration.
func (a *Asset) Resolved() bool {
	return a.Duration > 0
}

const (
	JobTypeProbe = "probe"

	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Job tracks one asynchronous duration probe.
type Job struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	AssetID   string    `json:"asset_id"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProvisionalDuration is the duration an asset carries before its probe
// resolves. Images never probe and keep the fixed value.
func ProvisionalDuration(kind Kind) float64 {
	if kind == KindImage {
		return 5.0
	}
	return 0
}

// ValidKind reports whether k names a known asset kind.
func ValidKind(k Kind) bool {
	switch k {
	case KindVideo, KindAudio, KindImage:
		return true
	}
	return false
}
