package api

import (
	"time"

	"github.com/cutform/cutform-engine/internal/media"
	"github.com/cutform/cutform-engine/internal/timeline"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeS  int64  `json:"uptime_s"`
	DeviceID string `json:"device_id"`
}

type StatusResponse struct {
	State       string  `json:"state"`
	AssetsCount int     `json:"assets_count"`
	JobsPending int     `json:"jobs_pending"`
	LastError   string  `json:"last_error,omitempty"`
	Playing     bool    `json:"playing"`
	CurrentTime float64 `json:"current_time"`
}

type RegisterAssetRequest struct {
	Kind         string `json:"kind"`
	DisplayName  string `json:"display_name,omitempty"`
	SourceHandle string `json:"source_handle"`
}

type AssetResponse struct {
	ID           string  `json:"id"`
	Kind         string  `json:"kind"`
	DisplayName  string  `json:"display_name"`
	SourceHandle string  `json:"source_handle"`
	Duration     float64 `json:"duration"`
	Resolved     bool    `json:"resolved"`
	CreatedAt    string  `json:"created_at"`
}

type AssetsResponse struct {
	Assets []AssetResponse `json:"assets"`
}

type JobResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	AssetID   string `json:"asset_id,omitempty"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type JobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

type PlaceClipRequest struct {
	AssetID       string  `json:"asset_id"`
	TrackID       string  `json:"track_id"`
	TimelineStart float64 `json:"timeline_start"`
}

type TransitionPayload struct {
	Type     string  `json:"type"`
	Duration float64 `json:"duration"`
}

type AddTextClipRequest struct {
	Text            string             `json:"text"`
	TimelineStart   float64            `json:"timeline_start"`
	Duration        float64            `json:"duration"`
	Transition      *TransitionPayload `json:"transition,omitempty"`
	OutroTransition *TransitionPayload `json:"outro_transition,omitempty"`
}

type MoveClipRequest struct {
	TimelineStart float64 `json:"timeline_start"`
}

type TrimRequest struct {
	Delta float64 `json:"delta"`
}

type SplitRequest struct {
	AtTime float64 `json:"at_time"`
}

type EffectRequest struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

type TransitionRequest struct {
	Edge     string  `json:"edge"`
	Type     string  `json:"type,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

type ScrubRequest struct {
	Time float64 `json:"time"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func AssetToResponse(a *media.Asset) AssetResponse {
	return AssetResponse{
		ID:           a.ID,
		Kind:         string(a.Kind),
		DisplayName:  a.DisplayName,
		SourceHandle: a.SourceHandle,
		Duration:     a.Duration,
		Resolved:     a.Resolved(),
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
}

func JobToResponse(j *media.Job) JobResponse {
	return JobResponse{
		ID:        j.ID,
		Type:      j.Type,
		Status:    j.Status,
		AssetID:   j.AssetID,
		Error:     j.Error,
		CreatedAt: j.CreatedAt.Format(time.RFC3339),
		UpdatedAt: j.UpdatedAt.Format(time.RFC3339),
	}
}

func (p *TransitionPayload) ToTransition() *timeline.Transition {
	if p == nil || p.Type == "" {
		return nil
	}
	return &timeline.Transition{
		Type:     timeline.TransitionType(p.Type),
		Duration: p.Duration,
	}
}
