package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cutform/cutform-engine/internal/config"
	"github.com/cutform/cutform-engine/internal/editor"
	"github.com/cutform/cutform-engine/internal/media"
	"github.com/cutform/cutform-engine/internal/timeline"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/status", statusHandler(cfg))

		r.Post("/assets", registerAssetHandler(cfg))
		r.Get("/assets", listAssetsHandler(cfg))
		r.Get("/assets/{id}", getAssetHandler(cfg))
		r.Get("/jobs", listJobsHandler(cfg))
		r.Get("/jobs/{id}", getJobHandler(cfg))

		r.Get("/timeline", timelineHandler(cfg))
		r.Post("/timeline/clips", placeClipHandler(cfg))
		r.Post("/timeline/text-clips", addTextClipHandler(cfg))
		r.Post("/timeline/clips/{id}/move", moveClipHandler(cfg))
		r.Post("/timeline/clips/{id}/trim-start", trimHandler(cfg, true))
		r.Post("/timeline/clips/{id}/trim-end", trimHandler(cfg, false))
		r.Post("/timeline/clips/{id}/split", splitClipHandler(cfg))
		r.Post("/timeline/clips/{id}/duplicate", duplicateClipHandler(cfg))
		r.Post("/timeline/clips/{id}/select", selectClipHandler(cfg))
		r.Delete("/timeline/clips/{id}", deleteClipHandler(cfg))
		r.Put("/timeline/clips/{id}/effects", setEffectHandler(cfg))
		r.Delete("/timeline/clips/{id}/effects/{type}", removeEffectHandler(cfg))
		r.Put("/timeline/clips/{id}/transition", setTransitionHandler(cfg))

		r.Post("/history/undo", undoHandler(cfg))
		r.Post("/history/redo", redoHandler(cfg))

		r.Post("/playback/toggle", togglePlayHandler(cfg))
		r.Post("/playback/scrub", scrubHandler(cfg))
		r.Get("/playback/frame", frameHandler(cfg))
		r.Get("/playback/file", playbackFileHandler(cfg))

		r.Post("/export", exportHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Version:  config.Version,
			UptimeS:  uptime,
			DeviceID: cfg.DeviceID,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := cfg.Session.Snapshot()

		state := "idle"
		if snap.Playing {
			state = "playing"
		}

		pending := 0
		lastError := ""
		if jobs, err := cfg.Repository.ListJobs(r.Context(), 50); err == nil {
			for _, j := range jobs {
				switch j.Status {
				case media.JobStatusPending, media.JobStatusRunning:
					pending++
				case media.JobStatusFailed:
					if lastError == "" {
						lastError = j.Error
					}
				}
			}
		}
		if pending > 0 && state == "idle" {
			state = "probing"
		}

		WriteJSON(w, http.StatusOK, StatusResponse{
			State:       state,
			AssetsCount: cfg.Registry.Count(),
			JobsPending: pending,
			LastError:   lastError,
			Playing:     snap.Playing,
			CurrentTime: snap.CurrentTime,
		})
	}
}

func registerAssetHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterAssetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if req.SourceHandle == "" {
			WriteError(w, http.StatusBadRequest, "source_handle is required", "BAD_REQUEST")
			return
		}

		asset, err := cfg.Registry.Register(r.Context(), media.Kind(req.Kind), req.DisplayName, req.SourceHandle)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		WriteJSON(w, http.StatusCreated, AssetToResponse(asset))
	}
}

func listAssetsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assets := cfg.Registry.List()
		resp := AssetsResponse{Assets: make([]AssetResponse, len(assets))}
		for i, a := range assets {
			resp.Assets[i] = AssetToResponse(a)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getAssetHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		asset, ok := cfg.Registry.Get(id)
		if !ok {
			WriteError(w, http.StatusNotFound, "asset not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, AssetToResponse(asset))
	}
}

func listJobsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := cfg.Repository.ListJobs(r.Context(), 50)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list jobs", "INTERNAL_ERROR")
			return
		}

		resp := JobsResponse{Jobs: make([]JobResponse, len(jobs))}
		for i, j := range jobs {
			resp.Jobs[i] = JobToResponse(j)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		job, err := cfg.Repository.GetJob(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if job == nil {
			WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, JobToResponse(job))
	}
}

func timelineHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Session.Snapshot())
	}
}

// Editor operations return the post-operation snapshot with 200 even
// when the gesture was rejected: "always succeeds, may be a no-op" is
// the engine's contract, and the client reads the state it got back.

func placeClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlaceClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.AssetID == "" || req.TrackID == "" {
			WriteError(w, http.StatusBadRequest, "asset_id and track_id are required", "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Session.PlaceClip(req.AssetID, req.TrackID, req.TimelineStart))
	}
}

func addTextClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddTextClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Text == "" {
			WriteError(w, http.StatusBadRequest, "text is required", "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Session.AddTextClip(
			req.Text, req.TimelineStart, req.Duration,
			req.Transition.ToTransition(), req.OutroTransition.ToTransition()))
	}
}

func moveClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MoveClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Session.MoveClip(chi.URLParam(r, "id"), req.TimelineStart))
	}
}

func trimHandler(cfg ServerConfig, fromStart bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TrimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		id := chi.URLParam(r, "id")
		if fromStart {
			WriteJSON(w, http.StatusOK, cfg.Session.TrimStart(id, req.Delta))
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Session.TrimEnd(id, req.Delta))
	}
}

func splitClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SplitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Session.SplitClip(chi.URLParam(r, "id"), req.AtTime))
	}
}

func duplicateClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Session.DuplicateClip(chi.URLParam(r, "id")))
	}
}

func selectClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Session.Select(chi.URLParam(r, "id")))
	}
}

func deleteClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Session.DeleteClip(chi.URLParam(r, "id")))
	}
}

func setEffectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EffectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		effectType := timeline.EffectType(req.Type)
		switch effectType {
		case timeline.EffectBrightness, timeline.EffectContrast, timeline.EffectGrayscale:
		default:
			WriteError(w, http.StatusBadRequest, "unknown effect type", "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Session.SetEffect(chi.URLParam(r, "id"), effectType, req.Value))
	}
}

func removeEffectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Session.RemoveEffect(
			chi.URLParam(r, "id"), timeline.EffectType(chi.URLParam(r, "type"))))
	}
}

func setTransitionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TransitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		edge := editor.TransitionEdge(req.Edge)
		if edge != editor.EdgeIntro && edge != editor.EdgeOutro {
			WriteError(w, http.StatusBadRequest, "edge must be intro or outro", "BAD_REQUEST")
			return
		}

		var tr *timeline.Transition
		if req.Type != "" {
			tr = &timeline.Transition{
				Type:     timeline.TransitionType(req.Type),
				Duration: req.Duration,
			}
		}
		WriteJSON(w, http.StatusOK, cfg.Session.SetTransition(chi.URLParam(r, "id"), edge, tr))
	}
}

func undoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Session.Undo())
	}
}

func redoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Session.Redo())
	}
}

func togglePlayHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Session.TogglePlay())
	}
}

func scrubHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScrubRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Session.Scrub(req.Time))
	}
}

func frameHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Session.CurrentFrame())
	}
}

func playbackFileHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assetID := r.URL.Query().Get("asset_id")
		if assetID == "" {
			WriteError(w, http.StatusBadRequest, "asset_id is required", "BAD_REQUEST")
			return
		}

		asset, ok := cfg.Registry.Get(assetID)
		if !ok {
			WriteError(w, http.StatusNotFound, "asset not found", "NOT_FOUND")
			return
		}

		if err := cfg.MediaServer.ServeFile(w, r, asset.SourceHandle); err != nil {
			cfg.Logger.Error("media serve error", "error", err, "asset_id", assetID)
		}
	}
}
