package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/cutform/cutform-engine/internal/export"
)

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req export.ExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if req.Format != "edl" {
			WriteError(w, http.StatusBadRequest, "unsupported format, only edl is supported", "BAD_REQUEST")
			return
		}
		if err := export.ValidateOutputDir(req.OutputDir); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		projectName := export.SanitizeName(req.ProjectName, 64)
		if projectName == "" {
			projectName = "untitled"
		}

		frameRate := req.FrameRate
		if frameRate <= 0 {
			frameRate = 30
		}

		tl := cfg.Session.Timeline()
		clips, unresolved := export.BuildClips(tl, cfg.Registry)
		if len(clips) == 0 {
			WriteError(w, http.StatusBadRequest, "timeline has no exportable clips", "BAD_REQUEST")
			return
		}

		content := export.GenerateEDL(clips, projectName, frameRate)
		outputPath := filepath.Join(req.OutputDir, fmt.Sprintf("%s.edl", projectName))

		if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
			cfg.Logger.Error("failed to write export file", "error", err, "path", outputPath)
			WriteError(w, http.StatusInternalServerError, "failed to write export file", "INTERNAL_ERROR")
			return
		}

		cfg.Logger.Info("exported timeline",
			"format", req.Format,
			"path", outputPath,
			"clips", len(clips),
			"unresolved", len(unresolved),
		)

		WriteJSON(w, http.StatusOK, export.ExportResponse{
			Status:          "ok",
			Format:          req.Format,
			OutputPath:      outputPath,
			ClipCount:       len(clips),
			UnresolvedClips: unresolved,
		})
	}
}
