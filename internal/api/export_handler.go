package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/reelsmith/reelsmith-agent/internal/export"
)

type exportRequest struct {
	ProjectName string `json:"project_name"`
	Format      string `json:"format"`
	OutputDir   string `json:"output_dir,omitempty"`
	Share       bool   `json:"share,omitempty"`
}

type exportResponse struct {
	Status     string `json:"status"`
	Format     string `json:"format"`
	OutputPath string `json:"output_path"`
	ClipCount  int    `json:"clip_count"`
	Shared     bool   `json:"shared"`
}

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		format := strings.ToLower(req.Format)
		if format != export.FormatEDL && format != export.FormatJSON {
			WriteError(w, http.StatusBadRequest, "format must be edl or json", "BAD_REQUEST")
			return
		}

		snap := cfg.Store.Project()
		if len(snap.Clips) == 0 {
			WriteError(w, http.StatusUnprocessableEntity, "timeline is empty", "EMPTY_TIMELINE")
			return
		}

		result, err := cfg.Exporter.Export(snap, export.Request{
			ProjectName: req.ProjectName,
			Format:      format,
			OutputDir:   req.OutputDir,
		})
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		shared := false
		if req.Share && cfg.Share != nil {
			data, err := os.ReadFile(result.OutputPath)
			if err == nil {
				if err := cfg.Share.ShareArtifact(r.Context(), result, data); err != nil {
					cfg.Logger.Warn("artifact share failed", "error", err, "path", result.OutputPath)
				} else {
					shared = true
				}
			}
		}

		WriteJSON(w, http.StatusOK, exportResponse{
			Status:     "ok",
			Format:     result.Format,
			OutputPath: result.OutputPath,
			ClipCount:  result.ClipCount,
			Shared:     shared,
		})
	}
}
