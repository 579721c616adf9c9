package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/reelsmith/reelsmith-agent/internal/assets"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/status", statusHandler(cfg))
		r.Get("/assets", listAssetsHandler(cfg))
		r.Post("/assets/refresh", refreshAssetsHandler(cfg))
		r.Get("/assets/{id}", getAssetHandler(cfg))
		r.Get("/timeline", timelineHandler(cfg))
		r.Post("/export", exportHandler(cfg))
		r.With(LoopbackGuard()).Get("/stream/{id}", streamHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Version:  cfg.Version,
			UptimeS:  uptime,
			DeviceID: cfg.DeviceID,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assetCount, _ := cfg.Assets.Count(r.Context())
		snap := cfg.Store.Project()

		state := "idle"
		if snap.Playback.IsPlaying {
			state = "playing"
		}
		if cfg.Runner != nil && cfg.Runner.IsPaused() {
			state = "paused"
		}

		resp := StatusResponse{
			State:       state,
			AssetsCount: assetCount,
			ClipCount:   len(snap.Clips),
			Duration:    snap.Duration,
			Playback:    PlaybackToResponse(snap.Playback),
		}

		if cfg.Doctor != nil {
			avail := cfg.Doctor.Get()
			resp.Probe = &ProbeStatusResponse{
				Available:   avail.Available,
				Path:        avail.Path,
				Error:       avail.Error,
				LastProbeAt: avail.ProbedAt.Format(time.RFC3339),
			}
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

func listAssetsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := cfg.Assets.List(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list assets", "INTERNAL_ERROR")
			return
		}

		resp := AssetsResponse{Assets: make([]AssetResponse, len(list))}
		for i, a := range list {
			resp.Assets[i] = AssetToResponse(a)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func refreshAssetsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Assets.Refresh(r.Context()); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		count, _ := cfg.Assets.Count(r.Context())
		WriteJSON(w, http.StatusOK, RefreshResponse{Status: "ok", Assets: count})
	}
}

func getAssetHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "asset id required", "BAD_REQUEST")
			return
		}

		asset, err := cfg.Assets.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, assets.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "asset not found", "NOT_FOUND")
				return
			}
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, AssetToResponse(asset))
	}
}

func timelineHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, SnapshotToResponse(cfg.Store.Project()))
	}
}

func streamHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "asset id required", "BAD_REQUEST")
			return
		}

		if err := cfg.Stream.ServeAsset(w, r, id); err != nil {
			cfg.Logger.Error("stream error", "error", err, "asset_id", id)
		}
	}
}
