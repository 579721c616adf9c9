package api

import (
	"time"

	"github.com/reelsmith/reelsmith-agent/internal/assets"
	"github.com/reelsmith/reelsmith-agent/internal/timeline"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeS  int64  `json:"uptime_s"`
	DeviceID string `json:"device_id"`
}

type StatusResponse struct {
	State       string               `json:"state"`
	AssetsCount int                  `json:"assets_count"`
	ClipCount   int                  `json:"clip_count"`
	Duration    float64              `json:"duration"`
	Playback    PlaybackResponse     `json:"playback"`
	Probe       *ProbeStatusResponse `json:"probe,omitempty"`
}

type PlaybackResponse struct {
	CurrentTime  float64  `json:"current_time"`
	IsPlaying    bool     `json:"is_playing"`
	IsMuted      bool     `json:"is_muted"`
	Volume       float64  `json:"volume"`
	PlaybackRate float64  `json:"playback_rate"`
	InPoint      *float64 `json:"in_point,omitempty"`
	OutPoint     *float64 `json:"out_point,omitempty"`
}

type ProbeStatusResponse struct {
	Available   bool   `json:"available"`
	Path        string `json:"path,omitempty"`
	Error       string `json:"error,omitempty"`
	LastProbeAt string `json:"last_probe_at,omitempty"`
}

type AssetResponse struct {
	ID          string   `json:"id"`
	SourceID    string   `json:"source_id"`
	Kind        string   `json:"kind"`
	Key         string   `json:"key"`
	DisplayName string   `json:"display_name"`
	ContentType string   `json:"content_type"`
	SizeBytes   int64    `json:"size_bytes"`
	DurationSec *float64 `json:"duration_sec,omitempty"`
	ProbeStatus string   `json:"probe_status"`
	CreatedAt   string   `json:"created_at"`
}

type AssetsResponse struct {
	Assets []AssetResponse `json:"assets"`
}

type RefreshResponse struct {
	Status string `json:"status"`
	Assets int    `json:"assets"`
}

type TimelineResponse struct {
	Clips     []ClipResponse   `json:"clips"`
	Selection []string         `json:"selection"`
	Duration  float64          `json:"duration"`
	Playback  PlaybackResponse `json:"playback"`
}

type ClipResponse struct {
	Element string              `json:"element"`
	Media   *timeline.MediaClip `json:"media,omitempty"`
	Text    *timeline.TextClip  `json:"text,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func AssetToResponse(a *assets.Asset) AssetResponse {
	return AssetResponse{
		ID:          a.ID,
		SourceID:    a.SourceID,
		Kind:        a.Kind,
		Key:         a.Key,
		DisplayName: a.DisplayName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		DurationSec: a.DurationSec,
		ProbeStatus: a.ProbeStatus,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}

func PlaybackToResponse(p timeline.PlaybackState) PlaybackResponse {
	return PlaybackResponse{
		CurrentTime:  p.CurrentTime,
		IsPlaying:    p.IsPlaying,
		IsMuted:      p.IsMuted,
		Volume:       p.Volume,
		PlaybackRate: p.PlaybackRate,
		InPoint:      p.InPoint,
		OutPoint:     p.OutPoint,
	}
}

func SnapshotToResponse(snap timeline.ProjectSnapshot) TimelineResponse {
	resp := TimelineResponse{
		Clips:     make([]ClipResponse, 0, len(snap.Clips)),
		Selection: snap.Selection,
		Duration:  snap.Duration,
		Playback:  PlaybackToResponse(snap.Playback),
	}
	if resp.Selection == nil {
		resp.Selection = []string{}
	}
	for _, clip := range snap.Clips {
		switch c := clip.(type) {
		case timeline.MediaClip:
			resp.Clips = append(resp.Clips, ClipResponse{Element: "media", Media: &c})
		case timeline.TextClip:
			resp.Clips = append(resp.Clips, ClipResponse{Element: "text", Text: &c})
		}
	}
	return resp
}
