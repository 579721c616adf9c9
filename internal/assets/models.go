// Package assets is the agent's media bin: it lists media objects from
// local folders and S3, keeps the catalog in SQLite, and hands descriptors
// to the timeline when clips are added.
package assets

import (
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reelsmith/reelsmith-agent/internal/timeline"
)

// Source kinds.
const (
	SourceLocal = "local"
	SourceS3    = "s3"
)

// Probe statuses an asset moves through.
const (
	ProbePending  = "pending"
	ProbeProbing  = "probing"
	ProbeComplete = "complete"
	ProbeFailed   = "failed"
	ProbeSkipped  = "skipped"
)

// Source is one configured media location.
type Source struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Root       string     `json:"root,omitempty"`
	Bucket     string     `json:"bucket,omitempty"`
	Prefix     string     `json:"prefix,omitempty"`
	Region     string     `json:"region,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	LastScanAt *time.Time `json:"last_scan_at,omitempty"`
}

// Location returns the human-readable place the source points at.
func (s *Source) Location() string {
	if s.Kind == SourceS3 {
		return "s3://" + s.Bucket + "/" + s.Prefix
	}
	return s.Root
}

// Asset is one media object known to the bin.
type Asset struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"source_id"`
	Kind        string    `json:"kind"`
	Key         string    `json:"key"`
	DisplayName string    `json:"display_name"`
	URL         string    `json:"url,omitempty"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	DurationSec *float64  `json:"duration_sec,omitempty"`
	ProbeStatus string    `json:"probe_status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Ref converts the asset into the descriptor the timeline consumes.
func (a *Asset) Ref() timeline.AssetRef {
	return timeline.AssetRef{
		Key:         a.Key,
		Name:        a.DisplayName,
		URL:         a.URL,
		ContentType: a.ContentType,
	}
}

// mediaKinds maps media file extensions onto asset kinds. Anything outside
// this map is not bin material.
var mediaKinds = map[string]string{
	".mp4":  "video",
	".mov":  "video",
	".mkv":  "video",
	".webm": "video",
	".mp3":  "audio",
	".wav":  "audio",
	".m4a":  "audio",
	".aac":  "audio",
	".flac": "audio",
	".png":  "image",
	".jpg":  "image",
	".jpeg": "image",
	".gif":  "image",
	".webp": "image",
}

// IsMediaFile reports whether the filename carries a recognized media
// extension.
func IsMediaFile(name string) bool {
	_, ok := mediaKinds[strings.ToLower(filepath.Ext(name))]
	return ok
}

// KindForName returns the asset kind for a filename, or "" when the
// extension is not media.
func KindForName(name string) string {
	return mediaKinds[strings.ToLower(filepath.Ext(name))]
}

// ContentTypeForName resolves a MIME type for the filename, with a video
// fallback matching the timeline's own unknown-type behavior.
func ContentTypeForName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	switch mediaKinds[ext] {
	case "audio":
		return "audio/octet-stream"
	case "image":
		return "image/octet-stream"
	default:
		return "video/octet-stream"
	}
}

// NewID mints an asset or source identity.
func NewID() string {
	return uuid.NewString()
}
