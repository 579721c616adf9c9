// Package config provides configuration management for the Reelsmith Agent.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// Default values
	DefaultPort     = 8790
	DefaultLogLevel = "info"
	DefaultDataDir  = ".reelsmith"

	// Environment variable names
	EnvPort     = "REELSMITH_PORT"
	EnvLogLevel = "REELSMITH_LOG_LEVEL"
	EnvDataDir  = "REELSMITH_DATA_DIR"
	EnvHeadless = "REELSMITH_HEADLESS"

	// Media bin environment variable names
	EnvMediaDirs       = "REELSMITH_MEDIA_DIRS"
	EnvS3Bucket        = "REELSMITH_S3_BUCKET"
	EnvS3Prefix        = "REELSMITH_S3_PREFIX"
	EnvS3Region        = "REELSMITH_S3_REGION"
	EnvPresignTTL      = "REELSMITH_PRESIGN_TTL_SECONDS"
	EnvRefreshInterval = "REELSMITH_REFRESH_SECONDS"

	// Editor environment variable names
	EnvFPS              = "REELSMITH_FPS"
	EnvCompositionW     = "REELSMITH_COMPOSITION_WIDTH"
	EnvCompositionH     = "REELSMITH_COMPOSITION_HEIGHT"
	EnvPollIntervalMS   = "REELSMITH_POLL_INTERVAL_MS"
	EnvHistoryDepth     = "REELSMITH_HISTORY_DEPTH"
	EnvMediaClipSeconds = "REELSMITH_MEDIA_CLIP_SECONDS"
	EnvTextClipSeconds  = "REELSMITH_TEXT_CLIP_SECONDS"

	// Share environment variable names
	EnvShareURL   = "REELSMITH_SHARE_URL"
	EnvShareToken = "REELSMITH_SHARE_TOKEN"

	// Database filename
	DBFilename = "reelsmith.db"

	// Editor defaults
	DefaultFPS              = 30
	DefaultCompositionW     = 1920
	DefaultCompositionH     = 1080
	DefaultPollIntervalMS   = 100
	DefaultHistoryDepth     = 50
	DefaultMediaClipSeconds = 5.0
	DefaultTextClipSeconds  = 3.0

	// Media bin defaults
	DefaultPresignTTLSeconds      = 900
	DefaultRefreshIntervalSeconds = 30
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	ExportDir() string
	Headless() bool

	MediaDirs() []string
	S3Enabled() bool
	S3Bucket() string
	S3Prefix() string
	S3Region() string
	PresignTTL() time.Duration
	RefreshInterval() time.Duration

	FPS() int
	CompositionWidth() int
	CompositionHeight() int
	PollInterval() time.Duration
	HistoryDepth() int
	MediaClipSeconds() float64
	TextClipSeconds() float64

	ShareURL() string
	ShareToken() string
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port     int
	logLevel string
	dataDir  string
	headless bool

	mediaDirs       []string
	s3Bucket        string
	s3Prefix        string
	s3Region        string
	presignTTL      time.Duration
	refreshInterval time.Duration

	fps              int
	compositionW     int
	compositionH     int
	pollInterval     time.Duration
	historyDepth     int
	mediaClipSeconds float64
	textClipSeconds  float64

	shareURL   string
	shareToken string
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:             DefaultPort,
		logLevel:         DefaultLogLevel,
		dataDir:          defaultDataDir(),
		presignTTL:       DefaultPresignTTLSeconds * time.Second,
		refreshInterval:  DefaultRefreshIntervalSeconds * time.Second,
		fps:              DefaultFPS,
		compositionW:     DefaultCompositionW,
		compositionH:     DefaultCompositionH,
		pollInterval:     DefaultPollIntervalMS * time.Millisecond,
		historyDepth:     DefaultHistoryDepth,
		mediaClipSeconds: DefaultMediaClipSeconds,
		textClipSeconds:  DefaultTextClipSeconds,
	}

	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	// Override log level from environment
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	// Override data directory from environment
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	cfg.headless = envBool(EnvHeadless)

	// Media sources: colon-separated list of local folders
	if md := os.Getenv(EnvMediaDirs); md != "" {
		for _, dir := range strings.Split(md, ":") {
			dir = strings.TrimSpace(dir)
			if dir != "" {
				cfg.mediaDirs = append(cfg.mediaDirs, dir)
			}
		}
	}

	cfg.s3Bucket = os.Getenv(EnvS3Bucket)
	cfg.s3Prefix = os.Getenv(EnvS3Prefix)
	cfg.s3Region = os.Getenv(EnvS3Region)

	if err := envSeconds(EnvPresignTTL, &cfg.presignTTL); err != nil {
		return nil, err
	}
	if err := envSeconds(EnvRefreshInterval, &cfg.refreshInterval); err != nil {
		return nil, err
	}

	if err := envPositiveInt(EnvFPS, &cfg.fps); err != nil {
		return nil, err
	}
	if err := envPositiveInt(EnvCompositionW, &cfg.compositionW); err != nil {
		return nil, err
	}
	if err := envPositiveInt(EnvCompositionH, &cfg.compositionH); err != nil {
		return nil, err
	}

	if ms := os.Getenv(EnvPollIntervalMS); ms != "" {
		v, err := strconv.Atoi(ms)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("invalid %s: must be a positive integer of milliseconds", EnvPollIntervalMS)
		}
		cfg.pollInterval = time.Duration(v) * time.Millisecond
	}

	if err := envPositiveInt(EnvHistoryDepth, &cfg.historyDepth); err != nil {
		return nil, err
	}
	if err := envPositiveFloat(EnvMediaClipSeconds, &cfg.mediaClipSeconds); err != nil {
		return nil, err
	}
	if err := envPositiveFloat(EnvTextClipSeconds, &cfg.textClipSeconds); err != nil {
		return nil, err
	}

	cfg.shareURL = os.Getenv(EnvShareURL)
	cfg.shareToken = os.Getenv(EnvShareToken)

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// ExportDir returns the directory export artifacts are written to
func (c *EnvConfig) ExportDir() string {
	return filepath.Join(c.dataDir, "exports")
}

// Headless reports whether the terminal editor should be skipped
func (c *EnvConfig) Headless() bool {
	return c.headless
}

// MediaDirs returns the configured local media folders
func (c *EnvConfig) MediaDirs() []string {
	return c.mediaDirs
}

// S3Enabled reports whether an S3 media source is configured
func (c *EnvConfig) S3Enabled() bool {
	return c.s3Bucket != ""
}

// S3Bucket returns the S3 media source bucket name
func (c *EnvConfig) S3Bucket() string {
	return c.s3Bucket
}

// S3Prefix returns the key prefix within the S3 media source
func (c *EnvConfig) S3Prefix() string {
	return c.s3Prefix
}

// S3Region returns the region of the S3 media source
func (c *EnvConfig) S3Region() string {
	return c.s3Region
}

// PresignTTL returns the lifetime of presigned asset URLs
func (c *EnvConfig) PresignTTL() time.Duration {
	return c.presignTTL
}

// RefreshInterval returns how often the media bin re-lists its sources
func (c *EnvConfig) RefreshInterval() time.Duration {
	return c.refreshInterval
}

// FPS returns the composition frame rate
func (c *EnvConfig) FPS() int {
	return c.fps
}

// CompositionWidth returns the composition width in pixels
func (c *EnvConfig) CompositionWidth() int {
	return c.compositionW
}

// CompositionHeight returns the composition height in pixels
func (c *EnvConfig) CompositionHeight() int {
	return c.compositionH
}

// PollInterval returns the playback out-point poll interval
func (c *EnvConfig) PollInterval() time.Duration {
	return c.pollInterval
}

// HistoryDepth returns the maximum number of undo snapshots kept
func (c *EnvConfig) HistoryDepth() int {
	return c.historyDepth
}

// MediaClipSeconds returns the default placement length for media clips
func (c *EnvConfig) MediaClipSeconds() float64 {
	return c.mediaClipSeconds
}

// TextClipSeconds returns the default placement length for text clips
func (c *EnvConfig) TextClipSeconds() float64 {
	return c.textClipSeconds
}

// ShareURL returns the export share endpoint, empty when disabled
func (c *EnvConfig) ShareURL() string {
	return c.shareURL
}

// ShareToken returns the bearer token for the share endpoint
func (c *EnvConfig) ShareToken() string {
	return c.shareToken
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

func envBool(name string) bool {
	switch strings.ToLower(os.Getenv(name)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func envPositiveInt(name string, dst *int) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fmt.Errorf("invalid %s: must be a positive integer", name)
	}
	*dst = v
	return nil
}

func envPositiveFloat(name string, dst *float64) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("invalid %s: must be a positive number", name)
	}
	*dst = v
	return nil
}

func envSeconds(name string, dst *time.Duration) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fmt.Errorf("invalid %s: must be a positive integer of seconds", name)
	}
	*dst = time.Duration(v) * time.Second
	return nil
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
