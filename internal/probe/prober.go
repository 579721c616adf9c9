// Package probe extracts media metadata for bin assets through ffprobe.
// Probed durations are display metadata only; clip placement defaults never
// depend on them.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// MediaInfo is the metadata a probe yields for one media file.
type MediaInfo struct {
	DurationSec float64 `json:"duration_sec"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	VideoCodec  string  `json:"video_codec,omitempty"`
	AudioCodec  string  `json:"audio_codec,omitempty"`
	SizeBytes   int64   `json:"size_bytes,omitempty"`
}

// Prober inspects a local media file.
type Prober interface {
	Probe(ctx context.Context, target string) (*MediaInfo, error)
}

const defaultProbeTimeout = 30 * time.Second

// FFmpegProber runs ffprobe through the ffmpeg-go bindings and parses its
// JSON output.
type FFmpegProber struct {
	timeout time.Duration
	logger  *slog.Logger
}

func NewFFmpegProber(timeout time.Duration, logger *slog.Logger) *FFmpegProber {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FFmpegProber{timeout: timeout, logger: logger}
}

// ffprobe JSON output, reduced to the fields the agent reads.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

func (p *FFmpegProber) Probe(ctx context.Context, target string) (*MediaInfo, error) {
	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, ctx.Err()
	}

	start := time.Now()
	raw, err := ffmpeg.ProbeWithTimeout(target, timeout, nil)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", target, err)
	}

	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := &MediaInfo{}
	if out.Format.Duration != "" {
		d, err := strconv.ParseFloat(out.Format.Duration, 64)
		if err != nil {
			return nil, fmt.Errorf("parse duration %q: %w", out.Format.Duration, err)
		}
		info.DurationSec = d
	}
	if out.Format.Size != "" {
		if size, err := strconv.ParseInt(out.Format.Size, 10, 64); err == nil {
			info.SizeBytes = size
		}
	}
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if info.VideoCodec == "" {
				info.VideoCodec = s.CodecName
				info.Width = s.Width
				info.Height = s.Height
			}
		case "audio":
			if info.AudioCodec == "" {
				info.AudioCodec = s.CodecName
			}
		}
	}

	p.logger.Debug("probe completed",
		"target", target,
		"duration_sec", info.DurationSec,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return info, nil
}

// StubProber serves fixed metadata; used in tests and probe-less installs.
type StubProber struct {
	Info *MediaInfo
	Err  error
}

func (p *StubProber) Probe(ctx context.Context, target string) (*MediaInfo, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Info != nil {
		info := *p.Info
		return &info, nil
	}
	return &MediaInfo{}, nil
}
