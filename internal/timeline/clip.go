// Package timeline implements the in-memory editing model for a reel:
// clips placed on a shared timeline, the selection and clipboard, playback
// parameters, and snapshot-based undo/redo. The Store is the single owner
// of all editing state; everything else observes it.
package timeline

import "strings"

// ClipType identifies the kind of media a MediaClip plays back.
type ClipType string

const (
	ClipVideo ClipType = "video"
	ClipAudio ClipType = "audio"
	ClipImage ClipType = "image"
)

// Text alignment values accepted by TextClip.Align.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// AssetRef is the descriptor a media bin hands over when a clip is added.
// The timeline never fetches the URL: it is a weak reference to media that
// lives elsewhere.
type AssetRef struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

// Kind maps the descriptor's content type onto a clip type.
// Unknown content types are treated as video.
func (r AssetRef) Kind() ClipType {
	switch {
	case strings.HasPrefix(r.ContentType, "audio/"):
		return ClipAudio
	case strings.HasPrefix(r.ContentType, "image/"):
		return ClipImage
	default:
		return ClipVideo
	}
}

// Clip is a placed element occupying an interval on the timeline.
// The two implementations, MediaClip and TextClip, are value types:
// copying a Clip copies the whole element.
type Clip interface {
	// ClipID returns the clip's stable identity.
	ClipID() string
	// Placement returns the clip's [start, end) interval in timeline seconds.
	Placement() (start, end float64)

	isClip()
}

// MediaClip is a placed instance of a video, audio, or image asset.
// It plays back the source sub-range [SourceTrimStart, SourceTrimEnd)
// over the timeline interval [TimelineStart, TimelineEnd).
type MediaClip struct {
	ID              string   `json:"id"`
	Type            ClipType `json:"type"`
	SourceKey       string   `json:"source_key"`
	SourceName      string   `json:"source_name"`
	SourceURL       string   `json:"source_url"`
	SourceTrimStart float64  `json:"source_trim_start"`
	SourceTrimEnd   float64  `json:"source_trim_end"`
	TimelineStart   float64  `json:"timeline_start"`
	TimelineEnd     float64  `json:"timeline_end"`
	PlaybackSpeed   float64  `json:"playback_speed"`
	Volume          float64  `json:"volume"`
	Opacity         float64  `json:"opacity"`
}

func (c MediaClip) ClipID() string { return c.ID }

func (c MediaClip) Placement() (float64, float64) { return c.TimelineStart, c.TimelineEnd }

func (c MediaClip) isClip() {}

// Duration returns the clip's length on the timeline in seconds.
func (c MediaClip) Duration() float64 { return c.TimelineEnd - c.TimelineStart }

// SourceDuration returns the length of the trimmed source range in seconds.
func (c MediaClip) SourceDuration() float64 { return c.SourceTrimEnd - c.SourceTrimStart }

// TextClip is a placed text overlay. X and Y are normalized composition
// coordinates in [0, 1], so placement is independent of the render size.
type TextClip struct {
	ID                string  `json:"id"`
	Text              string  `json:"text"`
	TimelineStart     float64 `json:"timeline_start"`
	TimelineEnd       float64 `json:"timeline_end"`
	X                 float64 `json:"x"`
	Y                 float64 `json:"y"`
	FontFamily        string  `json:"font_family"`
	FontSize          float64 `json:"font_size"`
	FontWeight        string  `json:"font_weight"`
	Color             string  `json:"color"`
	Background        string  `json:"background"`
	Align             string  `json:"align"`
	Opacity           float64 `json:"opacity"`
	Animation         string  `json:"animation"`
	AnimationDuration float64 `json:"animation_duration"`
}

func (c TextClip) ClipID() string { return c.ID }

func (c TextClip) Placement() (float64, float64) { return c.TimelineStart, c.TimelineEnd }

func (c TextClip) isClip() {}

// Duration returns the clip's length on the timeline in seconds.
func (c TextClip) Duration() float64 { return c.TimelineEnd - c.TimelineStart }

// IsValidPlacement reports whether [start, end) is a usable timeline
// interval: non-negative start and a non-degenerate extent.
func IsValidPlacement(start, end float64) bool {
	return start >= 0 && end > start
}

// IsValidTrim reports whether [sourceStart, sourceEnd) is a usable source
// range. sourceDuration bounds the range when it is known; pass 0 when the
// real duration of the source is unknown.
func IsValidTrim(sourceStart, sourceEnd, sourceDuration float64) bool {
	if sourceStart < 0 || sourceEnd <= sourceStart {
		return false
	}
	if sourceDuration > 0 && sourceEnd > sourceDuration {
		return false
	}
	return true
}

// withID returns a copy of the clip carrying a different identity.
func withID(c Clip, id string) Clip {
	switch v := c.(type) {
	case MediaClip:
		v.ID = id
		return v
	case TextClip:
		v.ID = id
		return v
	}
	return c
}

// shifted returns a copy of the clip moved by delta seconds on the timeline.
func shifted(c Clip, delta float64) Clip {
	switch v := c.(type) {
	case MediaClip:
		v.TimelineStart += delta
		v.TimelineEnd += delta
		return v
	case TextClip:
		v.TimelineStart += delta
		v.TimelineEnd += delta
		return v
	}
	return c
}
