package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/reelsmith/reelsmith-agent/internal/timeline"
)

// projectDocument is the JSON artifact layout. Clips carry an explicit
// element discriminator because the snapshot's Clip interface does not
// serialize on its own.
type projectDocument struct {
	Title       string                 `json:"title"`
	GeneratedAt string                 `json:"generated_at"`
	FrameRate   float64                `json:"frame_rate"`
	Duration    float64                `json:"duration"`
	Playback    timeline.PlaybackState `json:"playback"`
	Clips       []clipDocument         `json:"clips"`
}

type clipDocument struct {
	Element string              `json:"element"`
	Media   *timeline.MediaClip `json:"media,omitempty"`
	Text    *timeline.TextClip  `json:"text,omitempty"`
}

// GenerateJSON renders the snapshot as an indented project document.
func GenerateJSON(snap timeline.ProjectSnapshot, title string, frameRate float64) ([]byte, error) {
	doc := projectDocument{
		Title:       title,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		FrameRate:   frameRate,
		Duration:    snap.Duration,
		Playback:    snap.Playback,
		Clips:       make([]clipDocument, 0, len(snap.Clips)),
	}

	for _, clip := range snap.Clips {
		switch c := clip.(type) {
		case timeline.MediaClip:
			doc.Clips = append(doc.Clips, clipDocument{Element: "media", Media: &c})
		case timeline.TextClip:
			doc.Clips = append(doc.Clips, clipDocument{Element: "text", Text: &c})
		default:
			return nil, fmt.Errorf("unknown clip element %T", clip)
		}
	}

	return json.MarshalIndent(doc, "", "  ")
}
