package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/reelsmith/reelsmith-agent/internal/timeline"
)

// GenerateEDL renders the snapshot as a CMX 3600 edit decision list.
// Events follow clip z-order: video and image clips cut on V, audio-only
// clips on AA, text overlays become comment notes since CMX has no titling
// events.
func GenerateEDL(snap timeline.ProjectSnapshot, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	event := 0
	for _, clip := range snap.Clips {
		switch c := clip.(type) {
		case timeline.MediaClip:
			event++
			track := "V"
			if c.Type == timeline.ClipAudio {
				track = "AA"
			}

			srcIn := msToTimecode(secToMs(c.SourceTrimStart), fps)
			srcOut := msToTimecode(secToMs(c.SourceTrimEnd), fps)
			recIn := msToTimecode(secToMs(c.TimelineStart), fps)
			recOut := msToTimecode(secToMs(c.TimelineEnd), fps)

			lines = append(lines,
				fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", event, "AX", track, srcIn, srcOut, recIn, recOut),
				fmt.Sprintf("* FROM CLIP NAME:  %s", c.SourceName),
				fmt.Sprintf("* SOURCE KEY:  %s", c.SourceKey),
			)
			if c.PlaybackSpeed != 1.0 && c.PlaybackSpeed > 0 {
				lines = append(lines, fmt.Sprintf("* PLAYBACK SPEED:  %.2fx", c.PlaybackSpeed))
			}

		case timeline.TextClip:
			recIn := msToTimecode(secToMs(c.TimelineStart), fps)
			recOut := msToTimecode(secToMs(c.TimelineEnd), fps)
			lines = append(lines,
				fmt.Sprintf("* COMMENT: TEXT %s - %s  %q", recIn, recOut, c.Text),
			)
		}
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func secToMs(sec float64) int {
	return int(math.Round(sec * 1000))
}

func msToTimecode(ms int, fps int) string {
	totalFrames := int(math.Round(float64(ms) * float64(fps) / 1000.0))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
