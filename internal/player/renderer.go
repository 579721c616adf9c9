// Package player reconciles the timeline store's transport state with an
// external frame-based renderer. The renderer is a capability the controller
// drives through a narrow interface; it never reaches into renderer
// internals, and the renderer never mutates the store.
package player

import "math"

// Composition describes what the renderer is asked to present.
type Composition struct {
	DurationInFrames int
	Width            int
	Height           int
	FPS              int
	PlaybackRate     float64
	Volume           float64 // normalized 0..1, zero while muted
}

// Renderer is the frame-based playback surface the controller drives.
// Implementations must be safe for concurrent use: the controller calls
// them from both the host goroutine and the poll goroutine.
type Renderer interface {
	// Configure applies the composition parameters. It may be called at
	// any time, including mid-playback for rate or volume changes.
	Configure(Composition)
	// SeekTo positions the renderer at the given frame.
	SeekTo(frame int)
	// Play starts frame advancement from the current position.
	Play()
	// Pause halts frame advancement.
	Pause()
	// CurrentFrame returns the renderer's current frame position.
	CurrentFrame() int
}

// FrameForTime converts timeline seconds to the nearest frame index.
func FrameForTime(t float64, fps int) int {
	return int(math.Round(t * float64(fps)))
}

// TimeForFrame converts a frame index back to timeline seconds.
func TimeForFrame(frame, fps int) float64 {
	return float64(frame) / float64(fps)
}
