// Package render provides the agent's built-in preview renderer: a software
// frame clock that advances at composition rate while playing. It stands in
// for an external rendering surface behind the player.Renderer capability.
package render

import (
	"sync"
	"time"

	"github.com/reelsmith/reelsmith-agent/internal/player"
)

// Clock is a frame counter that advances in real time while playing,
// honoring the composition's fps and playback rate. It is safe for
// concurrent use.
type Clock struct {
	mu      sync.Mutex
	comp    player.Composition
	playing bool
	frame   float64
	last    time.Time
	now     func() time.Time
}

// NewClock creates a stopped clock at frame zero with a 30 fps composition.
func NewClock() *Clock {
	return &Clock{
		comp: player.Composition{FPS: 30, PlaybackRate: 1},
		now:  time.Now,
	}
}

// Configure applies composition parameters. The current frame is clamped
// into the new composition's bounds.
func (c *Clock) Configure(comp player.Composition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceLocked()
	if comp.FPS <= 0 {
		comp.FPS = 30
	}
	if comp.PlaybackRate <= 0 {
		comp.PlaybackRate = 1
	}
	c.comp = comp
	c.clampLocked()
}

// SeekTo positions the clock at the given frame, clamped into bounds.
func (c *Clock) SeekTo(frame int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frame = float64(frame)
	c.clampLocked()
	c.last = c.now()
}

// Play starts frame advancement.
func (c *Clock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		return
	}
	c.playing = true
	c.last = c.now()
}

// Pause halts frame advancement.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceLocked()
	c.playing = false
}

// CurrentFrame returns the clock's position, advancing it first when
// playing.
func (c *Clock) CurrentFrame() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceLocked()
	return int(c.frame)
}

// Playing reports whether the clock is advancing.
func (c *Clock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// advanceLocked folds wall-clock time elapsed since the last observation
// into the frame position.
func (c *Clock) advanceLocked() {
	if !c.playing {
		return
	}
	now := c.now()
	dt := now.Sub(c.last).Seconds()
	if dt > 0 {
		c.frame += dt * float64(c.comp.FPS) * c.comp.PlaybackRate
		c.clampLocked()
	}
	c.last = now
}

func (c *Clock) clampLocked() {
	if c.frame < 0 {
		c.frame = 0
	}
	if max := float64(c.comp.DurationInFrames); max > 0 && c.frame > max {
		c.frame = max
	}
}
