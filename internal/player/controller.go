package player

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/reelsmith/reelsmith-agent/internal/timeline"
)

// State is the controller's position in its playback state machine.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StateSeeking
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateSeeking:
		return "seeking"
	default:
		return "stopped"
	}
}

// Controller defaults.
const (
	DefaultFPS          = 30
	DefaultPollInterval = 100 * time.Millisecond
	DefaultWidth        = 1920
	DefaultHeight       = 1080
)

// Config holds the controller's construction parameters. Zero values fall
// back to the package defaults.
type Config struct {
	FPS          int
	PollInterval time.Duration
	Width        int
	Height       int
	Logger       *slog.Logger
}

// Controller keeps an external renderer in step with the store. While the
// store is paused it pushes the playhead into the renderer as seeks; while
// playing it owns a fresh poll goroutine per session that feeds the
// renderer's frame position back into the store and enforces the out point.
type Controller struct {
	store    *timeline.Store
	renderer Renderer
	fps      int
	poll     time.Duration
	width    int
	height   int
	logger   *slog.Logger

	unsubscribe func()

	mu       sync.Mutex
	state    State
	stopping bool
	comp     Composition
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewController creates a controller bound to the store and renderer.
func NewController(store *timeline.Store, renderer Renderer, cfg Config) *Controller {
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Controller{
		store:    store,
		renderer: renderer,
		fps:      cfg.FPS,
		poll:     cfg.PollInterval,
		width:    cfg.Width,
		height:   cfg.Height,
		logger:   cfg.Logger,
	}
}

// Start subscribes to the store and performs an initial reconcile.
func (c *Controller) Start() {
	c.unsubscribe = c.store.Subscribe(c.reconcile)
	c.reconcile()
}

// Close detaches from the store, cancels any running poll, and pauses the
// renderer. It returns only after the poll goroutine has exited.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}

	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.state = StateStopped
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	c.renderer.Pause()
}

// State returns the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FPS returns the composition frame rate the controller maps time with.
func (c *Controller) FPS() int { return c.fps }

// reconcile runs after every store mutation and aligns the renderer with
// the store's transport state. Store calls made here re-enter reconcile, so
// the controller mutex is never held across them.
func (c *Controller) reconcile() {
	ps := c.store.Playback()
	duration := c.store.Duration()

	comp := Composition{
		DurationInFrames: FrameForTime(duration, c.fps),
		Width:            c.width,
		Height:           c.height,
		FPS:              c.fps,
		PlaybackRate:     ps.PlaybackRate,
		Volume:           rendererVolume(ps),
	}

	c.mu.Lock()
	reconfigure := comp != c.comp
	if reconfigure {
		c.comp = comp
	}

	begin := false
	var cancel context.CancelFunc
	var done chan struct{}
	seekFrame := -1

	switch {
	case ps.IsPlaying && c.state != StatePlaying && !c.stopping:
		c.state = StatePlaying
		begin = true
	case !ps.IsPlaying && c.state == StatePlaying:
		c.state = StateStopped
		cancel, done = c.cancel, c.done
		c.cancel, c.done = nil, nil
	case !ps.IsPlaying:
		// Paused: push the playhead into the renderer. This is the only
		// moment seeks are issued, so they never race frame advancement.
		if f := FrameForTime(ps.CurrentTime, c.fps); c.renderer.CurrentFrame() != f {
			c.state = StateSeeking
			seekFrame = f
		}
	}
	c.mu.Unlock()

	if reconfigure {
		c.renderer.Configure(comp)
	}

	switch {
	case begin:
		c.beginPlayback(ps)
	case cancel != nil:
		cancel()
		<-done
		c.renderer.Pause()
		c.logger.Debug("playback paused", "at", ps.CurrentTime)
	case seekFrame >= 0:
		c.renderer.SeekTo(seekFrame)
		c.mu.Lock()
		if c.state == StateSeeking {
			c.state = StateStopped
		}
		c.mu.Unlock()
	}
}

// beginPlayback starts a play session: the in point is honored first, then
// the renderer is positioned and started, and a fresh poll goroutine is
// created for the session.
func (c *Controller) beginPlayback(ps timeline.PlaybackState) {
	if ps.InPoint != nil && ps.CurrentTime < *ps.InPoint {
		c.store.SetCurrentTime(*ps.InPoint)
		ps.CurrentTime = *ps.InPoint
	}

	c.mu.Lock()
	if c.state != StatePlaying {
		// A pause raced the start; the session never begins.
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	c.mu.Unlock()

	c.renderer.SeekTo(FrameForTime(ps.CurrentTime, c.fps))
	c.renderer.Play()
	go c.pollLoop(ctx, done)

	c.logger.Debug("playback started", "at", ps.CurrentTime)
}

// pollLoop runs for the lifetime of one play session. Each tick feeds the
// renderer's position back into the store and checks the stop bounds.
func (c *Controller) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			c.tick()
		}
	}
}

func (c *Controller) tick() {
	t := TimeForFrame(c.renderer.CurrentFrame(), c.fps)
	ps := c.store.Playback()
	duration := c.store.Duration()

	stopAt := -1.0
	if ps.OutPoint != nil && t >= *ps.OutPoint {
		stopAt = *ps.OutPoint
	} else if duration > 0 && t >= duration {
		// The renderer ran off the end of the timeline.
		stopAt = duration
	}
	if stopAt >= 0 {
		c.stopAt(stopAt)
		return
	}

	c.store.SetCurrentTime(t)
}

// stopAt ends the current session at the given bound: the poll is cancelled
// first, then the renderer is paused and clamped, and finally the store is
// flipped to paused. The stopping flag keeps the intermediate store
// notifications from starting a new session.
func (c *Controller) stopAt(bound float64) {
	c.mu.Lock()
	if c.state != StatePlaying || c.stopping {
		c.mu.Unlock()
		return
	}
	c.stopping = true
	c.state = StateStopped
	cancel := c.cancel
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.renderer.Pause()
	c.renderer.SeekTo(FrameForTime(bound, c.fps))

	c.store.SetCurrentTime(bound)
	c.store.SetPlaying(false)

	c.mu.Lock()
	c.stopping = false
	c.mu.Unlock()

	c.logger.Debug("playback stopped at bound", "at", bound)
}

func rendererVolume(ps timeline.PlaybackState) float64 {
	if ps.IsMuted {
		return 0
	}
	return ps.Volume / 100
}
