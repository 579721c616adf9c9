package player

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/reelsmith/reelsmith-agent/internal/timeline"
)

// fakeRenderer records the calls the controller makes and serves a
// programmable frame position.
type fakeRenderer struct {
	mu         sync.Mutex
	comp       Composition
	frame      int
	playing    bool
	playCalls  int
	pauseCalls int
	seeks      []int
}

func (f *fakeRenderer) Configure(c Composition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comp = c
}

func (f *fakeRenderer) SeekTo(frame int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frame = frame
	f.seeks = append(f.seeks, frame)
}

func (f *fakeRenderer) Play() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = true
	f.playCalls++
}

func (f *fakeRenderer) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
	f.pauseCalls++
}

func (f *fakeRenderer) CurrentFrame() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frame
}

func (f *fakeRenderer) setFrame(frame int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frame = frame
}

func (f *fakeRenderer) snapshot() (playing bool, playCalls, pauseCalls int, seeks []int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing, f.playCalls, f.pauseCalls, append([]int(nil), f.seeks...)
}

func newTestStore() *timeline.Store {
	n := 0
	return timeline.NewStore(timeline.Config{
		NewID:  func() string { n++; return fmt.Sprintf("clip-%d", n) },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func newTestController(s *timeline.Store, r Renderer) *Controller {
	return NewController(s, r, Config{
		PollInterval: 5 * time.Millisecond,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func addClipSeconds(s *timeline.Store, seconds float64) string {
	id := s.AddMedia(timeline.AssetRef{Key: "media/a.mp4", ContentType: "video/mp4"})
	end := seconds
	s.UpdateClip(id, timeline.MediaPatch{TimelineEnd: &end, SourceTrimEnd: &end})
	return id
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSeekWhilePaused(t *testing.T) {
	s := newTestStore()
	addClipSeconds(s, 10)
	r := &fakeRenderer{}
	c := newTestController(s, r)
	c.Start()
	defer c.Close()

	s.SetCurrentTime(4)

	if got := r.CurrentFrame(); got != FrameForTime(4, DefaultFPS) {
		t.Errorf("renderer frame = %d, want %d", got, FrameForTime(4, DefaultFPS))
	}
	if playing, _, _, _ := r.snapshot(); playing {
		t.Error("renderer playing after paused seek")
	}
}

func TestPlayPauseDrivesRenderer(t *testing.T) {
	s := newTestStore()
	addClipSeconds(s, 10)
	r := &fakeRenderer{}
	c := newTestController(s, r)
	c.Start()
	defer c.Close()

	s.SetPlaying(true)
	waitFor(t, "renderer to play", func() bool {
		playing, _, _, _ := r.snapshot()
		return playing
	})
	if c.State() != StatePlaying {
		t.Errorf("State = %v, want playing", c.State())
	}

	s.SetPlaying(false)
	waitFor(t, "renderer to pause", func() bool {
		playing, _, _, _ := r.snapshot()
		return !playing
	})
	if c.State() != StateStopped {
		t.Errorf("State = %v, want stopped", c.State())
	}
}

func TestPollFeedsFramePositionBack(t *testing.T) {
	s := newTestStore()
	addClipSeconds(s, 10)
	r := &fakeRenderer{}
	c := newTestController(s, r)
	c.Start()
	defer c.Close()

	s.SetPlaying(true)
	waitFor(t, "renderer to play", func() bool {
		playing, _, _, _ := r.snapshot()
		return playing
	})

	r.setFrame(FrameForTime(3, DefaultFPS))
	waitFor(t, "playhead to follow renderer", func() bool {
		return s.Playback().CurrentTime == 3
	})
}

func TestInPointHonoredOnPlay(t *testing.T) {
	s := newTestStore()
	addClipSeconds(s, 10)
	in := 2.0
	if !s.SetInPoint(in) {
		t.Fatal("SetInPoint rejected")
	}
	s.SetCurrentTime(0.5)

	r := &fakeRenderer{}
	c := newTestController(s, r)
	c.Start()
	defer c.Close()

	s.SetPlaying(true)
	waitFor(t, "renderer to play", func() bool {
		playing, _, _, _ := r.snapshot()
		return playing
	})

	if got := s.Playback().CurrentTime; got != in {
		t.Errorf("CurrentTime = %v after play with in point, want %v", got, in)
	}
}

func TestOutPointStopsPlayback(t *testing.T) {
	s := newTestStore()
	addClipSeconds(s, 10)
	if !s.SetOutPoint(4) {
		t.Fatal("SetOutPoint rejected")
	}

	r := &fakeRenderer{}
	c := newTestController(s, r)
	c.Start()
	defer c.Close()

	s.SetPlaying(true)
	waitFor(t, "renderer to play", func() bool {
		playing, _, _, _ := r.snapshot()
		return playing
	})

	// Renderer runs past the out point; the next poll must stop it.
	r.setFrame(FrameForTime(4.5, DefaultFPS))

	waitFor(t, "store to pause at out point", func() bool {
		ps := s.Playback()
		return !ps.IsPlaying && ps.CurrentTime == 4
	})
	waitFor(t, "renderer to pause", func() bool {
		playing, _, _, _ := r.snapshot()
		return !playing
	})
	if c.State() != StateStopped {
		t.Errorf("State = %v, want stopped", c.State())
	}
}

func TestTimelineEndStopsPlayback(t *testing.T) {
	s := newTestStore()
	addClipSeconds(s, 5)

	r := &fakeRenderer{}
	c := newTestController(s, r)
	c.Start()
	defer c.Close()

	s.SetPlaying(true)
	waitFor(t, "renderer to play", func() bool {
		playing, _, _, _ := r.snapshot()
		return playing
	})

	r.setFrame(FrameForTime(5, DefaultFPS))
	waitFor(t, "store to pause at timeline end", func() bool {
		ps := s.Playback()
		return !ps.IsPlaying && ps.CurrentTime == 5
	})
}

func TestCloseCancelsPoll(t *testing.T) {
	s := newTestStore()
	addClipSeconds(s, 10)
	r := &fakeRenderer{}
	c := newTestController(s, r)
	c.Start()

	s.SetPlaying(true)
	waitFor(t, "renderer to play", func() bool {
		playing, _, _, _ := r.snapshot()
		return playing
	})

	c.Close()

	if playing, _, _, _ := r.snapshot(); playing {
		t.Error("renderer still playing after Close")
	}

	// A frame change after Close must not reach the store: the poll is dead.
	before := s.Playback().CurrentTime
	r.setFrame(FrameForTime(7, DefaultFPS))
	time.Sleep(30 * time.Millisecond)
	if got := s.Playback().CurrentTime; got != before {
		t.Errorf("CurrentTime moved to %v after Close, want %v", got, before)
	}
}

func TestFreshSessionPerPlay(t *testing.T) {
	s := newTestStore()
	addClipSeconds(s, 10)
	r := &fakeRenderer{}
	c := newTestController(s, r)
	c.Start()
	defer c.Close()

	for i := 0; i < 3; i++ {
		s.SetPlaying(true)
		waitFor(t, "renderer to play", func() bool {
			playing, _, _, _ := r.snapshot()
			return playing
		})
		s.SetPlaying(false)
		waitFor(t, "renderer to pause", func() bool {
			playing, _, _, _ := r.snapshot()
			return !playing
		})
	}

	_, playCalls, pauseCalls, _ := r.snapshot()
	if playCalls != 3 {
		t.Errorf("play calls = %d, want 3", playCalls)
	}
	if pauseCalls < 3 {
		t.Errorf("pause calls = %d, want at least 3", pauseCalls)
	}
}

func TestVolumeAndMuteReachComposition(t *testing.T) {
	s := newTestStore()
	addClipSeconds(s, 10)
	r := &fakeRenderer{}
	c := newTestController(s, r)
	c.Start()
	defer c.Close()

	s.SetVolume(50)
	r.mu.Lock()
	vol := r.comp.Volume
	r.mu.Unlock()
	if vol != 0.5 {
		t.Errorf("composition volume = %v, want 0.5", vol)
	}

	s.SetMuted(true)
	r.mu.Lock()
	vol = r.comp.Volume
	r.mu.Unlock()
	if vol != 0 {
		t.Errorf("composition volume = %v while muted, want 0", vol)
	}
}
