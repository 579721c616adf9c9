package probe

import (
	"log/slog"
	"os/exec"
	"sync"
	"time"
)

const defaultCacheTTL = 5 * time.Minute

// Availability reports whether the ffprobe binary can be executed.
type Availability struct {
	Available bool      `json:"available"`
	Path      string    `json:"path,omitempty"`
	Error     string    `json:"error,omitempty"`
	ProbedAt  time.Time `json:"-"`
}

// Doctor checks for the ffprobe executable and caches the answer with a
// TTL, so a probe-less install degrades the bin to unknown durations
// instead of shelling out on every refresh.
type Doctor struct {
	ttl      time.Duration
	logger   *slog.Logger
	lookPath func(string) (string, error)

	mu     sync.RWMutex
	cached *Availability
}

func NewDoctor(logger *slog.Logger) *Doctor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Doctor{
		ttl:      defaultCacheTTL,
		logger:   logger,
		lookPath: exec.LookPath,
	}
}

// Get returns the cached availability if fresh, otherwise re-checks.
func (d *Doctor) Get() Availability {
	d.mu.RLock()
	if d.cached != nil && time.Since(d.cached.ProbedAt) < d.ttl {
		avail := *d.cached
		d.mu.RUnlock()
		return avail
	}
	d.mu.RUnlock()

	return d.Refresh()
}

// Refresh forces a new check regardless of cache freshness.
func (d *Doctor) Refresh() Availability {
	d.mu.Lock()
	defer d.mu.Unlock()

	avail := Availability{ProbedAt: time.Now()}
	path, err := d.lookPath("ffprobe")
	if err != nil {
		avail.Error = err.Error()
		d.logger.Warn("ffprobe not available", "error", err)
	} else {
		avail.Available = true
		avail.Path = path
	}

	d.cached = &avail
	return avail
}

// Invalidate clears the cached availability.
func (d *Doctor) Invalidate() {
	d.mu.Lock()
	d.cached = nil
	d.mu.Unlock()
}
