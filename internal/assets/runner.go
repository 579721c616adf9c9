package assets

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/reelsmith/reelsmith-agent/internal/probe"
)

const (
	defaultRefreshInterval = 5 * time.Minute
	probeBatchSize         = 10
)

// availabilityChecker is the slice of probe.Doctor the runner reads.
type availabilityChecker interface {
	Get() probe.Availability
}

// Runner keeps the bin fresh in the background: it re-lists sources on an
// interval and probes pending assets for duration metadata between scans.
type Runner struct {
	service         *Service
	repo            Repository
	prober          probe.Prober
	doctor          availabilityChecker
	logger          *slog.Logger
	refreshInterval time.Duration
	probeInterval   time.Duration
	running         atomic.Bool
	paused          atomic.Bool
}

func NewRunner(service *Service, repo Repository, prober probe.Prober, doctor availabilityChecker, refreshInterval time.Duration, logger *slog.Logger) *Runner {
	if refreshInterval <= 0 {
		refreshInterval = defaultRefreshInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		service:         service,
		repo:            repo,
		prober:          prober,
		doctor:          doctor,
		logger:          logger,
		refreshInterval: refreshInterval,
		probeInterval:   5 * time.Second,
	}
}

// Start blocks until ctx is cancelled. The first refresh happens
// immediately so the bin is populated before the UI comes up.
func (r *Runner) Start(ctx context.Context) {
	if r.running.Swap(true) {
		return
	}
	defer r.running.Store(false)

	r.logger.Info("bin runner started", "refresh_interval", r.refreshInterval)

	if err := r.service.Refresh(ctx); err != nil {
		r.logger.Error("initial refresh failed", "error", err)
	}

	refresh := time.NewTicker(r.refreshInterval)
	defer refresh.Stop()
	probeTick := time.NewTicker(r.probeInterval)
	defer probeTick.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("bin runner stopping")
			return
		case <-refresh.C:
			if !r.paused.Load() {
				if err := r.service.Refresh(ctx); err != nil {
					r.logger.Error("refresh failed", "error", err)
				}
			}
		case <-probeTick.C:
			if !r.paused.Load() {
				r.probePending(ctx)
			}
		}
	}
}

func (r *Runner) Pause() {
	r.paused.Store(true)
	r.logger.Info("bin runner paused")
}

func (r *Runner) Resume() {
	r.paused.Store(false)
	r.logger.Info("bin runner resumed")
}

func (r *Runner) IsPaused() bool {
	return r.paused.Load()
}

func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

// probePending picks up a batch of unprobed assets. Remote assets and
// probe-less installs are marked skipped rather than retried forever.
func (r *Runner) probePending(ctx context.Context) {
	pending, err := r.repo.ListAssetsByProbeStatus(ctx, ProbePending, probeBatchSize)
	if err != nil {
		r.logger.Error("failed to list pending probes", "error", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	if r.prober == nil || r.doctor == nil || !r.doctor.Get().Available {
		for _, a := range pending {
			r.repo.UpdateAssetProbe(ctx, a.ID, ProbeSkipped, nil)
		}
		return
	}

	for _, a := range pending {
		if ctx.Err() != nil {
			return
		}
		r.probeOne(ctx, a)
	}
}

func (r *Runner) probeOne(ctx context.Context, a *Asset) {
	path, err := r.service.LocalPath(ctx, a.ID)
	if err != nil {
		// Remote media is probed over its URL when one exists.
		if err == ErrNotLocal && a.URL != "" {
			path = a.URL
		} else {
			r.repo.UpdateAssetProbe(ctx, a.ID, ProbeSkipped, nil)
			return
		}
	}

	if err := r.repo.UpdateAssetProbe(ctx, a.ID, ProbeProbing, nil); err != nil {
		r.logger.Error("failed to mark asset probing", "asset_id", a.ID, "error", err)
		return
	}

	info, err := r.prober.Probe(ctx, path)
	if err != nil {
		r.logger.Warn("probe failed", "asset_id", a.ID, "key", a.Key, "error", err)
		r.repo.UpdateAssetProbe(ctx, a.ID, ProbeFailed, nil)
		return
	}

	var duration *float64
	if info.DurationSec > 0 {
		d := info.DurationSec
		duration = &d
	}
	if err := r.repo.UpdateAssetProbe(ctx, a.ID, ProbeComplete, duration); err != nil {
		r.logger.Error("failed to store probe result", "asset_id", a.ID, "error", err)
	}
}
