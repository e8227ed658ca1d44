package media

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cutform/cutform-engine/internal/probe"
)

// Runner drains pending probe jobs. One job at a time; a failed probe
// leaves the asset at duration 0, which the editor treats as unplaceable.
type Runner struct {
	registry     *Registry
	repo         Repository
	prober       probe.Prober
	logger       *slog.Logger
	pollInterval time.Duration
	probeTimeout time.Duration
	running      atomic.Bool
	paused       atomic.Bool
}

func NewRunner(registry *Registry, repo Repository, prober probe.Prober, probeTimeout time.Duration, logger *slog.Logger) *Runner {
	if probeTimeout <= 0 {
		probeTimeout = 30 * time.Second
	}
	return &Runner{
		registry:     registry,
		repo:         repo,
		prober:       prober,
		logger:       logger,
		pollInterval: time.Second,
		probeTimeout: probeTimeout,
	}
}

func (r *Runner) Start(ctx context.Context) {
	if r.running.Swap(true) {
		return
	}

	if r.logger != nil {
		r.logger.Info("probe runner started")
	}

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if r.logger != nil {
				r.logger.Info("probe runner stopping")
			}
			r.running.Store(false)
			return
		case <-ticker.C:
			if !r.paused.Load() {
				r.processNextJob(ctx)
			}
		}
	}
}

func (r *Runner) Pause() {
	r.paused.Store(true)
	if r.logger != nil {
		r.logger.Info("probe runner paused")
	}
}

func (r *Runner) Resume() {
	r.paused.Store(false)
	if r.logger != nil {
		r.logger.Info("probe runner resumed")
	}
}

func (r *Runner) IsPaused() bool  { return r.paused.Load() }
func (r *Runner) IsRunning() bool { return r.running.Load() }

func (r *Runner) processNextJob(ctx context.Context) {
	jobs, err := r.repo.ListPendingJobs(ctx)
	if err != nil {
		if r.logger != nil {
			r.logger.Error("failed to list pending jobs", "error", err)
		}
		return
	}
	if len(jobs) == 0 {
		return
	}

	job := jobs[0]
	if job.Type != JobTypeProbe {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, "unknown job type")
		return
	}
	r.ProcessProbeJob(ctx, job)
}

// ProcessProbeJob runs a single probe job to completion. Exported so tests
// can drive jobs without the polling loop.
func (r *Runner) ProcessProbeJob(ctx context.Context, job *Job) {
	asset, ok := r.registry.Get(job.AssetID)
	if !ok {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, "asset not found")
		return
	}

	r.repo.UpdateJobStatus(ctx, job.ID, JobStatusRunning, "")

	probeCtx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()

	result, err := r.prober.Probe(probeCtx, asset.SourceHandle)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("probe failed, asset stays unplaceable",
				"job_id", job.ID, "asset_id", asset.ID, "error", err)
		}
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, err.Error())
		return
	}

	if err := r.registry.Resolve(ctx, asset.ID, result.Duration); err != nil {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, err.Error())
		return
	}

	r.repo.UpdateJobStatus(ctx, job.ID, JobStatusCompleted, "")
}
