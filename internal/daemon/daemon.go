// Package daemon keeps the generated site current by rebuilding on a schedule
// and on content changes.
package daemon

import (
	"context"
	"errors"
	"sync"
	"time"

	"git.home.luguber.info/inful/docsite/internal/build"
	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/observability"
)

// Rebuild trigger sources.
const (
	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
	TriggerWatch    = "watch"
)

// Builder generates the site. *build.Generator satisfies it.
type Builder interface {
	Generate(ctx context.Context, out config.OutputConfig) (*build.Report, error)
}

// Status is a snapshot of daemon activity.
type Status struct {
	Running     bool
	StartedAt   time.Time
	Builds      int
	LastTrigger string
	LastReport  *build.Report
	LastError   error
}

// Daemon serializes rebuilds coming from the scheduler and the content watcher.
type Daemon struct {
	builder     Builder
	build       config.BuildConfig
	out         config.OutputConfig
	contentRoot string
	recorder    metrics.Recorder

	// rebuildMu guarantees at most one Generate at a time.
	rebuildMu    sync.Mutex
	lastManifest *build.Manifest

	statusMu sync.RWMutex
	status   Status
}

// Option configures a Daemon.
type Option func(*Daemon)

// WithRecorder records rebuild triggers.
func WithRecorder(r metrics.Recorder) Option {
	return func(d *Daemon) {
		if r != nil {
			d.recorder = r
		}
	}
}

// New creates a Daemon. contentRoot is watched when cfg.Build.Watch is set.
func New(b Builder, cfg *config.Config, opts ...Option) *Daemon {
	d := &Daemon{
		builder:     b,
		build:       cfg.Build,
		out:         cfg.Output,
		contentRoot: cfg.Content.Root,
		recorder:    metrics.NoopRecorder{},
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Run performs an initial build, then rebuilds on the configured triggers
// until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if d.build.Schedule <= 0 && !d.build.Watch {
		return derrors.ValidationFailed("build", "daemon needs build.schedule or build.watch")
	}

	d.setStatus(func(s *Status) {
		s.Running = true
		s.StartedAt = time.Now()
	})
	defer d.setStatus(func(s *Status) { s.Running = false })

	if _, err := d.Rebuild(ctx, TriggerStartup); err != nil && !isCanceled(err) {
		observability.WarnContext(ctx, "Initial build failed", logfields.Error(err))
	}

	var sched *Scheduler
	if d.build.Schedule > 0 {
		s, err := NewScheduler()
		if err != nil {
			return err
		}
		if err := s.SchedulePeriodic(d.build.Schedule, TriggerSchedule, func() { d.rebuildLogged(ctx, TriggerSchedule) }); err != nil {
			return err
		}
		s.Start(ctx)
		sched = s
	}

	var watcher *ContentWatcher
	if d.build.Watch {
		w, err := NewContentWatcher(d.contentRoot, d.build.Debounce, func() { d.rebuildLogged(ctx, TriggerWatch) })
		if err != nil {
			d.stopScheduler(sched)
			return err
		}
		if err := w.Start(ctx); err != nil {
			d.stopScheduler(sched)
			return err
		}
		watcher = w
	}

	<-ctx.Done()

	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			observability.WarnContext(ctx, "Content watcher stop failed", logfields.Error(err))
		}
	}
	d.stopScheduler(sched)
	return nil
}

func (d *Daemon) stopScheduler(s *Scheduler) {
	if s == nil {
		return
	}
	if err := s.Stop(); err != nil {
		observability.WarnContext(context.Background(), "Scheduler stop failed", logfields.Error(err))
	}
}

func (d *Daemon) rebuildLogged(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	if _, err := d.Rebuild(ctx, trigger); err != nil && !isCanceled(err) {
		observability.ErrorContext(ctx, "Rebuild failed", logfields.Trigger(trigger), logfields.Error(err))
	}
}

// Rebuild runs one build. Concurrent calls wait their turn.
func (d *Daemon) Rebuild(ctx context.Context, trigger string) (*build.Report, error) {
	d.rebuildMu.Lock()
	defer d.rebuildMu.Unlock()

	d.recorder.IncRebuildTrigger(trigger)
	observability.InfoContext(ctx, "Rebuild triggered", logfields.Trigger(trigger))

	report, err := d.builder.Generate(ctx, d.out)
	d.setStatus(func(s *Status) {
		s.Builds++
		s.LastTrigger = trigger
		s.LastReport = report
		s.LastError = err
	})
	if err != nil {
		return report, err
	}

	m, merr := build.ReadManifest(d.out.Directory)
	if merr != nil {
		observability.WarnContext(ctx, "Build manifest unreadable", logfields.Error(merr))
		return report, nil
	}
	if d.lastManifest != nil && build.Unchanged(d.lastManifest, m) {
		observability.InfoContext(ctx, "Rebuild produced no content changes", logfields.Trigger(trigger))
	}
	d.lastManifest = m
	return report, nil
}

// Status returns a copy of the current status.
func (d *Daemon) Status() Status {
	d.statusMu.RLock()
	defer d.statusMu.RUnlock()
	return d.status
}

func (d *Daemon) setStatus(fn func(*Status)) {
	d.statusMu.Lock()
	defer d.statusMu.Unlock()
	fn(&d.status)
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
