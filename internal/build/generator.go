package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/observability"
	"git.home.luguber.info/inful/docsite/internal/site"
)

const (
	StageEnumerate = "enumerate"
	StageRender    = "render"
	StageSitemap   = "sitemap"
	StageManifest  = "manifest"

	sitemapFile  = "sitemap.xml"
	robotsFile   = "robots.txt"
	notFoundFile = "404.html"
	indexFile    = "index.html"
)

// Diagnostic records a page that could not be generated. Diagnostics never
// abort a build.
type Diagnostic struct {
	Route string
	Stage string
	Err   error
}

// Report summarizes a build.
type Report struct {
	BuildID     string
	GeneratedAt time.Time
	Duration    time.Duration
	Routes      []string
	Written     int
	Diagnostics []Diagnostic
	Outcome     metrics.BuildOutcomeLabel
}

// Summary is a one-line description for logs and CLI output.
func (r *Report) Summary() string {
	return fmt.Sprintf("build %s: %d/%d pages written, %d diagnostics, %s in %s",
		r.BuildID, r.Written, len(r.Routes), len(r.Diagnostics), r.Outcome, r.Duration.Round(time.Millisecond))
}

// Generator renders every enumerated route to disk.
type Generator struct {
	site     *site.Site
	workers  int
	recorder metrics.Recorder
	newID    func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithWorkers bounds concurrent page renders. Values <= 0 use runtime.NumCPU().
func WithWorkers(n int) Option { return func(g *Generator) { g.workers = n } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithBuildIDs overrides build id generation.
func WithBuildIDs(fn func() string) Option { return func(g *Generator) { g.newID = fn } }

func NewGenerator(s *site.Site, opts ...Option) *Generator {
	g := &Generator{
		site:     s,
		recorder: metrics.NoopRecorder{},
		newID:    func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

type pageOutcome struct {
	entry ManifestPage
	diag  *Diagnostic
}

// Generate writes the site into out.Directory. Only enumerated routes are
// written. Page failures become diagnostics; output failures and
// cancellation abort the build.
func (g *Generator) Generate(ctx context.Context, out config.OutputConfig) (*Report, error) {
	start := time.Now()
	report := &Report{BuildID: g.newID(), GeneratedAt: g.site.Now().UTC()}
	ctx = observability.WithBuildID(ctx, report.BuildID)
	observability.InfoContext(ctx, "Build started", logfields.Path(out.Directory))

	err := g.generate(ctx, out, report)
	report.Duration = time.Since(start)
	report.Outcome = outcomeFor(err, report)
	g.recorder.ObserveBuildDuration(report.Duration)
	g.recorder.IncBuildOutcome(report.Outcome)

	if err != nil {
		observability.ErrorContext(ctx, "Build failed", logfields.Error(err), logfields.Duration(report.Duration))
		return report, err
	}
	observability.InfoContext(ctx, "Build finished",
		logfields.Count(report.Written),
		logfields.Duration(report.Duration),
		slog.Int("diagnostics", len(report.Diagnostics)))
	return report, nil
}

func (g *Generator) generate(ctx context.Context, out config.OutputConfig, report *Report) error {
	if err := prepareOutput(out); err != nil {
		return err
	}

	err := g.stage(ctx, StageEnumerate, func(ctx context.Context) error {
		report.Routes = g.site.Routes(ctx)
		g.recorder.SetPagesTotal(len(report.Routes))
		return ctx.Err()
	})
	if err != nil {
		return err
	}

	var entries []ManifestPage
	err = g.stage(ctx, StageRender, func(ctx context.Context) error {
		var mu sync.Mutex
		collect := func(o pageOutcome) {
			mu.Lock()
			defer mu.Unlock()
			if o.diag != nil {
				report.Diagnostics = append(report.Diagnostics, *o.diag)
				return
			}
			entries = append(entries, o.entry)
			report.Written++
		}
		return g.renderConcurrently(ctx, out.Directory, report.Routes, collect)
	})
	if err != nil {
		return err
	}
	sort.Slice(report.Diagnostics, func(i, j int) bool { return report.Diagnostics[i].Route < report.Diagnostics[j].Route })

	err = g.stage(ctx, StageSitemap, func(context.Context) error {
		xml, err := g.site.Sitemap(report.Routes, report.GeneratedAt)
		if err != nil {
			return err
		}
		if err := writeFile(filepath.Join(out.Directory, sitemapFile), xml); err != nil {
			return err
		}
		if err := writeFile(filepath.Join(out.Directory, robotsFile), g.site.Robots()); err != nil {
			return err
		}
		return writeFile(filepath.Join(out.Directory, notFoundFile), g.site.NotFound("/404"))
	})
	if err != nil {
		return err
	}

	return g.stage(ctx, StageManifest, func(context.Context) error {
		m := newManifest(report.BuildID, report.GeneratedAt, entries, report.Diagnostics)
		return m.write(out.Directory)
	})
}

func (g *Generator) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx = observability.WithStage(ctx, name)
	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)
	g.recorder.ObserveStageDuration(name, d)

	result := metrics.ResultSuccess
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		result = metrics.ResultCanceled
	case err != nil:
		result = metrics.ResultFatal
	}
	g.recorder.IncStageResult(name, result)
	observability.DebugContext(ctx, "Stage finished", logfields.Duration(d))
	if err != nil && result == metrics.ResultFatal && !derrors.IsCategory(err, derrors.CategoryFileSystem) {
		return derrors.BuildFailed(name, err)
	}
	return err
}

func (g *Generator) effectiveWorkerCount(routes int) int {
	workers := g.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if routes > 0 && workers > routes {
		return routes
	}
	return workers
}

func (g *Generator) renderConcurrently(ctx context.Context, outDir string, routes []string, collect func(pageOutcome)) error {
	if len(routes) == 0 {
		return nil
	}
	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < g.effectiveWorkerCount(len(routes)); i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for route := range jobs {
				collect(g.renderPage(ctx, outDir, route, worker))
			}
		}(i)
	}

	for _, route := range routes {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- route:
		}
	}
	close(jobs)
	wg.Wait()
	return ctx.Err()
}

func (g *Generator) renderPage(ctx context.Context, outDir, route string, worker int) pageOutcome {
	ctx = observability.WithPage(ctx, route)
	page, err := g.site.Render(ctx, route)
	if err != nil {
		observability.WarnContext(ctx, "Page skipped", logfields.Worker(worker), logfields.Error(err))
		g.recorder.IncPageResult(metrics.ResultWarning)
		return pageOutcome{diag: &Diagnostic{Route: route, Stage: StageRender, Err: err}}
	}

	rel := OutputPath(route)
	if err := writeFile(filepath.Join(outDir, rel), page.HTML); err != nil {
		observability.WarnContext(ctx, "Page write failed", logfields.Worker(worker), logfields.Error(err))
		g.recorder.IncPageResult(metrics.ResultFatal)
		return pageOutcome{diag: &Diagnostic{Route: route, Stage: StageRender, Err: err}}
	}
	g.recorder.IncPageResult(metrics.ResultSuccess)
	observability.DebugContext(ctx, "Page written", logfields.Worker(worker), logfields.File(rel))
	return pageOutcome{entry: manifestEntry(page, rel)}
}

// OutputPath maps a route to its file below the output directory.
func OutputPath(route string) string {
	if route == "/" || route == "" {
		return indexFile
	}
	return filepath.Join(filepath.FromSlash(route[1:]), indexFile)
}

func outcomeFor(err error, r *Report) metrics.BuildOutcomeLabel {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.BuildOutcomeCanceled
	case err != nil:
		return metrics.BuildOutcomeFailed
	case len(r.Diagnostics) > 0:
		return metrics.BuildOutcomeWarning
	default:
		return metrics.BuildOutcomeSuccess
	}
}

func prepareOutput(out config.OutputConfig) error {
	dir := filepath.Clean(out.Directory)
	if out.Clean {
		if isUnsafeCleanTarget(dir) {
			return derrors.ValidationFailed("output.directory", "refusing to clean "+dir)
		}
		if err := os.RemoveAll(dir); err != nil {
			return derrors.OutputError("clean", err).WithContext("path", dir)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 -- published site tree
		return derrors.OutputError("mkdir", err).WithContext("path", dir)
	}
	return nil
}

func isUnsafeCleanTarget(dir string) bool {
	if dir == "." || dir == string(filepath.Separator) || dir == "" {
		return true
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return true
	}
	if home, err := os.UserHomeDir(); err == nil && abs == filepath.Clean(home) {
		return true
	}
	return filepath.Dir(abs) == abs
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301 -- published site tree
		return derrors.OutputError("mkdir", err).WithContext("path", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 -- published site tree
		return derrors.OutputError("write", err).WithContext("path", path)
	}
	return nil
}
