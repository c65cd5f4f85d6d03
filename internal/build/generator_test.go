package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/render"
	"git.home.luguber.info/inful/docsite/internal/site"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// failingRenderer fails for one slug and delegates the rest.
type failingRenderer struct {
	render.Renderer
	slug string
}

func (f failingRenderer) Render(ctx context.Context, in render.Input) (render.Page, error) {
	if in.Meta.Slug == f.slug {
		return render.Page{}, errors.New("boom")
	}
	return f.Renderer.Render(ctx, in)
}

type countingRecorder struct {
	metrics.NoopRecorder
	outcomes []metrics.BuildOutcomeLabel
}

func (c *countingRecorder) IncBuildOutcome(o metrics.BuildOutcomeLabel) { c.outcomes = append(c.outcomes, o) }

func newSite(t *testing.T, files map[string]string, opts ...site.Option) *site.Site {
	t.Helper()
	cfg, err := config.Parse([]byte("site:\n  name: OpenMemory\n  base_url: https://openmemory.cavira.app\n"))
	require.NoError(t, err)
	opts = append([]site.Option{
		site.WithDirectory(content.NewMemoryDirectory(files)),
		site.WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	s, err := site.New(cfg, opts...)
	require.NoError(t, err)
	return s
}

func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	require.NoError(t, filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		require.NoError(t, err)
		if !d.IsDir() {
			rel, _ := filepath.Rel(root, p)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	}))
	sort.Strings(files)
	return files
}

func TestGenerate_WritesEnumeratedRoutesOnly(t *testing.T) {
	out := filepath.Join(t.TempDir(), "public")
	s := newSite(t, map[string]string{
		"introduction.md": "---\ntitle: Intro\n---\n# Hello\n",
		"sdks/python.md":  "## Install\n",
		"api/index.md":    "API",
		"Bad_Name.md":     "not servable",
	})
	rec := &countingRecorder{}
	g := NewGenerator(s, WithWorkers(2), WithRecorder(rec), WithBuildIDs(func() string { return "build-1" }))

	report, err := g.Generate(context.Background(), config.OutputConfig{Directory: out, Clean: true})
	require.NoError(t, err)

	assert.Equal(t, "build-1", report.BuildID)
	assert.Equal(t, []string{"/", "/docs/api", "/docs/introduction", "/docs/sdks/python"}, report.Routes)
	assert.Equal(t, 4, report.Written)
	assert.Empty(t, report.Diagnostics)
	assert.Equal(t, metrics.BuildOutcomeSuccess, report.Outcome)
	assert.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeSuccess}, rec.outcomes)

	assert.Equal(t, []string{
		"404.html",
		"build-manifest.json",
		"docs/api/index.html",
		"docs/introduction/index.html",
		"docs/sdks/python/index.html",
		"index.html",
		"robots.txt",
		"sitemap.xml",
	}, listFiles(t, out))

	sm, err := os.ReadFile(filepath.Join(out, "sitemap.xml"))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(sm), "<url>"))

	m, err := ReadManifest(out)
	require.NoError(t, err)
	assert.Equal(t, "build-1", m.BuildID)
	require.Len(t, m.Pages, 4)
	assert.Equal(t, "/", m.Pages[0].Route)
	assert.Equal(t, "docs/introduction/index.html", m.Pages[2].Output)
	assert.Equal(t, "introduction.md", m.Pages[2].Source)
	assert.NotEmpty(t, m.Pages[2].Fingerprint)
	assert.Len(t, m.Pages[2].Checksum, 64)
}

func TestGenerate_PageFailureIsDiagnostic(t *testing.T) {
	out := t.TempDir()
	s := newSite(t, map[string]string{
		"good.md":   "fine",
		"broken.md": "fails",
	}, site.WithRenderer(failingRenderer{Renderer: render.NewMarkdown(), slug: "broken"}))

	report, err := NewGenerator(s).Generate(context.Background(), config.OutputConfig{Directory: out})
	require.NoError(t, err)

	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, "/docs/broken", report.Diagnostics[0].Route)
	assert.Equal(t, metrics.BuildOutcomeWarning, report.Outcome)
	assert.FileExists(t, filepath.Join(out, "docs", "good", "index.html"))
	assert.NoFileExists(t, filepath.Join(out, "docs", "broken", "index.html"))

	sm, err := os.ReadFile(filepath.Join(out, "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(sm), "/docs/broken", "sitemap lists every enumerated route")

	m, err := ReadManifest(out)
	require.NoError(t, err)
	require.Len(t, m.Skipped, 1)
	assert.Equal(t, "/docs/broken", m.Skipped[0].Route)
}

func TestGenerate_CleanRemovesStaleOutput(t *testing.T) {
	out := t.TempDir()
	stale := filepath.Join(out, "docs", "old", "index.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o750))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o600))

	_, err := NewGenerator(newSite(t, nil)).Generate(context.Background(), config.OutputConfig{Directory: out, Clean: true})
	require.NoError(t, err)
	assert.NoFileExists(t, stale)

	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o750))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o600))
	_, err = NewGenerator(newSite(t, nil)).Generate(context.Background(), config.OutputConfig{Directory: out, Clean: false})
	require.NoError(t, err)
	assert.FileExists(t, stale)
}

func TestGenerate_RefusesToCleanCurrentDirectory(t *testing.T) {
	_, err := NewGenerator(newSite(t, nil)).Generate(context.Background(), config.OutputConfig{Directory: ".", Clean: true})
	require.Error(t, err)
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewGenerator(newSite(t, map[string]string{"a.md": ""})).
		Generate(ctx, config.OutputConfig{Directory: t.TempDir()})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, metrics.BuildOutcomeCanceled, report.Outcome)
}

func TestGenerate_ManifestUnchangedAcrossRebuilds(t *testing.T) {
	files := map[string]string{"a.md": "---\ntitle: A\n---\nbody"}
	out1, out2 := t.TempDir(), t.TempDir()

	_, err := NewGenerator(newSite(t, files)).Generate(context.Background(), config.OutputConfig{Directory: out1})
	require.NoError(t, err)
	_, err = NewGenerator(newSite(t, files)).Generate(context.Background(), config.OutputConfig{Directory: out2})
	require.NoError(t, err)

	m1, err := ReadManifest(out1)
	require.NoError(t, err)
	m2, err := ReadManifest(out2)
	require.NoError(t, err)
	assert.NotEqual(t, m1.BuildID, m2.BuildID)
	assert.True(t, Unchanged(m1, m2))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "index.html", OutputPath("/"))
	assert.Equal(t, filepath.Join("docs", "sdks", "python", "index.html"), OutputPath("/docs/sdks/python"))
}
