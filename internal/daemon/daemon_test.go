package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/build"
	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// fakeBuilder counts builds and the peak number running at once.
type fakeBuilder struct {
	calls   atomic.Int32
	running atomic.Int32
	peak    atomic.Int32
	delay   time.Duration
}

func (f *fakeBuilder) Generate(ctx context.Context, _ config.OutputConfig) (*build.Report, error) {
	f.calls.Add(1)
	n := f.running.Add(1)
	defer f.running.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &build.Report{BuildID: "fake"}, nil
}

type triggerRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	triggers []string
}

func (r *triggerRecorder) IncRebuildTrigger(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, source)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Content.Root = t.TempDir()
	cfg.Output.Directory = t.TempDir()
	return cfg
}

func TestRebuild_Serialized(t *testing.T) {
	b := &fakeBuilder{delay: 20 * time.Millisecond}
	rec := &triggerRecorder{}
	d := New(b, testConfig(t), WithRecorder(rec))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = d.Rebuild(context.Background(), TriggerWatch)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 4, b.calls.Load())
	assert.EqualValues(t, 1, b.peak.Load())
	assert.Len(t, rec.triggers, 4)

	st := d.Status()
	assert.Equal(t, 4, st.Builds)
	assert.Equal(t, TriggerWatch, st.LastTrigger)
	require.NotNil(t, st.LastReport)
	assert.NoError(t, st.LastError)
}

func TestRebuild_RealGeneratorTracksManifest(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Content.Root, "introduction.md"), []byte("# Intro\n"), 0o600))
	st, err := site.New(cfg)
	require.NoError(t, err)
	d := New(build.NewGenerator(st), cfg)

	first, err := d.Rebuild(context.Background(), TriggerStartup)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Written)
	require.NotNil(t, d.lastManifest)
	firstID := d.lastManifest.BuildID

	_, err = d.Rebuild(context.Background(), TriggerSchedule)
	require.NoError(t, err)
	assert.NotEqual(t, firstID, d.lastManifest.BuildID)
	assert.FileExists(t, filepath.Join(cfg.Output.Directory, "docs", "introduction", "index.html"))
}

func TestRun_RequiresATrigger(t *testing.T) {
	cfg := testConfig(t)
	cfg.Build.Schedule = 0
	cfg.Build.Watch = false
	err := New(&fakeBuilder{}, cfg).Run(context.Background())
	require.Error(t, err)
}

func TestRun_ScheduleAndWatch(t *testing.T) {
	cfg := testConfig(t)
	cfg.Build.Schedule = 50 * time.Millisecond
	cfg.Build.Watch = true
	cfg.Build.Debounce = 20 * time.Millisecond

	b := &fakeBuilder{}
	rec := &triggerRecorder{}
	d := New(b, cfg, WithRecorder(rec))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool { return d.Status().Running && b.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return hasTrigger(rec, TriggerSchedule) }, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(cfg.Content.Root, "new.md"), []byte("x"), 0o600)
		return hasTrigger(rec, TriggerWatch)
	}, 2*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop")
	}
	assert.False(t, d.Status().Running)
	assert.True(t, hasTrigger(rec, TriggerStartup))
}

func hasTrigger(r *triggerRecorder, trigger string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.triggers {
		if t == trigger {
			return true
		}
	}
	return false
}
