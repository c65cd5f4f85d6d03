package daemon

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

const defaultDebounce = 500 * time.Millisecond

// ContentWatcher monitors the content tree and fires onChange once per burst
// of file system events.
type ContentWatcher struct {
	root     string
	debounce time.Duration
	onChange func()
	watcher  *fsnotify.Watcher

	mu       sync.Mutex
	timer    *time.Timer
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// NewContentWatcher creates a watcher for root. Hidden files and directories
// are ignored.
func NewContentWatcher(root string, debounce time.Duration, onChange func()) (*ContentWatcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve content root: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &ContentWatcher{
		root:     absRoot,
		debounce: debounce,
		onChange: onChange,
		watcher:  w,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start registers every directory below root and begins watching.
func (cw *ContentWatcher) Start(ctx context.Context) error {
	if err := cw.addTree(cw.root); err != nil {
		_ = cw.watcher.Close()
		return fmt.Errorf("failed to watch content root %s: %w", cw.root, err)
	}
	slog.Info("Starting content watcher", logfields.Root(cw.root), slog.Duration("debounce", cw.debounce))
	go cw.watchLoop(ctx)
	return nil
}

// Stop ends watching and cancels any pending trigger.
func (cw *ContentWatcher) Stop() error {
	var err error
	cw.stopOnce.Do(func() {
		close(cw.stopChan)
		err = cw.watcher.Close()
		<-cw.done
		cw.mu.Lock()
		if cw.timer != nil {
			cw.timer.Stop()
		}
		cw.mu.Unlock()
	})
	return err
}

// fsnotify does not recurse, so each directory is added on its own.
func (cw *ContentWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && hidden(d.Name()) {
			return filepath.SkipDir
		}
		return cw.watcher.Add(path)
	})
}

func (cw *ContentWatcher) watchLoop(ctx context.Context) {
	defer close(cw.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handle(event)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Content watcher error", logfields.Error(err))
		}
	}
}

func (cw *ContentWatcher) handle(event fsnotify.Event) {
	if hidden(filepath.Base(event.Name)) || event.Op == fsnotify.Chmod {
		return
	}
	if event.Op.Has(fsnotify.Create) {
		// New directories need their own watch.
		if err := cw.addTree(event.Name); err != nil {
			slog.Debug("Content watcher could not add path", logfields.Path(event.Name), logfields.Error(err))
		}
	}
	slog.Debug("Content change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
	cw.schedule()
}

func (cw *ContentWatcher) schedule() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(cw.debounce, cw.onChange)
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
