// Package watch triggers rebuilds while authoring: filesystem events on
// the manifest and content root (debounced), plus optional fixed-interval
// rebuilds for content that renders from external state such as git
// timestamps.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
)

// RebuildFunc runs one site build. Errors are logged, not fatal: the next
// save retries.
type RebuildFunc func(ctx context.Context) error

// Watcher wires filesystem events and scheduled triggers to a RebuildFunc.
type Watcher struct {
	manifestPath string
	contentRoot  string
	rebuild      RebuildFunc
	watcher      *fsnotify.Watcher
	debounce     time.Duration
	interval     time.Duration
	triggerCh    chan string
}

// New creates a watcher over the manifest file and content root.
func New(manifestPath, contentRoot string, rebuild RebuildFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	absManifest, err := filepath.Abs(manifestPath)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("resolve manifest path: %w", err)
	}
	return &Watcher{
		manifestPath: absManifest,
		contentRoot:  contentRoot,
		rebuild:      rebuild,
		watcher:      fsw,
		debounce:     500 * time.Millisecond,
		triggerCh:    make(chan string, 1),
	}, nil
}

// WithInterval adds a periodic rebuild every d in addition to event-driven
// rebuilds. Zero disables the schedule.
func (w *Watcher) WithInterval(d time.Duration) *Watcher {
	w.interval = d
	return w
}

// Run watches until ctx is cancelled. The initial build is the caller's
// responsibility; Run only reacts to changes.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	// Watch the manifest's directory, not the file: editors replace files
	// on save and direct file watches die with the old inode.
	if err := w.watcher.Add(filepath.Dir(w.manifestPath)); err != nil {
		return fmt.Errorf("watch manifest directory: %w", err)
	}
	if err := w.addContentDirs(); err != nil {
		return fmt.Errorf("watch content root: %w", err)
	}

	var sched gocron.Scheduler
	if w.interval > 0 {
		s, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		_, err = s.NewJob(
			gocron.DurationJob(w.interval),
			gocron.NewTask(func() { w.trigger("schedule") }),
			gocron.WithName("periodic-rebuild"),
		)
		if err != nil {
			return fmt.Errorf("schedule periodic rebuild: %w", err)
		}
		s.Start()
		sched = s
		slog.Info("Periodic rebuild scheduled", "interval", w.interval)
	}
	if sched != nil {
		defer func() {
			if err := sched.Shutdown(); err != nil {
				slog.Warn("Scheduler shutdown failed", "error", err)
			}
		}()
	}

	slog.Info("Watching for changes", "manifest", w.manifestPath, "content", w.contentRoot)

	var timer *time.Timer
	var timerCh <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			// A new content subdirectory must join the watch set.
			if event.Op.Has(fsnotify.Create) {
				_ = w.addContentDirs()
			}
			slog.Debug("Change detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watch error", "error", err)
		case <-timerCh:
			timer = nil
			timerCh = nil
			w.runBuild(ctx, "change")
		case reason := <-w.triggerCh:
			w.runBuild(ctx, reason)
		}
	}
}

func (w *Watcher) trigger(reason string) {
	select {
	case w.triggerCh <- reason:
	default: // a rebuild is already pending
	}
}

func (w *Watcher) runBuild(ctx context.Context, reason string) {
	slog.Info("Rebuilding", "reason", reason)
	if err := w.rebuild(ctx); err != nil {
		slog.Error("Rebuild failed", "error", err)
	}
}

// relevant filters events down to the manifest file and content root
// markdown/asset changes, ignoring chmod noise.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if event.Name == w.manifestPath {
		return true
	}
	rel, err := filepath.Rel(w.contentRoot, event.Name)
	return err == nil && !filepath.IsAbs(rel) && rel != ".." && !isParentRef(rel)
}

func isParentRef(rel string) bool {
	return rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)
}

func (w *Watcher) addContentDirs() error {
	return filepath.WalkDir(w.contentRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.watcher.Add(p); err != nil {
				return err
			}
		}
		return nil
	})
}
