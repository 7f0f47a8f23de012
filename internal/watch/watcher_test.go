package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, manifestPath, contentRoot string, built chan<- string) (context.CancelFunc, <-chan error) {
	t.Helper()
	w, err := New(manifestPath, contentRoot, func(ctx context.Context) error {
		select {
		case built <- "build":
		default:
		}
		return nil
	})
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	// Give the watch set time to establish before mutating files.
	time.Sleep(100 * time.Millisecond)
	return cancel, done
}

func setup(t *testing.T) (manifestPath, contentRoot string) {
	t.Helper()
	dir := t.TempDir()
	manifestPath = filepath.Join(dir, "mkdocs.yml")
	contentRoot = filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(contentRoot, 0o755))
	require.NoError(t, os.WriteFile(manifestPath, []byte("site_name: D\nnav:\n  - index.md\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(contentRoot, "index.md"), []byte("# Home\n"), 0o644))
	return manifestPath, contentRoot
}

func waitForBuild(t *testing.T, built <-chan string) {
	t.Helper()
	select {
	case <-built:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a rebuild")
	}
}

func TestRebuildOnContentChange(t *testing.T) {
	manifestPath, contentRoot := setup(t)
	built := make(chan string, 1)
	cancel, done := startWatcher(t, manifestPath, contentRoot, built)
	defer func() { cancel(); <-done }()

	require.NoError(t, os.WriteFile(filepath.Join(contentRoot, "index.md"), []byte("# Home edited\n"), 0o644))
	waitForBuild(t, built)
}

func TestRebuildOnManifestChange(t *testing.T) {
	manifestPath, contentRoot := setup(t)
	built := make(chan string, 1)
	cancel, done := startWatcher(t, manifestPath, contentRoot, built)
	defer func() { cancel(); <-done }()

	require.NoError(t, os.WriteFile(manifestPath, []byte("site_name: E\nnav:\n  - index.md\n"), 0o644))
	waitForBuild(t, built)
}

func TestRebuildDebounced(t *testing.T) {
	manifestPath, contentRoot := setup(t)
	built := make(chan string, 8)
	cancel, done := startWatcher(t, manifestPath, contentRoot, built)
	defer func() { cancel(); <-done }()

	target := filepath.Join(contentRoot, "index.md")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(target, []byte("# edit\n"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}
	waitForBuild(t, built)

	// The burst collapses into one build; allow the debounce window to
	// drain and verify no pile-up.
	time.Sleep(300 * time.Millisecond)
	require.LessOrEqual(t, len(built), 1)
}

func TestPeriodicRebuild(t *testing.T) {
	manifestPath, contentRoot := setup(t)
	built := make(chan string, 1)

	w, err := New(manifestPath, contentRoot, func(ctx context.Context) error {
		select {
		case built <- "build":
		default:
		}
		return nil
	})
	require.NoError(t, err)
	w.WithInterval(100 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() { cancel(); <-done }()

	waitForBuild(t, built)
}
