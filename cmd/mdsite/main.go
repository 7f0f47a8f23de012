package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdsite/internal/errors"
	"git.home.luguber.info/inful/mdsite/internal/manifest"
	"git.home.luguber.info/inful/mdsite/internal/theme"
)

var CLI struct {
	Config  string `short:"c" help:"Site manifest path" default:"mkdocs.yml"`
	DocsDir string `short:"d" help:"Content root (default: docs/ beside the manifest)"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`
	LogJSON bool   `help:"Emit logs as JSON"`

	Build struct {
		Output string `short:"o" help:"Output directory for the rendered site" default:"./site"`
		Clean  bool   `help:"Remove the output directory before rendering"`
		Search bool   `help:"Build a full-text search index alongside the site"`
	} `cmd:"" help:"Render the documentation site"`

	Check struct {
		SiteDir string `help:"Also verify links in an already rendered site directory"`
	} `cmd:"" help:"Validate the manifest and report every configuration error"`

	Serve struct {
		Addr string `help:"Listen address" default:"127.0.0.1:8000"`
		Dir  string `help:"Rendered site directory" default:"./site"`
	} `cmd:"" help:"Serve a rendered site with search and metrics endpoints"`

	Watch struct {
		Output      string        `short:"o" help:"Output directory for the rendered site" default:"./site"`
		Search      bool          `help:"Rebuild the search index on each change"`
		Interval    time.Duration `help:"Also rebuild on a fixed interval (0 disables)"`
		NatsURL     string        `help:"Publish build events to this NATS server"`
		NatsSubject string        `help:"Subject prefix for build events" default:"mdsite.builds"`
	} `cmd:"" help:"Build once, then rebuild on manifest or content changes"`

	Init struct {
		Force bool `help:"Overwrite an existing manifest"`
	} `cmd:"" help:"Write a starter manifest and content skeleton"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	var handler slog.Handler
	if CLI.LogJSON {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	}
	slog.SetDefault(slog.New(handler))

	adapter := errors.NewCLIErrorAdapter(CLI.Verbose, nil)

	switch ctx.Command() {
	case "build":
		adapter.HandleError(runBuild())
	case "check":
		adapter.HandleError(runCheck())
	case "serve":
		adapter.HandleError(runServe())
	case "watch":
		adapter.HandleError(runWatch())
	case "init":
		adapter.HandleError(runInit())
	}
}

// contentRoot mirrors manifest.Load's default so every component sees the
// same directory.
func contentRoot() string {
	if CLI.DocsDir != "" {
		return CLI.DocsDir
	}
	return filepath.Join(filepath.Dir(CLI.Config), "docs")
}

// loadSite resolves the manifest against the builtin theme registry.
func loadSite(themes *theme.Registry) (*manifest.ResolvedSite, error) {
	site, err := manifest.Load(CLI.Config, manifest.Options{
		ContentRoot: contentRoot(),
		Themes:      themes,
	})
	if err != nil {
		return nil, errors.ConfigError("manifest resolution failed", err)
	}
	return site, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
