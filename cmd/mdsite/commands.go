package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/mdsite/internal/build"
	"git.home.luguber.info/inful/mdsite/internal/errors"
	"git.home.luguber.info/inful/mdsite/internal/gitinfo"
	"git.home.luguber.info/inful/mdsite/internal/linkcheck"
	"git.home.luguber.info/inful/mdsite/internal/manifest"
	"git.home.luguber.info/inful/mdsite/internal/notify"
	"git.home.luguber.info/inful/mdsite/internal/search"
	"git.home.luguber.info/inful/mdsite/internal/server"
	"git.home.luguber.info/inful/mdsite/internal/theme"
	"git.home.luguber.info/inful/mdsite/internal/watch"
)

// SearchIndexFileName is where build places the index inside the output
// directory; serve picks it up from the same location.
const SearchIndexFileName = "search.db"

func runBuild() error {
	ctx, cancel := signalContext()
	defer cancel()

	themes := theme.Builtin()
	site, err := loadSite(themes)
	if err != nil {
		return err
	}

	opts := build.Options{
		ContentRoot: contentRoot(),
		OutputDir:   CLI.Build.Output,
		Clean:       CLI.Build.Clean,
		Themes:      themes,
	}

	git, err := gitinfo.Open(opts.ContentRoot)
	if err != nil {
		slog.Warn("Git metadata unavailable", "error", err)
	}
	opts.Git = git

	if CLI.Build.Search {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return errors.FileSystemError("create output directory", err)
		}
		idx, err := search.Open(filepath.Join(opts.OutputDir, SearchIndexFileName))
		if err != nil {
			return errors.Wrap(err, errors.CategorySearch, errors.SeverityFatal, "open search index")
		}
		defer idx.Close()
		opts.Search = idx
	}

	record, err := build.New(site, opts).Build(ctx)
	if err != nil {
		return err
	}
	slog.Info("Build complete", "id", record.ID, "pages", len(record.Pages), "output", opts.OutputDir)
	return nil
}

func runCheck() error {
	site, err := loadSite(theme.Builtin())
	if err != nil {
		return err
	}
	slog.Info("Manifest is valid",
		"site", site.Meta.Name,
		"theme", site.Theme.Name,
		"pages", len(manifest.Pages(site.Nav)))

	if CLI.Check.SiteDir == "" {
		return nil
	}
	problems, err := linkcheck.CheckDir(CLI.Check.SiteDir)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, errors.SeverityFatal, "link check failed")
	}
	if len(problems) > 0 {
		for _, p := range problems {
			slog.Error("Broken reference", "page", p.Page, "ref", p.Ref, "why", p.Why)
		}
		return errors.New(errors.CategoryValidation, errors.SeverityFatal,
			fmt.Sprintf("%d broken references in %s", len(problems), CLI.Check.SiteDir))
	}
	slog.Info("All rendered links resolve", "dir", CLI.Check.SiteDir)
	return nil
}

func runServe() error {
	ctx, cancel := signalContext()
	defer cancel()

	var idx *search.Index
	indexPath := filepath.Join(CLI.Serve.Dir, SearchIndexFileName)
	if _, err := os.Stat(indexPath); err == nil {
		idx, err = search.Open(indexPath)
		if err != nil {
			return errors.Wrap(err, errors.CategorySearch, errors.SeverityFatal, "open search index")
		}
		defer idx.Close()
	}

	srv := server.New(CLI.Serve.Addr, CLI.Serve.Dir, idx, nil)
	if err := srv.Start(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryServer, errors.SeverityFatal, "preview server failed")
	}
	return nil
}

func runWatch() error {
	ctx, cancel := signalContext()
	defer cancel()

	var publisher *notify.Publisher
	if CLI.Watch.NatsURL != "" {
		p, err := notify.Connect(CLI.Watch.NatsURL, CLI.Watch.NatsSubject)
		if err != nil {
			return errors.Wrap(err, errors.CategoryWatch, errors.SeverityFatal, "build notifications unavailable")
		}
		publisher = p
		defer publisher.Close()
	}

	themes := theme.Builtin()
	rebuild := func(ctx context.Context) error {
		site, err := loadSite(themes)
		if err != nil {
			return err
		}
		publisher.Publish(notify.Event{Site: site.Meta.Name, Status: "started"})

		opts := build.Options{
			ContentRoot: contentRoot(),
			OutputDir:   CLI.Watch.Output,
			Themes:      themes,
		}
		if git, gerr := gitinfo.Open(opts.ContentRoot); gerr == nil {
			opts.Git = git
		}
		if CLI.Watch.Search {
			if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
				return errors.FileSystemError("create output directory", err)
			}
			idx, ierr := search.Open(filepath.Join(opts.OutputDir, SearchIndexFileName))
			if ierr != nil {
				return errors.Wrap(ierr, errors.CategorySearch, errors.SeverityFatal, "open search index")
			}
			defer idx.Close()
			opts.Search = idx
		}

		start := time.Now()
		record, err := build.New(site, opts).Build(ctx)
		if err != nil {
			publisher.Publish(notify.Event{Site: site.Meta.Name, Status: "failure", Error: err.Error()})
			return err
		}
		publisher.Publish(notify.Event{
			Site:    site.Meta.Name,
			BuildID: record.ID,
			Status:  "success",
			Pages:   len(record.Pages),
		})
		slog.Info("Rebuild complete", "pages", len(record.Pages), "elapsed", time.Since(start))
		return nil
	}

	// Initial build failures are fatal; later ones are logged by the
	// watcher and retried on the next change.
	if err := rebuild(ctx); err != nil {
		return err
	}

	w, err := watch.New(CLI.Config, contentRoot(), rebuild)
	if err != nil {
		return errors.Wrap(err, errors.CategoryWatch, errors.SeverityFatal, "start watcher")
	}
	if CLI.Watch.Interval > 0 {
		w.WithInterval(CLI.Watch.Interval)
	}
	if err := w.Run(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryWatch, errors.SeverityFatal, "watcher failed")
	}
	return nil
}
