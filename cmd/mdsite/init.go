package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/mdsite/internal/errors"
)

const starterManifest = `site_name: My Documentation
# site_url: https://docs.example.com
# repo_url: https://github.com/example/project

theme:
  name: readthedocs
  highlightjs: true
  hljs_languages:
    - bash
    - python

markdown_extensions:
  - toc
  - tables
  - fenced_code

nav:
  - Home: index.md
  - Guide:
      - Getting Started: guide/getting-started.md
`

const starterIndex = `# My Documentation

Welcome. Edit the files under docs/ and mkdocs.yml, then run
` + "`mdsite build`" + ` or ` + "`mdsite watch`" + `.
`

const starterGuide = `# Getting Started

Describe your first steps here.
`

func runInit() error {
	if _, err := os.Stat(CLI.Config); err == nil && !CLI.Init.Force {
		return errors.New(errors.CategoryConfig, errors.SeverityFatal,
			fmt.Sprintf("manifest already exists: %s (use --force to overwrite)", CLI.Config))
	}

	docs := contentRoot()
	files := map[string]string{
		filepath.Join(docs, "index.md"):                    starterIndex,
		filepath.Join(docs, "guide", "getting-started.md"): starterGuide,
	}
	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.FileSystemError("create content skeleton", err)
		}
		if _, err := os.Stat(path); err == nil {
			slog.Debug("Keeping existing content file", "path", path)
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return errors.FileSystemError("write content skeleton", err)
		}
	}

	if err := os.WriteFile(CLI.Config, []byte(starterManifest), 0o644); err != nil {
		return errors.FileSystemError("write manifest", err)
	}
	slog.Info("Initialized site", "manifest", CLI.Config, "docs", docs)
	return nil
}
