// Package build renders a resolved site to a static output directory: one
// HTML page per nav leaf, a sitemap, an optional search index, and a build
// record describing inputs and outputs.
package build

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/mdsite/internal/errors"
	"git.home.luguber.info/inful/mdsite/internal/gitinfo"
	"git.home.luguber.info/inful/mdsite/internal/manifest"
	"git.home.luguber.info/inful/mdsite/internal/markdown"
	"git.home.luguber.info/inful/mdsite/internal/search"
	"git.home.luguber.info/inful/mdsite/internal/theme"
)

// Options configures one build invocation.
type Options struct {
	ContentRoot string
	OutputDir   string
	// Clean removes the output directory before rendering.
	Clean  bool
	Themes *theme.Registry
	// Git supplies last-modified timestamps and edit links; nil disables both.
	Git *gitinfo.Info
	// Search receives one document per rendered page; nil disables indexing.
	Search *search.Index
}

// Builder renders one ResolvedSite. A build either completes or fails
// atomically from the caller's perspective; no partially rendered site is
// reported as success.
type Builder struct {
	site *manifest.ResolvedSite
	opts Options
}

// New creates a builder for site.
func New(site *manifest.ResolvedSite, opts Options) *Builder {
	return &Builder{site: site, opts: opts}
}

// Build renders every nav leaf and returns the build record.
func (b *Builder) Build(ctx context.Context) (*Record, error) {
	start := time.Now()

	th, ok := b.opts.Themes.Get(b.site.Theme.Name)
	if !ok {
		// Load validates against the same registry; reaching this means the
		// caller resolved and built against different registries.
		return nil, errors.ConfigError(fmt.Sprintf("theme %q is not registered", b.site.Theme.Name), nil)
	}

	engine, err := markdown.NewEngine(b.site.Extensions)
	if err != nil {
		return nil, errors.ConfigError("invalid markdown extension configuration", err)
	}

	if b.opts.Clean {
		if err := os.RemoveAll(b.opts.OutputDir); err != nil {
			return nil, errors.FileSystemError("clean output directory", err)
		}
	}
	if err := os.MkdirAll(b.opts.OutputDir, 0o755); err != nil {
		return nil, errors.FileSystemError("create output directory", err)
	}
	if b.opts.Search != nil {
		if err := b.opts.Search.Reset(ctx); err != nil {
			return nil, errors.Wrap(err, errors.CategorySearch, errors.SeverityError, "reset search index")
		}
	}

	record := NewRecord(b.site)
	pages := manifest.Pages(b.site.Nav)
	slog.Info("Rendering site",
		"site", b.site.Meta.Name,
		"theme", b.site.Theme.Name,
		"pages", len(pages),
		"output", b.opts.OutputDir)

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, errors.BuildFailed("render", err)
		}
		pr, err := b.renderPage(ctx, th, engine, page)
		if err != nil {
			return nil, err
		}
		record.Pages = append(record.Pages, pr)
	}

	if b.site.Meta.URL != "" {
		if err := b.writeSitemap(pages); err != nil {
			return nil, err
		}
	}

	record.Finish(time.Since(start))
	if err := record.Write(filepath.Join(b.opts.OutputDir, RecordFileName)); err != nil {
		return nil, errors.FileSystemError("write build record", err)
	}

	slog.Info("Site rendered", "pages", len(record.Pages), "duration", record.Duration())
	return record, nil
}

func (b *Builder) renderPage(ctx context.Context, th *theme.Theme, engine *markdown.Engine, page manifest.NavPage) (PageRecord, error) {
	src, err := os.ReadFile(filepath.Join(b.opts.ContentRoot, filepath.FromSlash(page.Target)))
	if err != nil {
		// Load already verified existence; a read failure here is a race or
		// permission problem, not a manifest error.
		return PageRecord{}, errors.FileSystemError("read page source", err).WithContext("page", page.Target)
	}

	body, err := engine.Render(src)
	if err != nil {
		return PageRecord{}, errors.RenderFailed(page.Target, err)
	}

	title := engine.Title(src)
	if title == "" {
		title = leafLabel(b.site.Nav, page.Target)
	}

	depth := strings.Count(page.Target, "/")
	pathToRoot := strings.Repeat("../", depth)

	data := theme.PageData{
		Site:               b.site.Meta,
		Title:              title,
		Content:            template.HTML(body),
		Breadcrumb:         page.Breadcrumb,
		NavHTML:            theme.RenderNav(b.site.Nav, page.Target, pathToRoot),
		PathToRoot:         pathToRoot,
		EditURL:            b.opts.Git.EditURL(b.site.Meta.RepoURL, page.Target),
		Highlight:          b.site.Theme.Highlight,
		HighlightLanguages: b.site.Theme.HighlightLanguages,
	}
	if sig, ok := b.opts.Git.LastModified(page.Target); ok {
		data.LastModified = sig.When
	}

	var rendered bytes.Buffer
	if err := th.Page.Execute(&rendered, data); err != nil {
		return PageRecord{}, errors.RenderFailed(page.Target, err)
	}

	outRel := theme.PageURL(page.Target)
	outPath := filepath.Join(b.opts.OutputDir, filepath.FromSlash(outRel))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return PageRecord{}, errors.FileSystemError("create page directory", err)
	}
	if err := os.WriteFile(outPath, rendered.Bytes(), 0o644); err != nil {
		return PageRecord{}, errors.FileSystemError("write page", err).WithContext("page", page.Target)
	}

	if b.opts.Search != nil {
		doc := search.Doc{
			Target:     outRel,
			Title:      title,
			Breadcrumb: page.Breadcrumb,
			Body:       engine.PlainText(src),
		}
		if err := b.opts.Search.Add(ctx, doc); err != nil {
			return PageRecord{}, errors.Wrap(err, errors.CategorySearch, errors.SeverityError, "index page")
		}
	}

	return PageRecord{
		Target: page.Target,
		Output: outRel,
		Hash:   fmt.Sprintf("%x", sha256.Sum256(rendered.Bytes())),
	}, nil
}

func (b *Builder) writeSitemap(pages []manifest.NavPage) error {
	base := strings.TrimSuffix(b.site.Meta.URL, "/")
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, page := range pages {
		sb.WriteString("  <url><loc>")
		sb.WriteString(base + "/" + theme.PageURL(page.Target))
		sb.WriteString("</loc>")
		if sig, ok := b.opts.Git.LastModified(page.Target); ok {
			sb.WriteString("<lastmod>" + sig.When.Format("2006-01-02") + "</lastmod>")
		}
		sb.WriteString("</url>\n")
	}
	sb.WriteString("</urlset>\n")

	path := filepath.Join(b.opts.OutputDir, "sitemap.xml")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return errors.FileSystemError("write sitemap", err)
	}
	return nil
}

// leafLabel finds the nav label for target, for pages whose source has no
// level-1 heading.
func leafLabel(root *manifest.NavNode, target string) string {
	var found string
	var walk func(n *manifest.NavNode) bool
	walk = func(n *manifest.NavNode) bool {
		if n.Leaf() {
			if n.Target == target {
				found = n.Label
				return false
			}
			return true
		}
		for _, c := range n.Children {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(root)
	return found
}
