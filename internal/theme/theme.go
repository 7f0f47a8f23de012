// Package theme holds the rendering theme registry. The registry is an
// explicit immutable table built at startup and passed by reference into
// manifest resolution and the site builder; there is no package-level
// registration, so theme availability never depends on import order.
package theme

import (
	"fmt"
	"html/template"
	"time"

	"git.home.luguber.info/inful/mdsite/internal/manifest"
)

// Theme is one rendering theme: a name and the page template executed once
// per nav leaf with a PageData value.
type Theme struct {
	Name        string
	Description string
	Page        *template.Template
}

// PageData is the contract between the builder and theme templates.
type PageData struct {
	Site       manifest.SiteMeta
	Title      string
	Content    template.HTML
	Breadcrumb []string
	// NavHTML is the pre-rendered navigation tree with the current page
	// marked active.
	NavHTML template.HTML
	// PathToRoot is the relative prefix from this page back to the site
	// root ("", "../", "../../", ...).
	PathToRoot         string
	EditURL            string
	LastModified       time.Time
	Highlight          bool
	HighlightLanguages []string
}

// HasLastModified reports whether a last-modified timestamp is known.
func (d PageData) HasLastModified() bool { return !d.LastModified.IsZero() }

// Registry is the immutable theme table.
type Registry struct {
	byName map[string]*Theme
	names  []string
}

// NewRegistry builds a registry from the given themes. Duplicate names are
// a programming error and rejected.
func NewRegistry(themes ...*Theme) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Theme, len(themes))}
	for _, t := range themes {
		if _, dup := r.byName[t.Name]; dup {
			return nil, fmt.Errorf("theme %q registered twice", t.Name)
		}
		r.byName[t.Name] = t
		r.names = append(r.names, t.Name)
	}
	return r, nil
}

// Has reports whether name is registered. Satisfies manifest.ThemeSet.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Get returns the named theme.
func (r *Registry) Get(name string) (*Theme, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Names returns registered theme names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
