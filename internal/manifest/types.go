// Package manifest loads and validates the declarative site descriptor
// (mkdocs.yml-shaped) that drives a documentation build: site metadata,
// theme selection, markdown extension list, and the navigation tree.
//
// Resolution is two-pass: a structural pass builds the typed model with no
// filesystem access, then a semantic pass validates theme, extensions, and
// nav targets, accumulating every independently discoverable error before
// reporting (documentation authors want the full list of broken links from
// a single build attempt).
package manifest

// SiteMeta is the site-level metadata block. Immutable once loaded.
type SiteMeta struct {
	Name        string
	URL         string
	Description string
	Authors     []string
	// Analytics holds the [id, domain] analytics token pair, empty when the
	// manifest declares none.
	Analytics []string
	RepoURL   string
}

// DefaultTheme is selected when the manifest omits the theme block.
const DefaultTheme = "minimal"

// ThemeConfig selects the rendering theme and syntax highlighting setup.
type ThemeConfig struct {
	Name      string
	Highlight bool
	// HighlightLanguages lists grammars to preload client-side. Uniqueness
	// is enforced at load.
	HighlightLanguages []string
}

// Extension is one markdown extension entry: a bare identifier or an
// identifier with a scalar configuration mapping.
type Extension struct {
	ID     string
	Config map[string]any
}

// ExtensionSpec is the ordered markdown extension list. Order is the
// application order and is preserved from the manifest.
type ExtensionSpec []Extension

// Has reports whether id is present in the list.
func (s ExtensionSpec) Has(id string) bool {
	for _, e := range s {
		if e.ID == id {
			return true
		}
	}
	return false
}

// NavNode is a navigation tree node, the tagged variant {Leaf, Group}.
// A Leaf has a non-empty Target and nil Children; a Group has non-nil
// Children (possibly empty) and no Target. The root is always a Group
// with an empty Label.
type NavNode struct {
	Label    string
	Target   string
	Children []*NavNode
}

// Leaf reports whether the node points directly at a document.
func (n *NavNode) Leaf() bool { return n.Children == nil }

// ResolvedSite aggregates the validated manifest. It is produced whole by
// Load and treated as read-only by all downstream consumers.
type ResolvedSite struct {
	Meta       SiteMeta
	Theme      ThemeConfig
	Extensions ExtensionSpec
	Nav        *NavNode
}
