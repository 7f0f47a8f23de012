package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ThemeSet is the registered theme table, passed in explicitly so resolution
// never depends on hidden package-level registration state.
type ThemeSet interface {
	Has(name string) bool
}

// Options configures manifest resolution.
type Options struct {
	// ContentRoot is the directory nav targets must exist under. Empty
	// disables target existence validation (structural checks still run).
	ContentRoot string
	// Themes validates ThemeConfig.Name when non-nil.
	Themes ThemeSet
}

// Load reads, expands, and resolves the manifest at path. Environment
// variables referenced in the document are expanded after best-effort
// .env/.env.local loading. When opts.ContentRoot is empty it defaults to
// the docs/ directory beside the manifest.
func Load(path string, opts Options) (*ResolvedSite, error) {
	_ = godotenv.Load(".env.local", ".env")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if opts.ContentRoot == "" {
		opts.ContentRoot = filepath.Join(filepath.Dir(path), "docs")
	}
	return Parse([]byte(os.ExpandEnv(string(data))), opts)
}

// rawManifest mirrors the top-level mapping. Blocks with shape rules beyond
// plain scalars stay as yaml.Node and are decoded by hand so declaration
// order and schema violations are observable.
type rawManifest struct {
	SiteName        string    `yaml:"site_name"`
	SiteURL         string    `yaml:"site_url"`
	SiteDescription string    `yaml:"site_description"`
	SiteAuthor      yaml.Node `yaml:"site_author"`
	RepoURL         string    `yaml:"repo_url"`
	GoogleAnalytics yaml.Node `yaml:"google_analytics"`
	Theme           yaml.Node `yaml:"theme"`
	Extensions      yaml.Node `yaml:"markdown_extensions"`
	Nav             yaml.Node `yaml:"nav"`
}

// Parse resolves a manifest document already in memory.
//
// Structural errors (missing required fields, malformed entries) abort
// immediately. Semantic errors (unknown theme, duplicate extensions, broken
// nav targets) are accumulated and returned together as an ErrorList.
func Parse(data []byte, opts Options) (*ResolvedSite, error) {
	var raw rawManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	// Pass 1: structural shape, no filesystem access.
	if strings.TrimSpace(raw.SiteName) == "" {
		return nil, newError(KindMissingRequiredField, "site_name")
	}
	if raw.Nav.IsZero() {
		return nil, newError(KindMissingRequiredField, "nav")
	}

	site := &ResolvedSite{
		Meta: SiteMeta{
			Name:        raw.SiteName,
			URL:         raw.SiteURL,
			Description: raw.SiteDescription,
			RepoURL:     raw.RepoURL,
		},
	}

	authors, err := parseAuthors(&raw.SiteAuthor)
	if err != nil {
		return nil, err
	}
	site.Meta.Authors = authors

	analytics, err := parseAnalytics(&raw.GoogleAnalytics)
	if err != nil {
		return nil, err
	}
	site.Meta.Analytics = analytics

	themeCfg, err := parseTheme(&raw.Theme)
	if err != nil {
		return nil, err
	}
	site.Theme = themeCfg

	exts, err := parseExtensions(&raw.Extensions)
	if err != nil {
		return nil, err
	}
	site.Extensions = exts

	nav, err := parseNavSequence(&raw.Nav)
	if err != nil {
		return nil, err
	}
	site.Nav = &NavNode{Children: nav}

	// Pass 2: semantics. Independently discoverable problems accumulate so
	// one attempt reports them all.
	var errs ErrorList

	if opts.Themes != nil && !opts.Themes.Has(site.Theme.Name) {
		errs = append(errs, newError(KindUnknownThemeKey, site.Theme.Name))
	}

	seen := make(map[string]struct{}, len(site.Extensions))
	for _, e := range site.Extensions {
		if _, dup := seen[e.ID]; dup {
			errs = append(errs, newError(KindDuplicateExtension, e.ID))
			continue
		}
		seen[e.ID] = struct{}{}
	}

	if opts.ContentRoot != "" {
		for page := range FlattenNav(site.Nav) {
			if _, err := os.Stat(filepath.Join(opts.ContentRoot, filepath.FromSlash(page.Target))); err != nil {
				errs = append(errs, newError(KindBrokenNavTarget, page.Target))
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return site, nil
}

func parseAuthors(n *yaml.Node) ([]string, error) {
	n = resolveAlias(n)
	if n.IsZero() {
		return nil, nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		var s string
		if err := n.Decode(&s); err != nil {
			return nil, newError(KindMalformedNavEntry, "site_author must be a string or list of strings")
		}
		return []string{s}, nil
	case yaml.SequenceNode:
		var list []string
		if err := n.Decode(&list); err != nil {
			return nil, newError(KindMalformedNavEntry, "site_author must be a string or list of strings")
		}
		return list, nil
	default:
		return nil, newError(KindMalformedNavEntry, "site_author must be a string or list of strings")
	}
}

// parseAnalytics enforces the exact [id, domain] pair shape. Any other arity
// is a malformed entry rather than a silently defaulted value.
func parseAnalytics(n *yaml.Node) ([]string, error) {
	n = resolveAlias(n)
	if n.IsZero() {
		return nil, nil
	}
	var pair []string
	if err := n.Decode(&pair); err != nil || len(pair) != 2 {
		return nil, newError(KindMalformedNavEntry, "google_analytics must be an [id, domain] pair")
	}
	return pair, nil
}

// parseTheme accepts the scalar short form (theme: readthedocs) and the
// mapping form with name/highlightjs/hljs_languages keys.
func parseTheme(n *yaml.Node) (ThemeConfig, error) {
	n = resolveAlias(n)
	cfg := ThemeConfig{Name: DefaultTheme}
	if n.IsZero() {
		return cfg, nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		var name string
		if err := n.Decode(&name); err != nil || strings.TrimSpace(name) == "" {
			return cfg, newError(KindMalformedNavEntry, "theme must be a name or a mapping")
		}
		cfg.Name = strings.TrimSpace(name)
		return cfg, nil
	case yaml.MappingNode:
		var block struct {
			Name          string   `yaml:"name"`
			HighlightJS   bool     `yaml:"highlightjs"`
			HLJSLanguages []string `yaml:"hljs_languages"`
		}
		if err := n.Decode(&block); err != nil {
			return cfg, newError(KindMalformedNavEntry, "theme must be a name or a mapping")
		}
		if strings.TrimSpace(block.Name) != "" {
			cfg.Name = strings.TrimSpace(block.Name)
		}
		cfg.Highlight = block.HighlightJS
		cfg.HighlightLanguages = dedupe(block.HLJSLanguages)
		return cfg, nil
	default:
		return cfg, newError(KindMalformedNavEntry, "theme must be a name or a mapping")
	}
}

// parseExtensions keeps declaration order; each entry is a bare id or a
// single-key mapping of id to a scalar configuration mapping.
func parseExtensions(n *yaml.Node) (ExtensionSpec, error) {
	n = resolveAlias(n)
	if n.IsZero() {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, newError(KindMalformedNavEntry, "markdown_extensions must be a sequence")
	}
	spec := make(ExtensionSpec, 0, len(n.Content))
	for _, item := range n.Content {
		item = resolveAlias(item)
		switch item.Kind {
		case yaml.ScalarNode:
			var id string
			if err := item.Decode(&id); err != nil || strings.TrimSpace(id) == "" {
				return nil, newError(KindMalformedNavEntry, "markdown extension entry must be an identifier")
			}
			spec = append(spec, Extension{ID: strings.TrimSpace(id)})
		case yaml.MappingNode:
			if len(item.Content) != 2 {
				return nil, newError(KindMalformedNavEntry, "markdown extension mapping must have exactly one key")
			}
			var id string
			if err := item.Content[0].Decode(&id); err != nil || strings.TrimSpace(id) == "" {
				return nil, newError(KindMalformedNavEntry, "markdown extension mapping must have exactly one key")
			}
			var cfg map[string]any
			if err := resolveAlias(item.Content[1]).Decode(&cfg); err != nil {
				return nil, newError(KindMalformedNavEntry, fmt.Sprintf("markdown extension %q config must be a mapping", id))
			}
			spec = append(spec, Extension{ID: strings.TrimSpace(id), Config: cfg})
		default:
			return nil, newError(KindMalformedNavEntry, "markdown extension entry must be an identifier or single-key mapping")
		}
	}
	return spec, nil
}

// parseNavSequence converts a nav sequence node into NavNode children:
// a scalar is a leaf with a derived label, a single-key mapping to a scalar
// is a labeled leaf, and a single-key mapping to a sequence is a group.
func parseNavSequence(n *yaml.Node) ([]*NavNode, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.SequenceNode {
		return nil, newError(KindMalformedNavEntry, "nav must be a sequence")
	}
	nodes := make([]*NavNode, 0, len(n.Content))
	for _, item := range n.Content {
		item = resolveAlias(item)
		switch item.Kind {
		case yaml.ScalarNode:
			var target string
			if err := item.Decode(&target); err != nil {
				return nil, newError(KindMalformedNavEntry, "nav entry must be a path or a single-key mapping")
			}
			leaf, err := newLeaf(deriveLabel(target), target)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, leaf)
		case yaml.MappingNode:
			if len(item.Content) != 2 {
				return nil, newError(KindMalformedNavEntry, "nav mapping must have exactly one key")
			}
			var label string
			if err := item.Content[0].Decode(&label); err != nil {
				return nil, newError(KindMalformedNavEntry, "nav mapping key must be a string label")
			}
			value := resolveAlias(item.Content[1])
			switch value.Kind {
			case yaml.ScalarNode:
				var target string
				if err := value.Decode(&target); err != nil {
					return nil, newError(KindMalformedNavEntry, fmt.Sprintf("nav entry %q must map to a path or sequence", label))
				}
				leaf, err := newLeaf(label, target)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, leaf)
			case yaml.SequenceNode:
				children, err := parseNavSequence(value)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, &NavNode{Label: label, Children: children})
			default:
				return nil, newError(KindMalformedNavEntry, fmt.Sprintf("nav entry %q must map to a path or sequence", label))
			}
		default:
			return nil, newError(KindMalformedNavEntry, "nav entry must be a path or a single-key mapping")
		}
	}
	return nodes, nil
}

func newLeaf(label, target string) (*NavNode, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, newError(KindMalformedNavEntry, "nav leaf target must be a non-empty path")
	}
	// Anchors belong to rendered pages; a fragment in the manifest cannot be
	// existence-checked and is rejected rather than silently accepted.
	if strings.Contains(target, "#") {
		return nil, newError(KindMalformedNavEntry, fmt.Sprintf("nav target %q must not contain a fragment", target))
	}
	return &NavNode{Label: label, Target: target}, nil
}

var labelCaser = cases.Title(language.English)

// deriveLabel turns a bare target path into a display label, e.g.
// guides/getting-started.md becomes "Getting Started".
func deriveLabel(target string) string {
	base := filepath.Base(filepath.FromSlash(strings.TrimSpace(target)))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return labelCaser.String(base)
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	if n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias
	}
	return n
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
