package theme

import (
	"html/template"
	"strings"

	"git.home.luguber.info/inful/mdsite/internal/manifest"
)

// PageURL maps a nav target to its rendered location, e.g. guide/intro.md
// becomes guide/intro.html. Non-markdown targets pass through unchanged.
func PageURL(target string) string {
	if strings.HasSuffix(target, ".md") {
		return strings.TrimSuffix(target, ".md") + ".html"
	}
	return target
}

// RenderNav renders the navigation tree as nested lists. current is the nav
// target of the page being rendered (its entry gets class "active");
// pathToRoot prefixes every href so pages in subdirectories link correctly.
func RenderNav(root *manifest.NavNode, current, pathToRoot string) template.HTML {
	var b strings.Builder
	renderChildren(&b, root.Children, current, pathToRoot)
	return template.HTML(b.String())
}

func renderChildren(b *strings.Builder, children []*manifest.NavNode, current, pathToRoot string) {
	if len(children) == 0 {
		return
	}
	b.WriteString("<ul>")
	for _, n := range children {
		if n.Leaf() {
			b.WriteString(`<li class="leaf`)
			if n.Target == current {
				b.WriteString(" active")
			}
			b.WriteString(`"><a href="`)
			template.HTMLEscape(b, []byte(pathToRoot+PageURL(n.Target)))
			b.WriteString(`">`)
			template.HTMLEscape(b, []byte(n.Label))
			b.WriteString("</a></li>")
			continue
		}
		b.WriteString(`<li class="group"><span>`)
		template.HTMLEscape(b, []byte(n.Label))
		b.WriteString("</span>")
		renderChildren(b, n.Children, current, pathToRoot)
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
}
