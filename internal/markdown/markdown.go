// Package markdown assembles a Goldmark renderer from the manifest's
// markdown extension list. Extensions are applied in listed order; unknown
// identifiers are rejected when the engine is constructed so a typo fails
// the build rather than silently rendering without the extension.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/mdsite/internal/manifest"
	"git.home.luguber.info/inful/mdsite/internal/slug"
)

// Engine renders markdown documents per one manifest's extension spec.
// Safe for reuse across documents; heading id uniqueness is scoped per
// document.
type Engine struct {
	md goldmark.Markdown
}

// NewEngine builds an engine from the ordered extension spec.
func NewEngine(spec manifest.ExtensionSpec) (*Engine, error) {
	parserOpts := []parser.Option{}
	var exts []goldmark.Extender

	for _, e := range spec {
		switch e.ID {
		case "toc":
			// Heading anchors; the toc "permalink" option is accepted but
			// rendered client-side by themes.
			parserOpts = append(parserOpts, parser.WithAutoHeadingID())
		case "attr_list":
			parserOpts = append(parserOpts, parser.WithAttribute())
		case "tables":
			exts = append(exts, extension.Table)
		case "footnotes":
			exts = append(exts, extension.Footnote)
		case "def_list", "definition_lists":
			exts = append(exts, extension.DefinitionList)
		case "strikethrough":
			exts = append(exts, extension.Strikethrough)
		case "task_lists":
			exts = append(exts, extension.TaskList)
		case "smarty", "typographer":
			exts = append(exts, extension.Typographer)
		case "linkify":
			exts = append(exts, extension.Linkify)
		case "fenced_code", "codehilite":
			// Fenced code is CommonMark core; highlighting is client-side
			// (theme highlightjs config).
		default:
			return nil, fmt.Errorf("unsupported markdown extension %q", e.ID)
		}
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOpts...),
		// Documentation sources routinely embed raw HTML snippets.
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Engine{md: md}, nil
}

// Render converts one markdown document to HTML.
func (e *Engine) Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext(parser.WithIDs(newHeadingIDs()))
	if err := e.md.Convert(src, &buf, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// Title returns the text of the document's first level-1 heading, or "".
func (e *Engine) Title(src []byte) string {
	root := e.md.Parser().Parse(text.NewReader(src))
	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok && h.Level == 1 {
			title = textOf(h, src)
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return title
}

// PlainText flattens the document to whitespace-separated text, used to
// feed the search index.
func (e *Engine) PlainText(src []byte) string {
	root := e.md.Parser().Parse(text.NewReader(src))
	var b strings.Builder
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(src))
			b.WriteByte(' ')
		case *gmast.String:
			b.Write(t.Value)
			b.WriteByte(' ')
		}
		return gmast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

func textOf(n gmast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(src))
		case *gmast.String:
			b.Write(t.Value)
		default:
			b.WriteString(textOf(c, src))
		}
	}
	return b.String()
}

// headingIDs implements parser.IDs on top of the slug package so heading
// anchors match the slugs used elsewhere in the site.
type headingIDs struct {
	u *slug.Uniquer
}

func newHeadingIDs() parser.IDs {
	return &headingIDs{u: slug.NewUniquer()}
}

func (h *headingIDs) Generate(value []byte, _ gmast.NodeKind) []byte {
	return []byte(h.u.Take(string(value)))
}

func (h *headingIDs) Put([]byte) {}
