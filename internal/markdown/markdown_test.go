package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdsite/internal/manifest"
)

func TestNewEngineUnknownExtension(t *testing.T) {
	_, err := NewEngine(manifest.ExtensionSpec{{ID: "wikilinks"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wikilinks")
}

func TestRenderBasics(t *testing.T) {
	e, err := NewEngine(nil)
	require.NoError(t, err)

	out, err := e.Render([]byte("# Title\n\nSome *emphasis* here.\n"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<h1>Title</h1>")
	assert.Contains(t, string(out), "<em>emphasis</em>")
}

func TestRenderTables(t *testing.T) {
	src := []byte("| a | b |\n|---|---|\n| 1 | 2 |\n")

	plain, err := NewEngine(nil)
	require.NoError(t, err)
	out, err := plain.Render(src)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<table>")

	with, err := NewEngine(manifest.ExtensionSpec{{ID: "tables"}})
	require.NoError(t, err)
	out, err = with.Render(src)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<table>")
}

func TestRenderHeadingIDs(t *testing.T) {
	e, err := NewEngine(manifest.ExtensionSpec{{ID: "toc", Config: map[string]any{"permalink": true}}})
	require.NoError(t, err)

	out, err := e.Render([]byte("# Getting Started\n\n## Usage\n\n## Usage\n"))
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, `id="getting-started"`)
	assert.Contains(t, s, `id="usage"`)
	assert.Contains(t, s, `id="usage-1"`)
}

// Heading id uniqueness is scoped per document, not per engine.
func TestRenderHeadingIDsResetPerDocument(t *testing.T) {
	e, err := NewEngine(manifest.ExtensionSpec{{ID: "toc"}})
	require.NoError(t, err)

	first, err := e.Render([]byte("# Usage\n"))
	require.NoError(t, err)
	second, err := e.Render([]byte("# Usage\n"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestTitleAndPlainText(t *testing.T) {
	e, err := NewEngine(nil)
	require.NoError(t, err)

	src := []byte("# Small Baseline Analysis\n\nRun `tsview.py` on the *output* stack.\n")
	assert.Equal(t, "Small Baseline Analysis", e.Title(src))
	assert.Equal(t, "Small Baseline Analysis Run tsview.py on the output stack.", e.PlainText(src))

	assert.Equal(t, "", e.Title([]byte("no heading here\n")))
}

func TestRenderExtensionOrderPreserved(t *testing.T) {
	// Construction must accept every supported id in one spec.
	spec := manifest.ExtensionSpec{
		{ID: "toc"}, {ID: "tables"}, {ID: "footnotes"}, {ID: "def_list"},
		{ID: "strikethrough"}, {ID: "task_lists"}, {ID: "smarty"},
		{ID: "linkify"}, {ID: "fenced_code"}, {ID: "attr_list"},
	}
	_, err := NewEngine(spec)
	require.NoError(t, err)
}
