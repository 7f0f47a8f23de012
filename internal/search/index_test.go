package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "search.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestAddAndSearch(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, Doc{
		Target:     "installation.md",
		Title:      "Installation",
		Body:       "Install the package with conda and set environment variables",
	}))
	require.NoError(t, idx.Add(ctx, Doc{
		Target:     "examples/pysar.md",
		Title:      "Small Baseline Analysis",
		Breadcrumb: []string{"Examples"},
		Body:       "Run the time series analysis on a stack of interferograms",
	}))

	hits, err := idx.Search(ctx, "interferograms", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "examples/pysar.md", hits[0].Target)
	assert.Equal(t, "Examples", hits[0].Breadcrumb)
	assert.Contains(t, hits[0].Snippet, "<mark>interferograms</mark>")

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSearchTitleMatches(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, Doc{Target: "install.md", Title: "Installation Guide", Body: "steps"}))

	hits, err := idx.Search(ctx, "installation", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "install.md", hits[0].Target)
}

func TestSearchQuotedInput(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, Doc{Target: "a.md", Title: "A", Body: "content"}))

	// FTS operators and quotes in user input must not be interpreted.
	for _, q := range []string{`content AND`, `"content`, `cont*`, `NEAR(a b)`} {
		_, err := idx.Search(ctx, q, 5)
		assert.NoError(t, err, "query %q", q)
	}
}

func TestReset(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, Doc{Target: "a.md", Title: "A", Body: "content"}))
	require.NoError(t, idx.Reset(ctx))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
