package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFlattenNavOrder(t *testing.T) {
	doc := "site_name: D\nnav: [{A: [x.md, y.md]}, z.md]\n"
	site, err := Parse([]byte(doc), Options{Themes: testThemes})
	require.NoError(t, err)

	got := Pages(site.Nav)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"A"}, got[0].Breadcrumb)
	assert.Equal(t, "x.md", got[0].Target)
	assert.Equal(t, []string{"A"}, got[1].Breadcrumb)
	assert.Equal(t, "y.md", got[1].Target)
	assert.Empty(t, got[2].Breadcrumb)
	assert.Equal(t, "z.md", got[2].Target)
}

func TestFlattenNavDeepNesting(t *testing.T) {
	doc := `
site_name: D
nav:
  - Guide:
      - Basics:
          - Intro: guide/basics/intro.md
      - guide/advanced.md
  - index.md
`
	site, err := Parse([]byte(doc), Options{Themes: testThemes})
	require.NoError(t, err)

	got := Pages(site.Nav)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Guide", "Basics"}, got[0].Breadcrumb)
	assert.Equal(t, "guide/basics/intro.md", got[0].Target)
	assert.Equal(t, []string{"Guide"}, got[1].Breadcrumb)
	assert.Equal(t, "guide/advanced.md", got[1].Target)
	assert.Empty(t, got[2].Breadcrumb)
}

// The flattened sequence is restartable: two iterations see the same pages.
func TestFlattenNavRestartable(t *testing.T) {
	doc := "site_name: D\nnav: [{A: [x.md]}, z.md]\n"
	site, err := Parse([]byte(doc), Options{Themes: testThemes})
	require.NoError(t, err)

	seq := FlattenNav(site.Nav)
	var first, second []string
	for p := range seq {
		first = append(first, p.Target)
	}
	for p := range seq {
		second = append(second, p.Target)
	}
	assert.Equal(t, first, second)
}

func TestFlattenNavEarlyStop(t *testing.T) {
	doc := "site_name: D\nnav: [{A: [x.md, y.md]}, z.md]\n"
	site, err := Parse([]byte(doc), Options{Themes: testThemes})
	require.NoError(t, err)

	var seen int
	for range FlattenNav(site.Nav) {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

// Serializing the nav tree back to mapping form and re-loading it yields
// identical breadcrumb/target pairs.
func TestNavRoundTrip(t *testing.T) {
	doc := `
site_name: D
nav:
  - Home: index.md
  - about.md
  - Guide:
      - Basics:
          - guide/intro.md
      - Advanced: guide/advanced.md
`
	site, err := Parse([]byte(doc), Options{Themes: testThemes})
	require.NoError(t, err)

	out, err := yaml.Marshal(map[string]any{
		"site_name": site.Meta.Name,
		"nav":       site.Nav,
	})
	require.NoError(t, err)

	reloaded, err := Parse(out, Options{Themes: testThemes})
	require.NoError(t, err)

	assert.Equal(t, Pages(site.Nav), Pages(reloaded.Nav))
}

func TestFlattenNavEmptyGroup(t *testing.T) {
	root := &NavNode{Children: []*NavNode{
		{Label: "Empty", Children: []*NavNode{}},
		{Label: "Home", Target: "index.md"},
	}}
	got := Pages(root)
	require.Len(t, got, 1)
	assert.Equal(t, "index.md", got[0].Target)
}
