package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdsite/internal/errors"
)

// resetCLI points the global CLI at a fresh temp workspace.
func resetCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	CLI.Config = filepath.Join(dir, "mkdocs.yml")
	CLI.DocsDir = ""
	CLI.Build.Output = filepath.Join(dir, "site")
	CLI.Build.Clean = false
	CLI.Build.Search = false
	CLI.Check.SiteDir = ""
	CLI.Init.Force = false
	return dir
}

func TestInitBuildCheckCycle(t *testing.T) {
	dir := resetCLI(t)

	require.NoError(t, runInit())
	assert.FileExists(t, CLI.Config)
	assert.FileExists(t, filepath.Join(dir, "docs", "index.md"))

	// A second init without --force must refuse.
	err := runInit()
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfig))

	CLI.Init.Force = true
	require.NoError(t, runInit())

	require.NoError(t, runBuild())
	assert.FileExists(t, filepath.Join(CLI.Build.Output, "index.html"))
	assert.FileExists(t, filepath.Join(CLI.Build.Output, "guide", "getting-started.html"))

	CLI.Check.SiteDir = CLI.Build.Output
	require.NoError(t, runCheck())
}

func TestBuildWithSearchIndex(t *testing.T) {
	resetCLI(t)
	require.NoError(t, runInit())

	CLI.Build.Search = true
	require.NoError(t, runBuild())
	assert.FileExists(t, filepath.Join(CLI.Build.Output, SearchIndexFileName))
}

func TestBuildReportsManifestErrors(t *testing.T) {
	dir := resetCLI(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))
	require.NoError(t, os.WriteFile(CLI.Config, []byte("site_name: Broken\nnav:\n  - missing.md\n"), 0o644))

	err := runBuild()
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
	assert.Contains(t, err.Error(), "missing.md")
}

func TestCheckValidManifestOnly(t *testing.T) {
	resetCLI(t)
	require.NoError(t, runInit())
	require.NoError(t, runCheck())
}
