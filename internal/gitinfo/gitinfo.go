// Package gitinfo derives per-page metadata from the content root's git
// history: last-modified timestamps for page footers and edit links built
// from the manifest's repo_url.
package gitinfo

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Info answers page metadata questions against one repository. A nil *Info
// is valid and reports nothing, so callers need no guards when the content
// root is not under version control.
type Info struct {
	repo *git.Repository
	// prefix is the content root path relative to the repository worktree.
	prefix string
}

// Open locates the repository containing contentRoot. Returns (nil, nil)
// when contentRoot is not inside a git worktree.
func Open(contentRoot string) (*Info, error) {
	abs, err := filepath.Abs(contentRoot)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			slog.Debug("Content root is not under version control", "path", abs)
			return nil, nil
		}
		return nil, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(wt.Filesystem.Root(), abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = ""
	}
	return &Info{repo: repo, prefix: filepath.ToSlash(rel)}, nil
}

// LastModified returns the author timestamp of the newest commit touching
// the page at target (a path relative to the content root). ok is false
// when the file has no history yet or info is nil.
func (i *Info) LastModified(target string) (t object.Signature, ok bool) {
	if i == nil {
		return object.Signature{}, false
	}
	rel := target
	if i.prefix != "" && i.prefix != "." {
		rel = i.prefix + "/" + target
	}
	iter, err := i.repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return object.Signature{}, false
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		return object.Signature{}, false
	}
	return commit.Author, true
}

// EditURL builds the web edit link for target from the manifest repo_url.
// GitHub- and GitLab-shaped URLs get an /edit/<branch>/ path; anything else
// returns "" rather than guessing a forge layout.
func (i *Info) EditURL(repoURL, target string) string {
	if repoURL == "" {
		return ""
	}
	u := strings.TrimSuffix(strings.TrimSuffix(repoURL, "/"), ".git")
	if !strings.Contains(u, "github.") && !strings.Contains(u, "gitlab.") {
		return ""
	}
	branch := "main"
	if i != nil {
		if head, err := i.repo.Head(); err == nil && head.Name().IsBranch() {
			branch = head.Name().Short()
		}
	}
	parts := []string{u, "edit", branch}
	if i != nil && i.prefix != "" && i.prefix != "." {
		parts = append(parts, i.prefix)
	}
	parts = append(parts, target)
	return strings.Join(parts, "/")
}
