// Package linkcheck validates a rendered site: every internal href/src must
// resolve to a file in the output tree, and same-page fragments must match
// an element id. External URLs are reported as skipped, never fetched.
package linkcheck

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Problem is one broken reference found in a rendered page.
type Problem struct {
	Page string // page path relative to the site root
	Ref  string // offending href/src value
	Why  string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %q %s", p.Page, p.Ref, p.Why)
}

// CheckDir walks every .html file under root and returns all problems
// found (fail-slow; an empty slice means the site is clean).
func CheckDir(root string) ([]Problem, error) {
	var problems []Problem
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		found, err := checkPage(root, filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("check %s: %w", rel, err)
		}
		problems = append(problems, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return problems, nil
}

func checkPage(root, page string) ([]Problem, error) {
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(page)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, err
	}

	refs, ids := collect(doc)

	var problems []Problem
	for _, ref := range refs {
		if prob, bad := verify(root, page, ref, ids); bad {
			problems = append(problems, prob)
		}
	}
	return problems, nil
}

// collect gathers href/src values and element ids in document order.
func collect(doc *html.Node) (refs []string, ids map[string]struct{}) {
	ids = make(map[string]struct{})
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				switch a.Key {
				case "href", "src":
					refs = append(refs, a.Val)
				case "id":
					ids[a.Val] = struct{}{}
				case "name":
					if n.Data == "a" {
						ids[a.Val] = struct{}{}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs, ids
}

func verify(root, page, ref string, ids map[string]struct{}) (Problem, bool) {
	u, err := url.Parse(ref)
	if err != nil {
		return Problem{Page: page, Ref: ref, Why: "is not a valid URL"}, true
	}
	// External and pseudo links are out of scope.
	if u.Scheme != "" || u.Host != "" {
		return Problem{}, false
	}
	if u.Path == "" {
		// Same-page fragment.
		if u.Fragment == "" {
			return Problem{}, false
		}
		if _, ok := ids[u.Fragment]; !ok {
			return Problem{Page: page, Ref: ref, Why: "points at a missing fragment"}, true
		}
		return Problem{}, false
	}

	target := u.Path
	if !strings.HasPrefix(target, "/") {
		target = path.Join(path.Dir(page), target)
	}
	target = strings.TrimPrefix(target, "/")
	if strings.HasPrefix(target, "..") {
		return Problem{Page: page, Ref: ref, Why: "escapes the site root"}, true
	}
	if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(target))); err != nil {
		return Problem{Page: page, Ref: ref, Why: "points at a missing file"}, true
	}
	// Cross-page fragments would need the target's id set; verifying file
	// existence is the contract here.
	return Problem{}, false
}
