// Package slug derives URL- and anchor-safe identifiers from heading and
// label text. Unicode text is NFKD-decomposed and stripped of combining
// marks first so "Résumé" and "Resume" slug identically.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make returns the slug for s: lowercase ASCII letters, digits, and single
// hyphens. Empty input (or input with no sluggable runes) yields "section".
func Make(s string) string {
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := true // suppress leading hyphens
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "section"
	}
	return out
}

// Uniquer hands out slugs that are unique within one document by suffixing
// repeats with -1, -2, ...
type Uniquer struct {
	seen map[string]int
}

func NewUniquer() *Uniquer {
	return &Uniquer{seen: make(map[string]int)}
}

// Take returns the unique slug for s within this Uniquer's scope.
func (u *Uniquer) Take(s string) string {
	base := Make(s)
	n := u.seen[base]
	u.seen[base] = n + 1
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
