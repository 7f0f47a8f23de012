package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies manifest resolution failures. All kinds are
// configuration-time errors; none are retryable at runtime.
type ErrorKind string

const (
	// KindMissingRequiredField indicates site_name or nav is absent.
	KindMissingRequiredField ErrorKind = "missing_required_field"
	// KindUnknownThemeKey indicates theme.name is not in the registry.
	KindUnknownThemeKey ErrorKind = "unknown_theme"
	// KindDuplicateExtension indicates a markdown extension listed twice.
	KindDuplicateExtension ErrorKind = "duplicate_extension"
	// KindBrokenNavTarget indicates a nav leaf path missing under the content root.
	KindBrokenNavTarget ErrorKind = "broken_nav_target"
	// KindMalformedNavEntry indicates a schema violation in nav or another
	// structured block (theme, markdown_extensions, google_analytics).
	KindMalformedNavEntry ErrorKind = "malformed_nav_entry"
)

// Error is a single manifest resolution error. Subject carries the field
// name, extension id, nav target, or a short description of the offending
// entry depending on Kind.
type Error struct {
	Kind    ErrorKind
	Subject string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingRequiredField:
		return fmt.Sprintf("manifest: required field %q is missing", e.Subject)
	case KindUnknownThemeKey:
		return fmt.Sprintf("manifest: unknown theme %q", e.Subject)
	case KindDuplicateExtension:
		return fmt.Sprintf("manifest: markdown extension %q listed more than once", e.Subject)
	case KindBrokenNavTarget:
		return fmt.Sprintf("manifest: nav target %q does not exist under the content root", e.Subject)
	case KindMalformedNavEntry:
		return fmt.Sprintf("manifest: malformed entry: %s", e.Subject)
	default:
		return fmt.Sprintf("manifest: %s: %s", e.Kind, e.Subject)
	}
}

// ErrorList aggregates independently discoverable errors so one resolution
// attempt reports every problem (fail-slow).
type ErrorList []*Error

func (l ErrorList) Error() string {
	if len(l) == 1 {
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "manifest: %d configuration errors:", len(l))
	for _, e := range l {
		b.WriteString("\n  - ")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Unwrap exposes the individual errors to errors.Is/As.
func (l ErrorList) Unwrap() []error {
	out := make([]error, len(l))
	for i, e := range l {
		out[i] = e
	}
	return out
}

// HasKind reports whether err is, or contains, a manifest error of kind k.
func HasKind(err error, k ErrorKind) bool {
	var single *Error
	if errors.As(err, &single) && single.Kind == k {
		return true
	}
	var list ErrorList
	if errors.As(err, &list) {
		for _, e := range list {
			if e.Kind == k {
				return true
			}
		}
	}
	return false
}

func newError(k ErrorKind, subject string) *Error {
	return &Error{Kind: k, Subject: subject}
}
