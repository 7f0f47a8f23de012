package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSiteErrorMessage(t *testing.T) {
	e := New(CategoryConfig, SeverityFatal, "manifest not found")
	if got := e.Error(); got != "config (fatal): manifest not found" {
		t.Errorf("unexpected message: %s", got)
	}

	wrapped := Wrap(fmt.Errorf("boom"), CategoryBuild, SeverityError, "stage failed")
	if got := wrapped.Error(); got != "build (error): stage failed: boom" {
		t.Errorf("unexpected message: %s", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	wrapped := Wrap(cause, CategoryRender, SeverityError, "render")
	if !errors.Is(wrapped, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestCategoryHelpers(t *testing.T) {
	e := BuildFailed("render", fmt.Errorf("x"))
	if !IsCategory(e, CategoryBuild) {
		t.Error("expected build category")
	}
	if GetCategory(fmt.Errorf("plain")) != CategoryInternal {
		t.Error("plain errors default to internal")
	}
}

func TestWithContext(t *testing.T) {
	e := New(CategorySearch, SeverityError, "index").WithContext("path", "/tmp/idx.db")
	if e.Context["path"] != "/tmp/idx.db" {
		t.Error("context field not recorded")
	}
}

func TestExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)
	cases := []struct {
		err  error
		code int
	}{
		{nil, 0},
		{New(CategoryValidation, SeverityFatal, "x"), 2},
		{New(CategoryConfig, SeverityFatal, "x"), 7},
		{New(CategoryBuild, SeverityFatal, "x"), 11},
		{New(CategoryServer, SeverityError, "x"), 12},
		{fmt.Errorf("plain"), 10},
	}
	for _, tc := range cases {
		if got := a.ExitCodeFor(tc.err); got != tc.code {
			t.Errorf("ExitCodeFor(%v) = %d, want %d", tc.err, got, tc.code)
		}
	}
}

func TestFormatError(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)
	e := ConfigError("manifest invalid", fmt.Errorf("bad yaml"))
	if got := a.FormatError(e); got != "manifest invalid: bad yaml" {
		t.Errorf("unexpected format: %s", got)
	}
	if got := a.FormatError(New(CategoryServer, SeverityError, "bind failed")); got != "server: bind failed" {
		t.Errorf("unexpected format: %s", got)
	}
}
