package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Getting Started":          "getting-started",
		"Time-series (SBAS) setup": "time-series-sbas-setup",
		"Résumé":                   "resume",
		"  spaces   everywhere  ":  "spaces-everywhere",
		"ALLCAPS":                  "allcaps",
		"":                         "section",
		"!!!":                      "section",
		"v1.2.3":                   "v1-2-3",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), "input %q", in)
	}
}

func TestUniquer(t *testing.T) {
	u := NewUniquer()
	assert.Equal(t, "usage", u.Take("Usage"))
	assert.Equal(t, "usage-1", u.Take("Usage"))
	assert.Equal(t, "usage-2", u.Take("usage"))
	assert.Equal(t, "install", u.Take("Install"))
}
