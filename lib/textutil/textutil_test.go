package textutil

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Jazz im G-Werk":                  "jazz-im-g-werk",
		"  Nacht der Museen  ":            "nacht-der-museen",
		"Käse & Wein!":                    "kse-wein",
		"a---b":                           "a-b",
		"---":                             "",
		"Open Air 2025":                   "open-air-2025",
		"Dienstag, 28. Oktober / Konzert": "dienstag-28-oktober-konzert",
	}
	for input, want := range cases {
		got := Slugify(input)
		require.Equal(t, want, got, "input %q", input)
		if got != "" {
			require.Regexp(t, slugShape, got)
		}
		// stable across repeated calls
		require.Equal(t, got, Slugify(input))
	}
}
