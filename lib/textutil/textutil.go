package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)
var nonSlugRegex = regexp.MustCompile(`[^a-z0-9\s-]`)
var repeatedHyphenRegex = regexp.MustCompile(`-+`)

// Slugify turns a display name into a url-safe collection slug:
// lower-cased, everything outside [a-z0-9\s-] removed, whitespace runs
// collapsed to single hyphens, repeated hyphens collapsed, no leading
// or trailing hyphen. The result is either empty or matches
// ^[a-z0-9]+(-[a-z0-9]+)*$.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = nonSlugRegex.ReplaceAllString(slug, "")
	slug = whitespaceRegex.ReplaceAllString(slug, "-")
	slug = repeatedHyphenRegex.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return slug
}
