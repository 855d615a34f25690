package slugutil

import (
	"regexp"
	"strings"
)

var specialChars = regexp.MustCompile(`[^\w\s-]`)
var whitespace = regexp.MustCompile(`\s+`)
var repeatedHyphens = regexp.MustCompile(`-+`)

// Generate derives a url-friendly slug from a display name.
// "Martha O'Hara-Smith  Jr." -> "martha-ohara-smith-jr"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = specialChars.ReplaceAllString(slug, "")
	slug = whitespace.ReplaceAllString(slug, "-")
	slug = repeatedHyphens.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return slug
}

// NormalizeName lowercases and strips whitespace so two spellings of
// the same person's name compare equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespace.ReplaceAllString(name, " ")
	return name
}
