package slug

import (
	"regexp"
	"strings"
)

var whitespaceRegexp = regexp.MustCompile(`\s+`)

// Generate creates a URL-friendly slug from the given name. The result is
// deterministic for a given input: the name is lower-cased and trimmed,
// ampersands become "and", quote characters are stripped, and runs of
// whitespace collapse into single hyphens.
//
// Examples:
//   - "Kids & Toys" → "kids-and-toys"
//   - "Men's Shoes" → "mens-shoes"
//   - "Home   Decor" → "home-decor"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	replacer := strings.NewReplacer(
		"&", "and",
		"'", "",
		"’", "",
		`"`, "",
	)
	s = replacer.Replace(s)

	s = whitespaceRegexp.ReplaceAllString(s, "-")

	// Collapse consecutive hyphens into single hyphens
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}

	return strings.Trim(s, "-")
}
