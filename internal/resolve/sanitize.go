package resolve

import "strings"

// dangerousChars is the fixed denylist of shell metacharacters stripped from
// user input. No shell ever receives these strings downstream; stripping is
// defense in depth, and each removal is reported for transparency.
var dangerousChars = []rune{'`', '$', ';', '|', '&', '>', '<'}

// Sanitize trims surrounding whitespace and removes denylisted characters.
// The second return value lists every character that was removed, one entry
// per occurrence. Sanitize is idempotent.
func Sanitize(input string) (string, []rune) {
	sanitized := strings.TrimSpace(input)

	var removed []rune
	for _, ch := range dangerousChars {
		for strings.ContainsRune(sanitized, ch) {
			sanitized = strings.Replace(sanitized, string(ch), "", 1)
			removed = append(removed, ch)
		}
	}

	// Stripping may expose new edge whitespace ("a `" -> "a ").
	sanitized = strings.TrimSpace(sanitized)

	return sanitized, removed
}
