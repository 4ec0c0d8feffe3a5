package filter

import "fmt"

// TruncateToBudget is the backstop size filter: content within the total-size
// ceiling passes through unchanged; over-budget content is cut to 80% of the
// ceiling in characters (a conservative allowance for multi-byte runes) with
// a fixed truncation marker appended. The include/exclude patterns are the
// primary size control; this only fires when they under-filter.
func TruncateToBudget(content string, maxTotalBytes int64) (string, bool) {
	if int64(len(content)) <= maxTotalBytes {
		return content, false
	}

	maxChars := int(float64(maxTotalBytes) * 0.8)
	runes := []rune(content)
	if maxChars > len(runes) {
		maxChars = len(runes)
	}
	truncated := string(runes[:maxChars])

	marker := fmt.Sprintf("\n\n[CONTENT TRUNCATED - Original size exceeded %dMB limit]",
		maxTotalBytes/(1024*1024))
	return truncated + marker, true
}
