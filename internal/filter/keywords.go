// Package filter decides which files of a repository are worth including in a
// token-limited prompt: it derives include/exclude glob patterns from the
// question, scores files by importance, and applies a backstop size filter.
package filter

import (
	"regexp"
	"sort"
	"strings"
)

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// stopWords are discarded during keyword extraction: articles, wh-words, and
// common prepositions/auxiliaries carry no relevance signal.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "has": {}, "have": {},
	"her": {}, "was": {}, "one": {}, "our": {}, "out": {}, "with": {},
	"this": {}, "that": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"who": {}, "why": {}, "how": {}, "does": {}, "did": {}, "doing": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "about": {},
	"into": {}, "from": {}, "they": {}, "them": {}, "then": {}, "than": {},
	"its": {}, "his": {}, "she": {}, "him": {}, "been": {}, "were": {},
	"there": {}, "their": {}, "your": {}, "some": {}, "any": {}, "use": {},
	"used": {}, "using": {},
}

// technicalTerms is the fixed vocabulary matched as substrings against the
// raw lower-cased question, independent of tokenization.
var technicalTerms = []string{
	"api", "rest", "auth", "test", "config", "docker", "database",
	"model", "view", "controller", "route", "middleware", "cache",
	"queue", "deploy", "cli", "schema", "migration",
}

// ExtractKeywords derives the relevance keywords from a question: word tokens
// longer than two characters that are not stop-words, plus every technical
// term appearing as a substring. The result is deduplicated and sorted for
// deterministic output.
func ExtractKeywords(question string) []string {
	lower := strings.ToLower(question)

	seen := map[string]struct{}{}
	for _, token := range wordPattern.FindAllString(lower, -1) {
		if len(token) <= 2 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		seen[token] = struct{}{}
	}

	for _, term := range technicalTerms {
		if strings.Contains(lower, term) {
			seen[term] = struct{}{}
		}
	}

	keywords := make([]string, 0, len(seen))
	for kw := range seen {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords
}
