package resolve

import (
	"fmt"
	"regexp"
	"strings"
)

// fallbackTable maps common framework search terms to known repositories.
// Used only when API-backed search is disabled; it exists so the pipeline can
// run deterministically without network access and is not real resolution.
var fallbackTable = []struct {
	term  string
	owner string
	name  string
}{
	{"react router", "remix-run", "react-router"},
	{"react", "facebook", "react"},
	{"vue", "vuejs", "vue"},
	{"angular", "angular", "angular"},
	{"express", "expressjs", "express"},
	{"fastapi", "tiangolo", "fastapi"},
	{"django", "django", "django"},
	{"flask", "pallets", "flask"},
	{"next", "vercel", "next.js"},
	{"nuxt", "nuxt", "nuxt"},
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// fallbackDescriptor resolves a search term without the API: a table lookup
// for well-known frameworks, else a deterministic placeholder built from the
// first alphanumeric token of the input.
func fallbackDescriptor(term string) *Descriptor {
	lower := strings.ToLower(term)
	for _, entry := range fallbackTable {
		if strings.Contains(lower, entry.term) {
			return &Descriptor{
				Owner: entry.owner,
				Name:  entry.name,
				URL:   fmt.Sprintf("https://github.com/%s/%s", entry.owner, entry.name),
				Kind:  KindSearch,
			}
		}
	}

	name := "mock-repo"
	if fields := strings.Fields(term); len(fields) > 0 {
		if clean := nonAlnum.ReplaceAllString(fields[0], ""); clean != "" {
			name = clean
		}
	}
	return &Descriptor{
		Owner: "mock-owner",
		Name:  name,
		URL:   fmt.Sprintf("https://github.com/mock-owner/%s", name),
		Kind:  KindSearch,
	}
}
