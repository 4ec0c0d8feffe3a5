package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/repoexplain/internal/resolve"
)

func TestBuildIncludesAllSections(t *testing.T) {
	desc := &resolve.Descriptor{
		Owner:       "acme",
		Name:        "widget",
		Description: "A widget factory",
		Language:    "Go",
		Stars:       42,
	}

	out := Build(desc, "How does it work?", "package main", "main.go\n", "Repository: acme/widget\n")

	assert.Contains(t, out, "- Name: acme/widget")
	assert.Contains(t, out, "- URL: https://github.com/acme/widget")
	assert.Contains(t, out, "- Description: A widget factory")
	assert.Contains(t, out, "- Primary Language: Go")
	assert.Contains(t, out, "- Stars: 42")
	assert.Contains(t, out, "USER QUESTION: How does it work?")
	assert.Contains(t, out, "REPOSITORY STRUCTURE:\nmain.go")
	assert.Contains(t, out, "REPOSITORY SUMMARY:\nRepository: acme/widget")
	assert.Contains(t, out, "REPOSITORY CONTENT:\npackage main")
	assert.Contains(t, out, "INSTRUCTIONS:")
	assert.Contains(t, out, `directly addresses: "How does it work?"`)
}

func TestBuildFallbacks(t *testing.T) {
	desc := &resolve.Descriptor{Owner: "acme", Name: "widget"}

	out := Build(desc, "q", "", "", "")

	assert.Contains(t, out, "- Description: No description available")
	assert.Contains(t, out, "- Primary Language: Unknown")
	assert.Contains(t, out, "- Stars: Unknown")
}

func TestBuildDeterministic(t *testing.T) {
	desc := &resolve.Descriptor{Owner: "acme", Name: "widget", Stars: 7}
	a := Build(desc, "why?", "c", "t", "s")
	b := Build(desc, "why?", "c", "t", "s")
	assert.Equal(t, a, b)
}

func TestBuildOrdering(t *testing.T) {
	desc := &resolve.Descriptor{Owner: "acme", Name: "widget"}
	out := Build(desc, "q", "content", "tree", "summary")

	idx := func(s string) int { return strings.Index(out, s) }
	assert.Less(t, idx("REPOSITORY INFORMATION:"), idx("USER QUESTION:"))
	assert.Less(t, idx("USER QUESTION:"), idx("REPOSITORY STRUCTURE:"))
	assert.Less(t, idx("REPOSITORY STRUCTURE:"), idx("REPOSITORY SUMMARY:"))
	assert.Less(t, idx("REPOSITORY SUMMARY:"), idx("REPOSITORY CONTENT:"))
	assert.Less(t, idx("REPOSITORY CONTENT:"), idx("INSTRUCTIONS:"))
}
