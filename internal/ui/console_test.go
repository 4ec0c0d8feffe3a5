package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/repoexplain/internal/cost"
	"git.home.luguber.info/inful/repoexplain/internal/filter"
	"git.home.luguber.info/inful/repoexplain/internal/github"
	"git.home.luguber.info/inful/repoexplain/internal/resolve"
)

func TestResolvedPanel(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Resolved(&resolve.Descriptor{
		Owner:       "acme",
		Name:        "widget",
		Description: "A widget factory",
		Language:    "Go",
		Stars:       42,
	})

	out := buf.String()
	assert.Contains(t, out, "acme/widget")
	assert.Contains(t, out, "https://github.com/acme/widget")
	assert.Contains(t, out, "A widget factory")
	assert.Contains(t, out, "Stars: 42")
}

func TestSearchResultsTable(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.SearchResults([]github.SearchResult{
		{Owner: "facebook", Name: "react", Stars: 220000, Description: "The library for web UIs"},
		{Owner: "vuejs", Name: "vue", Stars: 210000},
	})

	out := buf.String()
	assert.Contains(t, out, "Found 2 repositories")
	assert.Contains(t, out, "facebook/react")
	assert.Contains(t, out, "vuejs/vue")
	assert.Contains(t, out, "1.")
	assert.Contains(t, out, "2.")
}

func TestRateLimitWarning(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.RateLimitWarning(2, 0)
	assert.Contains(t, buf.String(), "2 requests remaining")
}

func TestExtractionPlan(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	plan := filter.BuildPlan("how does the api work?", "Go", 1<<20, 50<<20)
	c.ExtractionPlan(plan)

	out := buf.String()
	assert.Contains(t, out, "Include patterns:")
	assert.Contains(t, out, "Exclude patterns:")
	assert.Contains(t, out, "api")
	assert.Contains(t, out, "Topic-specific includes active")
}

func TestCostReport(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.CostReport(cost.Estimate{PromptTokens: 5000, ResponseTokens: 500, USD: 0.0325}, "gpt-4o")

	out := buf.String()
	assert.Contains(t, out, "gpt-4o")
	assert.Contains(t, out, "5000")
	assert.Contains(t, out, "$0.0325")
}

type fixedSelector struct {
	index int
	calls int
}

func (f *fixedSelector) Select([]github.SearchResult) (int, error) {
	f.calls++
	return f.index, nil
}

func TestTableSelectorPrintsBeforeDelegating(t *testing.T) {
	var buf bytes.Buffer
	inner := &fixedSelector{index: 1}
	sel := TableSelector{Console: NewConsole(&buf), Inner: inner}

	idx, err := sel.Select([]github.SearchResult{
		{Owner: "facebook", Name: "react", Stars: 220000},
		{Owner: "remix-run", Name: "react-router", Stars: 52000},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 1, inner.calls)

	out := buf.String()
	assert.Contains(t, out, "Found 2 repositories")
	assert.Contains(t, out, "facebook/react")
	assert.Contains(t, out, "remix-run/react-router")
}

func TestAutoConfirmer(t *testing.T) {
	yes, err := AutoConfirmer{Answer: true}.Confirm("t", "q")
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := AutoConfirmer{Answer: false}.Confirm("t", "q")
	require.NoError(t, err)
	assert.False(t, no)
}
