// Package ui renders panels, tables, and interactive prompts for the CLI.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"git.home.luguber.info/inful/repoexplain/internal/cost"
	"git.home.luguber.info/inful/repoexplain/internal/filter"
	"git.home.luguber.info/inful/repoexplain/internal/github"
	"git.home.luguber.info/inful/repoexplain/internal/resolve"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	successStyle = panelStyle.BorderForeground(lipgloss.Color("2"))
	warningStyle = panelStyle.BorderForeground(lipgloss.Color("3"))
	errorStyle   = panelStyle.BorderForeground(lipgloss.Color("1"))
	infoStyle    = panelStyle.BorderForeground(lipgloss.Color("4"))

	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// Console writes styled status output. Out is injectable for tests.
type Console struct {
	Out io.Writer
}

// NewConsole creates a console writing to out (stdout when nil).
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{Out: out}
}

func (c *Console) panel(style lipgloss.Style, title, body string) {
	content := body
	if title != "" {
		content = titleStyle.Render(title) + "\n" + body
	}
	fmt.Fprintln(c.Out, style.Render(content))
}

// Success prints a green panel.
func (c *Console) Success(title, body string) { c.panel(successStyle, title, body) }

// Warning prints a yellow panel.
func (c *Console) Warning(title, body string) { c.panel(warningStyle, title, body) }

// Error prints a red panel.
func (c *Console) Error(title, body string) { c.panel(errorStyle, title, body) }

// Info prints a blue panel.
func (c *Console) Info(title, body string) { c.panel(infoStyle, title, body) }

// Printf writes unstyled output.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// Resolved announces the repository a reference resolved to.
func (c *Console) Resolved(desc *resolve.Descriptor) {
	body := fmt.Sprintf("Repository: %s\nURL: %s", desc.FullName(), desc.GitHubURL())
	if desc.Description != "" {
		body += "\nDescription: " + desc.Description
	}
	if desc.Language != "" {
		body += "\nLanguage: " + desc.Language
	}
	if desc.Stars > 0 {
		body += fmt.Sprintf("\nStars: %d", desc.Stars)
	}
	c.Success("Repository Resolved", body)
}

// SearchResults prints a numbered table of search matches.
func (c *Console) SearchResults(results []github.SearchResult) {
	var b strings.Builder
	for i, r := range results {
		desc := r.Description
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		fmt.Fprintf(&b, "%2d. %-40s %8d stars", i+1, r.FullName(), r.Stars)
		if desc != "" {
			b.WriteString("  " + dimStyle.Render(desc))
		}
		if i < len(results)-1 {
			b.WriteString("\n")
		}
	}
	c.Info(fmt.Sprintf("Found %d repositories", len(results)), b.String())
}

// RateLimitWarning warns that the search quota is nearly exhausted.
func (c *Console) RateLimitWarning(remaining int, reset int64) {
	body := fmt.Sprintf("GitHub search rate limit nearly exhausted: %d requests remaining.", remaining)
	if reset > 0 {
		body += fmt.Sprintf("\nQuota resets at %s.", time.Unix(reset, 0).Format(time.Kitchen))
	}
	c.Warning("Rate Limit", body)
}

// ExtractionPlan shows what extraction would do, for dry runs.
func (c *Console) ExtractionPlan(plan *filter.Plan) {
	var b strings.Builder
	fmt.Fprintf(&b, "Include patterns: %d\n", len(plan.Include))
	fmt.Fprintf(&b, "Exclude patterns: %d\n", len(plan.Exclude))
	fmt.Fprintf(&b, "Max file size:    %d bytes\n", plan.MaxFileBytes)
	fmt.Fprintf(&b, "Max total size:   %d bytes\n", plan.MaxTotalBytes)
	if len(plan.Keywords) > 0 {
		fmt.Fprintf(&b, "Question keywords: %s\n", strings.Join(plan.Keywords, ", "))
	}
	if plan.Topical {
		b.WriteString("Topic-specific includes active")
	} else {
		b.WriteString("All non-excluded text files included")
	}
	c.Info("Extraction Plan", b.String())
}

// CostReport shows the pre-generation token and price estimate.
func (c *Console) CostReport(est cost.Estimate, model string) {
	body := fmt.Sprintf(
		"Model:            %s\nPrompt tokens:    ~%d\nResponse tokens:  ~%d\nEstimated cost:   $%.4f",
		model, est.PromptTokens, est.ResponseTokens, est.USD)
	c.Info("Cost Estimate", body)
}
