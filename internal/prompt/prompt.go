// Package prompt assembles the explanation prompt sent to the model.
package prompt

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/repoexplain/internal/resolve"
)

// Build produces the full prompt for a repository question. Output is
// deterministic for identical inputs.
func Build(desc *resolve.Descriptor, question, content, tree, summary string) string {
	description := desc.Description
	if description == "" {
		description = "No description available"
	}
	language := desc.Language
	if language == "" {
		language = "Unknown"
	}
	stars := "Unknown"
	if desc.Stars > 0 {
		stars = fmt.Sprintf("%d", desc.Stars)
	}

	var b strings.Builder
	b.WriteString("You are an expert software engineer helping someone understand a GitHub repository.\n\n")

	fmt.Fprintf(&b, "REPOSITORY INFORMATION:\n")
	fmt.Fprintf(&b, "- Name: %s\n", desc.FullName())
	fmt.Fprintf(&b, "- URL: %s\n", desc.GitHubURL())
	fmt.Fprintf(&b, "- Description: %s\n", description)
	fmt.Fprintf(&b, "- Primary Language: %s\n", language)
	fmt.Fprintf(&b, "- Stars: %s\n\n", stars)

	fmt.Fprintf(&b, "USER QUESTION: %s\n\n", question)

	fmt.Fprintf(&b, "REPOSITORY STRUCTURE:\n%s\n\n", tree)
	fmt.Fprintf(&b, "REPOSITORY SUMMARY:\n%s\n\n", summary)
	fmt.Fprintf(&b, "REPOSITORY CONTENT:\n%s\n\n", content)

	b.WriteString(`INSTRUCTIONS:
1. Answer the user's question about this repository in detail
2. Use specific examples from the actual code when relevant
3. Explain concepts clearly for someone trying to understand or use this repository
4. If the question is about usage, provide practical examples
5. If the question is about architecture, explain the design patterns and structure
6. Format your response in clear, well-structured Markdown
7. Use code blocks with appropriate syntax highlighting when showing examples
8. Be thorough but concise - focus on what's most relevant to the question

`)

	fmt.Fprintf(&b, "Please provide a comprehensive explanation that directly addresses: %q\n", question)

	return b.String()
}
