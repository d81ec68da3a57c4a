package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agentscout/agentscout/internal/recommend"
)

// Terminal styles for recommendation output.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C8CFF")).
			Bold(true)

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34A853")).
			Bold(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C8CFF")).
			Underline(true)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)
)

// renderRecommendations prints ranked recommendations as numbered entries.
func renderRecommendations(w io.Writer, recs []recommend.Recommendation) {
	if len(recs) == 0 {
		fmt.Fprintln(w, metaStyle.Render("No matching use cases found."))
		return
	}

	for i, rec := range recs {
		fmt.Fprintf(w, "%s %s\n",
			titleStyle.Render(fmt.Sprintf("%d. %s", i+1, rec.Title)),
			scoreStyle.Render(fmt.Sprintf("%.1f%%", rec.Relevance*100)))

		meta := []string{
			"Industry: " + valueOr(rec.Industry, "N/A"),
			"Framework: " + valueOr(rec.Framework, "Unknown"),
			"Complexity: " + valueOr(rec.Complexity, "Medium"),
		}
		fmt.Fprintln(w, "   "+metaStyle.Render(strings.Join(meta, "  ·  ")))

		if rec.Description != "" {
			fmt.Fprintln(w, "   "+rec.Description)
		}
		if rec.GitHubLink != "" {
			fmt.Fprintln(w, "   "+linkStyle.Render(rec.GitHubLink))
		}
		fmt.Fprintln(w)
	}
}

// renderList prints a heading followed by bulleted values.
func renderList(w io.Writer, heading string, values []string) {
	fmt.Fprintln(w, headingStyle.Render(heading))
	if len(values) == 0 {
		fmt.Fprintln(w, metaStyle.Render("  (none indexed yet, run 'agentscout setup')"))
		return
	}
	for _, v := range values {
		fmt.Fprintln(w, "  - "+v)
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
