package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agentscout/agentscout/internal/recommend"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)

	versionCmd.Run(versionCmd, nil)

	if !strings.Contains(buf.String(), "agentscout") {
		t.Errorf("version output = %q", buf.String())
	}
}

func TestDefaultExportPath(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{recommend.FormatJSON, "recommendations.json"},
		{recommend.FormatCSV, "recommendations.csv"},
		{recommend.FormatMarkdown, "recommendations.md"},
	}
	for _, tt := range tests {
		if got := defaultExportPath(tt.format); got != tt.want {
			t.Errorf("defaultExportPath(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestRenderRecommendations(t *testing.T) {
	var buf bytes.Buffer
	renderRecommendations(&buf, []recommend.Recommendation{
		{
			Title:       "Fraud Detection Agent",
			Industry:    "Finance",
			Framework:   "CrewAI",
			Complexity:  "High",
			Description: "Detects fraudulent transactions in real time.",
			GitHubLink:  "https://github.com/example/fraud",
			Relevance:   0.923,
		},
		{Title: "Sparse Case", Relevance: 0.5},
	})

	out := buf.String()
	for _, want := range []string{
		"1. Fraud Detection Agent",
		"92.3%",
		"Industry: Finance",
		"https://github.com/example/fraud",
		"2. Sparse Case",
		"Framework: Unknown",
		"Complexity: Medium",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderRecommendations_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderRecommendations(&buf, nil)

	if !strings.Contains(buf.String(), "No matching use cases") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRenderList(t *testing.T) {
	var buf bytes.Buffer
	renderList(&buf, "Frameworks", []string{"AutoGen", "CrewAI"})

	out := buf.String()
	if !strings.Contains(out, "Frameworks") || !strings.Contains(out, "- CrewAI") {
		t.Errorf("output = %q", out)
	}

	buf.Reset()
	renderList(&buf, "Industries", nil)
	if !strings.Contains(buf.String(), "(none indexed yet, run 'agentscout setup')") {
		t.Errorf("empty list output = %q", buf.String())
	}
}

func TestRenderMarkdown_FallsBackOnNilRenderer(t *testing.T) {
	if got := renderMarkdown(nil, "**bold**"); got != "**bold**" {
		t.Errorf("renderMarkdown(nil) = %q", got)
	}
}
