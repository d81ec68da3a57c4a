package recommend

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Export formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Export writes recommendations to path in the given format, creating
// parent directories as needed.
func Export(recs []Recommendation, path, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	var data []byte
	var err error
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(recs, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding recommendations: %w", err)
		}
	case FormatCSV:
		data, err = marshalCSV(recs)
		if err != nil {
			return err
		}
	case FormatMarkdown:
		data = []byte(marshalMarkdown(recs))
	default:
		return fmt.Errorf("unsupported export format %q (expected json, csv or markdown)", format)
	}

	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}

func marshalCSV(recs []Recommendation) ([]byte, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	header := []string{"use_case", "industry", "framework", "complexity", "description", "github_link", "relevance_score"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range recs {
		row := []string{
			r.Title, r.Industry, r.Framework, r.Complexity, r.Description, r.GitHubLink,
			strconv.FormatFloat(r.Relevance, 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return []byte(b.String()), nil
}

func marshalMarkdown(recs []Recommendation) string {
	var b strings.Builder
	b.WriteString("# AI Agent Recommendations\n\n")
	for i, r := range recs {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, r.Title)
		fmt.Fprintf(&b, "- **Industry:** %s\n", valueOr(r.Industry, "N/A"))
		fmt.Fprintf(&b, "- **Framework:** %s\n", valueOr(r.Framework, "Unknown"))
		fmt.Fprintf(&b, "- **Complexity:** %s\n", valueOr(r.Complexity, "Medium"))
		fmt.Fprintf(&b, "- **Relevance:** %.1f%%\n", r.Relevance*100)
		fmt.Fprintf(&b, "- **Description:** %s\n", valueOr(r.Description, "N/A"))
		if r.GitHubLink != "" {
			fmt.Fprintf(&b, "- **GitHub:** %s\n", r.GitHubLink)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
