package recommend

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var exportFixture = []Recommendation{
	{
		Title:       "Fraud Agent",
		Industry:    "Finance",
		Framework:   "CrewAI",
		Complexity:  "High",
		Description: "Detects fraud, with \"quoted\" text",
		GitHubLink:  "https://github.com/example/fraud",
		Relevance:   0.9234,
	},
	{
		Title:      "Support Bot",
		Industry:   "Retail",
		Framework:  "Unknown",
		Complexity: "Low",
		Relevance:  0.81,
	},
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "recs.json")
	if err := Export(exportFixture, path, FormatJSON); err != nil {
		t.Fatalf("Export() = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var recs []Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		t.Fatalf("exported JSON invalid: %v", err)
	}
	if len(recs) != 2 || recs[0].Title != "Fraud Agent" {
		t.Errorf("round trip = %+v", recs)
	}
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recs.csv")
	if err := Export(exportFixture, path, FormatCSV); err != nil {
		t.Fatalf("Export() = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV invalid: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("CSV has %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "use_case" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "Fraud Agent" || rows[1][6] != "0.9234" {
		t.Errorf("first row = %v", rows[1])
	}
}

func TestExportMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recs.md")
	if err := Export(exportFixture, path, FormatMarkdown); err != nil {
		t.Fatalf("Export() = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		"# AI Agent Recommendations",
		"## 1. Fraud Agent",
		"- **Industry:** Finance",
		"- **Relevance:** 92.3%",
		"- **GitHub:** https://github.com/example/fraud",
		"## 2. Support Bot",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
	// Second record has no link; the GitHub line must not appear for it.
	second := out[strings.Index(out, "## 2."):]
	if strings.Contains(second, "GitHub:") {
		t.Errorf("empty github link rendered:\n%s", second)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	if err := Export(exportFixture, filepath.Join(t.TempDir(), "x"), "yaml"); err == nil {
		t.Error("Export() = nil, want error for unknown format")
	}
}
