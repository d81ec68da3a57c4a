package catalog

import (
	"strings"
	"testing"
	"unicode/utf8"
)

const sampleReadme = `# 500 AI Agents Projects

Some intro text.

## Use Case Table

| Use Case | Industry | Description | GitHub Link |
|----------|----------|-------------|-------------|
| **Customer Support Agent** | E-commerce | A simple agent that answers customer questions | [Repo](https://github.com/example/support) |
| **Fraud Detection with CrewAI** | Finance | Advanced multi-agent orchestration for fraud detection | [Code](https://github.com/example/fraud) |
| **Inventory Tracker** | Retail | Tracks stock levels | https://github.com/example/inventory |

## 🤖 CrewAI UseCases

| Use Case | Industry | Description | GitHub |
|----------|----------|-------------|--------|
| 🤖 **Trip Planner Crew** | Travel | Plans multi-city trips with agent crews | [Link](https://github.com/example/trip) |
| **Customer Support Agent** | E-commerce | Duplicate of the main table entry | [Repo](https://github.com/example/support) |

## 🧠 LangGraph UseCases

| Use Case | Industry | Description |
|----------|----------|-------------|
| **Research Graph** | | Cyclic research workflow |

## Contributing

Not a use-case table:

| Column A | Column B |
|----------|----------|
| foo      | bar      |
`

func TestParseReadme(t *testing.T) {
	cases := ParseReadme(sampleReadme)

	byTitle := make(map[string]UseCase, len(cases))
	for _, uc := range cases {
		byTitle[uc.Title] = uc
	}

	if len(cases) != 5 {
		t.Fatalf("ParseReadme() returned %d cases, want 5: %+v", len(cases), byTitle)
	}

	support, ok := byTitle["Customer Support Agent"]
	if !ok {
		t.Fatal("missing Customer Support Agent")
	}
	if support.Industry != "E-commerce" {
		t.Errorf("industry = %q, want E-commerce", support.Industry)
	}
	if support.GitHubLink != "https://github.com/example/support" {
		t.Errorf("github link = %q", support.GitHubLink)
	}
	// First occurrence (main table, framework undetected) wins over the
	// duplicate in the CrewAI section.
	if support.Framework != FrameworkUnknown {
		t.Errorf("framework = %q, want %q", support.Framework, FrameworkUnknown)
	}

	fraud := byTitle["Fraud Detection with CrewAI"]
	if fraud.Framework != FrameworkCrewAI {
		t.Errorf("fraud framework = %q, want CrewAI", fraud.Framework)
	}

	inventory := byTitle["Inventory Tracker"]
	if inventory.GitHubLink != "https://github.com/example/inventory" {
		t.Errorf("bare URL not extracted: %q", inventory.GitHubLink)
	}

	trip, ok := byTitle["Trip Planner Crew"]
	if !ok {
		t.Fatalf("missing Trip Planner Crew (emoji in title cell); have %v", byTitle)
	}
	if trip.Framework != FrameworkCrewAI {
		t.Errorf("trip framework = %q, want CrewAI", trip.Framework)
	}
	if trip.Industry != "Travel" {
		t.Errorf("trip industry = %q, want Travel", trip.Industry)
	}

	research, ok := byTitle["Research Graph"]
	if !ok {
		t.Fatal("missing Research Graph from LangGraph section")
	}
	if research.Framework != FrameworkLangGraph {
		t.Errorf("research framework = %q, want LangGraph", research.Framework)
	}
	if research.Industry != defaultSectionIndustry {
		t.Errorf("research industry = %q, want %q", research.Industry, defaultSectionIndustry)
	}

	if _, ok := byTitle["foo"]; ok {
		t.Error("non-use-case table leaked into results")
	}
}

func TestParseReadme_SectionTableWithMainStyleHeader(t *testing.T) {
	// A framework section whose table repeats the main table's header
	// columns must still take the section's framework, and its rows must
	// not be dropped for lacking a fourth column.
	const md = `# Catalog

## 🧠 LangGraph UseCases

| Use Case | Industry | Description |
|----------|----------|-------------|
| **State Machine Agent** | Legal | Contract review as a cyclic graph |
`

	cases := ParseReadme(md)
	if len(cases) != 1 {
		t.Fatalf("ParseReadme() returned %d cases, want 1: %+v", len(cases), cases)
	}
	if cases[0].Framework != FrameworkLangGraph {
		t.Errorf("framework = %q, want %q", cases[0].Framework, FrameworkLangGraph)
	}
	if cases[0].Title != "State Machine Agent" {
		t.Errorf("title = %q", cases[0].Title)
	}
}

func TestParseReadme_Empty(t *testing.T) {
	if cases := ParseReadme("# Nothing here\n\nJust prose."); len(cases) != 0 {
		t.Errorf("ParseReadme() = %d cases, want 0", len(cases))
	}
}

func TestDetectFramework(t *testing.T) {
	tests := []struct {
		title, desc string
		want        string
	}{
		{"Support Bot", "built with CrewAI crews", FrameworkCrewAI},
		{"AutoGen Pipeline", "multi-agent chat", FrameworkAutoGen},
		{"Graph Agent", "uses langgraph state machines", FrameworkLangGraph},
		{"Fast Assistant", "powered by Agno", FrameworkAgno},
		{"Plain Bot", "no framework mentioned", FrameworkUnknown},
	}
	for _, tt := range tests {
		if got := DetectFramework(tt.title, tt.desc); got != tt.want {
			t.Errorf("DetectFramework(%q, %q) = %q, want %q", tt.title, tt.desc, got, tt.want)
		}
	}
}

func TestUseCaseID(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Customer Support Agent", "customer-support-agent"},
		{"  Fraud / Risk (v2)  ", "fraud-risk-v2"},
		{"Trip Planner Crew", "trip-planner-crew"},
	}
	for _, tt := range tests {
		uc := UseCase{Title: tt.title}
		if got := uc.ID(); got != tt.want {
			t.Errorf("ID(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestDocumentIDs_DisambiguatesSlugCollisions(t *testing.T) {
	cases := []UseCase{
		{Title: "Fraud/Risk Agent"},
		{Title: "Fraud Risk Agent"},
		{Title: "Fraud Risk: Agent"},
		{Title: "Unique Agent"},
	}

	got := DocumentIDs(cases)
	want := []string{"fraud-risk-agent", "fraud-risk-agent-2", "fraud-risk-agent-3", "unique-agent"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DocumentIDs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDocumentIDs_SuffixDoesNotShadowExistingSlug(t *testing.T) {
	cases := []UseCase{
		{Title: "Report Agent"},
		{Title: "Report Agent 2"},
		{Title: "Report: Agent"},
	}

	got := DocumentIDs(cases)
	seen := make(map[string]struct{}, len(got))
	for _, id := range got {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q in %v", id, got)
		}
		seen[id] = struct{}{}
	}
}

func TestUseCaseMetadata_TruncatesDescriptionOnRuneBoundary(t *testing.T) {
	uc := UseCase{
		Title:       "Localized Bot",
		Description: strings.Repeat("世", maxMetaDescription+50),
	}

	desc := uc.Metadata()[MetaDescription]
	if !utf8.ValidString(desc) {
		t.Fatalf("truncated description is not valid UTF-8: %q", desc[len(desc)-6:])
	}
	if got := utf8.RuneCountInString(desc); got != maxMetaDescription {
		t.Errorf("rune count = %d, want %d", got, maxMetaDescription)
	}
}

func TestUseCaseMetadata_ShortDescriptionUntouched(t *testing.T) {
	uc := UseCase{Description: "short"}
	if got := uc.Metadata()[MetaDescription]; got != "short" {
		t.Errorf("description = %q, want %q", got, "short")
	}
}

func TestUseCaseDocument(t *testing.T) {
	uc := UseCase{
		Title:       "Support Bot",
		Industry:    "Retail",
		Description: "Answers questions",
		Framework:   FrameworkCrewAI,
		Complexity:  ComplexityLow,
	}
	doc := uc.Document()
	for _, want := range []string{"Use Case: Support Bot", "Industry: Retail", "Framework: CrewAI", "Complexity: Low"} {
		if !strings.Contains(doc, want) {
			t.Errorf("Document() missing %q:\n%s", want, doc)
		}
	}
}
