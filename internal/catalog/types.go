// Package catalog ingests the curated AI agent use-case catalog: fetching
// the upstream README, parsing its markdown tables into use-case records,
// cleaning and enriching them, and persisting JSON snapshots.
package catalog

import (
	"fmt"
	"strings"
)

// Framework names detected in the catalog. Unknown marks records whose
// title and description mention none of the known frameworks.
const (
	FrameworkCrewAI    = "CrewAI"
	FrameworkAutoGen   = "AutoGen"
	FrameworkLangGraph = "LangGraph"
	FrameworkAgno      = "Agno"
	FrameworkUnknown   = "Unknown"
)

// KnownFrameworks lists the frameworks with dedicated sections in the
// upstream README, in the order they are scanned.
var KnownFrameworks = []string{
	FrameworkCrewAI,
	FrameworkAutoGen,
	FrameworkLangGraph,
	FrameworkAgno,
}

// Complexity levels assigned by the enrichment heuristic.
const (
	ComplexityLow    = "Low"
	ComplexityMedium = "Medium"
	ComplexityHigh   = "High"
)

// UseCase is a single catalog record. JSON field names match the snapshot
// format produced by ingestion.
type UseCase struct {
	Title          string `json:"use_case"`
	Industry       string `json:"industry"`
	Description    string `json:"description"`
	GitHubLink     string `json:"github_link"`
	Framework      string `json:"framework"`
	Complexity     string `json:"complexity,omitempty"`
	SearchableText string `json:"searchable_text,omitempty"`
}

// ID returns a deterministic identifier derived from the title, stable
// across re-ingestion so indexing is an upsert rather than a duplicate.
func (u UseCase) ID() string {
	slug := strings.ToLower(strings.TrimSpace(u.Title))
	var b strings.Builder
	b.Grow(len(slug))
	lastDash := true
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// DocumentIDs returns one index identifier per use case, in input order.
// Titles that differ only in punctuation slug to the same ID; collisions get
// a numeric suffix so no record silently overwrites another on upsert. The
// assignment is deterministic for a fixed input order, which keeps
// re-ingestion an in-place update.
func DocumentIDs(cases []UseCase) []string {
	ids := make([]string, len(cases))
	seen := make(map[string]struct{}, len(cases))
	for i, uc := range cases {
		id := uc.ID()
		if _, taken := seen[id]; taken {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s-%d", id, n)
				if _, taken := seen[candidate]; !taken {
					id = candidate
					break
				}
			}
		}
		seen[id] = struct{}{}
		ids[i] = id
	}
	return ids
}

// Metadata keys used when indexing records into the vector store.
const (
	MetaTitle       = "use_case"
	MetaIndustry    = "industry"
	MetaFramework   = "framework"
	MetaComplexity  = "complexity"
	MetaGitHubLink  = "github_link"
	MetaDescription = "description"
)

// maxMetaDescription caps the description stored in row metadata, counted
// in runes so truncation never splits a multi-byte character; the full text
// still lives in the embedded content.
const maxMetaDescription = 500

// Metadata returns the structured fields stored alongside the embedding.
func (u UseCase) Metadata() map[string]string {
	desc := u.Description
	if runes := []rune(desc); len(runes) > maxMetaDescription {
		desc = string(runes[:maxMetaDescription])
	}
	return map[string]string{
		MetaTitle:       u.Title,
		MetaIndustry:    u.Industry,
		MetaFramework:   u.Framework,
		MetaComplexity:  u.Complexity,
		MetaGitHubLink:  u.GitHubLink,
		MetaDescription: desc,
	}
}

// Document returns the text block that gets embedded and stored as row
// content.
func (u UseCase) Document() string {
	return fmt.Sprintf("Use Case: %s\nIndustry: %s\nDescription: %s\nFramework: %s\nComplexity: %s",
		u.Title, u.Industry, u.Description, u.Framework, u.Complexity)
}

// DetectFramework returns the framework mentioned in the title or
// description, or Unknown if none matches.
func DetectFramework(title, description string) string {
	haystack := strings.ToLower(title + " " + description)
	for _, fw := range KnownFrameworks {
		if strings.Contains(haystack, strings.ToLower(fw)) {
			return fw
		}
	}
	return FrameworkUnknown
}
