package catalog

import "strings"

// Clean normalizes free text: collapses whitespace runs and strips leftover
// markdown emphasis markers.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	replacer := strings.NewReplacer("**", "", "*", "", "`", "")
	return strings.TrimSpace(replacer.Replace(text))
}

var (
	lowComplexityWords  = []string{"simple", "basic", "easy"}
	highComplexityWords = []string{"complex", "advanced", "multi-agent", "orchestration"}
)

// complexityFor estimates build complexity from description keywords.
func complexityFor(description string) string {
	desc := strings.ToLower(description)
	for _, w := range lowComplexityWords {
		if strings.Contains(desc, w) {
			return ComplexityLow
		}
	}
	for _, w := range highComplexityWords {
		if strings.Contains(desc, w) {
			return ComplexityHigh
		}
	}
	return ComplexityMedium
}

// Enrich cleans a record's text fields and fills in the derived fields:
// searchable text and estimated complexity.
func Enrich(uc UseCase) UseCase {
	uc.Title = Clean(uc.Title)
	uc.Description = Clean(uc.Description)
	uc.Industry = Clean(uc.Industry)
	if uc.Framework == "" {
		uc.Framework = FrameworkUnknown
	}
	uc.SearchableText = uc.Title + " " + uc.Description + " " + uc.Industry
	uc.Complexity = complexityFor(uc.Description)
	return uc
}

// EnrichAll enriches every record in place order.
func EnrichAll(cases []UseCase) []UseCase {
	out := make([]UseCase, len(cases))
	for i, uc := range cases {
		out[i] = Enrich(uc)
	}
	return out
}
