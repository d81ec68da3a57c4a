package catalog

import (
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// defaultSectionIndustry is assigned to framework-section rows that carry
// no industry column of their own.
const defaultSectionIndustry = "AI / Workflow"

// tableCell holds the plain text of a table cell and the first link
// destination found inside it, if any.
type tableCell struct {
	text string
	link string
}

// ParseReadme extracts use cases from the catalog README markdown. It reads
// the main use-case table plus each framework section table, then removes
// duplicates by lowercased title (first occurrence wins).
func ParseReadme(md string) []UseCase {
	src := []byte(md)
	parser := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	doc := parser.Parse(text.NewReader(src))

	var cases []UseCase
	var heading string

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			heading = nodeText(node, src)
		case *east.Table:
			header, rows := readTable(node, src)
			cases = append(cases, tableUseCases(header, rows, heading)...)
		}
	}

	return dedupe(cases)
}

// tableUseCases converts one table's rows into use cases. A table under a
// framework section heading always takes that section's framework, even when
// its header looks like the main table's. Only tables outside any framework
// section are matched against the main-table header columns.
func tableUseCases(header []string, rows [][]tableCell, heading string) []UseCase {
	if fw := sectionFramework(heading); fw != "" {
		var cases []UseCase
		for _, row := range rows {
			if uc, ok := sectionRowUseCase(row, fw); ok {
				cases = append(cases, uc)
			}
		}
		return cases
	}

	if !isMainTable(header) {
		return nil
	}
	var cases []UseCase
	for _, row := range rows {
		if uc, ok := mainRowUseCase(row); ok {
			cases = append(cases, uc)
		}
	}
	return cases
}

func isMainTable(header []string) bool {
	joined := strings.ToLower(strings.Join(header, " "))
	return strings.Contains(joined, "use case") && strings.Contains(joined, "industry")
}

// sectionFramework reports which framework a section heading belongs to,
// or "" when the heading is not a framework use-case section.
func sectionFramework(heading string) string {
	h := strings.ToLower(heading)
	if !strings.Contains(h, "use") {
		return ""
	}
	for _, fw := range KnownFrameworks {
		if strings.Contains(h, strings.ToLower(fw)) {
			return fw
		}
	}
	return ""
}

func mainRowUseCase(row []tableCell) (UseCase, bool) {
	if len(row) < 4 {
		return UseCase{}, false
	}
	title := cleanTitle(row[0].text)
	if title == "" {
		return UseCase{}, false
	}
	desc := strings.TrimSpace(row[2].text)
	return UseCase{
		Title:       title,
		Industry:    strings.TrimSpace(row[1].text),
		Description: desc,
		GitHubLink:  cellURL(row[3]),
		Framework:   DetectFramework(title, desc),
	}, true
}

func sectionRowUseCase(row []tableCell, framework string) (UseCase, bool) {
	if len(row) < 3 {
		return UseCase{}, false
	}
	title := cleanTitle(row[0].text)
	if title == "" {
		return UseCase{}, false
	}
	industry := strings.TrimSpace(row[1].text)
	if industry == "" {
		industry = defaultSectionIndustry
	}
	uc := UseCase{
		Title:       title,
		Industry:    industry,
		Description: strings.TrimSpace(row[2].text),
		Framework:   framework,
	}
	if len(row) > 3 {
		uc.GitHubLink = cellURL(row[3])
	}
	return uc, true
}

// cellURL prefers the markdown link destination, falling back to a bare URL
// in the cell text.
func cellURL(c tableCell) string {
	if c.link != "" {
		return c.link
	}
	if strings.HasPrefix(c.text, "http") {
		return strings.TrimSpace(c.text)
	}
	return ""
}

// cleanTitle strips decorative emoji and surrounding whitespace. Bold
// markers are already gone at this point because the AST walk collects only
// text content.
func cleanTitle(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.So, r) || unicode.Is(unicode.Sk, r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

func dedupe(cases []UseCase) []UseCase {
	seen := make(map[string]struct{}, len(cases))
	unique := cases[:0]
	for _, uc := range cases {
		key := strings.ToLower(uc.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, uc)
	}
	return unique
}

// readTable flattens a goldmark table node into header strings and row
// cells.
func readTable(t *east.Table, src []byte) ([]string, [][]tableCell) {
	var header []string
	var rows [][]tableCell

	for child := t.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *east.TableHeader:
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				header = append(header, strings.TrimSpace(nodeText(cell, src)))
			}
		case *east.TableRow:
			var cells []tableCell
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, tableCell{
					text: strings.TrimSpace(nodeText(cell, src)),
					link: nodeLink(cell, src),
				})
			}
			rows = append(rows, cells)
		}
	}
	return header, rows
}

// nodeText collects the plain text content under a node.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// nodeLink returns the first link destination under a node, or "".
func nodeLink(n ast.Node, src []byte) string {
	var link string
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Link:
			link = string(t.Destination)
			return ast.WalkStop, nil
		case *ast.AutoLink:
			link = string(t.URL(src))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return link
}
