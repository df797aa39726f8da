package docfilter

import (
	"strings"

	"h2brief/internal/domain"
	"h2brief/internal/keyword"
)

// Filter retains the paragraphs of a long document that contain at least
// one keyword-index hit. Used for PDF briefing text supplied by an external
// extractor.
type Filter struct {
	index *keyword.Index
}

// NewFilter wires the shared keyword index.
func NewFilter(index *keyword.Index) *Filter {
	return &Filter{index: index}
}

// Filter splits documentText into blank-line-delimited paragraphs and keeps
// those with at least one vocabulary hit, in document order. A document
// with no qualifying paragraph yields an empty slice; that is a normal
// outcome, not a failure.
func (f *Filter) Filter(documentText string) []domain.ParagraphMatch {
	var matches []domain.ParagraphMatch

	for _, paragraph := range splitParagraphs(documentText) {
		result := f.index.Match(paragraph)
		if result.Empty() {
			continue
		}
		matches = append(matches, domain.ParagraphMatch{
			Text:         paragraph,
			MatchedTerms: result.AllTerms(),
		})
	}

	return matches
}

// splitParagraphs treats a run of one or more blank lines as a paragraph
// boundary. Leading and trailing boundaries produce no empty paragraphs.
func splitParagraphs(text string) []string {
	var (
		paragraphs []string
		current    []string
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		paragraphs = append(paragraphs, strings.Join(current, "\n"))
		current = current[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, strings.TrimRight(line, " \t\r"))
	}
	flush()

	return paragraphs
}
