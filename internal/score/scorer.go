package score

import (
	"sort"
	"strings"

	"h2brief/internal/domain"
	"h2brief/internal/keyword"
)

// Default weights mirror the established editorial policy: a watched
// company mention is a stronger actionability signal than generic
// technology vocabulary.
const (
	DefaultEntityWeight    = 2.0
	DefaultTechnicalWeight = 1.0
)

// Scorer annotates items with keyword matches and a relevance score.
type Scorer struct {
	index        *keyword.Index
	entityWeight float64
	techWeight   float64
}

// NewScorer builds a scorer; non-positive weights fall back to defaults.
func NewScorer(index *keyword.Index, entityWeight, techWeight float64) *Scorer {
	if entityWeight <= 0 {
		entityWeight = DefaultEntityWeight
	}
	if techWeight <= 0 {
		techWeight = DefaultTechnicalWeight
	}
	return &Scorer{index: index, entityWeight: entityWeight, techWeight: techWeight}
}

// Score runs one keyword match over the concatenated text fields of the
// item (title, snippet, and body when available) and returns a new
// ScoredItem. Each distinct matched term counts once regardless of how many
// times it occurs.
func (s *Scorer) Score(item domain.RawItem, body string) domain.ScoredItem {
	parts := []string{item.Title}
	if item.Snippet != "" {
		parts = append(parts, item.Snippet)
	}
	if body != "" {
		parts = append(parts, body)
	}

	result := s.index.Match(strings.Join(parts, "\n"))

	return domain.ScoredItem{
		RawItem:          item,
		Body:             body,
		TechnicalMatches: result.TechnicalMatches,
		EntityMatches:    result.EntityMatches,
		RelevanceScore: s.entityWeight*float64(len(result.EntityMatches)) +
			s.techWeight*float64(len(result.TechnicalMatches)),
	}
}

// Rank orders items by descending relevance score. The sort is stable, so
// items with equal scores keep their orchestrator order and source priority
// remains the tie-break.
func (s *Scorer) Rank(items []domain.ScoredItem) []domain.ScoredItem {
	ranked := make([]domain.ScoredItem, len(items))
	copy(ranked, items)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	return ranked
}
