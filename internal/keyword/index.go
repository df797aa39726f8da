package keyword

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Vocabulary holds the two disjoint term lists the index matches against.
// Values are treated as immutable after the index is built.
type Vocabulary struct {
	TechnicalTerms []string
	EntityTerms    []string
}

// MatchResult reports the distinct vocabulary terms found in a text.
// Terms keep their original (configured) spelling.
type MatchResult struct {
	TechnicalMatches []string
	EntityMatches    []string
}

// Empty reports whether no term from either vocabulary matched.
func (m MatchResult) Empty() bool {
	return len(m.TechnicalMatches) == 0 && len(m.EntityMatches) == 0
}

// AllTerms returns entity matches followed by technical matches.
func (m MatchResult) AllTerms() []string {
	out := make([]string, 0, len(m.EntityMatches)+len(m.TechnicalMatches))
	out = append(out, m.EntityMatches...)
	out = append(out, m.TechnicalMatches...)
	return out
}

type vocabClass int

const (
	classTechnical vocabClass = iota
	classEntity
)

type term struct {
	original   string
	normalized string
	class      vocabClass
}

// Index performs case-insensitive substring matching of two keyword
// vocabularies against arbitrary text. When one term is a substring of
// another and both would match the same span, only the longer term is
// recorded for that span; shorter terms still count for non-overlapping
// occurrences elsewhere. The index holds no mutable state, so Match is
// deterministic and safe for concurrent use.
type Index struct {
	terms []term
}

// NewIndex builds an index over the vocabulary. Empty and duplicate terms
// are dropped.
func NewIndex(vocab Vocabulary) *Index {
	idx := &Index{}
	seen := map[string]struct{}{}

	add := func(raw string, class vocabClass) {
		n := normalize(raw)
		if n == "" {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		idx.terms = append(idx.terms, term{original: strings.TrimSpace(raw), normalized: n, class: class})
	}

	for _, t := range vocab.TechnicalTerms {
		add(t, classTechnical)
	}
	for _, t := range vocab.EntityTerms {
		add(t, classEntity)
	}

	// Longest terms first so overlap precedence falls out of scan order.
	sort.SliceStable(idx.terms, func(i, j int) bool {
		ti, tj := idx.terms[i].normalized, idx.terms[j].normalized
		if len(ti) != len(tj) {
			return len(ti) > len(tj)
		}
		return ti < tj
	})

	return idx
}

// Match scans text against both vocabularies. An empty text yields an empty
// result, not an error.
func (idx *Index) Match(text string) MatchResult {
	var result MatchResult

	target := normalize(text)
	if target == "" {
		return result
	}

	var claimed []span
	for _, t := range idx.terms {
		if matchTerm(target, t.normalized, &claimed) {
			switch t.class {
			case classEntity:
				result.EntityMatches = append(result.EntityMatches, t.original)
			default:
				result.TechnicalMatches = append(result.TechnicalMatches, t.original)
			}
		}
	}

	return result
}

type span struct{ start, end int }

func (s span) contains(other span) bool {
	return other.start >= s.start && other.end <= s.end
}

// matchTerm reports whether needle occurs in target outside every span
// already claimed by a longer term, and claims all its occurrences when it
// does. Terms are scanned longest-first, so a claimed span always belongs
// to a term at least as long as needle.
func matchTerm(target, needle string, claimed *[]span) bool {
	matched := false
	var spans []span

	for from := 0; ; {
		i := strings.Index(target[from:], needle)
		if i < 0 {
			break
		}
		occ := span{start: from + i, end: from + i + len(needle)}
		spans = append(spans, occ)
		if !covered(occ, *claimed) {
			matched = true
		}
		from = occ.start + 1
	}

	if matched {
		*claimed = append(*claimed, spans...)
	}
	return matched
}

func covered(occ span, claimed []span) bool {
	for _, c := range claimed {
		if c.contains(occ) {
			return true
		}
	}
	return false
}

// normalize lowercases, applies Unicode NFC so composed and decomposed
// Hangul/Latin forms compare equal, and collapses runs of whitespace.
func normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
