package domain

import (
	"net/url"
	"strings"
	"time"
)

// SourceKind enumerates the supported fetcher variants.
type SourceKind string

const (
	KindFeed   SourceKind = "feed"
	KindScrape SourceKind = "scrape"
	KindQuery  SourceKind = "query"
)

// Valid reports whether the kind is one of the known variants.
func (k SourceKind) Valid() bool {
	switch k {
	case KindFeed, KindScrape, KindQuery:
		return true
	}
	return false
}

// RawItem is one candidate news unit as produced by a source fetcher.
// Immutable once created.
type RawItem struct {
	Title       string
	URL         string
	SourceLabel string
	Snippet     string
	PublishedAt time.Time
}

// IdentityKey derives the dedup key: the normalized URL, or the normalized
// title when the URL is absent.
func (r RawItem) IdentityKey() string {
	if key := NormalizeURL(r.URL); key != "" {
		return key
	}
	return "title:" + NormalizeTitle(r.Title)
}

// ScoredItem is a RawItem annotated with keyword hits and a relevance score.
// Rescoring produces a new value; ScoredItem is never mutated.
type ScoredItem struct {
	RawItem
	TechnicalMatches []string
	EntityMatches    []string
	RelevanceScore   float64

	// Body holds externally scraped article text used for scoring; empty
	// when content extraction was unavailable.
	Body string

	// Summary is filled by the summarization collaborator. SummaryFailed
	// marks items that proceed without one so rendering can fall back to
	// raw text.
	Summary       string
	SummaryFailed bool
}

// ParagraphMatch is a document paragraph retained because it contains at
// least one vocabulary hit. Ordering follows the source document.
type ParagraphMatch struct {
	Text         string
	MatchedTerms []string
}

// DocumentBrief is the per-document artifact: the retained paragraphs plus
// an optional generated summary.
type DocumentBrief struct {
	Name          string
	Paragraphs    []ParagraphMatch
	MatchedTerms  []string
	Summary       string
	SummaryFailed bool
}

// FetchFailure records one unavailable source for the failure sink.
type FetchFailure struct {
	SourceLabel string
	Reason      string
	Timestamp   time.Time
}

// NormalizeURL canonicalizes a URL for identity comparison: lowercased
// scheme and host, fragment and tracking query parameters dropped, trailing
// slash trimmed. Returns "" for unparseable or empty input.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for param := range q {
		if strings.HasPrefix(strings.ToLower(param), "utm_") {
			q.Del(param)
		}
	}
	u.RawQuery = q.Encode()

	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// NormalizeTitle lowercases and collapses whitespace so near-identical
// titles from different sources compare equal.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
