package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"h2brief/internal/domain"
)

// QueryPlaceholder is substituted with the URL-escaped query term in a
// query source's endpoint template.
const QueryPlaceholder = "{query}"

// QueryFetcher issues a search-style request for a single query term and
// extracts results from the response page. One instance exists per
// configured keyword; instances run independently.
type QueryFetcher struct {
	label    string
	template string
	term     string
	rule     ScrapeRule
	maxItems int
	client   *http.Client
}

var _ Fetcher = (*QueryFetcher)(nil)

// NewQueryFetcher builds a fetcher for one query term. The label carries
// the term for provenance, e.g. "네이버뉴스(수전해)".
func NewQueryFetcher(sourceLabel, template, term string, rule ScrapeRule, maxItems int, client *http.Client) *QueryFetcher {
	return &QueryFetcher{
		label:    fmt.Sprintf("%s(%s)", sourceLabel, term),
		template: template,
		term:     term,
		rule:     rule,
		maxItems: maxItems,
		client:   defaultClient(client),
	}
}

func (q *QueryFetcher) Label() string           { return q.label }
func (q *QueryFetcher) Kind() domain.SourceKind { return domain.KindQuery }

// Term returns the query keyword this instance searches for.
func (q *QueryFetcher) Term() string { return q.term }

// Fetch requests the search page for the term and returns up to limit
// results.
func (q *QueryFetcher) Fetch(ctx context.Context, limit int) ([]domain.RawItem, error) {
	searchURL := strings.ReplaceAll(q.template, QueryPlaceholder, url.QueryEscape(q.term))

	doc, err := fetchDocument(ctx, q.client, searchURL)
	if err != nil {
		return nil, unavailable(q.label, err)
	}

	base, err := url.Parse(searchURL)
	if err != nil {
		return nil, unavailable(q.label, fmt.Errorf("invalid search url: %w", err))
	}

	limit = clampLimit(limit, q.maxItems)

	var items []domain.RawItem
	doc.Find(q.rule.ItemSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if limit > 0 && len(items) >= limit {
			return false
		}
		if item, ok := extractItem(sel, base, q.rule, q.label); ok {
			items = append(items, item)
		}
		return true
	})

	return items, nil
}
