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

// ScrapeRule holds the source-specific selectors supplied by
// configuration. ItemSelector locates one candidate per node; the title,
// link, and snippet selectors are evaluated relative to it. Empty title or
// link selectors fall back to the item node itself.
type ScrapeRule struct {
	ItemSelector    string
	TitleSelector   string
	LinkSelector    string
	SnippetSelector string
}

// ScrapeFetcher extracts item candidates from a listing page using
// structural rules.
type ScrapeFetcher struct {
	label    string
	pageURL  string
	rule     ScrapeRule
	maxItems int
	client   *http.Client
}

var _ Fetcher = (*ScrapeFetcher)(nil)

// NewScrapeFetcher builds a scrape fetcher for one configured page.
func NewScrapeFetcher(label, pageURL string, rule ScrapeRule, maxItems int, client *http.Client) *ScrapeFetcher {
	return &ScrapeFetcher{
		label:    label,
		pageURL:  pageURL,
		rule:     rule,
		maxItems: maxItems,
		client:   defaultClient(client),
	}
}

func (s *ScrapeFetcher) Label() string           { return s.label }
func (s *ScrapeFetcher) Kind() domain.SourceKind { return domain.KindScrape }

// Fetch downloads the page and extracts up to limit candidates in page
// order. Candidates without a title or resolvable link are skipped.
func (s *ScrapeFetcher) Fetch(ctx context.Context, limit int) ([]domain.RawItem, error) {
	doc, err := fetchDocument(ctx, s.client, s.pageURL)
	if err != nil {
		return nil, unavailable(s.label, err)
	}

	base, err := url.Parse(s.pageURL)
	if err != nil {
		return nil, unavailable(s.label, fmt.Errorf("invalid page url: %w", err))
	}

	limit = clampLimit(limit, s.maxItems)

	var items []domain.RawItem
	doc.Find(s.rule.ItemSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if limit > 0 && len(items) >= limit {
			return false
		}

		item, ok := extractItem(sel, base, s.rule, s.label)
		if ok {
			items = append(items, item)
		}
		return true
	})

	return items, nil
}

// extractItem applies a scrape rule to one candidate node. Shared by the
// scrape and query variants.
func extractItem(sel *goquery.Selection, base *url.URL, rule ScrapeRule, label string) (domain.RawItem, bool) {
	titleSel := sel
	if rule.TitleSelector != "" {
		titleSel = sel.Find(rule.TitleSelector).First()
	}
	title := strings.TrimSpace(titleSel.Text())

	linkSel := sel
	if rule.LinkSelector != "" {
		linkSel = sel.Find(rule.LinkSelector).First()
	}
	href, _ := linkSel.Attr("href")
	link := resolveLink(base, href)

	if title == "" || link == "" {
		return domain.RawItem{}, false
	}

	var snippet string
	if rule.SnippetSelector != "" {
		snippet = strings.TrimSpace(sel.Find(rule.SnippetSelector).First().Text())
	}

	return domain.RawItem{
		Title:       title,
		URL:         link,
		SourceLabel: label,
		Snippet:     snippet,
	}, true
}

// resolveLink makes relative hrefs absolute against the listing page URL.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return base.ResolveReference(ref).String()
}
