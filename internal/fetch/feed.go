package fetch

import (
	"context"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"h2brief/internal/domain"
)

// FeedFetcher pulls entries from a syndication feed (RSS/Atom) at a fixed
// URL. Entries are returned in feed order; feeds are expected to be
// most-recent-first and the fetcher does not re-sort.
type FeedFetcher struct {
	label    string
	feedURL  string
	maxItems int
	parser   *gofeed.Parser
}

var _ Fetcher = (*FeedFetcher)(nil)

// NewFeedFetcher builds a feed fetcher; maxItems caps results below the
// orchestrator's per-source limit when positive.
func NewFeedFetcher(label, feedURL string, maxItems int, client *http.Client) *FeedFetcher {
	parser := gofeed.NewParser()
	parser.Client = defaultClient(client)
	parser.UserAgent = defaultUserAgent

	return &FeedFetcher{
		label:    label,
		feedURL:  feedURL,
		maxItems: maxItems,
		parser:   parser,
	}
}

func (f *FeedFetcher) Label() string           { return f.label }
func (f *FeedFetcher) Kind() domain.SourceKind { return domain.KindFeed }

// Fetch parses the feed and returns up to limit entries.
func (f *FeedFetcher) Fetch(ctx context.Context, limit int) ([]domain.RawItem, error) {
	feed, err := f.parser.ParseURLWithContext(f.feedURL, ctx)
	if err != nil {
		return nil, unavailable(f.label, err)
	}

	limit = clampLimit(limit, f.maxItems)

	items := make([]domain.RawItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if limit > 0 && len(items) >= limit {
			break
		}
		if entry == nil || strings.TrimSpace(entry.Title) == "" || strings.TrimSpace(entry.Link) == "" {
			continue
		}

		item := domain.RawItem{
			Title:       strings.TrimSpace(entry.Title),
			URL:         strings.TrimSpace(entry.Link),
			SourceLabel: f.label,
			Snippet:     strings.TrimSpace(entry.Description),
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = *entry.PublishedParsed
		}
		items = append(items, item)
	}

	return items, nil
}
