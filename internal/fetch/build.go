package fetch

import (
	"fmt"
	"net/http"

	"h2brief/internal/config"
	"h2brief/internal/domain"
)

// Build expands the configured source list into fetcher instances. A query
// source becomes one QueryFetcher per keyword, so per-keyword searches run
// independently. Source order (and keyword order within a source) is
// preserved; it determines dedup priority downstream.
func Build(sources []config.SourceConfig, perKeywordCap int, client *http.Client) ([]Fetcher, error) {
	var fetchers []Fetcher

	for _, src := range sources {
		rule := ScrapeRule{
			ItemSelector:    src.Selectors.Item,
			TitleSelector:   src.Selectors.Title,
			LinkSelector:    src.Selectors.Link,
			SnippetSelector: src.Selectors.Snippet,
		}

		switch src.Kind {
		case domain.KindFeed:
			fetchers = append(fetchers, NewFeedFetcher(src.Label, src.URL, src.Cap, client))

		case domain.KindScrape:
			fetchers = append(fetchers, NewScrapeFetcher(src.Label, src.URL, rule, src.Cap, client))

		case domain.KindQuery:
			perKeyword := src.Cap
			if perKeyword == 0 {
				perKeyword = perKeywordCap
			}
			for _, term := range src.Keywords {
				fetchers = append(fetchers, NewQueryFetcher(src.Label, src.URL, term, rule, perKeyword, client))
			}

		default:
			return nil, fmt.Errorf("source %s: unknown kind %q", src.Label, src.Kind)
		}
	}

	return fetchers, nil
}
