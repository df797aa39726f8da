package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"h2brief/internal/ports"
)

// ContentExtractor downloads an article page and reduces it to plain text
// for scoring. Requests are rate limited so rapid-fire extraction of a
// whole digest does not hammer the news sites.
type ContentExtractor struct {
	client  *http.Client
	limiter *rate.Limiter
}

var _ ports.ContentExtractor = (*ContentExtractor)(nil)

// NewContentExtractor wires an HTTP client; one request per second across
// all hosts by default.
func NewContentExtractor(client *http.Client) *ContentExtractor {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &ContentExtractor{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Extract fetches pageURL and returns the readable body text. The result
// may be empty when the page carries no recognizable paragraphs; that is
// the caller's problem to handle, not an error.
func (e *ContentExtractor) Extract(ctx context.Context, pageURL, sourceLabel string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "h2brief/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page %s returned %s", sourceLabel, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	return cleanDocument(doc), nil
}

// cleanDocument strips chrome elements and joins the remaining paragraph
// text. Prefers <article> content when the page has one.
func cleanDocument(doc *goquery.Document) string {
	doc.Find("script, style, nav, header, footer, aside, form, iframe").Remove()

	root := doc.Selection
	if article := doc.Find("article").First(); article.Length() > 0 {
		root = article
	}

	var parts []string
	root.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if len([]rune(text)) < 20 {
			return
		}
		parts = append(parts, text)
	})

	if len(parts) == 0 {
		return strings.TrimSpace(collapseSpace(root.Text()))
	}

	return strings.Join(parts, "\n\n")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
