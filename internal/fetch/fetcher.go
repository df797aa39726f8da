package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"h2brief/internal/domain"
)

const defaultUserAgent = "h2brief/1.0"

// Fetcher is the capability set shared by all source variants. A fetch
// either returns a possibly empty item sequence or fails with a
// *SourceUnavailableError; it never panics the run.
type Fetcher interface {
	Fetch(ctx context.Context, limit int) ([]domain.RawItem, error)
	Label() string
	Kind() domain.SourceKind
}

// SourceUnavailableError marks a per-source network, HTTP, or parse
// failure. The orchestrator records it and continues with the remaining
// sources.
type SourceUnavailableError struct {
	SourceLabel string
	Err         error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.SourceLabel, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

func unavailable(label string, err error) error {
	return &SourceUnavailableError{SourceLabel: label, Err: err}
}

// fetchDocument GETs a page and parses it with goquery. Non-2xx responses
// are treated the same as transport failures.
func fetchDocument(ctx context.Context, client *http.Client, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func defaultClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: 15 * time.Second}
}

// clampLimit reconciles the orchestrator's per-source cap with a
// descriptor-level cap; zero means "no own cap".
func clampLimit(limit, own int) int {
	if own > 0 && (limit <= 0 || own < limit) {
		return own
	}
	return limit
}
