package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>월간수소경제</title>
    <link>http://www.h2news.kr</link>
    <item>
      <title>그린수소 생산단지 착공</title>
      <link>http://www.h2news.kr/news/article.html?no=101</link>
      <description>대규모 수전해 설비가 들어선다.</description>
      <pubDate>Fri, 28 Aug 2026 09:00:00 +0900</pubDate>
    </item>
    <item>
      <title>연료전지 발전소 준공</title>
      <link>http://www.h2news.kr/news/article.html?no=102</link>
      <description>발전용 연료전지 상업 운전 개시.</description>
    </item>
    <item>
      <title>세 번째 기사</title>
      <link>http://www.h2news.kr/news/article.html?no=103</link>
    </item>
  </channel>
</rss>`

func TestFeedFetcherFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	f := NewFeedFetcher("월간수소경제", server.URL, 0, server.Client())

	items, err := f.Fetch(context.Background(), 2)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "그린수소 생산단지 착공" {
		t.Fatalf("unexpected first title: %s", items[0].Title)
	}
	if items[0].SourceLabel != "월간수소경제" {
		t.Fatalf("unexpected source label: %s", items[0].SourceLabel)
	}
	if items[0].Snippet != "대규모 수전해 설비가 들어선다." {
		t.Fatalf("unexpected snippet: %s", items[0].Snippet)
	}
	if items[0].PublishedAt.IsZero() {
		t.Fatalf("expected parsed publish date")
	}
}

func TestFeedFetcherOwnCapWins(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	f := NewFeedFetcher("월간수소경제", server.URL, 1, server.Client())

	items, err := f.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected descriptor cap to win, got %d items", len(items))
	}
}

func TestFeedFetcherUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewFeedFetcher("월간수소경제", server.URL, 0, server.Client())

	_, err := f.Fetch(context.Background(), 5)
	if err == nil {
		t.Fatalf("expected error for 500 response")
	}

	var unavailable *SourceUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected SourceUnavailableError, got %T", err)
	}
	if unavailable.SourceLabel != "월간수소경제" {
		t.Fatalf("unexpected label: %s", unavailable.SourceLabel)
	}
}
