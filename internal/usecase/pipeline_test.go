package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"h2brief/internal/docfilter"
	"h2brief/internal/domain"
	"h2brief/internal/fetch"
	"h2brief/internal/keyword"
	"h2brief/internal/report"
	"h2brief/internal/score"
)

type fakeFetcher struct {
	label string
	items []domain.RawItem
	err   error
}

func (f *fakeFetcher) Label() string           { return f.label }
func (f *fakeFetcher) Kind() domain.SourceKind { return domain.KindFeed }

func (f *fakeFetcher) Fetch(ctx context.Context, limit int) ([]domain.RawItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}

// fakeSummarizer fails for titles listed in failFor.
type fakeSummarizer struct {
	failFor map[string]bool
	calls   []string
}

func (s *fakeSummarizer) Summarize(ctx context.Context, title, content string) (string, error) {
	s.calls = append(s.calls, title)
	if s.failFor[title] {
		return "", errors.New("model overloaded")
	}
	return "요약: " + title, nil
}

func testIndex() *keyword.Index {
	return keyword.NewIndex(keyword.Vocabulary{
		TechnicalTerms: []string{"수전해", "연료전지"},
		EntityTerms:    []string{"Plug Power"},
	})
}

func testDeps(fetchers []fetch.Fetcher, summarizer *fakeSummarizer) PipelineDeps {
	idx := testIndex()
	sink := report.NewSink(nil)

	deps := PipelineDeps{
		Orchestrator: fetch.NewOrchestrator(time.Second, 2, sink, nil),
		Fetchers:     fetchers,
		PerSourceCap: 5,
		GlobalCap:    15,
		Scorer:       score.NewScorer(idx, 2, 1),
		Filter:       docfilter.NewFilter(idx),
		Failures:     sink,
	}
	if summarizer != nil {
		deps.Summarizer = summarizer
	}
	return deps
}

func TestPipelineRanksByRelevance(t *testing.T) {
	t.Parallel()

	fetchers := []fetch.Fetcher{
		&fakeFetcher{label: "A", items: []domain.RawItem{
			{Title: "일반 산업 동향", URL: "https://a.example/1", SourceLabel: "A"},
			{Title: "Plug Power 수전해 수주", URL: "https://a.example/2", SourceLabel: "A"},
			{Title: "연료전지 실증", URL: "https://a.example/3", SourceLabel: "A"},
		}},
	}

	p := NewPipeline(testDeps(fetchers, nil))

	digest, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, digest.Items, 3)

	// entity+tech (3.0) > tech only (1.0) > no match (0.0)
	assert.Equal(t, "Plug Power 수전해 수주", digest.Items[0].Title)
	assert.Equal(t, "연료전지 실증", digest.Items[1].Title)
	assert.Equal(t, "일반 산업 동향", digest.Items[2].Title)
	assert.NotEmpty(t, digest.RunID)
	assert.Empty(t, digest.Failures)
}

func TestPipelineSummarizationFailureKeepsItem(t *testing.T) {
	t.Parallel()

	fetchers := []fetch.Fetcher{
		&fakeFetcher{label: "A", items: []domain.RawItem{
			{Title: "수전해 단신", URL: "https://a.example/1", SourceLabel: "A", Snippet: "원문 요약"},
			{Title: "연료전지 단신", URL: "https://a.example/2", SourceLabel: "A"},
		}},
	}
	summarizer := &fakeSummarizer{failFor: map[string]bool{"수전해 단신": true}}

	p := NewPipeline(testDeps(fetchers, summarizer))

	digest, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, digest.Items, 2)

	byTitle := map[string]domain.ScoredItem{}
	for _, item := range digest.Items {
		byTitle[item.Title] = item
	}

	failed := byTitle["수전해 단신"]
	assert.True(t, failed.SummaryFailed)
	assert.Empty(t, failed.Summary)

	ok := byTitle["연료전지 단신"]
	assert.False(t, ok.SummaryFailed)
	assert.Equal(t, "요약: 연료전지 단신", ok.Summary)
}

func TestPipelinePartialSourceFailure(t *testing.T) {
	t.Parallel()

	fetchers := []fetch.Fetcher{
		&fakeFetcher{label: "down", err: errors.New("connection refused")},
		&fakeFetcher{label: "up", items: []domain.RawItem{
			{Title: "살아있는 소스", URL: "https://up.example/1", SourceLabel: "up"},
		}},
	}

	p := NewPipeline(testDeps(fetchers, nil))

	digest, err := p.Run(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, digest.Items, 1)
	assert.Equal(t, "살아있는 소스", digest.Items[0].Title)

	require.Len(t, digest.Failures, 1)
	assert.Equal(t, "down", digest.Failures[0].SourceLabel)
}

func TestPipelineDocumentBriefs(t *testing.T) {
	t.Parallel()

	summarizer := &fakeSummarizer{}
	p := NewPipeline(testDeps(nil, summarizer))

	docs := []domain.DocumentInput{
		{Name: "주간브리핑.pdf", Text: "무관한 문단\n\nPEM 수전해 설비 확충 계획\n\n연료전지 보급 현황"},
		{Name: "무관문서.pdf", Text: "아무 키워드도 없는 문서"},
	}

	digest, err := p.Run(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, digest.Briefs, 2)

	relevant := digest.Briefs[0]
	assert.Equal(t, "주간브리핑.pdf", relevant.Name)
	require.Len(t, relevant.Paragraphs, 2)
	assert.ElementsMatch(t, []string{"수전해", "연료전지"}, relevant.MatchedTerms)
	assert.Equal(t, "요약: 주간브리핑.pdf", relevant.Summary)

	empty := digest.Briefs[1]
	assert.Empty(t, empty.Paragraphs)
	assert.Empty(t, empty.Summary)
	assert.False(t, empty.SummaryFailed)

	// The empty document must not reach the summarizer.
	assert.NotContains(t, summarizer.calls, "무관문서.pdf")
}

func TestRenderDigestHTML(t *testing.T) {
	t.Parallel()

	digest := domain.Digest{
		GeneratedAt: time.Date(2026, time.August, 30, 7, 0, 0, 0, time.UTC),
		Items: []domain.ScoredItem{
			{
				RawItem:        domain.RawItem{Title: "Plug <Power> 뉴스", URL: "https://a.example/1", SourceLabel: "A", Snippet: "스니펫"},
				EntityMatches:  []string{"Plug Power"},
				RelevanceScore: 2,
				SummaryFailed:  true,
			},
		},
		Failures: []domain.FetchFailure{
			{SourceLabel: "down", Reason: "timeout", Timestamp: time.Now()},
		},
	}

	html := renderDigestHTML(digest)

	assert.Contains(t, html, "2026-08-30")
	assert.Contains(t, html, "Plug &lt;Power&gt; 뉴스")
	assert.Contains(t, html, "관심 기업: Plug Power")
	// Failed summary falls back to the raw snippet.
	assert.Contains(t, html, "(요약 실패) 스니펫")
	assert.Contains(t, html, "수집 실패 소스")
	assert.False(t, strings.Contains(html, "<Power>"))
}
