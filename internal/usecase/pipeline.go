package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"h2brief/internal/docfilter"
	"h2brief/internal/domain"
	"h2brief/internal/fetch"
	"h2brief/internal/ports"
	"h2brief/internal/score"
)

// PipelineDeps wires all driven adapters into the briefing pipeline. Only
// Orchestrator, Fetchers, Scorer, Filter, and Failures are required; the
// delivery collaborators and the extractor/summarizer are optional and
// skipped when nil.
type PipelineDeps struct {
	Orchestrator *fetch.Orchestrator
	Fetchers     []fetch.Fetcher
	PerSourceCap int
	GlobalCap    int

	Scorer *score.Scorer
	Filter *docfilter.Filter

	Failures   ports.FailureLog
	Extractor  ports.ContentExtractor
	Summarizer ports.Summarizer
	Notifier   ports.Notifier
	Uploader   ports.Uploader
	Store      ports.DigestStore

	Logger *slog.Logger
}

// Pipeline implements the aggregate-score-summarize-deliver workflow.
type Pipeline struct {
	deps PipelineDeps
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{deps: deps}
}

// Run executes one briefing cycle: fetch all sources, enrich and score the
// surviving items, rank them, process the supplied briefing documents, and
// hand the digest to the delivery collaborators. Source and summarization
// failures are recovered locally; the run always produces a digest.
func (p *Pipeline) Run(ctx context.Context, docs []domain.DocumentInput) (domain.Digest, error) {
	d := p.deps

	raw := d.Orchestrator.Run(ctx, d.Fetchers, d.PerSourceCap, d.GlobalCap)
	p.info("fetch complete", "items", len(raw), "sources", len(d.Fetchers))

	scored := make([]domain.ScoredItem, 0, len(raw))
	for _, item := range raw {
		scored = append(scored, p.processItem(ctx, item))
	}

	ranked := d.Scorer.Rank(scored)

	briefs := make([]domain.DocumentBrief, 0, len(docs))
	for _, doc := range docs {
		briefs = append(briefs, p.processDocument(ctx, doc))
	}

	digest := domain.Digest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		Items:       ranked,
		Briefs:      briefs,
	}
	if d.Failures != nil {
		digest.Failures = d.Failures.Records()
	}

	p.deliver(ctx, digest)

	return digest, nil
}

// processItem optionally enriches the item with scraped body text, scores
// it, and attaches a summary. Extraction and summarization failures leave
// the item in the run.
func (p *Pipeline) processItem(ctx context.Context, item domain.RawItem) domain.ScoredItem {
	d := p.deps

	var body string
	if d.Extractor != nil {
		text, err := d.Extractor.Extract(ctx, item.URL, item.SourceLabel)
		if err != nil {
			p.warn("content extraction failed", "source", item.SourceLabel, "url", item.URL, "error", err)
		} else {
			body = text
		}
	}

	scored := d.Scorer.Score(item, body)

	if d.Summarizer != nil {
		content := body
		if content == "" {
			content = item.Snippet
		}
		summary, err := d.Summarizer.Summarize(ctx, item.Title, content)
		if err != nil {
			scored.SummaryFailed = true
			p.warn("summarization failed", "source", item.SourceLabel, "title", item.Title, "error", err)
		} else {
			scored.Summary = summary
		}
	}

	return scored
}

// processDocument filters a briefing document down to its relevant
// paragraphs and summarizes them. A document with no qualifying paragraph
// yields a brief with an empty paragraph list, which is a normal outcome.
func (p *Pipeline) processDocument(ctx context.Context, doc domain.DocumentInput) domain.DocumentBrief {
	d := p.deps

	paragraphs := d.Filter.Filter(doc.Text)
	brief := domain.DocumentBrief{
		Name:         doc.Name,
		Paragraphs:   paragraphs,
		MatchedTerms: distinctTerms(paragraphs),
	}

	if len(paragraphs) == 0 {
		p.info("document has no relevant paragraphs", "document", doc.Name)
		return brief
	}

	if d.Summarizer != nil {
		texts := make([]string, len(paragraphs))
		for i, paragraph := range paragraphs {
			texts[i] = paragraph.Text
		}

		summary, err := d.Summarizer.Summarize(ctx, doc.Name, strings.Join(texts, "\n\n"))
		if err != nil {
			brief.SummaryFailed = true
			p.warn("document summarization failed", "document", doc.Name, "error", err)
		} else {
			brief.Summary = summary
		}
	}

	return brief
}

// deliver hands the digest to each configured collaborator. Delivery
// failures are logged, never fatal; the digest itself is already complete.
func (p *Pipeline) deliver(ctx context.Context, digest domain.Digest) {
	d := p.deps

	if d.Notifier != nil {
		subject := fmt.Sprintf("[수소 브리핑] %s - %d개 기사",
			digest.GeneratedAt.Format("2006-01-02"), len(digest.Items))
		if err := d.Notifier.SendDigest(ctx, subject, renderDigestHTML(digest)); err != nil {
			p.warn("digest mail failed", "error", err)
		}
	}

	if d.Uploader != nil {
		for _, item := range digest.Items {
			if err := d.Uploader.UploadItem(ctx, item); err != nil {
				p.warn("notion upload failed", "title", item.Title, "error", err)
			}
		}
	}

	if d.Store != nil {
		if err := d.Store.SaveDigest(ctx, digest); err != nil {
			p.warn("digest persistence failed", "run", digest.RunID, "error", err)
		}
	}
}

// distinctTerms collects the union of matched terms across paragraphs,
// first-seen order.
func distinctTerms(paragraphs []domain.ParagraphMatch) []string {
	seen := map[string]struct{}{}
	var terms []string

	for _, paragraph := range paragraphs {
		for _, term := range paragraph.MatchedTerms {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			terms = append(terms, term)
		}
	}

	return terms
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.deps.Logger != nil {
		p.deps.Logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.deps.Logger != nil {
		p.deps.Logger.Warn(msg, args...)
	}
}
