package fetch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"h2brief/internal/domain"
	"h2brief/internal/ports"
)

const (
	defaultFetchTimeout = 20 * time.Second
	defaultWorkers      = 4
)

// Orchestrator drives every configured fetcher, merges their output in
// configured order, deduplicates across sources, and enforces the global
// cap. One source's failure never aborts the others.
type Orchestrator struct {
	timeout time.Duration
	workers int
	sink    ports.FailureSink
	logger  *slog.Logger
}

// NewOrchestrator builds an orchestrator. timeout bounds each individual
// fetch; workers bounds concurrent fetches. Non-positive values fall back
// to defaults.
func NewOrchestrator(timeout time.Duration, workers int, sink ports.FailureSink, logger *slog.Logger) *Orchestrator {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Orchestrator{timeout: timeout, workers: workers, sink: sink, logger: logger}
}

// Run fetches from all sources concurrently, each limited to perSourceCap
// items and o.timeout wall time. Results are merged in configured fetcher
// order regardless of completion order, so "first occurrence wins"
// deduplication always favors earlier-configured sources. The merged
// sequence is truncated to globalCap; ranking happens later, after
// scoring.
func (o *Orchestrator) Run(ctx context.Context, fetchers []Fetcher, perSourceCap, globalCap int) []domain.RawItem {
	results := make([][]domain.RawItem, len(fetchers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i, f := range fetchers {
		i, f := i, f
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, o.timeout)
			defer cancel()

			items, err := f.Fetch(fctx, perSourceCap)
			if err != nil {
				o.recordFailure(f, err)
				return nil
			}

			results[i] = items
			o.debug("source fetched", "source", f.Label(), "kind", f.Kind(), "count", len(items))
			return nil
		})
	}

	// Goroutines return nil even on source failure; Wait only propagates
	// parent-context cancellation, which we deliberately ignore here so a
	// partially complete run still yields its items.
	_ = g.Wait()

	return dedupeAndCap(results, globalCap)
}

func (o *Orchestrator) recordFailure(f Fetcher, err error) {
	reason := err.Error()

	var srcErr *SourceUnavailableError
	if errors.As(err, &srcErr) {
		reason = srcErr.Err.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		reason = "fetch timed out"
	}

	if o.sink != nil {
		o.sink.Record(domain.FetchFailure{
			SourceLabel: f.Label(),
			Reason:      reason,
			Timestamp:   time.Now(),
		})
	}
}

// dedupeAndCap concatenates per-fetcher results preserving configured
// order, drops later items whose identity key was already seen, and
// truncates to globalCap.
func dedupeAndCap(results [][]domain.RawItem, globalCap int) []domain.RawItem {
	seen := map[string]struct{}{}
	var merged []domain.RawItem

	for _, items := range results {
		for _, item := range items {
			key := item.IdentityKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, item)
		}
	}

	if globalCap > 0 && len(merged) > globalCap {
		merged = merged[:globalCap]
	}

	return merged
}

func (o *Orchestrator) debug(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Debug(msg, args...)
	}
}
