package report

import (
	"log/slog"
	"sync"
	"time"

	"h2brief/internal/domain"
	"h2brief/internal/ports"
)

// Sink is an append-only, concurrency-safe record stream of failed
// sources. Records are logged as they arrive and kept for the digest
// footer.
type Sink struct {
	mu      sync.Mutex
	records []domain.FetchFailure
	logger  *slog.Logger
}

var _ ports.FailureSink = (*Sink)(nil)

// NewSink builds an empty sink.
func NewSink(logger *slog.Logger) *Sink {
	return &Sink{logger: logger}
}

// Record appends one failure, stamping the time when it is missing.
func (s *Sink) Record(failure domain.FetchFailure) {
	if failure.Timestamp.IsZero() {
		failure.Timestamp = time.Now()
	}

	s.mu.Lock()
	s.records = append(s.records, failure)
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Warn("source unavailable",
			"source", failure.SourceLabel,
			"reason", failure.Reason)
	}
}

// Records returns a copy of everything recorded so far, in arrival order.
func (s *Sink) Records() []domain.FetchFailure {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.FetchFailure, len(s.records))
	copy(out, s.records)
	return out
}
