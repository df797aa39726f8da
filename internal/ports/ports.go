package ports

import (
	"context"

	"h2brief/internal/domain"
)

// FailureSink receives one record per source that failed or timed out.
// Implementations must be safe for concurrent use.
type FailureSink interface {
	Record(failure domain.FetchFailure)
}

// FailureLog is a sink whose accumulated records can be read back for the
// digest footer.
type FailureLog interface {
	FailureSink
	Records() []domain.FetchFailure
}

// ContentExtractor fetches an article page and reduces it to plain text.
type ContentExtractor interface {
	Extract(ctx context.Context, pageURL, sourceLabel string) (string, error)
}

// Summarizer turns relevant text into a short summary. Treated as an
// opaque text-in/text-out service; failures are recovered per item.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
}

// Notifier delivers the rendered digest to an outbound channel (email).
type Notifier interface {
	SendDigest(ctx context.Context, subject, htmlBody string) error
}

// Uploader pushes ranked items into a structured store (Notion database).
type Uploader interface {
	UploadItem(ctx context.Context, item domain.ScoredItem) error
}

// DigestStore persists a completed run's output for audit.
type DigestStore interface {
	SaveDigest(ctx context.Context, digest domain.Digest) error
}
