package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"h2brief/internal/domain"
	"h2brief/internal/ports"
)

// PostgresStore persists each run's digest for audit. It stores the output
// of the current run only; it is not consulted for deduplication, which
// stays stateless per run.
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.DigestStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB (lib/pq driver expected).
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveDigest writes the run header, its ranked items, and its failure
// records in one transaction.
func (s *PostgresStore) SaveDigest(ctx context.Context, digest domain.Digest) error {
	if s.db == nil {
		return fmt.Errorf("digest store has no database")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = s.builder.
		Insert("digest_runs").
		Columns("run_id", "generated_at", "item_count", "failure_count").
		Values(digest.RunID, digest.GeneratedAt, len(digest.Items), len(digest.Failures)).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for rank, item := range digest.Items {
		_, err = s.builder.
			Insert("digest_items").
			Columns("run_id", "rank", "title", "url", "source_label",
				"relevance_score", "entity_matches", "technical_matches",
				"summary", "summary_failed").
			Values(digest.RunID, rank+1, item.Title, item.URL, item.SourceLabel,
				item.RelevanceScore, pq.StringArray(item.EntityMatches),
				pq.StringArray(item.TechnicalMatches),
				item.Summary, item.SummaryFailed).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert item %q: %w", item.Title, err)
		}
	}

	for _, failure := range digest.Failures {
		_, err = s.builder.
			Insert("digest_failures").
			Columns("run_id", "source_label", "reason", "recorded_at").
			Values(digest.RunID, failure.SourceLabel, failure.Reason, failure.Timestamp).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert failure for %s: %w", failure.SourceLabel, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit digest: %w", err)
	}

	return nil
}
