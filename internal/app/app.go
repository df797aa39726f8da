package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"h2brief/internal/config"
	"h2brief/internal/docfilter"
	"h2brief/internal/domain"
	"h2brief/internal/fetch"
	"h2brief/internal/infrastructure/llm"
	"h2brief/internal/infrastructure/mail"
	"h2brief/internal/infrastructure/notion"
	"h2brief/internal/infrastructure/scraper"
	"h2brief/internal/infrastructure/storage"
	"h2brief/internal/keyword"
	"h2brief/internal/logging"
	"h2brief/internal/report"
	"h2brief/internal/score"
	"h2brief/internal/usecase"
)

// Application wires configuration to the pipeline and its collaborators.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	db       *sql.DB
}

// New validates the configuration and builds a runnable application.
// Validation failures abort before any fetch starts.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.Fetch.Timeout)}

	fetchers, err := fetch.Build(cfg.Sources, cfg.Fetch.PerKeywordCap, httpClient)
	if err != nil {
		return nil, fmt.Errorf("build fetchers: %w", err)
	}

	index := keyword.NewIndex(keyword.Vocabulary{
		TechnicalTerms: cfg.Keywords.Technical,
		EntityTerms:    cfg.Keywords.Entities,
	})

	sink := report.NewSink(baseLogger.With("component", "failures"))

	deps := usecase.PipelineDeps{
		Orchestrator: fetch.NewOrchestrator(
			time.Duration(cfg.Fetch.Timeout),
			cfg.Fetch.Workers,
			sink,
			baseLogger.With("component", "orchestrator"),
		),
		Fetchers:     fetchers,
		PerSourceCap: cfg.Fetch.PerSourceCap,
		GlobalCap:    cfg.Fetch.GlobalCap,
		Scorer:       score.NewScorer(index, cfg.Scoring.EntityWeight, cfg.Scoring.TechnicalWeight),
		Filter:       docfilter.NewFilter(index),
		Failures:     sink,
		Extractor:    scraper.NewContentExtractor(httpClient),
		Logger:       baseLogger.With("component", "pipeline"),
	}

	if cfg.Summarizer.APIKey != "" {
		deps.Summarizer = llm.NewChatGPTSummarizer(cfg.Summarizer)
	}
	if cfg.Mail.Host != "" {
		deps.Notifier = mail.NewNotifier(cfg.Mail)
	}
	if cfg.Notion.APIKey != "" && cfg.Notion.DatabaseID != "" {
		deps.Uploader = notion.NewUploader(cfg.Notion)
	}

	app := &Application{cfg: cfg, logger: baseLogger}

	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		app.db = db
		deps.Store = storage.NewPostgresStore(db)
	}

	app.pipeline = usecase.NewPipeline(deps)
	return app, nil
}

// Run executes one briefing cycle.
func (a *Application) Run(ctx context.Context) error {
	docs, err := a.loadDocuments()
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	digest, err := a.pipeline.Run(ctx, docs)
	if err != nil {
		return err
	}

	a.logger.Info("run complete",
		"run", digest.RunID,
		"items", len(digest.Items),
		"briefs", len(digest.Briefs),
		"failed_sources", len(digest.Failures))
	return nil
}

// Close releases the database handle when one was opened.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// loadDocuments reads the configured briefing texts: explicit files first,
// then every .txt in the documents directory. PDF-to-text extraction
// happens upstream; here we only consume plain text.
func (a *Application) loadDocuments() ([]domain.DocumentInput, error) {
	var docs []domain.DocumentInput

	paths := append([]string(nil), a.cfg.Documents.Files...)
	if dir := a.cfg.Documents.Dir; dir != "" {
		found, err := filepath.Glob(filepath.Join(dir, "*.txt"))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", dir, err)
		}
		paths = append(paths, found...)
	}

	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			a.logger.Warn("skipping unreadable document", "path", path, "error", err)
			continue
		}
		docs = append(docs, domain.DocumentInput{
			Name: filepath.Base(path),
			Text: string(raw),
		})
	}

	return docs, nil
}
