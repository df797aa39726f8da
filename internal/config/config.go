package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"h2brief/internal/domain"
)

const (
	configPathEnv   = "H2BRIEF_CONFIG"
	databaseDSNEnv  = "DATABASE_DSN"
	llmAPIKeyEnv    = "LLM_API_KEY"
	llmModelEnv     = "LLM_MODEL"
	notionAPIKeyEnv = "NOTION_API_KEY"
	notionDBEnv     = "NOTION_DATABASE_ID"
	smtpPasswordEnv = "SMTP_PASSWORD"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Keywords   KeywordConfig    `yaml:"keywords"`
	Sources    []SourceConfig   `yaml:"sources"`
	Documents  DocumentConfig   `yaml:"documents"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Mail       MailConfig       `yaml:"mail"`
	Notion     NotionConfig     `yaml:"notion"`
	Database   DatabaseConfig   `yaml:"database"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// FetchConfig bounds the orchestration cycle.
type FetchConfig struct {
	PerSourceCap  int      `yaml:"perSourceCap"`
	PerKeywordCap int      `yaml:"perKeywordCap"`
	GlobalCap     int      `yaml:"globalCap"`
	Workers       int      `yaml:"workers"`
	Timeout       Duration `yaml:"timeout"`
}

// Duration accepts "20s"-style strings in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// ScoringConfig carries the relevance weights. Entity weight must stay
// above the technical weight so entity mentions always outrank generic
// technology vocabulary.
type ScoringConfig struct {
	EntityWeight    float64 `yaml:"entityWeight"`
	TechnicalWeight float64 `yaml:"technicalWeight"`
}

// KeywordConfig holds the two vocabularies.
type KeywordConfig struct {
	Technical []string `yaml:"technical"`
	Entities  []string `yaml:"entities"`
}

// SelectorConfig mirrors fetch.ScrapeRule in YAML form.
type SelectorConfig struct {
	Item    string `yaml:"item"`
	Title   string `yaml:"title"`
	Link    string `yaml:"link"`
	Snippet string `yaml:"snippet"`
}

// SourceConfig describes one configured source. Kind selects the fetcher
// variant; query sources expand to one fetcher per keyword.
type SourceConfig struct {
	Label     string            `yaml:"label"`
	Kind      domain.SourceKind `yaml:"kind"`
	URL       string            `yaml:"url"`
	Cap       int               `yaml:"cap"`
	Selectors SelectorConfig    `yaml:"selectors"`
	Keywords  []string          `yaml:"keywords"`
}

// DocumentConfig points at plain-text briefing documents (PDF text is
// extracted by an external collaborator before it reaches us).
type DocumentConfig struct {
	Dir   string   `yaml:"dir"`
	Files []string `yaml:"files"`
}

// SummarizerConfig defines how to contact the chat-completions API.
type SummarizerConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// MailConfig wires SMTP delivery of the digest.
type MailConfig struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

// NotionConfig wires the structured-store uploader.
type NotionConfig struct {
	APIKey     string `yaml:"apiKey"`
	DatabaseID string `yaml:"databaseId"`
}

// DatabaseConfig describes the Postgres digest store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. A missing or broken file degrades to defaults; semantic
// problems are caught later by Validate.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// ValidationError reports every configuration problem at once so a run
// never starts with a partially invalid setup.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Problems, "; "))
}

// Validate checks semantic consistency before any fetch begins.
func (c Config) Validate() error {
	var problems []string

	if len(c.Keywords.Technical) == 0 && len(c.Keywords.Entities) == 0 {
		problems = append(problems, "keywords: both vocabularies are empty")
	}
	if c.Scoring.EntityWeight <= c.Scoring.TechnicalWeight {
		problems = append(problems, fmt.Sprintf(
			"scoring: entityWeight (%.2f) must exceed technicalWeight (%.2f)",
			c.Scoring.EntityWeight, c.Scoring.TechnicalWeight))
	}
	if len(c.Sources) == 0 {
		problems = append(problems, "sources: no source configured")
	}

	for i, src := range c.Sources {
		at := fmt.Sprintf("sources[%d] (%s)", i, src.Label)
		if src.Label == "" {
			problems = append(problems, fmt.Sprintf("sources[%d]: empty label", i))
		}
		if !src.Kind.Valid() {
			problems = append(problems, fmt.Sprintf("%s: unknown kind %q", at, src.Kind))
		}
		if src.URL == "" {
			problems = append(problems, at+": empty url")
		}
		if src.Cap < 0 {
			problems = append(problems, at+": negative cap")
		}

		switch src.Kind {
		case domain.KindScrape:
			if src.Selectors.Item == "" {
				problems = append(problems, at+": scrape source needs selectors.item")
			}
		case domain.KindQuery:
			if len(src.Keywords) == 0 {
				problems = append(problems, at+": query source needs at least one keyword")
			}
			if !strings.Contains(src.URL, "{query}") {
				problems = append(problems, at+": query source url needs a {query} placeholder")
			}
			if src.Selectors.Item == "" {
				problems = append(problems, at+": query source needs selectors.item")
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.Summarizer.APIKey = v
	}
	if v := os.Getenv(llmModelEnv); v != "" {
		c.Summarizer.Model = v
	}
	if v := os.Getenv(notionAPIKeyEnv); v != "" {
		c.Notion.APIKey = v
	}
	if v := os.Getenv(notionDBEnv); v != "" {
		c.Notion.DatabaseID = v
	}
	if v := os.Getenv(smtpPasswordEnv); v != "" {
		c.Mail.Password = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Fetch.PerSourceCap > 0 {
		base.Fetch.PerSourceCap = override.Fetch.PerSourceCap
	}
	if override.Fetch.PerKeywordCap > 0 {
		base.Fetch.PerKeywordCap = override.Fetch.PerKeywordCap
	}
	if override.Fetch.GlobalCap > 0 {
		base.Fetch.GlobalCap = override.Fetch.GlobalCap
	}
	if override.Fetch.Workers > 0 {
		base.Fetch.Workers = override.Fetch.Workers
	}
	if override.Fetch.Timeout > 0 {
		base.Fetch.Timeout = override.Fetch.Timeout
	}

	if override.Scoring.EntityWeight > 0 {
		base.Scoring.EntityWeight = override.Scoring.EntityWeight
	}
	if override.Scoring.TechnicalWeight > 0 {
		base.Scoring.TechnicalWeight = override.Scoring.TechnicalWeight
	}

	if len(override.Keywords.Technical) > 0 {
		base.Keywords.Technical = override.Keywords.Technical
	}
	if len(override.Keywords.Entities) > 0 {
		base.Keywords.Entities = override.Keywords.Entities
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	if override.Documents.Dir != "" {
		base.Documents.Dir = override.Documents.Dir
	}
	if len(override.Documents.Files) > 0 {
		base.Documents.Files = override.Documents.Files
	}

	if override.Summarizer.Endpoint != "" {
		base.Summarizer.Endpoint = override.Summarizer.Endpoint
	}
	if override.Summarizer.Model != "" {
		base.Summarizer.Model = override.Summarizer.Model
	}
	if override.Summarizer.APIKey != "" {
		base.Summarizer.APIKey = override.Summarizer.APIKey
	}
	if override.Summarizer.SystemPrompt != "" {
		base.Summarizer.SystemPrompt = override.Summarizer.SystemPrompt
	}

	if override.Mail.Host != "" {
		base.Mail = override.Mail
	}
	if override.Notion.APIKey != "" || override.Notion.DatabaseID != "" {
		base.Notion = override.Notion
	}
	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Fetch: FetchConfig{
			PerSourceCap:  5,
			PerKeywordCap: 3,
			GlobalCap:     15,
			Workers:       4,
			Timeout:       Duration(20 * time.Second),
		},
		Scoring: ScoringConfig{
			EntityWeight:    2,
			TechnicalWeight: 1,
		},
		Summarizer: SummarizerConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			SystemPrompt: "You summarize hydrogen-industry news for a daily briefing.",
		},
		Documents: DocumentConfig{Dir: "pdf_text"},
	}
}
