package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"h2brief/internal/domain"
)

func validConfig() Config {
	cfg := defaultConfig()
	cfg.Keywords = KeywordConfig{
		Technical: []string{"수전해"},
		Entities:  []string{"Plug Power"},
	}
	cfg.Sources = []SourceConfig{
		{Label: "월간수소경제", Kind: domain.KindFeed, URL: "http://www.h2news.kr/rss/S1N1.xml"},
		{
			Label:     "Hydrogen Central",
			Kind:      domain.KindScrape,
			URL:       "https://hydrogen-central.example/",
			Selectors: SelectorConfig{Item: "article.row", Title: "h3 a", Link: "h3 a"},
		},
		{
			Label:     "네이버뉴스",
			Kind:      domain.KindQuery,
			URL:       "https://search.example/news?query={query}",
			Keywords:  []string{"수소", "수전해"},
			Selectors: SelectorConfig{Item: "div.news_area", Title: "a.news_tit", Link: "a.news_tit"},
		},
	}
	return cfg
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsEmptyVocabularies(t *testing.T) {
	cfg := validConfig()
	cfg.Keywords = KeywordConfig{}

	err := cfg.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "vocabularies are empty")
}

func TestValidateRejectsInvertedWeights(t *testing.T) {
	cfg := validConfig()
	cfg.Scoring = ScoringConfig{EntityWeight: 1, TechnicalWeight: 2}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entityWeight")
}

func TestValidateRejectsBrokenSources(t *testing.T) {
	cfg := validConfig()
	cfg.Sources = append(cfg.Sources,
		SourceConfig{Label: "", Kind: domain.KindFeed, URL: "https://x.example/rss"},
		SourceConfig{Label: "bad-kind", Kind: "api", URL: "https://x.example"},
		SourceConfig{Label: "no-keywords", Kind: domain.KindQuery, URL: "https://x.example?q={query}",
			Selectors: SelectorConfig{Item: "div"}},
		SourceConfig{Label: "no-placeholder", Kind: domain.KindQuery, URL: "https://x.example",
			Keywords: []string{"수소"}, Selectors: SelectorConfig{Item: "div"}},
		SourceConfig{Label: "no-selectors", Kind: domain.KindScrape, URL: "https://x.example"},
	)

	err := cfg.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 5)
}

func TestValidateCollectsAllProblemsAtOnce(t *testing.T) {
	cfg := Config{}

	err := cfg.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	// Empty vocabularies, inverted (zero) weights, no sources.
	assert.GreaterOrEqual(t, len(verr.Problems), 3)
}

func TestDurationUnmarshal(t *testing.T) {
	var cfg FetchConfig
	raw := []byte("timeout: 45s\nperSourceCap: 7\n")

	require.NoError(t, yaml.Unmarshal(raw, &cfg))
	assert.Equal(t, 45*time.Second, time.Duration(cfg.Timeout))
	assert.Equal(t, 7, cfg.PerSourceCap)
}

func TestMergeConfigOverrides(t *testing.T) {
	base := defaultConfig()
	override := Config{
		Fetch:    FetchConfig{GlobalCap: 30},
		Keywords: KeywordConfig{Entities: []string{"두산퓨얼셀"}},
	}

	merged := mergeConfig(base, override)

	assert.Equal(t, 30, merged.Fetch.GlobalCap)
	assert.Equal(t, []string{"두산퓨얼셀"}, merged.Keywords.Entities)
	// Untouched fields keep defaults.
	assert.Equal(t, 5, merged.Fetch.PerSourceCap)
	assert.Equal(t, 2.0, merged.Scoring.EntityWeight)
}
