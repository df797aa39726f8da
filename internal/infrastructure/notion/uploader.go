package notion

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"

	"h2brief/internal/config"
	"h2brief/internal/domain"
	"h2brief/internal/ports"
)

// Uploader creates one page per ranked item in a Notion database.
type Uploader struct {
	client     *notionapi.Client
	databaseID notionapi.DatabaseID
}

var _ ports.Uploader = (*Uploader)(nil)

// NewUploader builds a Notion client from configuration.
func NewUploader(cfg config.NotionConfig) *Uploader {
	return &Uploader{
		client:     notionapi.NewClient(notionapi.Token(cfg.APIKey)),
		databaseID: notionapi.DatabaseID(cfg.DatabaseID),
	}
}

// UploadItem writes title, link, source, score, matched keywords, and
// summary into the configured database. Property names must match the
// target database schema.
func (u *Uploader) UploadItem(ctx context.Context, item domain.ScoredItem) error {
	summary := item.Summary
	if item.SummaryFailed || summary == "" {
		summary = item.Snippet
	}

	keywords := make([]notionapi.Option, 0, len(item.EntityMatches)+len(item.TechnicalMatches))
	for _, term := range item.EntityMatches {
		keywords = append(keywords, notionapi.Option{Name: term})
	}
	for _, term := range item.TechnicalMatches {
		keywords = append(keywords, notionapi.Option{Name: term})
	}

	_, err := u.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: u.databaseID,
		},
		Properties: notionapi.Properties{
			"제목": notionapi.TitleProperty{
				Title: richText(item.Title),
			},
			"링크": notionapi.URLProperty{
				URL: item.URL,
			},
			"출처": notionapi.RichTextProperty{
				RichText: richText(item.SourceLabel),
			},
			"요약": notionapi.RichTextProperty{
				RichText: richText(truncate(summary, 1900)),
			},
			"관련도": notionapi.NumberProperty{
				Number: item.RelevanceScore,
			},
			"키워드": notionapi.MultiSelectProperty{
				MultiSelect: keywords,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create notion page for %q: %w", item.Title, err)
	}

	return nil
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{Text: &notionapi.Text{Content: content}},
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := strings.ToValidUTF8(s[:max], "")
	return cut + "…"
}
