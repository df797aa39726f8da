package usecase

import (
	"fmt"
	"html"
	"strings"

	"h2brief/internal/domain"
)

// renderDigestHTML builds the email body: document briefs first, then the
// ranked items, then the failure footer.
func renderDigestHTML(digest domain.Digest) string {
	var b strings.Builder

	date := digest.GeneratedAt.Format("2006-01-02")
	fmt.Fprintf(&b, "<html><body>\n<h1>%s 수소 브리핑</h1>\n", date)
	fmt.Fprintf(&b, "<p>총 %d개 기사, 문서 브리핑 %d건</p>\n", len(digest.Items), len(digest.Briefs))

	for _, brief := range digest.Briefs {
		fmt.Fprintf(&b, "<h2>📄 %s</h2>\n", html.EscapeString(brief.Name))
		if len(brief.Paragraphs) == 0 {
			b.WriteString("<p>관련 내용 없음</p>\n")
			continue
		}
		fmt.Fprintf(&b, "<p>매칭 키워드: %s</p>\n", html.EscapeString(strings.Join(brief.MatchedTerms, ", ")))
		switch {
		case brief.Summary != "":
			fmt.Fprintf(&b, "<div>%s</div>\n", htmlParagraphs(brief.Summary))
		default:
			// No generated summary: fall back to the raw matched paragraphs.
			for _, paragraph := range brief.Paragraphs {
				fmt.Fprintf(&b, "<blockquote>%s</blockquote>\n", htmlParagraphs(paragraph.Text))
			}
		}
	}

	if len(digest.Items) > 0 {
		b.WriteString("<h2>📰 수집 기사</h2>\n")
	}
	for i, item := range digest.Items {
		renderItem(&b, i+1, item)
	}

	if len(digest.Failures) > 0 {
		b.WriteString("<h3>수집 실패 소스</h3>\n<ul>\n")
		for _, failure := range digest.Failures {
			fmt.Fprintf(&b, "<li>%s: %s (%s)</li>\n",
				html.EscapeString(failure.SourceLabel),
				html.EscapeString(failure.Reason),
				failure.Timestamp.Format("15:04:05"))
		}
		b.WriteString("</ul>\n")
	}

	b.WriteString("</body></html>\n")
	return b.String()
}

func renderItem(b *strings.Builder, rank int, item domain.ScoredItem) {
	fmt.Fprintf(b, "<h3>%d. <a href=\"%s\">%s</a></h3>\n",
		rank, html.EscapeString(item.URL), html.EscapeString(item.Title))
	fmt.Fprintf(b, "<p>출처: %s | 관련도: %.1f</p>\n",
		html.EscapeString(item.SourceLabel), item.RelevanceScore)

	if len(item.EntityMatches) > 0 {
		fmt.Fprintf(b, "<p>⭐ 관심 기업: %s</p>\n",
			html.EscapeString(strings.Join(item.EntityMatches, ", ")))
	}
	if len(item.TechnicalMatches) > 0 {
		fmt.Fprintf(b, "<p>🔧 기술 키워드: %s</p>\n",
			html.EscapeString(strings.Join(item.TechnicalMatches, ", ")))
	}

	switch {
	case item.Summary != "":
		fmt.Fprintf(b, "<div>%s</div>\n", htmlParagraphs(item.Summary))
	case item.SummaryFailed && item.Snippet != "":
		// Summarization failed; show the raw snippet instead.
		fmt.Fprintf(b, "<p>(요약 실패) %s</p>\n", html.EscapeString(item.Snippet))
	case item.Snippet != "":
		fmt.Fprintf(b, "<p>%s</p>\n", html.EscapeString(item.Snippet))
	}
}

func htmlParagraphs(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}
