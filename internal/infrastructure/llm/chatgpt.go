package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"h2brief/internal/config"
	"h2brief/internal/ports"
)

// ChatGPTSummarizer implements ports.Summarizer against OpenAI-compatible
// chat-completions APIs.
type ChatGPTSummarizer struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
}

var _ ports.Summarizer = (*ChatGPTSummarizer)(nil)

// NewChatGPTSummarizer builds a client from configuration.
func NewChatGPTSummarizer(cfg config.SummarizerConfig) *ChatGPTSummarizer {
	return &ChatGPTSummarizer{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Summarize posts the article text and returns the model's summary string.
// Content is truncated to stay within token limits.
func (c *ChatGPTSummarizer) Summarize(ctx context.Context, title, content string) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("summarizer misconfigured")
	}

	const maxContentLen = 8000
	if len(content) > maxContentLen {
		content = strings.ToValidUTF8(content[:maxContentLen], "")
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": safePrompt(c.systemPrompt)},
			{"role": "user", "content": fmt.Sprintf("제목: %s\n\n본문:\n%s", title, content)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal summarize payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request summary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("summarizer error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("summarizer returned no choices")
	}

	summary := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("summarizer returned empty summary")
	}

	return summary, nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You summarize hydrogen-industry news articles in a few bullet points."
	}
	return prompt
}
