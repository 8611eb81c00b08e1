// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyst produces LLM-derived enrichment for archived papers:
// structured summaries, abstract translations, and industry-affiliation
// votes, via an OpenAI-compatible chat-completions API.
package analyst

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pdiddy/paper-hunter/internal/httputil"
	"github.com/pdiddy/paper-hunter/pkg/types"
)

const (
	// summaryMaxPages bounds how much of the PDF is fed to the model.
	summaryMaxPages = 6

	// summaryMaxChars truncates the extracted text preview.
	summaryMaxChars = 4000

	// completionTokenCeiling is the provider's hard max_tokens limit.
	completionTokenCeiling = 8192
)

// Analyst is the chat-completions client for the enrichment stage.
type Analyst struct {
	Client *http.Client
	Config types.AnalystConfig
	Log    *slog.Logger
}

// New returns an Analyst. The API key must already be resolved in cfg.
func New(client *http.Client, cfg types.AnalystConfig, log *slog.Logger) *Analyst {
	if log == nil {
		log = slog.Default()
	}
	return &Analyst{Client: client, Config: cfg, Log: log}
}

// Enabled reports whether the analyst has credentials to call the API.
func (a *Analyst) Enabled() bool { return a.Config.APIKey != "" }

// SummarizePDF extracts a text preview from the archived PDF and asks the
// model for a structured summary.
func (a *Analyst) SummarizePDF(ctx context.Context, pdfPath string) (string, error) {
	if !a.Enabled() {
		return "", fmt.Errorf("%s not set; cannot run summarization", a.Config.APIKeyEnvVar)
	}
	text, err := ExtractText(pdfPath, summaryMaxPages, summaryMaxChars)
	if err != nil {
		return "", fmt.Errorf("extracting PDF text: %w", err)
	}
	content := fmt.Sprintf("%s\n\n论文内容（截断预览）:\n%s", summaryPrompt, text)
	return a.chatCompletion(ctx, content, 0.2)
}

// TranslateAbstract translates the paper's abstract EN→ZH.
func (a *Analyst) TranslateAbstract(ctx context.Context, paper types.Paper) (string, error) {
	if !a.Enabled() {
		return "", fmt.Errorf("%s not set; cannot translate", a.Config.APIKeyEnvVar)
	}
	var buf bytes.Buffer
	if err := translatePromptTmpl.Execute(&buf, paper); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return a.chatCompletion(ctx, buf.String(), 0.2)
}

// VoteIndustry asks the model whether the paper's authors appear to belong
// to one of the whitelisted organizations. An unconfigured analyst votes no.
func (a *Analyst) VoteIndustry(ctx context.Context, paper types.Paper, whitelist []string) (bool, error) {
	if !a.Enabled() {
		return false, nil
	}

	names := make([]string, len(paper.Authors))
	for i, author := range paper.Authors {
		names[i] = author.Name
	}
	var buf bytes.Buffer
	err := votePromptTmpl.Execute(&buf, struct {
		Companies, Title, Authors, Summary string
	}{
		Companies: strings.Join(whitelist, ", "),
		Title:     paper.Title,
		Authors:   strings.Join(names, ", "),
		Summary:   paper.Summary,
	})
	if err != nil {
		return false, fmt.Errorf("rendering prompt: %w", err)
	}

	reply, err := a.chatCompletion(ctx, buf.String(), 0)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(reply), "yes"), nil
}

// Chat-completions API JSON structures (OpenAI wire format).
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// chatCompletion posts one user message and returns the trimmed reply.
// Rate-limited calls are retried with backoff.
func (a *Analyst) chatCompletion(ctx context.Context, content string, temperature float64) (string, error) {
	maxTokens := a.Config.MaxTokens
	if maxTokens <= 0 || maxTokens > completionTokenCeiling {
		maxTokens = completionTokenCeiling
	}

	body, err := json.Marshal(chatRequest{
		Model: a.Config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a concise assistant."},
			{Role: "user", Content: content},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resolveEndpoint(a.Config.BaseURL), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.Config.APIKey)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, a.Config.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("chat API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Surface the server message to help debug credential and endpoint issues.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("chat API returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("parsing chat response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("chat response contained no choices")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

// resolveEndpoint normalizes common base-URL inputs to the required
// /v1/chat/completions path.
func resolveEndpoint(base string) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		return "https://api.deepseek.com/v1/chat/completions"
	}
	switch {
	case strings.HasSuffix(base, "api.deepseek.com"), strings.HasSuffix(base, "api.deepseek.com/api"):
		return base + "/v1/chat/completions"
	case strings.HasSuffix(base, "api.deepseek.com/chat/completions"):
		return strings.Replace(base, "/chat/completions", "/v1/chat/completions", 1)
	}
	return base
}
