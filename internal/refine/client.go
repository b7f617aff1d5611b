package refine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lukinkon/lukin/internal/lang"
)

const promptTemplate = `You are a proofreader fixing only obvious letter substitution errors in a partially decoded cipher.

PARTIALLY DECODED TEXT: "%s"
TARGET LANGUAGE: %s

The text was decoded from a substitution cipher. Some letters may still be wrong. Do not rewrite it or change its meaning.

RULES:
1. Keep the exact text structure and length.
2. Only change letters that clearly produce non-words.
3. When you change a letter, change it the same way everywhere.
4. Do not add, remove or reorder words.
5. Make the existing words readable.

Examples:
- "tke" becomes "the" (every k becomes h)
- "amd" becomes "and" (every m becomes n)
- "oge" becomes "une" (every g becomes n)

Reply with the corrected text only.

CORRECTED:`

const apiKeyHeader = "x-goog-api-key"

// Client refines text through a generateContent style HTTP endpoint.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

// NewClient returns a client for cfg using apiKey.
func NewClient(cfg Config, apiKey string) *Client {
	cfg = withDefaults(cfg)
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    cfg.Model,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Refine asks the model for minimal letter corrections. Every failure is
// reported as ErrUnavailable.
func (c *Client) Refine(ctx context.Context, text string, target lang.Language) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: no API key configured", ErrUnavailable)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(promptTemplate, text, target)}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.1,
			MaxOutputTokens: 2000,
			TopP:            0.1,
			TopK:            1,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode request: %v", ErrUnavailable, err)
	}

	u := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close() // Best-effort close.
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}
	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	var b strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	refined := CleanResponse(b.String())
	if refined == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return refined, nil
}

// CleanResponse strips the answer prefix and wrapping quotes a model may
// add around the corrected text.
func CleanResponse(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"CORRECTED TEXT:", "CORRECTED:"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
			break
		}
	}
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return s
}
