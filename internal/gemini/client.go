// Package gemini asks Google's Gemini models how a session's bill should be
// split.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/courtsplit/courtsplit/internal/domain/advice"
)

// DefaultBaseURL is the public Generative Language API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

const maxResponseBytes = 1 << 20

var (
	ErrMissingAPIKey = errors.New("missing gemini api key")
	ErrMissingModel  = errors.New("missing gemini model")
	ErrEmptyResponse = errors.New("empty gemini response")
	ErrNonJSON       = errors.New("gemini returned non-json output")
)

// APIError is a non-200 reply from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini api error: status %d: %s", e.StatusCode, e.Body)
}

// Config configures a Client.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
}

// Client implements advice.Advisor against the generateContent endpoint.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

var _ advice.Advisor = (*Client)(nil)

// NewClient creates a Gemini client. Missing credentials are reported on
// each call rather than here so the server can start without them.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float64        `json:"temperature"`
	ResponseMIMEType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// wireSuggestion is the JSON object the model is asked to return.
type wireSuggestion struct {
	SuggestedMethod string `json:"suggestedMethod"`
	Reasoning       string `json:"reasoning"`
}

var responseSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"suggestedMethod": map[string]any{"type": "STRING"},
		"reasoning":       map[string]any{"type": "STRING"},
	},
	"required": []string{"suggestedMethod", "reasoning"},
}

// Suggest asks the model for a splitting method.
func (c *Client) Suggest(ctx context.Context, req advice.Request) (*advice.Suggestion, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if c.cfg.Model == "" {
		return nil, ErrMissingModel
	}

	prompt, err := advice.BuildPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("building prompt: %w", err)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      c.cfg.Temperature,
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling gemini: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading gemini response: %w", err)
	}
	c.logger.Debug("gemini response",
		"model", c.cfg.Model,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration", time.Since(start),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var result generateResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding gemini response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	return parseSuggestion(result.Candidates[0].Content.Parts[0].Text)
}

func parseSuggestion(text string) (*advice.Suggestion, error) {
	text = stripFences(text)
	if !json.Valid([]byte(text)) {
		return nil, ErrNonJSON
	}

	var ws wireSuggestion
	if err := json.Unmarshal([]byte(text), &ws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNonJSON, err)
	}
	if strings.TrimSpace(ws.SuggestedMethod) == "" || strings.TrimSpace(ws.Reasoning) == "" {
		return nil, ErrEmptyResponse
	}

	return &advice.Suggestion{
		SuggestedMethod: strings.TrimSpace(ws.SuggestedMethod),
		Reasoning:       strings.TrimSpace(ws.Reasoning),
	}, nil
}

// stripFences removes a surrounding ```json ... ``` block.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
