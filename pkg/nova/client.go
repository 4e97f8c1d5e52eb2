package nova

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
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
}

type response struct {
	Choices []struct {
		FinishReason string `json:"finish_reason"`
		Index        int    `json:"index"`
		Message      struct {
			Content string `json:"content"`
			Role    string `json:"role"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		CompletionTokens int `json:"completion_tokens"`
		PromptTokens     int `json:"prompt_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Config selects the chat-completions endpoint and model parameters. All
// values are fixed at construction time.
type Config struct {
	Endpoint    string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Client talks to the external text-generation endpoint. Construct one per
// process and share it; the underlying http.Client reuses connections.
// Failures are not retried, they propagate to the caller.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("generation endpoint must not be empty")
	}
	if cfg.Model == "" {
		return nil, errors.New("generation model must not be empty")
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Generate sends a system prompt and user message and returns the model's
// text reply.
func (c *Client) Generate(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	payload := request{
		Model: c.cfg.Model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		TopP:        c.cfg.TopP,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("could not marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not create generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	slog.Debug("generation request", "model", c.cfg.Model, "system_len", len(systemPrompt), "user_len", len(userMessage))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not reach generation endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("generation endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("could not decode generation response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("generation endpoint error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("generation endpoint returned no choices")
	}

	slog.Debug("generation response", "tokens", result.Usage.TotalTokens)

	return stripFences(result.Choices[0].Message.Content), nil
}

// stripFences removes a surrounding markdown code fence; models wrap
// replies in them occasionally.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 && !strings.ContainsAny(s[:i], " \t") {
		// drop a language tag like ```json
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
