package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client posts recorded audio to an external speech-to-text endpoint
// (OpenAI-style /v1/audio/transcriptions wire format) and returns the
// transcript. Construct one per process; transcription failures are soft,
// the caller is expected to fall back to typed input.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	language string
	http     *http.Client
}

func NewClient(endpoint, apiKey, model, language string) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("speech endpoint must not be empty")
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		language: language,
		http:     &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Transcribe sends audio bytes and returns the transcript text. filename
// carries the container format hint, e.g. "voice.wav".
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("could not create audio form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("could not write audio form file: %w", err)
	}
	if err := w.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("could not write model field: %w", err)
	}
	if c.language != "" {
		if err := w.WriteField("language", c.language); err != nil {
			return "", fmt.Errorf("could not write language field: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("could not finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("could not create transcription request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not reach speech endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("speech endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("could not decode transcription response: %w", err)
	}
	return strings.TrimSpace(result.Text), nil
}
