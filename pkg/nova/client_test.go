package nova

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		Endpoint:  srv.URL,
		APIKey:    "test-key",
		Model:     "test-model",
		MaxTokens: 512,
	})
	require.NoError(t, err)
	return c
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
}

func TestGenerate(t *testing.T) {
	var gotAuth string
	var gotReq request

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(chatResponse("Yumi umajai"))
	})

	got, err := c.Generate(context.Background(), "eres un traductor", "traduce: bebo agua")
	require.NoError(t, err)

	assert.Equal(t, "Yumi umajai", got)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "eres un traductor", gotReq.Messages[0].Content)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
}

func TestGenerateStripsFences(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse("```json\n{\"a\": 1}\n```"))
	})

	got, err := c.Generate(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, got)
}

func TestGenerateHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := c.Generate(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerateNoChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := c.Generate(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{Model: "m"})
	assert.Error(t, err)

	_, err = NewClient(Config{Endpoint: "https://example.com"})
	assert.Error(t, err)
}
