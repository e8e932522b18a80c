package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandrakanthm/skyvern/internal/application/port/output"
)

const completionResponse = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"model": "test-model",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "The page looks compliant."}, "finish_reason": "stop"}]
}`

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAdapter(Config{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: srv.URL + "/v1",
	})
}

func TestComplete_TextOnly(t *testing.T) {
	var captured map[string]any
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionResponse)
	})

	text, err := adapter.Complete(context.Background(), output.CompletionRequest{
		Prompt:      "Summarize the audit",
		Temperature: 0.3,
		MaxTokens:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, "The page looks compliant.", text)

	assert.Equal(t, "test-model", captured["model"])
	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "Summarize the audit", msg["content"])
}

func TestComplete_WithImageAttachesVisionPart(t *testing.T) {
	var captured map[string]any
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionResponse)
	})

	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	_, err := adapter.Complete(context.Background(), output.CompletionRequest{
		Prompt: "Describe the screenshot",
		Images: [][]byte{png},
	})
	require.NoError(t, err)

	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	parts := messages[0].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)

	textPart := parts[0].(map[string]any)
	assert.Equal(t, "text", textPart["type"])
	assert.Equal(t, "Describe the screenshot", textPart["text"])

	imagePart := parts[1].(map[string]any)
	assert.Equal(t, "image_url", imagePart["type"])
	url := imagePart["image_url"].(map[string]any)["url"].(string)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}

func TestComplete_ServerError(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "boom"}}`, http.StatusInternalServerError)
	})

	_, err := adapter.Complete(context.Background(), output.CompletionRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion failed")
}

func TestImageDataURL_DetectsMIME(t *testing.T) {
	assert.True(t, strings.HasPrefix(imageDataURL([]byte{0x89, 'P', 'N', 'G'}), "data:image/png;"))
	assert.True(t, strings.HasPrefix(imageDataURL([]byte{0xFF, 0xD8, 0xFF}), "data:image/jpeg;"))
}
