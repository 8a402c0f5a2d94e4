package gemini_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/config"
	"docextract/internal/parser"
	"docextract/internal/parser/gemini"
)

const invoiceJSON = `{"confidence": 0.8, "header": {"invoice_number": "INV-002", "date": "2024-02-01"}, "line_items": [], "totals": {"total": "$1,250.00"}}`

func newTestExtractor(serverURL, apiKey string) *gemini.Extractor {
	cfg := &config.ParserProviderConfig{
		Provider:     config.ProviderGemini,
		APIKey:       apiKey,
		DefaultModel: "gemini-2.0-flash",
		TimeoutSecs:  30,
	}
	return gemini.NewExtractorWithEndpoint(cfg, serverURL)
}

func successResponse(text, finishReason string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{{"text": text}},
					"role":  "model",
				},
				"finishReason": finishReason,
			},
		},
	}
}

func TestExtractor_Extract_Success(t *testing.T) {
	image := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		contents := reqBody["contents"].([]interface{})
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		require.Len(t, parts, 2)
		assert.Equal(t, parser.FullPrompt, parts[0].(map[string]interface{})["text"])
		inline := parts[1].(map[string]interface{})["inline_data"].(map[string]interface{})
		assert.Equal(t, "image/jpeg", inline["mime_type"])
		assert.Equal(t, base64.StdEncoding.EncodeToString(image), inline["data"])

		genCfg := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, 0.1, genCfg["temperature"])

		_ = json.NewEncoder(w).Encode(successResponse(invoiceJSON, "STOP"))
	}))
	defer server.Close()

	res := newTestExtractor(server.URL, "test-gemini-key").Extract(context.Background(), image, "image/jpeg")

	require.True(t, res.Succeeded, res.ErrorMessage)
	assert.Equal(t, "gemini", res.Provider)
	assert.Equal(t, "INV-002", res.Document.Header.InvoiceNumber.String())
	assert.InDelta(t, 1250.0, res.Document.Totals.Total.Float(), 1e-9)
}

func TestExtractor_Extract_MissingKey(t *testing.T) {
	res := newTestExtractor("http://127.0.0.1:1", "").Extract(context.Background(), []byte("img"), "image/png")

	assert.False(t, res.Succeeded)
	assert.Equal(t, "Gemini API key not configured", res.ErrorMessage)
	assert.ErrorIs(t, res.Err, parser.ErrNotConfigured)
}

func TestExtractor_Extract_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	res := newTestExtractor(server.URL, "k").Extract(context.Background(), []byte("img"), "image/png")

	var rlErr *parser.RateLimitError
	require.True(t, errors.As(res.Err, &rlErr))
	assert.Equal(t, 60, int(rlErr.RetryAfter.Seconds()))
}

func TestExtractor_Extract_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": [], "promptFeedback": {"blockReason": "SAFETY"}}`))
	}))
	defer server.Close()

	res := newTestExtractor(server.URL, "k").Extract(context.Background(), []byte("img"), "image/png")

	assert.False(t, res.Succeeded)
	assert.Contains(t, res.ErrorMessage, "SAFETY")
	var tErr *parser.TransportError
	assert.True(t, errors.As(res.Err, &tErr))
}

func TestExtractor_Extract_MultiPartText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"parts": []map[string]interface{}{
							{"text": invoiceJSON[:20]},
							{"text": invoiceJSON[20:]},
						},
					},
					"finishReason": "STOP",
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	res := newTestExtractor(server.URL, "k").Extract(context.Background(), []byte("img"), "image/webp")
	assert.True(t, res.Succeeded, res.ErrorMessage)
}

func TestExtractor_Extract_ParseFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(successResponse(`{"invoice": "unknown layout"}`, "STOP"))
	}))
	defer server.Close()

	res := newTestExtractor(server.URL, "k").Extract(context.Background(), []byte("img"), "image/png")

	assert.False(t, res.Succeeded)
	assert.Equal(t, `{"invoice": "unknown layout"}`, res.RawText)
	assert.Contains(t, res.ErrorMessage, "Failed to parse JSON response")
}
