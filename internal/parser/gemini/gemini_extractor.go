package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"docextract/internal/config"
	"docextract/internal/parser"
	"docextract/internal/port"
)

const (
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	providerName = config.ProviderGemini
)

// Extractor implements port.InvoiceExtractor using Google's Gemini API.
type Extractor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewExtractor creates a Gemini-based invoice extractor.
func NewExtractor(cfg *config.ParserProviderConfig) *Extractor {
	return newExtractor(cfg, "")
}

// NewExtractorWithEndpoint creates an extractor pointing at a custom API endpoint (for testing).
func NewExtractorWithEndpoint(cfg *config.ParserProviderConfig, endpoint string) *Extractor {
	return newExtractor(cfg, endpoint)
}

func newExtractor(cfg *config.ParserProviderConfig, endpoint string) *Extractor {
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	return &Extractor{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (e *Extractor) Name() string { return providerName }

func (e *Extractor) Extract(ctx context.Context, image []byte, mimeType string) *port.ExtractionResult {
	if e.apiKey == "" {
		return parser.FailedResult(providerName, parser.NewConfigurationError(providerName, "Gemini"), "")
	}

	text, err := e.generate(ctx, image, mimeType)
	if err != nil {
		log.Printf("gemini.Extractor: extraction failed: %v", err)
		return parser.FailedResult(providerName, err, text)
	}
	log.Printf("gemini.Extractor: raw response: %s", parser.Truncate(text, 200))
	return parser.ResultFromText(providerName, text)
}

func (e *Extractor) generate(ctx context.Context, image []byte, mimeType string) (string, error) {
	if !supportedMimeType(mimeType) {
		return "", &parser.TransportError{Provider: providerName, Err: fmt.Errorf("unsupported content type for extraction: %s", mimeType)}
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"text": parser.FullPrompt,
					},
					{
						"inline_data": map[string]interface{}{
							"mime_type": mimeType,
							"data":      base64.StdEncoding.EncodeToString(image),
						},
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      0.1,
			"responseMimeType": "application/json",
			"maxOutputTokens":  4096,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", &parser.TransportError{Provider: providerName, Err: fmt.Errorf("marshaling request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", &parser.TransportError{Provider: providerName, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", &parser.TransportError{Provider: providerName, Err: fmt.Errorf("calling gemini API: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &parser.TransportError{Provider: providerName, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, parser.Truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := parser.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", parser.NewRateLimitError(providerName, baseErr, retryAfter)
		}
		return "", &parser.TransportError{Provider: providerName, StatusCode: resp.StatusCode, Err: baseErr}
	}

	return parseResponse(respBody)
}

func supportedMimeType(mimeType string) bool {
	switch mimeType {
	case "application/pdf", "image/jpeg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func parseResponse(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &parser.TransportError{Provider: providerName, Err: fmt.Errorf("unmarshaling response: %w", err)}
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback.BlockReason != "" {
			return "", &parser.TransportError{Provider: providerName, Err: fmt.Errorf("request blocked: %s", resp.PromptFeedback.BlockReason)}
		}
		return "", &parser.TransportError{Provider: providerName, Err: errors.New("empty response from API: no candidates")}
	}

	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", &parser.TransportError{Provider: providerName, Err: errors.New("empty response from API: no parts")}
	}

	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.Text)
	}
	text := sb.String()
	if resp.Candidates[0].FinishReason == "MAX_TOKENS" {
		return text, &parser.ParseError{Err: errors.New("output truncated (finishReason: MAX_TOKENS)")}
	}
	return text, nil
}
