package claude

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
	"time"

	"docextract/internal/config"
	"docextract/internal/parser"
	"docextract/internal/port"
)

const (
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	providerName = config.ProviderClaude
)

// Extractor implements port.InvoiceExtractor using the Anthropic Messages API.
type Extractor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewExtractor creates a Claude-based invoice extractor from a provider config.
func NewExtractor(cfg *config.ParserProviderConfig) *Extractor {
	return newExtractor(cfg, apiURL)
}

// NewExtractorWithEndpoint creates an extractor pointing at a custom API endpoint (for testing).
func NewExtractorWithEndpoint(cfg *config.ParserProviderConfig, endpoint string) *Extractor {
	return newExtractor(cfg, endpoint)
}

func newExtractor(cfg *config.ParserProviderConfig, endpoint string) *Extractor {
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
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
		return parser.FailedResult(providerName, parser.NewConfigurationError(providerName, "Anthropic"), "")
	}

	text, err := e.createMessage(ctx, image, mimeType)
	if err != nil {
		log.Printf("claude.Extractor: extraction failed: %v", err)
		return parser.FailedResult(providerName, err, text)
	}
	log.Printf("claude.Extractor: raw response: %s", parser.Truncate(text, 200))
	return parser.ResultFromText(providerName, text)
}

func (e *Extractor) createMessage(ctx context.Context, image []byte, mimeType string) (string, error) {
	fileBlock, err := buildFileBlock(image, mimeType)
	if err != nil {
		return "", &parser.TransportError{Provider: providerName, Err: err}
	}

	reqBody := map[string]interface{}{
		"model":       e.model,
		"max_tokens":  4096,
		"temperature": 0.1,
		"system":      parser.SystemPrompt,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					fileBlock,
					{"type": "text", "text": parser.InvoicePrompt},
				},
			},
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
	req.Header.Set("x-api-key", e.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", &parser.TransportError{Provider: providerName, Err: fmt.Errorf("calling anthropic API: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &parser.TransportError{Provider: providerName, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, parser.Truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := parser.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", parser.NewRateLimitError(providerName, baseErr, retryAfter)
		}
		return "", &parser.TransportError{Provider: providerName, StatusCode: resp.StatusCode, Err: baseErr}
	}

	return parseResponse(respBody)
}

func buildFileBlock(image []byte, mimeType string) (map[string]interface{}, error) {
	encoded := base64.StdEncoding.EncodeToString(image)

	switch mimeType {
	case "application/pdf":
		return map[string]interface{}{
			"type": "document",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": "application/pdf",
				"data":       encoded,
			},
		}, nil
	case "image/jpeg", "image/png", "image/webp":
		return map[string]interface{}{
			"type": "image",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": mimeType,
				"data":       encoded,
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported content type for extraction: %s", mimeType)
	}
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &parser.TransportError{Provider: providerName, Err: fmt.Errorf("unmarshaling response: %w", err)}
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return "", &parser.TransportError{Provider: providerName, Err: errors.New("empty response from API")}
	}

	if resp.StopReason == "max_tokens" {
		return text, &parser.ParseError{Err: errors.New("output truncated (stop_reason: max_tokens)")}
	}
	return text, nil
}
