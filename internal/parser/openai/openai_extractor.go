package openai

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
	apiURL       = "https://api.openai.com/v1/chat/completions"
	providerName = config.ProviderOpenAI
)

// Extractor implements port.InvoiceExtractor using the OpenAI Chat Completions API.
type Extractor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewExtractor creates an OpenAI-based invoice extractor from a provider config.
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
		model = "gpt-4o"
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
		return parser.FailedResult(providerName, parser.NewConfigurationError(providerName, "OpenAI"), "")
	}

	text, err := e.complete(ctx, image, mimeType)
	if err != nil {
		log.Printf("openai.Extractor: extraction failed: %v", err)
		return parser.FailedResult(providerName, err, text)
	}
	log.Printf("openai.Extractor: raw response: %s", parser.Truncate(text, 200))
	return parser.ResultFromText(providerName, text)
}

func (e *Extractor) complete(ctx context.Context, image []byte, mimeType string) (string, error) {
	imageBlock, err := buildImageBlock(image, mimeType)
	if err != nil {
		return "", &parser.TransportError{Provider: providerName, Err: err}
	}

	reqBody := map[string]interface{}{
		"model":                 e.model,
		"max_completion_tokens": 4096,
		"temperature":           0.1,
		"messages": []map[string]interface{}{
			{
				"role":    "system",
				"content": parser.SystemPrompt,
			},
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": parser.InvoicePrompt},
					imageBlock,
				},
			},
		},
		"response_format": map[string]interface{}{
			"type": "json_object",
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
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", &parser.TransportError{Provider: providerName, Err: fmt.Errorf("calling openai API: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &parser.TransportError{Provider: providerName, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, parser.Truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := parser.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", parser.NewRateLimitError(providerName, baseErr, retryAfter)
		}
		return "", &parser.TransportError{Provider: providerName, StatusCode: resp.StatusCode, Err: baseErr}
	}

	return parseResponse(respBody)
}

func buildImageBlock(image []byte, mimeType string) (map[string]interface{}, error) {
	encoded := base64.StdEncoding.EncodeToString(image)
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, encoded)

	switch mimeType {
	case "application/pdf":
		return map[string]interface{}{
			"type": "file",
			"file": map[string]interface{}{
				"filename":  "invoice.pdf",
				"file_data": dataURI,
			},
		}, nil
	case "image/jpeg", "image/png", "image/webp":
		return map[string]interface{}{
			"type": "image_url",
			"image_url": map[string]interface{}{
				"url":    dataURI,
				"detail": "high",
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported content type for extraction: %s", mimeType)
	}
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &parser.TransportError{Provider: providerName, Err: fmt.Errorf("unmarshaling response: %w", err)}
	}

	if len(resp.Choices) == 0 {
		return "", &parser.TransportError{Provider: providerName, Err: errors.New("empty response from API: no choices")}
	}

	text := resp.Choices[0].Message.Content
	if resp.Choices[0].FinishReason == "length" {
		return text, &parser.ParseError{Err: errors.New("output truncated (finish_reason: length)")}
	}
	return text, nil
}
