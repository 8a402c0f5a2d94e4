package port

import (
	"context"

	"docextract/internal/validator/invoice"
)

// ExtractionResult is the outcome of one extraction attempt. It is never mutated after
// being returned.
type ExtractionResult struct {
	Succeeded    bool              `json:"success"`
	Confidence   *float64          `json:"confidence"`
	Provider     string            `json:"provider"`
	Document     *invoice.Document `json:"data,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
	RawText      string            `json:"raw_response,omitempty"`

	// Err carries the typed failure (configuration, transport, parse or failover).
	Err error `json:"-"`
}

// InvoiceExtractor turns an invoice image into a structured document. Failures are
// reported in the result, never as a separate error.
type InvoiceExtractor interface {
	Name() string
	Extract(ctx context.Context, image []byte, mimeType string) *ExtractionResult
}
