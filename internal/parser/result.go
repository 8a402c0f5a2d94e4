package parser

import (
	"log"

	"docextract/internal/port"
)

// FailedResult builds a failed extraction result. Confidence is reported as 0.
func FailedResult(provider string, err error, rawText string) *port.ExtractionResult {
	zero := 0.0
	return &port.ExtractionResult{
		Succeeded:    false,
		Confidence:   &zero,
		Provider:     provider,
		ErrorMessage: err.Error(),
		RawText:      rawText,
		Err:          err,
	}
}

// ResultFromText normalizes a provider's raw answer. A schema failure keeps the raw text
// for diagnostics.
func ResultFromText(provider, rawText string) *port.ExtractionResult {
	doc, err := Normalize(rawText)
	if err != nil {
		log.Printf("parser.%s: normalization failed: %v", provider, err)
		return FailedResult(provider, err, rawText)
	}
	return &port.ExtractionResult{
		Succeeded:  true,
		Confidence: doc.Confidence,
		Provider:   provider,
		Document:   doc,
		RawText:    rawText,
	}
}

// Truncate shortens s for log lines.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
