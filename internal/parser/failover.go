package parser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"docextract/internal/port"
)

// NoneProvider is the provider name reported when every provider failed.
const NoneProvider = "none"

// circuitState tracks rate-limit backoff for a single provider.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FailoverExtractor tries the primary provider and, on any failure, the fallback. The
// pair is fixed at construction. It implements port.InvoiceExtractor.
type FailoverExtractor struct {
	primary  port.InvoiceExtractor
	fallback port.InvoiceExtractor
	circuits [2]*circuitState
	now      func() time.Time
}

// NewFailoverExtractor creates a FailoverExtractor over a primary and a fallback provider.
func NewFailoverExtractor(primary, fallback port.InvoiceExtractor) *FailoverExtractor {
	return &FailoverExtractor{
		primary:  primary,
		fallback: fallback,
		circuits: [2]*circuitState{{}, {}},
		now:      time.Now,
	}
}

// Name returns the primary provider name.
func (f *FailoverExtractor) Name() string { return f.primary.Name() }

// Primary returns the primary provider name.
func (f *FailoverExtractor) Primary() string { return f.primary.Name() }

// Fallback returns the fallback provider name.
func (f *FailoverExtractor) Fallback() string { return f.fallback.Name() }

func (f *FailoverExtractor) Extract(ctx context.Context, image []byte, mimeType string) *port.ExtractionResult {
	log.Printf("parser.FailoverExtractor: attempting extraction with primary provider %s", f.primary.Name())
	first := f.attempt(ctx, 0, f.primary, image, mimeType)
	if first.Succeeded {
		log.Printf("parser.FailoverExtractor: primary %s succeeded (confidence %s)", first.Provider, formatConfidence(first.Confidence))
		return first
	}

	log.Printf("parser.FailoverExtractor: primary %s failed: %s; trying fallback %s",
		f.primary.Name(), first.ErrorMessage, f.fallback.Name())
	second := f.attempt(ctx, 1, f.fallback, image, mimeType)
	if second.Succeeded {
		log.Printf("parser.FailoverExtractor: fallback %s succeeded (confidence %s)", second.Provider, formatConfidence(second.Confidence))
		return second
	}

	ferr := &FailoverError{
		Primary:     f.primary.Name(),
		Fallback:    f.fallback.Name(),
		PrimaryErr:  resultErr(first),
		FallbackErr: resultErr(second),
	}
	log.Printf("parser.FailoverExtractor: %v", ferr)
	return FailedResult(NoneProvider, ferr, "")
}

func (f *FailoverExtractor) attempt(ctx context.Context, idx int, p port.InvoiceExtractor, image []byte, mimeType string) *port.ExtractionResult {
	now := f.now()
	if resetAt, open := f.circuits[idx].isOpenWithReset(now); open {
		log.Printf("parser.FailoverExtractor: skipping %s (circuit open until %s)", p.Name(), resetAt.Format(time.RFC3339))
		rlErr := &RateLimitError{
			Err:        fmt.Errorf("circuit open until %s", resetAt.Format(time.RFC3339)),
			RetryAfter: resetAt.Sub(now),
			Provider:   p.Name(),
		}
		return FailedResult(p.Name(), rlErr, "")
	}

	res := p.Extract(ctx, image, mimeType)
	if res == nil {
		return FailedResult(p.Name(), errors.New("provider returned no result"), "")
	}

	var rlErr *RateLimitError
	if !res.Succeeded && errors.As(res.Err, &rlErr) {
		f.circuits[idx].open(now.Add(rlErr.RetryAfter))
	}
	return res
}

func resultErr(r *port.ExtractionResult) error {
	if r.Err != nil {
		return r.Err
	}
	return errors.New(r.ErrorMessage)
}

func formatConfidence(c *float64) string {
	if c == nil {
		return "unset"
	}
	return fmt.Sprintf("%.2f", *c)
}
