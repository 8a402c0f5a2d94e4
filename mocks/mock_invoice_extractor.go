package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docextract/internal/port"
)

// MockInvoiceExtractor is a mock implementation of port.InvoiceExtractor.
type MockInvoiceExtractor struct {
	mock.Mock
}

func (m *MockInvoiceExtractor) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockInvoiceExtractor) Extract(ctx context.Context, image []byte, mimeType string) *port.ExtractionResult {
	args := m.Called(ctx, image, mimeType)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*port.ExtractionResult)
}
