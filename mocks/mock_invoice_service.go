package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docextract/internal/service"
	"docextract/internal/validator/invoice"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Extract(ctx context.Context, input *service.InvoiceInput) (*service.InvoiceResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InvoiceResult), args.Error(1)
}

func (m *MockInvoiceService) Upload(ctx context.Context, input *service.InvoiceInput) (*service.InvoiceResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InvoiceResult), args.Error(1)
}

// UploadStream replays the configured events on a closed channel.
func (m *MockInvoiceService) UploadStream(ctx context.Context, input *service.InvoiceInput) <-chan service.StreamEvent {
	args := m.Called(ctx, input)
	events := args.Get(0).([]service.StreamEvent)
	ch := make(chan service.StreamEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

func (m *MockInvoiceService) SaveEdited(ctx context.Context, doc *invoice.Document) (int64, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceService) ProviderStatus() *service.ProviderStatus {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*service.ProviderStatus)
}
