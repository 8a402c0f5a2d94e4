package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docextract/internal/domain"
	"docextract/internal/service"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) ListOrders(ctx context.Context, q domain.OrderQuery) ([]domain.OrderHeader, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.OrderHeader), args.Int(1), args.Error(2)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID int64) (*service.OrderWithDetails, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OrderWithDetails), args.Error(1)
}

func (m *MockOrderService) GetOrderDetails(ctx context.Context, orderID int64) ([]domain.OrderDetail, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderDetail), args.Error(1)
}

func (m *MockOrderService) ListProducts(ctx context.Context, page, perPage int) ([]domain.Product, int, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *MockOrderService) GetProductByNumber(ctx context.Context, productNumber string) (*domain.Product, error) {
	args := m.Called(ctx, productNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockOrderService) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockOrderService) SearchCustomers(ctx context.Context, query string, limit int) ([]domain.CustomerMatch, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomerMatch), args.Error(1)
}

func (m *MockOrderService) GetStats(ctx context.Context, extractedOnly bool) (*domain.StoreStats, error) {
	args := m.Called(ctx, extractedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoreStats), args.Error(1)
}
