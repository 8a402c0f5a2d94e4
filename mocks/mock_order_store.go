package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docextract/internal/domain"
)

// MockOrderStore is a mock implementation of port.OrderStore.
type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) GetOrders(ctx context.Context, q domain.OrderQuery) ([]domain.OrderHeader, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.OrderHeader), args.Int(1), args.Error(2)
}

func (m *MockOrderStore) GetOrder(ctx context.Context, orderID int64) (*domain.OrderHeader, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderHeader), args.Error(1)
}

func (m *MockOrderStore) GetOrderDetails(ctx context.Context, orderID int64) ([]domain.OrderDetail, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderDetail), args.Error(1)
}

func (m *MockOrderStore) GetProducts(ctx context.Context, page, perPage int) ([]domain.Product, int, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *MockOrderStore) GetProductByNumber(ctx context.Context, productNumber string) (*domain.Product, error) {
	args := m.Called(ctx, productNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockOrderStore) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockOrderStore) SearchCustomers(ctx context.Context, query string, limit int) ([]domain.CustomerMatch, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomerMatch), args.Error(1)
}

func (m *MockOrderStore) Stats(ctx context.Context, extractedOnly bool) (*domain.StoreStats, error) {
	args := m.Called(ctx, extractedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoreStats), args.Error(1)
}

func (m *MockOrderStore) AddOrder(ctx context.Context, header domain.OrderHeader) (int64, error) {
	args := m.Called(ctx, header)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderStore) AddOrderDetails(ctx context.Context, orderID int64, details []domain.OrderDetail) ([]int64, error) {
	args := m.Called(ctx, orderID, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
