package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docextract/internal/domain"
	"docextract/internal/service"
	"docextract/mocks"
)

func TestOrderService_ListOrders_DefaultsToExtracted(t *testing.T) {
	store := new(mocks.MockOrderStore)
	svc := service.NewOrderService(store)

	orders := []domain.OrderHeader{{OrderID: 75124}}
	store.On("GetOrders", mock.Anything, domain.OrderQuery{Page: 1, PerPage: 20, Source: domain.SourceExtracted}).
		Return(orders, 1, nil)

	got, total, err := svc.ListOrders(context.Background(), domain.OrderQuery{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, orders, got)
	assert.Equal(t, 1, total)
	store.AssertExpectations(t)
}

func TestOrderService_GetOrder_IncludesLineItems(t *testing.T) {
	store := new(mocks.MockOrderStore)
	svc := service.NewOrderService(store)

	header := &domain.OrderHeader{OrderID: 43659}
	details := []domain.OrderDetail{{DetailID: 1, OrderID: 43659}, {DetailID: 2, OrderID: 43659}}
	store.On("GetOrder", mock.Anything, int64(43659)).Return(header, nil)
	store.On("GetOrderDetails", mock.Anything, int64(43659)).Return(details, nil)

	got, err := svc.GetOrder(context.Background(), 43659)
	require.NoError(t, err)
	assert.Equal(t, header, got.Order)
	assert.Equal(t, details, got.LineItems)
	assert.Equal(t, 2, got.ItemCount)
	store.AssertExpectations(t)
}

func TestOrderService_GetOrder_NotFound(t *testing.T) {
	store := new(mocks.MockOrderStore)
	svc := service.NewOrderService(store)

	store.On("GetOrder", mock.Anything, int64(1)).Return(nil, domain.ErrOrderNotFound)

	_, err := svc.GetOrder(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	store.AssertNotCalled(t, "GetOrderDetails", mock.Anything, mock.Anything)
}

func TestOrderService_GetOrder_DetailsError(t *testing.T) {
	store := new(mocks.MockOrderStore)
	svc := service.NewOrderService(store)

	store.On("GetOrder", mock.Anything, int64(5)).Return(&domain.OrderHeader{OrderID: 5}, nil)
	store.On("GetOrderDetails", mock.Anything, int64(5)).Return(nil, errors.New("corrupt sheet"))

	_, err := svc.GetOrder(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt sheet")
}

func TestOrderService_SearchCustomers_RequiresTwoCharacters(t *testing.T) {
	store := new(mocks.MockOrderStore)
	svc := service.NewOrderService(store)

	_, err := svc.SearchCustomers(context.Background(), " a ", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	matches := []domain.CustomerMatch{{Type: domain.CustomerTypeStore, Name: "Annual Bike Sales", BusinessEntityID: 294}}
	store.On("SearchCustomers", mock.Anything, "ann", 5).Return(matches, nil)

	got, err := svc.SearchCustomers(context.Background(), "ann", 5)
	require.NoError(t, err)
	assert.Equal(t, matches, got)
	store.AssertExpectations(t)
}

func TestOrderService_GetProductByNumber(t *testing.T) {
	store := new(mocks.MockOrderStore)
	svc := service.NewOrderService(store)

	_, err := svc.GetProductByNumber(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	store.On("GetProductByNumber", mock.Anything, "BK-M82B-42").Return(&domain.Product{ProductID: 776}, nil)
	p, err := svc.GetProductByNumber(context.Background(), " BK-M82B-42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(776), p.ProductID)
}

func TestOrderService_GetStats(t *testing.T) {
	store := new(mocks.MockOrderStore)
	svc := service.NewOrderService(store)

	stats := &domain.StoreStats{Orders: 3, ExtractedOrders: 3}
	store.On("Stats", mock.Anything, true).Return(stats, nil)

	got, err := svc.GetStats(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, stats, got)
}
