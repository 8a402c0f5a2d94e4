package service

import (
	"context"
	"fmt"
	"strings"

	"docextract/internal/domain"
	"docextract/internal/port"
)

// OrderWithDetails is an order header together with its line items.
type OrderWithDetails struct {
	Order     *domain.OrderHeader  `json:"order"`
	LineItems []domain.OrderDetail `json:"line_items"`
	ItemCount int                  `json:"item_count"`
}

// OrderService provides read access to the order store.
type OrderService interface {
	ListOrders(ctx context.Context, q domain.OrderQuery) ([]domain.OrderHeader, int, error)
	GetOrder(ctx context.Context, orderID int64) (*OrderWithDetails, error)
	GetOrderDetails(ctx context.Context, orderID int64) ([]domain.OrderDetail, error)
	ListProducts(ctx context.Context, page, perPage int) ([]domain.Product, int, error)
	GetProductByNumber(ctx context.Context, productNumber string) (*domain.Product, error)
	GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error)
	SearchCustomers(ctx context.Context, query string, limit int) ([]domain.CustomerMatch, error)
	GetStats(ctx context.Context, extractedOnly bool) (*domain.StoreStats, error)
}

type orderService struct {
	store port.OrderStore
}

// NewOrderService creates a new OrderService implementation.
func NewOrderService(store port.OrderStore) OrderService {
	return &orderService{store: store}
}

func (s *orderService) ListOrders(ctx context.Context, q domain.OrderQuery) ([]domain.OrderHeader, int, error) {
	if q.Source == "" {
		q.Source = domain.SourceExtracted
	}
	return s.store.GetOrders(ctx, q)
}

func (s *orderService) GetOrder(ctx context.Context, orderID int64) (*OrderWithDetails, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	details, err := s.store.GetOrderDetails(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("loading order %d details: %w", orderID, err)
	}
	return &OrderWithDetails{Order: order, LineItems: details, ItemCount: len(details)}, nil
}

func (s *orderService) GetOrderDetails(ctx context.Context, orderID int64) ([]domain.OrderDetail, error) {
	return s.store.GetOrderDetails(ctx, orderID)
}

func (s *orderService) ListProducts(ctx context.Context, page, perPage int) ([]domain.Product, int, error) {
	return s.store.GetProducts(ctx, page, perPage)
}

func (s *orderService) GetProductByNumber(ctx context.Context, productNumber string) (*domain.Product, error) {
	productNumber = strings.TrimSpace(productNumber)
	if productNumber == "" {
		return nil, fmt.Errorf("%w: product_number is required", domain.ErrInvalidRequest)
	}
	return s.store.GetProductByNumber(ctx, productNumber)
}

func (s *orderService) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	return s.store.GetCustomer(ctx, customerID)
}

func (s *orderService) SearchCustomers(ctx context.Context, query string, limit int) ([]domain.CustomerMatch, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return nil, fmt.Errorf("%w: search query must be at least 2 characters", domain.ErrInvalidRequest)
	}
	return s.store.SearchCustomers(ctx, query, limit)
}

func (s *orderService) GetStats(ctx context.Context, extractedOnly bool) (*domain.StoreStats, error) {
	return s.store.Stats(ctx, extractedOnly)
}
