package port

import (
	"context"

	"docextract/internal/domain"
)

// OrderStore is the layered sales order store: a read-only reference dataset merged
// with an append-only extracted dataset.
type OrderStore interface {
	GetOrders(ctx context.Context, q domain.OrderQuery) ([]domain.OrderHeader, int, error)
	GetOrder(ctx context.Context, orderID int64) (*domain.OrderHeader, error)
	GetOrderDetails(ctx context.Context, orderID int64) ([]domain.OrderDetail, error)
	GetProducts(ctx context.Context, page, perPage int) ([]domain.Product, int, error)
	GetProductByNumber(ctx context.Context, productNumber string) (*domain.Product, error)
	GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error)
	SearchCustomers(ctx context.Context, query string, limit int) ([]domain.CustomerMatch, error)
	Stats(ctx context.Context, extractedOnly bool) (*domain.StoreStats, error)

	AddOrder(ctx context.Context, header domain.OrderHeader) (int64, error)
	AddOrderDetails(ctx context.Context, orderID int64, details []domain.OrderDetail) ([]int64, error)
}
