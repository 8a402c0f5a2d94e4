package xlsx

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"docextract/internal/domain"
)

const (
	defaultPerPage     = 20
	defaultSearchLimit = 10
)

var partitions = []domain.Partition{domain.PartitionReference, domain.PartitionExtracted}

// readOrders returns the header rows of the selected partitions, each tagged with its
// source, in partition order.
func (s *Store) readOrders(source domain.Source) ([]domain.OrderHeader, error) {
	var out []domain.OrderHeader
	for _, p := range partitions {
		if !source.Includes(p) {
			continue
		}
		rows, err := s.orders(p)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

// GetOrders returns one page of headers sorted by order id, newest first, and the total
// number of matching headers.
func (s *Store) GetOrders(ctx context.Context, q domain.OrderQuery) ([]domain.OrderHeader, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	source := q.Source
	if source == "" {
		source = domain.SourceExtracted
	}
	all, err := s.readOrders(source)
	if err != nil {
		return nil, 0, fmt.Errorf("orderStore.GetOrders: %w", err)
	}

	matched := make([]domain.OrderHeader, 0, len(all))
	for i := range all {
		if q.CustomerID != nil && (all[i].CustomerID == nil || *all[i].CustomerID != *q.CustomerID) {
			continue
		}
		matched = append(matched, all[i])
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].OrderID > matched[j].OrderID })

	return paginate(matched, q.Page, q.PerPage), len(matched), nil
}

// GetOrder returns a header by id, preferring the extracted partition.
func (s *Store) GetOrder(ctx context.Context, orderID int64) (*domain.OrderHeader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, p := range []domain.Partition{domain.PartitionExtracted, domain.PartitionReference} {
		rows, err := s.orders(p)
		if err != nil {
			return nil, fmt.Errorf("orderStore.GetOrder: %w", err)
		}
		for i := range rows {
			if rows[i].OrderID == orderID {
				h := rows[i]
				return &h, nil
			}
		}
	}
	return nil, domain.ErrOrderNotFound
}

// GetOrderDetails returns the lines of an order. Extracted lines shadow reference lines:
// when the extracted partition has any line for the order, reference lines are not read.
func (s *Store) GetOrderDetails(ctx context.Context, orderID int64) ([]domain.OrderDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, p := range []domain.Partition{domain.PartitionExtracted, domain.PartitionReference} {
		rows, err := s.details(p)
		if err != nil {
			return nil, fmt.Errorf("orderStore.GetOrderDetails: %w", err)
		}
		var matched []domain.OrderDetail
		for i := range rows {
			if rows[i].OrderID == orderID {
				matched = append(matched, rows[i])
			}
		}
		if len(matched) > 0 {
			return matched, nil
		}
	}
	return []domain.OrderDetail{}, nil
}

// GetProducts returns one page of the product catalogue in workbook order.
func (s *Store) GetProducts(ctx context.Context, page, perPage int) ([]domain.Product, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	products, err := s.products()
	if err != nil {
		return nil, 0, fmt.Errorf("orderStore.GetProducts: %w", err)
	}
	return paginate(products, page, perPage), len(products), nil
}

// GetProductByNumber finds a product by its exact product number.
func (s *Store) GetProductByNumber(ctx context.Context, productNumber string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	products, err := s.products()
	if err != nil {
		return nil, fmt.Errorf("orderStore.GetProductByNumber: %w", err)
	}
	productNumber = strings.TrimSpace(productNumber)
	for i := range products {
		if products[i].ProductNumber == productNumber {
			p := products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// GetCustomer returns a reference customer account.
func (s *Store) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	customers, err := s.customers()
	if err != nil {
		return nil, fmt.Errorf("orderStore.GetCustomer: %w", err)
	}
	for i := range customers {
		if customers[i].CustomerID == customerID {
			c := customers[i]
			return &c, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

// SearchCustomers matches query case-insensitively against individual first and last
// names, then store names. Individual matches always come first; results stop at limit.
func (s *Store) SearchCustomers(ctx context.Context, query string, limit int) ([]domain.CustomerMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))
	results := make([]domain.CustomerMatch, 0, limit)
	if q == "" {
		return results, nil
	}

	individuals, err := s.individualCustomers()
	if err != nil {
		return nil, fmt.Errorf("orderStore.SearchCustomers: %w", err)
	}
	for i := range individuals {
		if len(results) == limit {
			return results, nil
		}
		c := &individuals[i]
		if strings.Contains(strings.ToLower(c.FirstName), q) || strings.Contains(strings.ToLower(c.LastName), q) {
			results = append(results, domain.CustomerMatch{
				Type:             domain.CustomerTypeIndividual,
				Name:             strings.TrimSpace(c.FirstName + " " + c.LastName),
				BusinessEntityID: c.BusinessEntityID,
			})
		}
	}

	stores, err := s.storeCustomers()
	if err != nil {
		return nil, fmt.Errorf("orderStore.SearchCustomers: %w", err)
	}
	for i := range stores {
		if len(results) == limit {
			break
		}
		if strings.Contains(strings.ToLower(stores[i].Name), q) {
			results = append(results, domain.CustomerMatch{
				Type:             domain.CustomerTypeStore,
				Name:             stores[i].Name,
				BusinessEntityID: stores[i].BusinessEntityID,
			})
		}
	}
	return results, nil
}

// Stats reports record counts. With extractedOnly, reference tables are not loaded.
func (s *Store) Stats(ctx context.Context, extractedOnly bool) (*domain.StoreStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	extOrders, err := s.orders(domain.PartitionExtracted)
	if err != nil {
		return nil, fmt.Errorf("orderStore.Stats: %w", err)
	}
	extDetails, err := s.details(domain.PartitionExtracted)
	if err != nil {
		return nil, fmt.Errorf("orderStore.Stats: %w", err)
	}

	stats := &domain.StoreStats{
		Orders:                len(extOrders),
		ExtractedOrders:       len(extOrders),
		OrderDetails:          len(extDetails),
		ExtractedOrderDetails: len(extDetails),
		ReferenceFile:         s.referencePath,
		ExtractedFile:         s.extractedPath,
		ReferenceExists:       fileExists(s.referencePath),
		ExtractedExists:       fileExists(s.extractedPath),
	}
	if extractedOnly {
		return stats, nil
	}

	refOrders, err := s.orders(domain.PartitionReference)
	if err != nil {
		return nil, fmt.Errorf("orderStore.Stats: %w", err)
	}
	refDetails, err := s.details(domain.PartitionReference)
	if err != nil {
		return nil, fmt.Errorf("orderStore.Stats: %w", err)
	}
	products, err := s.products()
	if err != nil {
		return nil, fmt.Errorf("orderStore.Stats: %w", err)
	}
	customers, err := s.customers()
	if err != nil {
		return nil, fmt.Errorf("orderStore.Stats: %w", err)
	}

	stats.ReferenceOrders = len(refOrders)
	stats.Orders += len(refOrders)
	stats.OrderDetails += len(refDetails)
	stats.Products = len(products)
	stats.Customers = len(customers)
	return stats, nil
}

func paginate[T any](items []T, page, perPage int) []T {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	// Compare page counts before multiplying so a huge page cannot overflow.
	if page-1 >= (len(items)+perPage-1)/perPage {
		return []T{}
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
