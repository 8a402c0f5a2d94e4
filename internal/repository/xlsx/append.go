package xlsx

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"docextract/internal/domain"
)

// AddOrder appends a header to the extracted workbook and returns its new order id. The
// id is one past the largest order id of both datasets. OrderID, ExtractedAt and Source
// of the input are overwritten.
func (s *Store) AddOrder(ctx context.Context, header domain.OrderHeader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	refOrders, err := s.orders(domain.PartitionReference)
	if err != nil {
		return 0, fmt.Errorf("orderStore.AddOrder: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.readExtractedFile()
	if err != nil {
		return 0, fmt.Errorf("orderStore.AddOrder: %w", err)
	}

	id := max(maxOrderID(refOrders), maxOrderID(ds.orders)) + 1
	row := normalizeOrder(header)
	row.OrderID = id
	if row.OrderNumber == "" {
		row.OrderNumber = fmt.Sprintf("EXT-%d", id)
	}
	row.ExtractedAt = s.now().UTC().Format(time.RFC3339)
	row.Source = domain.SourceExtracted

	orders := make([]domain.OrderHeader, 0, len(ds.orders)+1)
	orders = append(orders, ds.orders...)
	orders = append(orders, row)

	if err := s.persist(orders, ds.details); err != nil {
		return 0, fmt.Errorf("orderStore.AddOrder: %w", err)
	}
	s.storeExtracted(&extractedDataset{orders: orders, details: ds.details})

	log.Printf("orderStore.AddOrder: added order %d (%s)", id, row.OrderNumber)
	return id, nil
}

// AddOrderDetails appends lines for orderID and returns their new detail ids in input
// order. orderID must exist in either dataset. An empty input writes nothing.
func (s *Store) AddOrderDetails(ctx context.Context, orderID int64, details []domain.OrderDetail) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	refOrders, err := s.orders(domain.PartitionReference)
	if err != nil {
		return nil, fmt.Errorf("orderStore.AddOrderDetails: %w", err)
	}
	refDetails, err := s.details(domain.PartitionReference)
	if err != nil {
		return nil, fmt.Errorf("orderStore.AddOrderDetails: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.readExtractedFile()
	if err != nil {
		return nil, fmt.Errorf("orderStore.AddOrderDetails: %w", err)
	}
	if !hasOrder(refOrders, orderID) && !hasOrder(ds.orders, orderID) {
		return nil, domain.ErrOrderNotFound
	}
	if len(details) == 0 {
		return []int64{}, nil
	}

	next := max(maxDetailID(refDetails), maxDetailID(ds.details))
	ids := make([]int64, 0, len(details))
	rows := make([]domain.OrderDetail, 0, len(ds.details)+len(details))
	rows = append(rows, ds.details...)
	for i := range details {
		next++
		row := normalizeDetail(details[i])
		row.DetailID = next
		row.OrderID = orderID
		row.Source = domain.SourceExtracted
		rows = append(rows, row)
		ids = append(ids, next)
	}

	if err := s.persist(ds.orders, rows); err != nil {
		return nil, fmt.Errorf("orderStore.AddOrderDetails: %w", err)
	}
	s.storeExtracted(&extractedDataset{orders: ds.orders, details: rows})

	log.Printf("orderStore.AddOrderDetails: added %d line items for order %d", len(ids), orderID)
	return ids, nil
}

// normalizeOrder applies the same normalization a workbook round trip would, so cached
// rows match rows read back from disk.
func normalizeOrder(h domain.OrderHeader) domain.OrderHeader {
	h.OrderNumber = strings.TrimSpace(h.OrderNumber)
	h.OrderDate = normalizeDate(strings.TrimSpace(h.OrderDate))
	h.InvoiceNumber = strings.TrimSpace(h.InvoiceNumber)
	h.CompanyName = strings.TrimSpace(h.CompanyName)
	h.Provider = strings.TrimSpace(h.Provider)
	return h
}

func normalizeDetail(d domain.OrderDetail) domain.OrderDetail {
	d.ProductNumber = strings.TrimSpace(d.ProductNumber)
	d.ProductName = strings.TrimSpace(d.ProductName)
	return d
}

func maxOrderID(rows []domain.OrderHeader) int64 {
	var m int64
	for i := range rows {
		m = max(m, rows[i].OrderID)
	}
	return m
}

func maxDetailID(rows []domain.OrderDetail) int64 {
	var m int64
	for i := range rows {
		m = max(m, rows[i].DetailID)
	}
	return m
}

func hasOrder(rows []domain.OrderHeader, id int64) bool {
	for i := range rows {
		if rows[i].OrderID == id {
			return true
		}
	}
	return false
}
