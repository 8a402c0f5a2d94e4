// Package transform maps extracted invoice documents onto sales order rows.
package transform

import (
	"strconv"
	"strings"

	"docextract/internal/domain"
	"docextract/internal/validator/invoice"
)

// OrderNumber derives the sales order number from an invoice number. A leading "SO-" is
// collapsed so the result never carries a doubled prefix or separator.
func OrderNumber(invoiceNumber string) string {
	inv := strings.TrimSpace(invoiceNumber)
	inv = strings.TrimPrefix(inv, "SO-")
	num := "SO" + inv
	if strings.HasPrefix(num, "SO-") {
		num = "SO" + num[len("SO-"):]
	}
	return num
}

// ToSalesOrder converts doc into a header and its detail rows. When assignedOrderID is
// set, it is used as the header id and detail foreign key; otherwise ids stay zero for
// the store to allocate. Product ids are left unresolved.
func ToSalesOrder(doc *invoice.Document, assignedOrderID *int64) (domain.OrderHeader, []domain.OrderDetail) {
	if doc == nil {
		doc = &invoice.Document{}
	}

	header := domain.OrderHeader{
		OrderNumber:   OrderNumber(doc.Header.InvoiceNumber.String()),
		OrderDate:     doc.Header.Date,
		CustomerID:    parseCustomerID(doc.Header.CustomerID),
		SubTotal:      doc.Totals.Subtotal.Float(),
		TaxAmount:     doc.Totals.TaxAmount.Float(),
		Freight:       doc.Totals.Shipping.Float(),
		TotalDue:      doc.Totals.Total.Float(),
		Status:        domain.OrderStatusNew,
		InvoiceNumber: doc.Header.InvoiceNumber.String(),
		CompanyName:   doc.Header.CompanyName,
		Confidence:    doc.Confidence,
	}
	if assignedOrderID != nil {
		header.OrderID = *assignedOrderID
	}

	details := make([]domain.OrderDetail, 0, len(doc.LineItems))
	for _, item := range doc.LineItems {
		details = append(details, domain.OrderDetail{
			OrderID:       header.OrderID,
			ProductNumber: item.ItemNumber.String(),
			ProductName:   item.Description,
			OrderQty:      item.Quantity.Float(),
			UnitPrice:     item.UnitPrice.Float(),
			LineTotal:     item.Total.Float(),
		})
	}
	return header, details
}

func parseCustomerID(t *invoice.Text) *int64 {
	if t == nil {
		return nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(t.String()), 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
