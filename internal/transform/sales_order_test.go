package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/domain"
	"docextract/internal/transform"
	"docextract/internal/validator/invoice"
)

func TestOrderNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"71774", "SO71774"},
		{"SO-71774", "SO71774"},
		{"-71774", "SO71774"},
		{"INV-9", "SOINV-9"},
		{" 43659 ", "SO43659"},
		{"", "SO"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, transform.OrderNumber(tt.in))
		})
	}
}

func TestToSalesOrder(t *testing.T) {
	conf := 0.9
	cust := invoice.Text("29847")
	doc := &invoice.Document{
		Confidence: &conf,
		Header: invoice.Header{
			InvoiceNumber: "71774",
			Date:          "2008-06-01",
			CustomerID:    &cust,
			CompanyName:   "Good Toys",
		},
		LineItems: []invoice.LineItem{
			{ItemNumber: "FR-R92R-58", Description: "HL Road Frame", Quantity: 3, UnitPrice: 10, Total: 30},
			{ItemNumber: "BK-M68B-42", Description: "Mountain-200", Quantity: 1, UnitPrice: 2000, Total: 2000},
		},
		Totals: invoice.Totals{Subtotal: 2030, TaxAmount: 139.56, Shipping: 15, Total: 2184.56},
	}

	id := int64(75124)
	header, details := transform.ToSalesOrder(doc, &id)

	assert.Equal(t, int64(75124), header.OrderID)
	assert.Equal(t, "SO71774", header.OrderNumber)
	assert.Equal(t, "2008-06-01", header.OrderDate)
	require.NotNil(t, header.CustomerID)
	assert.Equal(t, int64(29847), *header.CustomerID)
	assert.Equal(t, 2030.0, header.SubTotal)
	assert.Equal(t, 139.56, header.TaxAmount)
	assert.Equal(t, 15.0, header.Freight)
	assert.Equal(t, 2184.56, header.TotalDue)
	assert.Equal(t, domain.OrderStatusNew, header.Status)
	assert.Equal(t, "Good Toys", header.CompanyName)
	assert.Equal(t, &conf, header.Confidence)

	require.Len(t, details, 2)
	assert.Equal(t, int64(75124), details[0].OrderID)
	assert.Nil(t, details[0].ProductID)
	assert.Equal(t, "FR-R92R-58", details[0].ProductNumber)
	assert.Equal(t, "HL Road Frame", details[0].ProductName)
	assert.Equal(t, 3.0, details[0].OrderQty)
	assert.Equal(t, 10.0, details[0].UnitPrice)
	assert.Equal(t, 30.0, details[0].LineTotal)
	assert.Equal(t, "BK-M68B-42", details[1].ProductNumber)
}

func TestToSalesOrder_NoAssignedID(t *testing.T) {
	header, details := transform.ToSalesOrder(&invoice.Document{
		LineItems: []invoice.LineItem{{Quantity: 1}},
	}, nil)

	assert.Zero(t, header.OrderID)
	assert.Zero(t, details[0].OrderID)
}

func TestToSalesOrder_NonNumericCustomer(t *testing.T) {
	cust := invoice.Text("AW00029847")
	header, _ := transform.ToSalesOrder(&invoice.Document{Header: invoice.Header{CustomerID: &cust}}, nil)
	assert.Nil(t, header.CustomerID)
}

func TestToSalesOrder_NilDocument(t *testing.T) {
	header, details := transform.ToSalesOrder(nil, nil)
	assert.Equal(t, "SO", header.OrderNumber)
	assert.Empty(t, details)
}
