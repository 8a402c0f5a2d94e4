package csvexport_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/csvexport"
	"docextract/internal/domain"
)

func readAll(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	rows := readAll(t, &buf)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 15)
	assert.Equal(t, "Order ID", rows[0][0])
	assert.Equal(t, "Extracted At", rows[0][14])
}

func TestWriteOrders_Extracted(t *testing.T) {
	cust := int64(29825)
	conf := 0.95
	orders := []domain.OrderHeader{{
		OrderID:       75124,
		OrderNumber:   "EXT-1",
		OrderDate:     "2024-03-01",
		CustomerID:    &cust,
		SubTotal:      100,
		TaxAmount:     8.25,
		Freight:       0,
		TotalDue:      108.25,
		Status:        domain.OrderStatusNew,
		InvoiceNumber: "INV-001",
		CompanyName:   "Acme, Inc.",
		ExtractedAt:   "2024-03-01T10:00:00Z",
		Confidence:    &conf,
		Provider:      "openai",
		Source:        domain.SourceExtracted,
	}}

	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	require.NoError(t, w.WriteOrders(orders))
	w.Flush()
	require.NoError(t, w.Error())

	rows := readAll(t, &buf)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{
		"75124", "EXT-1", "2024-03-01", "29825", "INV-001", "Acme, Inc.",
		"100.00", "8.25", "0.00", "108.25", "1", "extracted", "openai", "0.95", "2024-03-01T10:00:00Z",
	}, rows[0])
}

func TestWriteOrders_OptionalFieldsEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	require.NoError(t, w.WriteOrders([]domain.OrderHeader{{OrderID: 43659, Source: domain.SourceReference}}))
	w.Flush()

	rows := readAll(t, &buf)
	assert.Equal(t, "", rows[0][3])
	assert.Equal(t, "", rows[0][13])
	assert.Equal(t, "reference", rows[0][11])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"orders extracted", "orders_extracted"},
		{"  Q3 / 2024  ", "Q3_2024"},
		{"a--b__c", "a--b_c"},
		{strings.Repeat("x", 120), strings.Repeat("x", 100)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, csvexport.SanitizeFilename(tt.in))
	}
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "orders_both_2024-03-01.csv", csvexport.BuildFilename("orders both", now))
}
