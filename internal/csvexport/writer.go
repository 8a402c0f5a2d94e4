// Package csvexport renders order headers as CSV for spreadsheet download.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"docextract/internal/domain"
)

// BOM is the UTF-8 byte order mark. Excel on Windows needs it to detect the encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var columns = []string{
	"Order ID",
	"Order Number",
	"Order Date",
	"Customer ID",
	"Invoice Number",
	"Company Name",
	"Subtotal",
	"Tax Amount",
	"Freight",
	"Total Due",
	"Status",
	"Source",
	"Provider",
	"Confidence",
	"Extracted At",
}

// Writer wraps csv.Writer for exporting orders.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteOrders converts a batch of order headers to rows and writes them.
func (w *Writer) WriteOrders(orders []domain.OrderHeader) error {
	for i := range orders {
		if err := w.csv.Write(orderToRow(&orders[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// orderToRow converts one order header to a row. Optional values render as empty cells.
func orderToRow(o *domain.OrderHeader) []string {
	row := make([]string, len(columns))
	row[0] = strconv.FormatInt(o.OrderID, 10)
	row[1] = o.OrderNumber
	row[2] = o.OrderDate
	if o.CustomerID != nil {
		row[3] = strconv.FormatInt(*o.CustomerID, 10)
	}
	row[4] = o.InvoiceNumber
	row[5] = o.CompanyName
	row[6] = formatMoney(o.SubTotal)
	row[7] = formatMoney(o.TaxAmount)
	row[8] = formatMoney(o.Freight)
	row[9] = formatMoney(o.TotalDue)
	row[10] = strconv.Itoa(o.Status)
	row[11] = string(o.Source)
	row[12] = o.Provider
	if o.Confidence != nil {
		row[13] = strconv.FormatFloat(*o.Confidence, 'f', -1, 64)
	}
	row[14] = o.ExtractedAt
	return row
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces characters other than letters, digits, '-' and '_' with '_',
// collapses repeated underscores and truncates to 100 characters.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized name}_{YYYY-MM-DD}.csv for a Content-Disposition header.
func BuildFilename(name string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", SanitizeFilename(name), now.Format("2006-01-02"))
}
