package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Document is the strongly-typed representation of an extracted invoice.
type Document struct {
	Confidence     *float64       `json:"confidence,omitempty"`
	Header         Header         `json:"header"`
	LineItems      []LineItem     `json:"line_items"`
	Totals         Totals         `json:"totals"`
	AdditionalInfo AdditionalInfo `json:"additional_info"`
}

// Header holds top-level invoice metadata.
type Header struct {
	InvoiceNumber Text    `json:"invoice_number"`
	Date          string  `json:"date"`
	CustomerID    *Text   `json:"customer_id"`
	CompanyName   string  `json:"company_name"`
	BillTo        Address `json:"bill_to"`
	ShipTo        Address `json:"ship_to"`
}

// Address is a bill-to or ship-to block.
type Address struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     Text   `json:"zip"`
}

// LineItem represents a single line item on the invoice.
type LineItem struct {
	ItemNumber  Text   `json:"item_number"`
	Description string `json:"description"`
	Quantity    Amount `json:"quantity"`
	UnitPrice   Amount `json:"unit_price"`
	Total       Amount `json:"total"`
}

// Totals holds the invoice totals. TaxRate is a percentage kept at full precision.
type Totals struct {
	Subtotal  Amount `json:"subtotal"`
	TaxRate   Amount `json:"tax_rate"`
	TaxAmount Amount `json:"tax_amount"`
	Shipping  Amount `json:"shipping"`
	Other     Amount `json:"other"`
	Total     Amount `json:"total"`
}

// AdditionalInfo holds free-form order metadata printed on the invoice.
type AdditionalInfo struct {
	Salesperson string `json:"salesperson"`
	PONumber    Text   `json:"po_number"`
	ShipDate    string `json:"ship_date"`
	ShipVia     string `json:"ship_via"`
	Terms       string `json:"terms"`
	FOB         string `json:"fob"`
}

// Amount is a numeric invoice value. It decodes from JSON numbers and from strings
// carrying currency symbols or thousands separators; null, blank and "-" decode as 0.
type Amount float64

// Float returns the value as float64.
func (a Amount) Float() float64 { return float64(a) }

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseAmount(s)
		if err != nil {
			return err
		}
		*a = Amount(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(f)
	return nil
}

var amountReplacer = strings.NewReplacer("$", "", ",", "", " ", "", "%", "")

// ParseAmount converts a printed currency or percentage value to a number.
func ParseAmount(s string) (float64, error) {
	s = amountReplacer.Replace(strings.TrimSpace(s))
	if s == "" || s == "-" {
		return 0, nil
	}
	// Accounting notation for negatives.
	neg := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	if neg {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("amount: cannot parse %q", s)
	}
	if neg {
		v = -v
	}
	return v, nil
}

// Text is a string field that models sometimes emit as a JSON number.
type Text string

func (t Text) String() string { return string(t) }

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("text: %w", err)
		}
		*t = Text(n.String())
	}
	return nil
}
