package invoice_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/validator/invoice"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `12.5`, 12.5},
		{"integer", `3`, 3},
		{"null", `null`, 0},
		{"currency string", `"$1,234.56"`, 1234.56},
		{"dash", `"-"`, 0},
		{"blank", `"  "`, 0},
		{"percentage", `"6.875%"`, 6.875},
		{"accounting negative", `"($15.00)"`, -15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a invoice.Amount
			require.NoError(t, json.Unmarshal([]byte(tt.in), &a))
			assert.InDelta(t, tt.want, a.Float(), 1e-9)
		})
	}
}

func TestAmount_UnmarshalJSON_Invalid(t *testing.T) {
	var a invoice.Amount
	assert.Error(t, json.Unmarshal([]byte(`"twelve"`), &a))
	assert.Error(t, json.Unmarshal([]byte(`true`), &a))
}

func TestText_UnmarshalJSON(t *testing.T) {
	var doc struct {
		A invoice.Text `json:"a"`
		B invoice.Text `json:"b"`
		C invoice.Text `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 71774, "b": " INV-9 ", "c": null}`), &doc))
	assert.Equal(t, "71774", doc.A.String())
	assert.Equal(t, "INV-9", doc.B.String())
	assert.Equal(t, "", doc.C.String())
}

func TestDocument_TaxRatePrecision(t *testing.T) {
	var doc invoice.Document
	require.NoError(t, json.Unmarshal([]byte(`{"totals": {"tax_rate": 6.875, "total": "$1,000.00"}}`), &doc))
	assert.Equal(t, invoice.Amount(6.875), doc.Totals.TaxRate)
	assert.Equal(t, invoice.Amount(1000), doc.Totals.Total)
}

func TestLineMathMismatch(t *testing.T) {
	tests := []struct {
		name string
		item invoice.LineItem
		want bool
	}{
		{"exact", invoice.LineItem{Quantity: 3, UnitPrice: 10, Total: 30}, false},
		{"within one percent", invoice.LineItem{Quantity: 3, UnitPrice: 10, Total: 30.29}, false},
		{"over one percent", invoice.LineItem{Quantity: 3, UnitPrice: 10, Total: 35}, true},
		{"zero quantity", invoice.LineItem{Quantity: 0, UnitPrice: 10, Total: 99}, false},
		{"zero price", invoice.LineItem{Quantity: 2, UnitPrice: 0, Total: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := tt.item
			assert.Equal(t, tt.want, invoice.LineMathMismatch(&item))
		})
	}
}

func TestBuiltinRules_Keys(t *testing.T) {
	var keys []string
	for _, r := range invoice.BuiltinRules() {
		keys = append(keys, r.Key())
	}
	assert.Equal(t, []string{
		"required.invoice_number",
		"required.date",
		"required.line_items",
		"math.line_item.total",
		"required.total",
	}, keys)
}
