package invoice

import "strings"

func requireInvoiceNumber() Rule {
	return &ruleFunc{
		key: "required.invoice_number",
		check: func(d *Document) []string {
			if strings.TrimSpace(d.Header.InvoiceNumber.String()) == "" {
				return []string{"Missing invoice number"}
			}
			return nil
		},
	}
}

func requireDate() Rule {
	return &ruleFunc{
		key: "required.date",
		check: func(d *Document) []string {
			if strings.TrimSpace(d.Header.Date) == "" {
				return []string{"Missing invoice date"}
			}
			return nil
		},
	}
}

func requireLineItems() Rule {
	return &ruleFunc{
		key: "required.line_items",
		check: func(d *Document) []string {
			if len(d.LineItems) == 0 {
				return []string{"No line items found"}
			}
			return nil
		},
	}
}

// requireTotal treats a zero total the same as a missing one.
func requireTotal() Rule {
	return &ruleFunc{
		key: "required.total",
		check: func(d *Document) []string {
			if d.Totals.Total == 0 {
				return []string{"Missing total amount"}
			}
			return nil
		},
	}
}
