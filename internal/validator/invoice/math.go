package invoice

import (
	"fmt"
	"math"
)

// mathTolerance is the relative difference allowed between a line total and qty × price.
const mathTolerance = 0.01

// LineMathMismatch reports whether a line's total deviates from qty × price by more than
// the tolerance. Lines whose expected total is not positive are never flagged.
func LineMathMismatch(item *LineItem) bool {
	expected := item.Quantity.Float() * item.UnitPrice.Float()
	if expected <= 0 {
		return false
	}
	return math.Abs(item.Total.Float()-expected)/expected > mathTolerance
}

func lineItemMath() Rule {
	return &ruleFunc{
		key: "math.line_item.total",
		check: func(d *Document) []string {
			var issues []string
			for i := range d.LineItems {
				item := &d.LineItems[i]
				if !LineMathMismatch(item) {
					continue
				}
				issues = append(issues, fmt.Sprintf(
					"Line item %d: math mismatch (qty=%g × price=%.2f ≠ total=%.2f)",
					i+1, item.Quantity.Float(), item.UnitPrice.Float(), item.Total.Float(),
				))
			}
			return issues
		},
	}
}
