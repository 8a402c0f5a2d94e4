package validator

import (
	"docextract/internal/validator/invoice"
)

// Validate runs every built-in rule against doc and collects all issues in rule order.
// A nil document is checked as an empty one.
func Validate(doc *invoice.Document) (bool, []string) {
	return ValidateWith(doc, invoice.BuiltinRules()...)
}

// ValidateWith runs the given rules in order.
func ValidateWith(doc *invoice.Document, rules ...invoice.Rule) (bool, []string) {
	if doc == nil {
		doc = &invoice.Document{}
	}
	issues := []string{}
	for _, r := range rules {
		issues = append(issues, r.Check(doc)...)
	}
	return len(issues) == 0, issues
}
