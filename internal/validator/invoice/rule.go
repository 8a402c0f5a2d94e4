package invoice

// Rule is a single semantic check over an extracted document. Check reports zero or
// more human-readable issues and never fails.
type Rule interface {
	Key() string
	Check(doc *Document) []string
}

type ruleFunc struct {
	key   string
	check func(*Document) []string
}

func (r *ruleFunc) Key() string                  { return r.key }
func (r *ruleFunc) Check(doc *Document) []string { return r.check(doc) }

// BuiltinRules returns the document rules in the order their issues are reported.
func BuiltinRules() []Rule {
	return []Rule{
		requireInvoiceNumber(),
		requireDate(),
		requireLineItems(),
		lineItemMath(),
		requireTotal(),
	}
}
