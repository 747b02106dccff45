package collections

// Rule is a single normalisation applied to raw data before schema
// validation. Rules are listed per collection so the rewriting of authored
// values stays auditable.
type Rule struct {
	Field       string
	Description string
	apply       func(data map[string]any)
}

// Apply runs the rule against data in place.
func (r Rule) Apply(data map[string]any) {
	if r.apply != nil && data != nil {
		r.apply(data)
	}
}

// BlankToAbsent removes field when it holds the empty string.
func BlankToAbsent(field string) Rule {
	return Rule{
		Field:       field,
		Description: "empty string is treated as absent",
		apply: func(data map[string]any) {
			if value, ok := data[field].(string); ok && value == "" {
				delete(data, field)
			}
		},
	}
}

// NullToAbsent removes field when it holds null.
func NullToAbsent(field string) Rule {
	return Rule{
		Field:       field,
		Description: "null is treated as absent",
		apply: func(data map[string]any) {
			if value, ok := data[field]; ok && value == nil {
				delete(data, field)
			}
		},
	}
}

var preprocessRules = map[Name][]Rule{
	CollectionBlogPosts: {
		BlankToAbsent("lastMaintained"),
		NullToAbsent("lastMaintained"),
		NullToAbsent("author"),
		BlankToAbsent("cover"),
	},
}

// PreprocessRules returns the normalisation rules of a collection in the
// order they run.
func PreprocessRules(name Name) []Rule {
	return append([]Rule(nil), preprocessRules[name]...)
}

func preprocess(name Name, data map[string]any) {
	for _, rule := range preprocessRules[name] {
		rule.Apply(data)
	}
}
