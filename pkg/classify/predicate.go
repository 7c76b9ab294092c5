package classify

import "strings"

// Always matches every record.
func Always() Predicate {
	return func(Attributes) bool { return true }
}

// Equals matches when the trimmed field equals value exactly.
func Equals(field, value string) Predicate {
	value = strings.TrimSpace(value)
	return func(a Attributes) bool {
		return strings.TrimSpace(a[field]) == value
	}
}

// AnyOf matches when the trimmed field is one of values.
// An empty value set never matches.
func AnyOf(field string, values ...string) Predicate {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.TrimSpace(v)] = struct{}{}
	}
	return func(a Attributes) bool {
		v := strings.TrimSpace(a[field])
		if v == "" {
			return false
		}
		_, ok := set[v]
		return ok
	}
}

// Or matches when any predicate matches.
func Or(preds ...Predicate) Predicate {
	return func(a Attributes) bool {
		for _, p := range preds {
			if p(a) {
				return true
			}
		}
		return false
	}
}

// And matches when every predicate matches.
func And(preds ...Predicate) Predicate {
	return func(a Attributes) bool {
		for _, p := range preds {
			if !p(a) {
				return false
			}
		}
		return true
	}
}
