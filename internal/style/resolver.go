package style

import (
	"strconv"
	"strings"
)

// Resolve returns the name of the first rule, in declaration order, that
// matches the attribute set. Attribute keys are trimmed of whitespace before
// comparison. ok is false when no rule matches.
//
// First-match is a policy, not an accident: rule order in the style file is
// semantically significant.
func Resolve(attributes map[string]string, rules []Rule) (name string, ok bool) {
	if len(rules) == 0 || len(attributes) == 0 {
		return "", false
	}

	trimmed := make(map[string]string, len(attributes))
	for k, v := range attributes {
		trimmed[strings.TrimSpace(k)] = v
	}

	for _, rule := range rules {
		if ruleMatches(rule, trimmed) {
			return rule.Name, true
		}
	}
	return "", false
}

func ruleMatches(rule Rule, attributes map[string]string) bool {
	value, present := attributes[rule.Attribute]
	if !present {
		return false
	}
	// An empty acceptable set matches on attribute presence alone.
	if len(rule.Values) == 0 {
		return true
	}

	// Numeric comparison first: both sides cast to integer-of-float. Only
	// when the attribute value itself is not numeric do we fall back to
	// string equality.
	if n, err := numeric(value); err == nil {
		for _, accepted := range rule.Values {
			if a, err := numeric(accepted); err == nil && a == n {
				return true
			}
		}
		return false
	}

	for _, accepted := range rule.Values {
		if accepted == value {
			return true
		}
	}
	return false
}

// numeric casts a stringified value to integer-of-float.
func numeric(s string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
