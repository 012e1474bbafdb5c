// Package style maps GIS attribute values to named visual styles.
//
// Rules come from a JSON style file and are matched first-wins, so the
// loader preserves the document's declaration order instead of going through
// a Go map.
package style

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Rule is one named style: a display color plus the attribute predicate
// that selects it.
type Rule struct {
	// Name is the style name, unique within a rule set.
	Name string

	// Color is the display color, channels 0-255.
	Color [3]uint8

	// Attribute is the triggering attribute name.
	Attribute string

	// Values holds the stringified acceptable values. Empty means the rule
	// matches whenever the attribute is present.
	Values []string
}

// ruleDoc is the JSON shape of one rule body.
type ruleDoc struct {
	Color     []int         `json:"color"`
	Attribute string        `json:"attribute"`
	Values    []interface{} `json:"values"`
}

// LoadRules reads a style configuration file. The result preserves the
// file's declaration order; duplicate style names are rejected because they
// would make first-match resolution ambiguous.
func LoadRules(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open style file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	dec := json.NewDecoder(f)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse style file %s: %w", path, err)
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("style file %s: want a JSON object of styles", path)
	}

	var rules []Rule
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse style file %s: %w", path, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("style file %s: unexpected token %v", path, tok)
		}
		if seen[name] {
			return nil, fmt.Errorf("style file %s: duplicate style %q", path, name)
		}
		seen[name] = true

		var doc ruleDoc
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("style file %s: style %q: %w", path, name, err)
		}
		rule, err := buildRule(name, doc)
		if err != nil {
			return nil, fmt.Errorf("style file %s: %w", path, err)
		}
		rules = append(rules, rule)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse style file %s: %w", path, err)
	}
	return rules, nil
}

func buildRule(name string, doc ruleDoc) (Rule, error) {
	rule := Rule{Name: name, Attribute: doc.Attribute}

	if len(doc.Color) != 3 {
		return Rule{}, fmt.Errorf("style %q: want 3 color channels, got %d", name, len(doc.Color))
	}
	for i, c := range doc.Color {
		if c < 0 || c > 255 {
			return Rule{}, fmt.Errorf("style %q: color channel %d out of range: %d", name, i, c)
		}
		rule.Color[i] = uint8(c)
	}

	if doc.Attribute == "" {
		return Rule{}, fmt.Errorf("style %q: missing trigger attribute", name)
	}

	for _, v := range doc.Values {
		switch val := v.(type) {
		case string:
			rule.Values = append(rule.Values, val)
		case float64:
			rule.Values = append(rule.Values, strconv.FormatFloat(val, 'g', -1, 64))
		default:
			return Rule{}, fmt.Errorf("style %q: unsupported value %v", name, v)
		}
	}
	return rule, nil
}
