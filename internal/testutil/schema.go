package testutil

import "sort"

var strictKeywords = map[string]bool{
	"type": true, "properties": true, "required": true, "additionalProperties": true,
	"description": true, "items": true, "enum": true, "anyOf": true,
	"pattern": true, "format": true, "$defs": true, "$ref": true,
}

// StrictSchemaViolations lists the keywords in a JSON schema that strict
// structured outputs reject, such as minLength or minimum.
func StrictSchemaViolations(node any) []string {
	var bad []string
	switch n := node.(type) {
	case map[string]any:
		for k, v := range n {
			if k == "properties" || k == "$defs" {
				if named, ok := v.(map[string]any); ok {
					for _, sub := range named {
						bad = append(bad, StrictSchemaViolations(sub)...)
					}
				}
				continue
			}
			if !strictKeywords[k] {
				bad = append(bad, k)
			}
			bad = append(bad, StrictSchemaViolations(v)...)
		}
	case []any:
		for _, v := range n {
			bad = append(bad, StrictSchemaViolations(v)...)
		}
	}
	sort.Strings(bad)
	return bad
}
