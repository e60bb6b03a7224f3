// Package tags decodes "scope:value" tag strings.
package tags

import "strings"

// Scoped maps a scope to its values in input order.
type Scoped map[string][]string

// ParseScoped groups "scope:value" tags by scope.
// A tag that does not split into exactly two parts on ':' is dropped.
func ParseScoped(tagList []string) Scoped {
	out := make(Scoped)
	for _, tag := range tagList {
		parts := strings.Split(tag, ":")
		if len(parts) != 2 {
			continue
		}
		out[parts[0]] = append(out[parts[0]], parts[1])
	}
	return out
}

// Values returns the values recorded for scope.
func (s Scoped) Values(scope string) []string { return s[scope] }
