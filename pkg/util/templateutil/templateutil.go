package templateutil

import "strings"

// Resolve substitutes `{name}` placeholders in template with the bound
// values. Every occurrence of a bound placeholder is replaced; tokens without
// a binding are left verbatim. Substitution is order-independent because
// bound values are never re-scanned for placeholders.
func Resolve(template string, bindings map[string]string) string {
	if template == "" || len(bindings) == 0 {
		return template
	}

	pairs := make([]string, 0, len(bindings)*2)
	for name, value := range bindings {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
