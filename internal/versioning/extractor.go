// Package versioning holds the decision logic for template versioning:
// placeholder extraction, usage diffing, semantic version derivation,
// compatibility validation and affected-prompt analysis. Everything here is a
// pure function of its inputs and safe for concurrent use.
package versioning

import "regexp"

// placeholderPattern matches {{name}} and {{name<suffix>}}, where the suffix is
// a format or filter expression such as ":currency" or "|upper".
var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z][A-Za-z0-9]*)([^}]*)\}\}`)

// Usage is a single placeholder occurrence.
type Usage struct {
	Name string
	// Text is the full bracketed reference, e.g. "{{count:currency}}".
	Text string
}

// ExtractUsages returns every placeholder occurrence in textual order.
func ExtractUsages(content string) []Usage {
	matches := placeholderPattern.FindAllStringSubmatch(content, -1)
	usages := make([]Usage, 0, len(matches))
	for _, m := range matches {
		usages = append(usages, Usage{Name: m[1], Text: m[0]})
	}
	return usages
}

// ExtractParameters returns the parameter names referenced by content, in
// textual order with duplicates preserved.
func ExtractParameters(content string) []string {
	usages := ExtractUsages(content)
	names := make([]string, 0, len(usages))
	for _, u := range usages {
		names = append(names, u.Name)
	}
	return names
}

// FirstUsage returns the full text of the first reference to name, or "" if
// content does not reference it.
func FirstUsage(content, name string) string {
	for _, u := range ExtractUsages(content) {
		if u.Name == name {
			return u.Text
		}
	}
	return ""
}

// UniqueParameters returns the distinct parameter names in first-seen order.
func UniqueParameters(content string) []string {
	return dedupe(ExtractParameters(content))
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
