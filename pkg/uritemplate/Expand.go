// Package uritemplate implements the subset of RFC 6570 URI Template
// expansion that Web of Thing forms actually use: simple string expansion
// ({var}), reserved path segments ({/var}), path-style parameters
// ({;var}), and query expansion ({?var1,var2}, {&var}). Full RFC 6570
// (composite values, explode modifiers, prefix modifiers) is out of scope;
// WoT form hrefs are built from flat string variables.
package uritemplate

import (
	"net/url"
	"strings"
)

// Expand substitutes every `{...}` expression in template with values drawn
// from vars and returns the resulting URI, plus a changed flag reporting
// whether expansion produced a different string than template. Dispatch
// uses changed to decide whether it can reuse the original Form unchanged
// (no complete `{...}` expression present) or must clone it with the
// expanded href. An expression whose variables are all missing expands to
// the empty string, so it still counts as a change.
func Expand(template string, vars map[string]string) (expanded string, changed bool) {
	var b strings.Builder
	i := 0
	for i < len(template) {
		start := strings.IndexByte(template[i:], '{')
		if start < 0 {
			b.WriteString(template[i:])
			break
		}
		start += i
		b.WriteString(template[i:start])
		end := strings.IndexByte(template[start:], '}')
		if end < 0 {
			// Unterminated expression: treat the rest as literal.
			b.WriteString(template[start:])
			break
		}
		end += start
		b.WriteString(expandExpression(template[start+1:end], vars))
		i = end + 1
	}
	expanded = b.String()
	return expanded, expanded != template
}

// expandExpression expands a single {...} expression body (without braces).
func expandExpression(expr string, vars map[string]string) string {
	if expr == "" {
		return ""
	}
	op := byte(0)
	names := expr
	switch expr[0] {
	case '?', '&', '/', ';':
		op = expr[0]
		names = expr[1:]
	}

	varnames := strings.Split(names, ",")
	switch op {
	case '?':
		return joinQuery("?", "&", varnames, vars)
	case '&':
		return joinQuery("&", "&", varnames, vars)
	case '/':
		return joinPath(varnames, vars)
	case ';':
		return joinParams(varnames, vars)
	default:
		return joinSimple(varnames, vars)
	}
}

func joinSimple(names []string, vars map[string]string) string {
	var parts []string
	for _, n := range names {
		if v, ok := vars[n]; ok {
			parts = append(parts, url.QueryEscape(v))
		}
	}
	return strings.Join(parts, ",")
}

func joinPath(names []string, vars map[string]string) string {
	var parts []string
	for _, n := range names {
		if v, ok := vars[n]; ok {
			parts = append(parts, pathEscape(v))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "/" + strings.Join(parts, "/")
}

func joinParams(names []string, vars map[string]string) string {
	var parts []string
	for _, n := range names {
		if v, ok := vars[n]; ok {
			if v == "" {
				parts = append(parts, n)
			} else {
				parts = append(parts, n+"="+url.QueryEscape(v))
			}
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return ";" + strings.Join(parts, ";")
}

func joinQuery(prefix, sep string, names []string, vars map[string]string) string {
	var parts []string
	for _, n := range names {
		if v, ok := vars[n]; ok {
			parts = append(parts, n+"="+url.QueryEscape(v))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return prefix + strings.Join(parts, sep)
}

func pathEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "%2F", "/")
}
