package codegen

import (
	"path"
	"strconv"
	"strings"

	"golang.org/x/mod/module"
)

// Common helper functions for code generation

// Call renders qualifier.fn(args...). An empty qualifier emits a bare call,
// for generated code that dot-imports or lives in the runtime package itself.
func Call(qualifier, fn string, args ...string) string {
	var b strings.Builder
	if qualifier != "" {
		b.WriteString(qualifier)
		b.WriteByte('.')
	}
	b.WriteString(fn)
	b.WriteByte('(')
	b.WriteString(strings.Join(args, ", "))
	b.WriteByte(')')
	return b.String()
}

// FormatInt renders an integer literal.
func FormatInt(n int) string {
	return strconv.Itoa(n)
}

// SanitizeIdentifier converts a name to a valid identifier
func SanitizeIdentifier(name string) string {
	result := make([]rune, 0, len(name))
	for i, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9') || r == '_' {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}

// PackageName guesses the package name of an import path: the last element,
// skipping a major version suffix such as /v2 or .v3.
func PackageName(importPath string) string {
	prefix, _, ok := module.SplitPathVersion(importPath)
	if !ok {
		prefix = importPath
	}
	return SanitizeIdentifier(path.Base(prefix))
}

// JoinResults combines multiple temp results with a separator
func JoinResults(results []TempResult, separator string) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for _, result := range results {
		parts = append(parts, result.String())
	}

	return strings.Join(parts, separator)
}
