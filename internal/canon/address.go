package canon

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns a caseless form of s suitable for comparisons. It uses full
// Unicode case folding, so "STRASSE" and "straße" compare equal.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsFold reports whether needle occurs in haystack ignoring case.
// An empty needle matches everything.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}

// Clean trims the input and collapses internal runs of whitespace.
func Clean(s string) string {
	return collapseSpaces(strings.TrimSpace(s))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
