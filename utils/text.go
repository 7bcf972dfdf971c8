package utils

import (
	"strings"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
)

// Fold transliterates to ASCII and case-folds, so "Wien" matches "wien" and
// "München" matches "munchen".
func Fold(s string) string {
	return cases.Fold().String(unidecode.Unidecode(s))
}

// ContainsFold reports whether needle occurs in haystack after folding both.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}
