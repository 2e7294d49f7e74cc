// Package termtext cleans user supplied text before it reaches a terminal.
package termtext

import (
	"strings"
	"unicode"
)

// Sanitize drops control characters, so labels cannot inject escape
// sequences or break the line layout.
func Sanitize(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
