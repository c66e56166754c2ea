package tui

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/calebmoore/pennywise/pkg/domain"
)

// formatDate renders a date in the short locale form used in the table,
// e.g. "Mar 14, 2025".
func formatDate(d domain.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("Jan 2, 2006")
}

// formatAmount renders a currency amount with exactly two decimals.
func formatAmount(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// sanitizeText makes server-supplied text safe to print to the terminal:
// newlines and tabs collapse to spaces, and remaining control characters
// (including ESC, which could start an ANSI sequence) are dropped.
func sanitizeText(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}
