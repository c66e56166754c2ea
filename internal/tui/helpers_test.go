package tui

import (
	"testing"

	"github.com/calebmoore/pennywise/pkg/domain"
)

func TestFormatDate(t *testing.T) {
	d, err := domain.ParseDate("2025-03-14")
	if err != nil {
		t.Fatal(err)
	}
	if got := formatDate(d); got != "Mar 14, 2025" {
		t.Errorf("formatDate = %q, want %q", got, "Mar 14, 2025")
	}
	if got := formatDate(domain.Date{}); got != "" {
		t.Errorf("formatDate(zero) = %q, want empty", got)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{49.753, "$49.75"},
	}
	for _, tc := range tests {
		if got := formatAmount(tc.amount); got != tc.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain passes through", "coffee & cake", "coffee & cake"},
		{"newlines become spaces", "a\nb\rc", "a b c"},
		{"tabs become spaces", "a\tb", "a b"},
		{"escape byte dropped", "x\x1b[31my", "x[31my"},
		{"control bytes dropped", "a\x00\x07b", "ab"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitizeText(tc.in); got != tc.want {
				t.Errorf("sanitizeText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("short", 10); got != "short" {
		t.Errorf("truncStr short = %q", got)
	}
	if got := truncStr("a very long description", 10); got != "a very lo…" {
		t.Errorf("truncStr long = %q", got)
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "1\n2\n3\n4\n"
	if got := truncateToHeight(s, 2); got != "1\n2\n" {
		t.Errorf("truncateToHeight = %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("expected unchanged for non-positive limit, got %q", got)
	}
}
