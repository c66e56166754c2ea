package tui

import (
	"strings"
	"testing"
)

func TestCategoryStyleKnownAndUnknown(t *testing.T) {
	for category := range categoryColors {
		if !CategoryStyle(category).GetBold() {
			t.Errorf("expected bold style for %q", category)
		}
	}
	if !CategoryStyle("SOMETHING_ELSE").GetBold() {
		t.Error("expected a usable fallback style for unknown categories")
	}
}

func TestFocusedFormFieldShowsPromptMarker(t *testing.T) {
	m := newTestDashModel()
	m.state = dsAdding
	m.focus = fieldAmount

	lines := strings.Split(m.View(), "\n")
	var marked []string
	for _, line := range lines {
		if strings.Contains(line, ">") {
			marked = append(marked, line)
		}
	}
	if len(marked) != 1 {
		t.Fatalf("expected exactly one marked field, got %d:\n%s", len(marked), m.View())
	}
	if !strings.Contains(marked[0], "amount") {
		t.Errorf("marker on the wrong field: %q", marked[0])
	}
}
