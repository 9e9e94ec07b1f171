package components

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestMasteryBar_Cells(t *testing.T) {
	tests := []struct {
		value float64
		width int
		want  int
	}{
		{0, 20, 0},
		{0.5, 20, 10},
		{1, 20, 20},
		{1.2, 20, 20},
		{-0.1, 20, 0},
		{0.5, 1, 2}, // width floors at 4
	}
	for _, tt := range tests {
		if got := NewMasteryBar(tt.value, 3, tt.width).Cells(); got != tt.want {
			t.Errorf("Cells(%g, width %d) = %d, want %d", tt.value, tt.width, got, tt.want)
		}
	}
}

func TestMasteryBar_View(t *testing.T) {
	out := NewMasteryBar(0.25, 4, 16).View()
	if !strings.Contains(out, "0.250") {
		t.Errorf("View() should end with the value, got %q", out)
	}
	if w := lipgloss.Width(out); w != 16+6 {
		t.Errorf("View() width = %d, want %d", w, 22)
	}
}
