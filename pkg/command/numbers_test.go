package command

import (
	"math"
	"testing"
)

func TestNumberExtractor_Extract(t *testing.T) {
	ne := NewNumberExtractor()

	tests := []struct {
		text     string
		expected int
		pattern  int
		ok       bool
	}{
		{"option 7", 7, 0, true},
		{"option7", 7, 0, true},
		{"3rd option", 3, 0, true},
		{"number 42", 42, 0, true},
		{"three", 3, 1, true},
		{"pick number ten", 10, 1, true},
		{"the fifth one", 1, 1, true},
		{"fourth", 4, 2, true},
		{"first please", 1, 2, true},
		{"option 0", 0, 0, true},
		{"option 99999999999999999999", math.MaxInt, 0, true},
		{"tenth", 0, -1, false},
		{"someone", 0, -1, false},
		{"nothing here", 0, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			n, pattern, ok := ne.Extract(tt.text)
			if ok != tt.ok {
				t.Fatalf("expected ok %v, got %v", tt.ok, ok)
			}
			if n != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, n)
			}
			if pattern != tt.pattern {
				t.Errorf("expected pattern %d, got %d", tt.pattern, pattern)
			}
		})
	}
}

func TestNumberExtractor_Word(t *testing.T) {
	ne := NewNumberExtractor()

	for word, expected := range map[string]int{"one": 1, "seventh": 7, "tenth": 10} {
		n, ok := ne.Word(word)
		if !ok || n != expected {
			t.Errorf("%s: expected %d, got %d (%v)", word, expected, n, ok)
		}
	}
	if _, ok := ne.Word("eleven"); ok {
		t.Error("expected eleven to be unknown")
	}
}
