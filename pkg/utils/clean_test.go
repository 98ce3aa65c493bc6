package utils

import (
	"reflect"
	"testing"
)

func TestCleanCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text untouched",
			input:    "Red, Blue",
			expected: "Red, Blue",
		},
		{
			name:     "bare fence",
			input:    "```\nColor: Red, Blue\n```",
			expected: "Color: Red, Blue",
		},
		{
			name:     "fence with language hint",
			input:    "```text\nRed, Blue\n```",
			expected: "Red, Blue",
		},
		{
			name:     "content on fence line kept",
			input:    "```Color: Red\n```",
			expected: "Color: Red",
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n```\nRed\n```\n  ",
			expected: "Red",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCodeFence(tt.input); got != tt.expected {
				t.Errorf("CleanCodeFence(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "multi line with blanks",
			input:    "Material: Cotton\n\n  Fit: Slim  \n",
			expected: []string{"Material: Cotton", "Fit: Slim"},
		},
		{
			name:     "fenced response",
			input:    "```\nMaterial: Cotton\n```",
			expected: []string{"Material: Cotton"},
		},
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLines(tt.input); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("NormalizeLines(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplitCommaList(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Red, Blue", []string{"Red", "Blue"}},
		{" Red ,, ", []string{"Red"}},
		{"", []string{}},
		{"single", []string{"single"}},
		{"a,b,c", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		if got := SplitCommaList(tt.input); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("SplitCommaList(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
