package text_test

import (
	"testing"

	"condense/internal/utils/text"
)

/* ───────── Character counting ───────── */

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "ASCII text", input: "hello", expected: 5},
		{name: "ASCII with spaces", input: "hello world", expected: 11},
		{name: "Japanese hiragana", input: "こんにちは", expected: 5},
		{name: "English and Japanese", input: "hello世界", expected: 7},
		{name: "ASCII with emoji", input: "Hello👋", expected: 6},
		{
			name:     "Complex emoji (flag)",
			input:    "🇯🇵",
			expected: 2, // two regional indicator symbols
		},
		{name: "Empty string", input: "", expected: 0},
		{name: "Mixed whitespace", input: " \t\n ", expected: 4},
		{name: "Punctuation", input: "Hello, World!", expected: 13},
		{name: "Precomposed accent", input: "caf\u00e9", expected: 4},
		{name: "Decomposed accent", input: "cafe\u0301", expected: 5},
		{name: "Zero-width space", input: "hello\u200Bworld", expected: 11},
		{name: "Cyrillic characters", input: "Привет", expected: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := text.CountRunes(tt.input)
			if result != tt.expected {
				t.Errorf("CountRunes(%q) = %d, expected %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCountRunes_MatchesGoBuiltin(t *testing.T) {
	tests := []string{
		"hello",
		"こんにちは",
		"hello世界",
		"",
		"🚀✨🤖💡",
	}

	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			expected := len([]rune(tt))
			if result := text.CountRunes(tt); result != expected {
				t.Errorf("CountRunes(%q) = %d, expected %d (Go built-in)", tt, result, expected)
			}
		})
	}
}

func BenchmarkCountRunes(b *testing.B) {
	testStrings := []struct {
		name  string
		input string
	}{
		{"Short ASCII", "hello world"},
		{"Short Japanese", "こんにちは"},
		{"Medium Mixed", "AIの発展により、新しい可能性が広がっています。Machine Learning and Deep Learning are transforming technology."},
	}

	for _, ts := range testStrings {
		b.Run(ts.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				text.CountRunes(ts.input)
			}
		})
	}
}
