package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate_Count(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"short", "ab", 0},
		{"exact", "abcdef", 2},
		{"runes not bytes", "ééé", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Estimate{}.Count(tt.in))
		})
	}
}

func TestNew_UnknownEncodingFallsBack(t *testing.T) {
	counter := New("definitely-not-an-encoding")
	assert.IsType(t, Estimate{}, counter)
}
