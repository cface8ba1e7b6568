package domain

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrice_Formats(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"rupee prefix with grouping", "Rs. 1,999.00", 1999},
		{"symbol prefix", "₹1,999", 1999},
		{"grouped no prefix", "1,999.00", 1999},
		{"plain integer", "1999", 1999},
		{"plain decimal", "499.50", 499.5},
		{"leading and trailing whitespace", "  Rs. 2,500.00  ", 2500},
		{"interior whitespace", "Rs.  1 999", 1999},
		{"no separators", "Rs. 500", 500},
		{"zero", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePrice(tt.raw))
		})
	}
}

func TestNormalizePrice_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"prefix only", "Rs."},
		{"not a number", "free"},
		{"mixed garbage", "Rs. abc"},
		{"negative", "-100"},
		{"not-a-number literal", "NaN"},
		{"lowercase nan", "nan"},
		{"infinity", "Inf"},
		{"infinity long form", "Infinity"},
		{"negative infinity", "-Inf"},
		{"prefixed infinity", "Rs. Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, float64(0), NormalizePrice(tt.raw))
		})
	}
}

// Normalization is idempotent on its own output: formatting the result and
// parsing it again yields the same value.
func TestNormalizePrice_Idempotent(t *testing.T) {
	for _, raw := range []string{"Rs. 1,999.00", "₹12,345", "499.50", "0", "garbage"} {
		v := NormalizePrice(raw)
		formatted := strconv.FormatFloat(v, 'f', -1, 64)
		assert.Equal(t, v, NormalizePrice(formatted), "raw=%q", raw)
	}
}
