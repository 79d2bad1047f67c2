package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{name: "zero", in: 0, want: "0"},
		{name: "small", in: 950, want: "950"},
		{name: "thousands", in: 12345, want: "12,345"},
		{name: "millions", in: 1250000, want: "1,250,000"},
		{name: "fraction", in: 1234.5, want: "1,234.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestDecimal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "small", in: "950", want: "950"},
		{name: "thousands", in: "12345", want: "12,345"},
		{name: "fraction kept", in: "1234.505", want: "1,234.505"},
		{name: "negative", in: "-1250000", want: "-1,250,000"},
		{name: "beyond float precision", in: "9007199254740993", want: "9,007,199,254,740,993"},
		{name: "exponent", in: "1.5e3", want: "1,500"},
		{name: "not a number", in: "abc", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decimal(tt.in))
		})
	}
}

func TestRsDecimal(t *testing.T) {
	assert.Equal(t, "Rs. 4,500", RsDecimal("4500"))
}
