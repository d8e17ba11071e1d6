package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5.005", "$5.01"},
		{"999.999", "$1,000.00"},
		{"1234567.891", "$1,234,567.89"},
		{"-42.5", "-$42.50"},
		{"100000", "$100,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestHoursAndSSN(t *testing.T) {
	assert.Equal(t, "7.5", Hours(decimal.RequireFromString("7.50")))
	assert.Equal(t, "10", Hours(decimal.RequireFromString("10")))
	assert.Equal(t, "XXX-XX-6789", MaskSSN("123-45-6789"))
	assert.Equal(t, "", MaskSSN("12"))
}
