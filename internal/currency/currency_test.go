package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{8999, "$89.99"},
		{0, "$0.00"},
		{5, "$0.05"},
		{1900, "$19.00"},
		{52425, "$524.25"},
		{123456789, "$1,234,567.89"},
		{-100, "$0.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.cents), "cents=%d", tt.cents)
	}
}

func TestFormatIsIdempotent(t *testing.T) {
	assert.Equal(t, Format(4999), Format(4999))
}

func TestZeroScaleCurrency(t *testing.T) {
	yen := New(currency.JPY, "¥", language.Japanese)
	assert.Equal(t, "¥1,500", yen.Format(1500))
}
