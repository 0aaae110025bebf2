package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/emoji-ledger/internal/common"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		errMsg   string
		expected float64
		wantErr  bool
	}{
		{name: "whole number", input: "100", expected: 100},
		{name: "two decimals", input: "12.34", expected: 12.34},
		{name: "currency symbols stripped", input: "$1,250.5", expected: 1250.5},
		{name: "leading dot", input: ".5", expected: 0.5},
		{name: "trailing dot", input: "7.", expected: 7},
		{name: "empty", input: "", wantErr: true, errMsg: "is required"},
		{name: "blank", input: "   ", wantErr: true, errMsg: "is required"},
		{name: "only a dot", input: ".", wantErr: true, errMsg: "is not a number"},
		{name: "letters only", input: "abc", wantErr: true, errMsg: "is not a number"},
		{name: "two dots", input: "1.2.3", wantErr: true},
		{name: "three decimals", input: "1.234", wantErr: true},
		{name: "zero", input: "0.00", wantErr: true},
		{name: "minus sign is dropped", input: "-5", expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrValidation)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		expected string
		input    float64
	}{
		{input: 0, expected: "$0.00"},
		{input: 60, expected: "$60.00"},
		{input: -80, expected: "-$80.00"},
		{input: 1234.5, expected: "$1,234.50"},
		{input: 1234567.891, expected: "$1,234,567.89"},
		{input: -0.001, expected: "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMoney(tt.input))
		})
	}

	assert.Equal(t, "$1,235", FormatWholeMoney(1234.5))
	assert.Equal(t, "-$999", FormatWholeMoney(-999.4))
}
