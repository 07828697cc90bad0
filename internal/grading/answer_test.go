package grading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswer_Valid(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`15`, 15},
		{`15.0`, 15},
		{`-2.5`, -2.5},
		{`"15"`, 15},
		{`" 007 "`, 7},
		{`"3.50"`, 3.5},
		{`"1,250,000"`, 1250000},
		{`"3/4"`, 0.75},
		{`"-7/2"`, -3.5},
		{`1e3`, 1000},
	}

	for _, tc := range tests {
		got, err := ParseAnswer(json.RawMessage(tc.raw))
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got.Value, tc.raw)
	}
}

func TestParseAnswer_Invalid(t *testing.T) {
	tests := []string{
		``,
		`null`,
		`""`,
		`"   "`,
		`"fifteen"`,
		`"15 apples"`,
		`"1,25"`,
		`"3/0"`,
		`"NaN"`,
		`"Inf"`,
		`true`,
		`[15]`,
		`{"value": 15}`,
	}

	for _, raw := range tests {
		_, err := ParseAnswer(json.RawMessage(raw))
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrInvalidInput, raw)
	}
}

func TestIsCorrect_ExactEquality(t *testing.T) {
	tests := []struct {
		raw     string
		correct float64
		want    bool
	}{
		{`15`, 15, true},
		{`15.0`, 15, true},
		{`"15"`, 15, true},
		{`14`, 15, false},
		{`"3/4"`, 0.75, true},
		{`0.3333`, 1.0 / 3, false},
	}

	for _, tc := range tests {
		a, err := ParseAnswer(json.RawMessage(tc.raw))
		require.NoError(t, err)
		assert.Equal(t, tc.want, IsCorrect(a, tc.correct), "%s vs %v", tc.raw, tc.correct)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "15", formatNumber(15))
	assert.Equal(t, "2.75", formatNumber(2.75))
	assert.Equal(t, "1250000", formatNumber(1250000))
}
