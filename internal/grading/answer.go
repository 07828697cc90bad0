package grading

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Answer is a learner's answer after parsing.
type Answer struct {
	// Value is the numeric value compared against the correct answer.
	Value float64

	// Raw is the answer as submitted, trimmed.
	Raw string
}

var thousandsPattern = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

// ParseAnswer converts a JSON number or string into an Answer.
//
// Accepted forms:
// - JSON numbers: 15, 15.0, -2.5
// - Numeric strings: "15", " 007 ", "3.50"
// - Thousands separators: "1,250,000"
// - Fractions: "3/4", "-7/2"
//
// A missing or null value, and anything that does not parse to a finite
// number, is rejected with ErrInvalidInput.
func ParseAnswer(raw json.RawMessage) (Answer, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Answer{}, fmt.Errorf("%w: user_answer is required", ErrInvalidInput)
	}

	var s string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &s); err != nil {
			return Answer{}, fmt.Errorf("%w: user_answer is not a valid string", ErrInvalidInput)
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		s = string(raw)
	default:
		return Answer{}, fmt.Errorf("%w: user_answer must be a number or a numeric string", ErrInvalidInput)
	}

	s = strings.TrimSpace(s)
	v, err := parseNumber(s)
	if err != nil {
		return Answer{}, fmt.Errorf("%w: user_answer %q is not a number", ErrInvalidInput, s)
	}
	return Answer{Value: v, Raw: s}, nil
}

func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	if thousandsPattern.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	if strings.Contains(s, "/") {
		return parseFraction(s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %q", s)
	}
	return f, nil
}

// parseFraction parses "a/b" into its value.
func parseFraction(s string) (float64, error) {
	parts := strings.SplitN(s, "/", 2)
	num, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numerator: %w", err)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid denominator: %w", err)
	}
	if den == 0 {
		return 0, fmt.Errorf("zero denominator")
	}
	return float64(num) / float64(den), nil
}

// IsCorrect reports exact numeric equality. 15 and 15.0 are equal.
func IsCorrect(answer Answer, correct float64) bool {
	return answer.Value == correct
}

// formatNumber renders v without a trailing ".0" or exponent.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
