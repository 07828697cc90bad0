package llm

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ExtractObject returns the substring spanning the first '{' to the last '}'
// of text. Nesting is not tracked, so prose containing extra braces around
// the payload can produce an unparsable span; callers treat that as an
// extraction failure and retry.
func ExtractObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", &ErrExtraction{Text: text}
	}
	return text[start : end+1], nil
}

// ParseObject extracts the embedded JSON object from text and decodes it.
// Numbers are kept as json.Number so that integers survive unmodified.
func ParseObject(text string) (map[string]any, error) {
	raw, err := ExtractObject(text)
	if err != nil {
		return nil, err
	}

	v, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, &ErrExtraction{Text: text, Err: err}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &ErrExtraction{Text: text, Err: fmt.Errorf("payload is %T, not an object", v)}
	}
	return obj, nil
}

// ToNumber converts a decoded JSON value to a finite float64.
// JSON numbers and numeric strings are accepted; everything else is not.
func ToNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case interface{ Float64() (float64, error) }: // json.Number
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, false
		}
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		var err error
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsExtraction reports whether err, or the last attempt behind it, failed
// because no JSON object could be extracted.
func IsExtraction(err error) bool {
	var e *ErrExtraction
	return errors.As(err, &e)
}
