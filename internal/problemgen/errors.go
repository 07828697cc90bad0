package problemgen

import (
	"errors"

	"github.com/abhisek/p5math/internal/llm"
)

// Messages carried by GenerateError.
const (
	MsgInvalidJSON   = "AI did not return valid JSON"
	MsgMissingKeys   = "AI JSON missing required keys"
	MsgNotNumeric    = "correct_answer must be numeric"
	MsgInvalidFields = "AI JSON failed validation"
	MsgNoResponse    = "AI did not return a response"
	MsgSaveFailed    = "failed to save problem"
)

// GenerateError reports why a problem could not be generated. Message is
// safe to show to a client; Err is the underlying cause.
type GenerateError struct {
	Message string
	Err     error
}

func (e *GenerateError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *GenerateError) Unwrap() error { return e.Err }

// classify maps the last attempt failure to the message a client sees.
func classify(err error) string {
	var extraction *llm.ErrExtraction
	if errors.As(err, &extraction) {
		return MsgInvalidJSON
	}

	var validation *llm.ErrValidation
	if errors.As(err, &validation) {
		switch {
		case len(validation.Missing) > 0:
			return MsgMissingKeys
		case len(validation.NotNumeric) > 0:
			return MsgNotNumeric
		default:
			return MsgInvalidFields
		}
	}

	return MsgNoResponse
}
