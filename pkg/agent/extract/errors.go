package extract

import (
	"errors"
	"fmt"
)

// ErrExtractionParse marks a model response that was not valid JSON. The
// attempt is fatal: no retry, the caller surfaces a generic failure message.
var ErrExtractionParse = errors.New("extraction response is not valid JSON")

// MissingFieldError is the recoverable "missing details" condition: a
// required field came back at its null sentinel. The Prompt carries the
// follow-up question to relay to the user instead of failing the turn.
type MissingFieldError struct {
	Field  string
	Prompt string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// AsMissingField unwraps a MissingFieldError if err carries one.
func AsMissingField(err error) (*MissingFieldError, bool) {
	var mf *MissingFieldError
	if errors.As(err, &mf) {
		return mf, true
	}
	return nil, false
}
