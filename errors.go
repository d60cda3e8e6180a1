package buildantic

import (
	"errors"
	"fmt"
)

// Sentinel errors for buildantic. Use errors.Is to check.
var (
	ErrNotFound    = errors.New("descriptor not found")
	ErrDuplicateID = errors.New("descriptor id already registered")
	ErrValidation  = errors.New("validation failed")
)

// ValidationError is an error that should be sent back to the LLM for
// self-correction (e.g. invalid JSON, schema violation, bad enum value).
// Do not expose stack traces or internal details to the LLM.
// Err optionally wraps a sentinel (e.g. ErrValidation) for errors.Is/errors.As.
type ValidationError struct {
	Reason string
	Err    error // wrapped sentinel for errors.Is/errors.As
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// Unwrap supports errors.Is/errors.As on wrapped chains (e.g. errors.Is(err, ErrValidation)).
func (e *ValidationError) Unwrap() error { return e.Err }

// SchemaError represents a failure to build or compile a schema
// (unsupported type, malformed schema document). It is a caller bug or a
// bad input document, never something to forward to an LLM.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return "schema build failed: " + e.Err.Error()
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IsValidationError returns true if err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsSchemaError returns true if err is or wraps a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// wrapJSONParseError returns a ValidationError for JSON unmarshal failures so
// parse errors read the same on every validation path.
func wrapJSONParseError(err error) error {
	return &ValidationError{Reason: "json parse error: " + err.Error(), Err: ErrValidation}
}
