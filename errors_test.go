package buildantic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name   string
		err    *ValidationError
		expect string
	}{
		{"with reason", &ValidationError{Reason: "bad enum"}, "invalid input: bad enum"},
		{"empty reason", &ValidationError{Reason: ""}, "invalid input: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.err.Error())
		})
	}
}

func TestSchemaError(t *testing.T) {
	inner := errors.New("unsupported type")
	err := &SchemaError{Err: inner}
	assert.Equal(t, "schema build failed: unsupported type", err.Error())
	assert.Same(t, inner, err.Unwrap())
}

func TestErrorChains(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		target       error
		is           bool
		asValidation bool
		asSchema     bool
	}{
		{"ValidationError direct", &ValidationError{Reason: "x", Err: ErrValidation}, ErrValidation, true, true, false},
		{"SchemaError direct", &SchemaError{Err: errors.New("y")}, nil, false, false, true},
		{"wrapped ValidationError", wrapErr{err: &ValidationError{Reason: "y"}}, nil, false, true, false},
		{"wrapped SchemaError", wrapErr{err: &SchemaError{Err: errors.New("z")}}, nil, false, false, true},
		{"json parse error", wrapJSONParseError(errors.New("bad json")), ErrValidation, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.target != nil {
				assert.Equal(t, tt.is, errors.Is(tt.err, tt.target), "errors.Is")
			}
			assert.Equal(t, tt.asValidation, IsValidationError(tt.err), "IsValidationError")
			var ve *ValidationError
			assert.Equal(t, tt.asValidation, errors.As(tt.err, &ve))
			var se *SchemaError
			assert.Equal(t, tt.asSchema, errors.As(tt.err, &se))
		})
	}
}

func TestIsValidationError(t *testing.T) {
	require.True(t, IsValidationError(&ValidationError{Reason: "x"}))
	require.False(t, IsValidationError(&SchemaError{Err: errors.New("x")}))
	require.False(t, IsValidationError(ErrNotFound))
	require.True(t, IsValidationError(wrapErr{err: &ValidationError{Reason: "y"}}))
}

func TestIsSchemaError(t *testing.T) {
	require.True(t, IsSchemaError(&SchemaError{Err: errors.New("x")}))
	require.True(t, IsSchemaError(wrapErr{err: &SchemaError{Err: errors.New("y")}}))
	require.False(t, IsSchemaError(&ValidationError{Reason: "x"}))
	require.False(t, IsSchemaError(ErrDuplicateID))
}

type wrapErr struct {
	err error
}

func (e wrapErr) Error() string {
	if e.err == nil {
		return ""
	}
	return "wrap: " + e.err.Error()
}
func (e wrapErr) Unwrap() error { return e.err }
