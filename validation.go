package buildantic

import (
	"bytes"
	"encoding/json"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Validatable is implemented by argument structs that need custom business validation.
// Called after schema validation and decoding.
type Validatable interface {
	Validate() error
}

// schemaValidator validates a JSON-like value (e.g. map[string]any from decodeJSON).
// *jsonschema.Schema implements it.
type schemaValidator interface {
	Validate(v any) error
}

// validateAgainstSchema runs Layer 1 validation on an already-decoded value.
// Callers decode JSON themselves and report parse errors via wrapJSONParseError.
func validateAgainstSchema(validate schemaValidator, v any) error {
	if err := validate.Validate(v); err != nil {
		return &ValidationError{Reason: err.Error(), Err: ErrValidation}
	}
	return nil
}

// validateCustom runs Layer 2 (Validatable) if args implements it.
func validateCustom(args any) error {
	if v, ok := args.(Validatable); ok {
		return v.Validate()
	}
	return nil
}

// decodeJSON parses raw JSON into a generic value with numbers kept lossless,
// suitable for schema validation.
func decodeJSON(data []byte) (any, error) {
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return v, nil
}

// normalizeValue converts an arbitrary Go value into its generic JSON form
// (maps, slices, strings, numbers) so it can be schema-validated.
func normalizeValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decodeJSON(data)
}
