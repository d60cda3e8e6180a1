package buildantic

import (
	"errors"
	"maps"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaValidator validates data against a caller-provided JSON Schema.
// The schema is compiled once at construction (meta-schema checked); both
// entry points return the normalized generic value on success.
type SchemaValidator struct {
	schemaMap map[string]any
	compiled  *jsonschema.Schema
}

// NewSchemaValidator compiles schemaMap into a validator. The input map is
// deep-copied and never mutated. Malformed schemas are reported as *SchemaError.
func NewSchemaValidator(schemaMap map[string]any) (*SchemaValidator, error) {
	if schemaMap == nil {
		return nil, &SchemaError{Err: errors.New("schema map must not be nil")}
	}
	sc := copySchemaMap(schemaMap)
	stripSchemaIDs(sc)
	compiled, err := compileSchemaMap(sc)
	if err != nil {
		return nil, err
	}
	return &SchemaValidator{schemaMap: sc, compiled: compiled}, nil
}

// Schema returns a shallow copy of the compiled schema (top-level keys only).
// Nested maps are shared; callers must not mutate them.
func (v *SchemaValidator) Schema() map[string]any {
	return maps.Clone(v.schemaMap)
}

// ValidateValue validates an in-memory value and returns its normalized JSON
// form. Violations are reported as *ValidationError.
func (v *SchemaValidator) ValidateValue(val any) (any, error) {
	norm, err := normalizeValue(val)
	if err != nil {
		return nil, &ValidationError{Reason: "value is not JSON-encodable: " + err.Error(), Err: ErrValidation}
	}
	if err := validateAgainstSchema(v.compiled, norm); err != nil {
		return nil, err
	}
	return norm, nil
}

// ValidateJSON validates raw JSON data and returns the decoded value.
// Invalid JSON and schema violations are reported as *ValidationError.
func (v *SchemaValidator) ValidateJSON(data []byte) (any, error) {
	val, err := decodeJSON(data)
	if err != nil {
		return nil, wrapJSONParseError(err)
	}
	if err := validateAgainstSchema(v.compiled, val); err != nil {
		return nil, err
	}
	return val, nil
}
