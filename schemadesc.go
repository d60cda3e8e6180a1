package buildantic

import (
	"errors"
	"maps"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaDescriptor describes data through a caller-provided raw JSON Schema.
// Useful for runtime integration where no Go type exists (dynamic tools,
// schemas loaded from configuration). The schema is deep-copied and compiled
// eagerly; the caller's map is never mutated.
type SchemaDescriptor struct {
	id          string
	description string
	validator   *SchemaValidator
}

// NewSchemaDescriptor builds a descriptor from a raw schema map. id must not
// be empty; when description is empty, the schema's own top-level description
// is used. Compile failures are reported as *SchemaError.
func NewSchemaDescriptor(id, description string, schemaMap map[string]any) (*SchemaDescriptor, error) {
	if id == "" {
		return nil, errors.New("descriptor id must not be empty")
	}
	validator, err := NewSchemaValidator(schemaMap)
	if err != nil {
		return nil, err
	}
	if description == "" {
		description, _ = validator.schemaMap["description"].(string)
	}
	return &SchemaDescriptor{
		id:          id,
		description: description,
		validator:   validator,
	}, nil
}

// ID returns the descriptor identifier.
func (d *SchemaDescriptor) ID() string { return d.id }

// Description returns the descriptor description.
func (d *SchemaDescriptor) Description() string { return d.description }

// Schema returns a shallow copy of the JSON Schema (top-level keys only).
// Nested maps are shared; callers must not mutate them.
func (d *SchemaDescriptor) Schema() map[string]any {
	return maps.Clone(d.validator.schemaMap)
}

// ValidateValue validates an in-memory value, accepting function-calling
// wrapped input for non-object schemas, and returns the normalized value.
func (d *SchemaDescriptor) ValidateValue(v any) (any, error) {
	norm, err := normalizeValue(v)
	if err != nil {
		return nil, &ValidationError{Reason: "value is not JSON-encodable: " + err.Error(), Err: ErrValidation}
	}
	return d.validateNormalized(norm)
}

// ValidateJSON validates raw JSON data and returns the decoded value.
func (d *SchemaDescriptor) ValidateJSON(data []byte) (any, error) {
	v, err := decodeJSON(data)
	if err != nil {
		return nil, wrapJSONParseError(err)
	}
	return d.validateNormalized(v)
}

func (d *SchemaDescriptor) validateNormalized(v any) (any, error) {
	v = unwrapInput(d.validator.schemaMap, v)
	if err := validateAgainstSchema(d.validator.compiled, v); err != nil {
		return nil, err
	}
	return v, nil
}

var (
	_ Descriptor      = (*SchemaDescriptor)(nil)
	_ schemaValidator = (*jsonschema.Schema)(nil)
)
