package buildantic

import (
	"encoding/json"
	"maps"
	"reflect"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// TypeDescriptor describes a Go type T: a reflected JSON Schema (definitions
// inlined, no $refs) plus two-layer validation that decodes payloads into T.
// Build one per type at startup and reuse it; all methods are safe for
// concurrent use.
type TypeDescriptor[T any] struct {
	id          string
	description string
	schemaMap   map[string]any
	compiled    *jsonschema.Schema
}

// NewTypeDescriptor reflects a JSON Schema for T and compiles it into a
// validator. The ID defaults to the Go type name (id_<hex> for anonymous
// types); override with WithID. Returns *SchemaError when T cannot be
// expressed as a schema (e.g. contains channels or funcs).
func NewTypeDescriptor[T any](opts ...TypeOption) (*TypeDescriptor[T], error) {
	var o typeOptions
	for _, opt := range opts {
		opt(&o)
	}
	schemaMap, compiled, err := generateSchema[T](o.strict)
	if err != nil {
		return nil, err
	}
	if o.description != "" {
		schemaMap["description"] = o.description
		// Recompile so the validator and the exported schema stay identical.
		if compiled, err = compileSchemaMap(schemaMap); err != nil {
			return nil, err
		}
	}
	id := o.id
	if id == "" {
		id = typeID[T]()
	}
	description, _ := schemaMap["description"].(string)
	return &TypeDescriptor[T]{
		id:          id,
		description: description,
		schemaMap:   schemaMap,
		compiled:    compiled,
	}, nil
}

// ID returns the identifier for the described type.
func (d *TypeDescriptor[T]) ID() string { return d.id }

// Description returns the descriptor description (WithDescription or the
// schema's own description).
func (d *TypeDescriptor[T]) Description() string { return d.description }

// Schema returns a shallow copy of the JSON Schema (top-level keys only).
// Nested maps are shared; callers must not mutate them.
func (d *TypeDescriptor[T]) Schema() map[string]any {
	return maps.Clone(d.schemaMap)
}

// Parse validates an in-memory value against the schema and decodes it into T.
// Function-calling wrapped input ({"input": ...} for non-object schemas) is
// accepted and unwrapped. Returns *ValidationError on invalid input so the
// caller can pass the message to the LLM for self-correction.
func (d *TypeDescriptor[T]) Parse(v any) (T, error) {
	var zero T
	norm, err := normalizeValue(v)
	if err != nil {
		return zero, &ValidationError{Reason: "value is not JSON-encodable: " + err.Error(), Err: ErrValidation}
	}
	return d.parseNormalized(norm)
}

// ParseJSON validates raw JSON data against the schema and decodes it into T.
func (d *TypeDescriptor[T]) ParseJSON(data []byte) (T, error) {
	var zero T
	v, err := decodeJSON(data)
	if err != nil {
		return zero, wrapJSONParseError(err)
	}
	return d.parseNormalized(v)
}

func (d *TypeDescriptor[T]) parseNormalized(v any) (T, error) {
	var zero T
	v = unwrapInput(d.schemaMap, v)
	if err := validateAgainstSchema(d.compiled, v); err != nil {
		return zero, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return zero, wrapJSONParseError(err)
	}
	var args T
	if err := json.Unmarshal(data, &args); err != nil {
		return zero, wrapJSONParseError(err)
	}
	if err := runLayer2Validation(args); err != nil {
		if IsValidationError(err) {
			return zero, err
		}
		return zero, &ValidationError{Reason: err.Error(), Err: ErrValidation}
	}
	return args, nil
}

// ValidateValue implements Descriptor; see Parse for the typed variant.
func (d *TypeDescriptor[T]) ValidateValue(v any) (any, error) {
	return d.Parse(v)
}

// ValidateJSON implements Descriptor; see ParseJSON for the typed variant.
func (d *TypeDescriptor[T]) ValidateJSON(data []byte) (any, error) {
	return d.ParseJSON(data)
}

// runLayer2Validation runs Validatable.Validate() on args; if args does not implement Validatable,
// it tries &args for value types (pointer receiver). Never calls Validate twice for the same receiver.
func runLayer2Validation[T any](args T) error {
	if err := validateCustom(any(args)); err != nil {
		return err
	}
	if _, ok := any(args).(Validatable); ok {
		return nil
	}
	typ := reflect.TypeOf(args)
	if typ == nil || typ.Kind() == reflect.Pointer {
		return nil
	}
	return validateCustom(any(&args))
}

var _ Descriptor = (*TypeDescriptor[struct{}])(nil)
