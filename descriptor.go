package buildantic

// WrappedInputKey is the property name used when a non-object schema is
// wrapped into an object for function-calling export. Validation accepts
// payloads in both wrapped and bare form.
const WrappedInputKey = "input"

// Descriptor is the contract for a described object: a stable identifier, a
// JSON Schema, and validation of incoming data against that schema.
// It is provider-agnostic (no knowledge of OpenAI, Anthropic, etc.);
// function-calling exports are derived via OpenAISchema and friends.
type Descriptor interface {
	ID() string
	Description() string
	// Schema returns the plain JSON Schema as a map. Callers must not mutate
	// nested values.
	Schema() map[string]any
	// ValidateValue validates an in-memory value and returns the normalized
	// result. Failures are reported as *ValidationError.
	ValidateValue(v any) (any, error)
	// ValidateJSON validates raw JSON data and returns the normalized result.
	ValidateJSON(data []byte) (any, error)
}

// unwrapInput undoes function-calling input wrapping: when the descriptor's
// schema is not an object and v is a map holding only WrappedInputKey, the
// inner value is returned. All other values pass through unchanged.
func unwrapInput(schemaMap map[string]any, v any) any {
	if t, _ := schemaMap["type"].(string); t == "object" {
		return v
	}
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return v
	}
	inner, ok := m[WrappedInputKey]
	if !ok {
		return v
	}
	return inner
}
