// Package buildantic generates JSON Schemas from Go types and validates and
// normalizes data against them, with first-class support for the schema
// dialects used by LLM function-calling APIs.
//
// # Overview
//
// LLMs consume tool definitions as JSON Schema and produce arguments as JSON.
// This package covers both directions: describe a Go type (or a raw schema,
// or an OpenAPI operation) once, export it in the OpenAI, Anthropic, or
// Gemini function-calling format, and validate incoming payloads against the
// exact same schema.
//
// Pipeline: Go type → NewTypeDescriptor (reflection, $refs inlined) →
// Descriptor → Registry → ValidateJSON (parse, validate, decode) → typed value.
//
// # Key concepts
//
//   - Single Source of Truth: one schema drives both the definition shown to
//     the LLM and the validation of incoming JSON.
//   - Wrapped input: non-object schemas are exported as an object with a
//     single "input" property; validation accepts both the wrapped and the
//     bare payload.
//   - Two-layer validation: JSON Schema first, then Validatable.Validate()
//     for business rules the schema cannot express.
//
// See Descriptor, TypeDescriptor, and Registry for the core types, and the
// openapi subpackage for turning OpenAPI v3 operations into descriptors.
//
// # Example
//
//	type Args struct {
//	    City string `json:"city" jsonschema:"description=City name"`
//	}
//	desc, err := buildantic.NewTypeDescriptor[Args]()
//	if err != nil { ... }
//	reg := buildantic.NewRegistry()
//	if err := reg.Register(desc); err != nil { ... }
//	tools := reg.OpenAISchemas()
//	args, err := desc.ParseJSON([]byte(`{"city":"Moscow"}`))
package buildantic
