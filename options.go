package buildantic

// typeOptions hold optional TypeDescriptor settings.
type typeOptions struct {
	id          string
	description string
	strict      bool
}

// TypeOption configures a TypeDescriptor (e.g. WithID, WithStrict).
type TypeOption func(*typeOptions)

// WithID overrides the descriptor ID (default: the Go type name).
// Use it for anonymous types or when the exported function name must differ
// from the type name.
func WithID(id string) TypeOption {
	return func(o *typeOptions) {
		o.id = id
	}
}

// WithDescription sets the schema description, surfaced next to the name in
// function-calling exports.
func WithDescription(description string) TypeOption {
	return func(o *typeOptions) {
		o.description = description
	}
}

// WithStrict sets strict mode for the schema: additionalProperties: false for
// all objects, and all properties become required. Use for OpenAI Structured
// Outputs compatibility.
func WithStrict() TypeOption {
	return func(o *typeOptions) {
		o.strict = true
	}
}
