package buildantic

// OpenAISchema exports a descriptor in the OpenAI function-calling format:
// {"name", "description"?, "parameters"}.
func OpenAISchema(d Descriptor) map[string]any {
	return functionSchema(d, "parameters", nil)
}

// AnthropicSchema exports a descriptor in the Anthropic tool-use format:
// {"name", "description"?, "input_schema"}.
func AnthropicSchema(d Descriptor) map[string]any {
	return functionSchema(d, "input_schema", nil)
}

// GeminiSchema exports a descriptor in the Gemini function-declaration format:
// {"name", "description"?, "parameters"}, with schema keywords the Gemini API
// rejects removed.
func GeminiSchema(d Descriptor) map[string]any {
	return functionSchema(d, "parameters", sanitizeForGemini)
}

// functionSchema builds a function-calling object from a descriptor: titles
// are dropped, the top-level description is hoisted next to the name, and
// non-object schemas are wrapped into an object with a single WrappedInputKey
// property so every provider sees an object-typed parameter block.
func functionSchema(d Descriptor, paramsKey string, sanitize func(map[string]any)) map[string]any {
	params := copySchemaMap(d.Schema())
	if params == nil {
		params = map[string]any{}
	}
	dropTitles(params)

	description := d.Description()
	if s, ok := params["description"].(string); ok {
		if description == "" {
			description = s
		}
		delete(params, "description")
	}

	if t, _ := params["type"].(string); t != "object" {
		params = map[string]any{
			"type":       "object",
			"properties": map[string]any{WrappedInputKey: params},
			"required":   []any{WrappedInputKey},
		}
	}

	if sanitize != nil {
		walkSchema(params, sanitize)
	}

	out := map[string]any{"name": d.ID()}
	if description != "" {
		out["description"] = description
	}
	out[paramsKey] = params
	return out
}

func sanitizeForGemini(n map[string]any) {
	delete(n, "additionalProperties")
	delete(n, "default")
}
