package buildantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type weatherQuery struct {
	Location string `json:"location" jsonschema:"title=Location,description=City and state"`
	Unit     string `json:"unit,omitempty" jsonschema:"enum=celsius,enum=fahrenheit"`
}

func TestOpenAISchema(t *testing.T) {
	d, err := NewTypeDescriptor[weatherQuery](WithID("get_weather"), WithDescription("Get the current weather"))
	require.NoError(t, err)

	out := OpenAISchema(d)
	assert.Equal(t, "get_weather", out["name"])
	assert.Equal(t, "Get the current weather", out["description"])

	params, ok := out["parameters"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "object", params["type"])
	assert.NotContains(t, params, "description")
	props := params["properties"].(map[string]any)
	assert.Contains(t, props, "location")
	assert.Contains(t, props, "unit")

	// Titles are stripped recursively from the exported parameters.
	walkSchema(params, func(n map[string]any) {
		assert.NotContains(t, n, "title")
	})
}

func TestAnthropicSchema(t *testing.T) {
	d, err := NewTypeDescriptor[weatherQuery](WithID("get_weather"))
	require.NoError(t, err)

	out := AnthropicSchema(d)
	assert.Equal(t, "get_weather", out["name"])
	assert.NotContains(t, out, "description")
	assert.NotContains(t, out, "parameters")

	schema, ok := out["input_schema"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "object", schema["type"])
}

func TestGeminiSchema_Sanitizes(t *testing.T) {
	d, err := NewSchemaDescriptor("lookup", "", map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"key": map[string]any{"type": "string", "default": "latest"},
		},
	})
	require.NoError(t, err)

	out := GeminiSchema(d)
	params := out["parameters"].(map[string]any)
	assert.NotContains(t, params, "additionalProperties")
	key := params["properties"].(map[string]any)["key"].(map[string]any)
	assert.NotContains(t, key, "default")
	assert.Equal(t, "string", key["type"])
}

func TestFunctionSchema_WrapsNonObject(t *testing.T) {
	d, err := NewTypeDescriptor[int](WithID("set_count"))
	require.NoError(t, err)

	out := OpenAISchema(d)
	params := out["parameters"].(map[string]any)
	assert.Equal(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"input": map[string]any{"type": "integer"},
		},
		"required": []any{"input"},
	}, params)
}

func TestFunctionSchema_HoistsSchemaDescription(t *testing.T) {
	d, err := NewSchemaDescriptor("search", "", map[string]any{
		"type":        "object",
		"description": "Search the index",
		"properties": map[string]any{
			"q": map[string]any{"type": "string"},
		},
	})
	require.NoError(t, err)

	out := AnthropicSchema(d)
	assert.Equal(t, "Search the index", out["description"])
	schema := out["input_schema"].(map[string]any)
	assert.NotContains(t, schema, "description")
}

func TestFunctionSchema_ExplicitDescriptionWins(t *testing.T) {
	d, err := NewSchemaDescriptor("search", "Find documents", map[string]any{
		"type":        "object",
		"description": "Search the index",
		"properties":  map[string]any{},
	})
	require.NoError(t, err)

	out := OpenAISchema(d)
	assert.Equal(t, "Find documents", out["description"])
}

func TestFunctionSchema_DoesNotMutateDescriptor(t *testing.T) {
	d, err := NewSchemaDescriptor("lookup", "", map[string]any{
		"type":        "object",
		"title":       "Lookup",
		"description": "Look up a record",
		"properties": map[string]any{
			"id": map[string]any{"type": "string", "title": "ID"},
		},
	})
	require.NoError(t, err)

	_ = OpenAISchema(d)

	schema := d.Schema()
	assert.Equal(t, "Lookup", schema["title"])
	assert.Equal(t, "Look up a record", schema["description"])
	id := schema["properties"].(map[string]any)["id"].(map[string]any)
	assert.Equal(t, "ID", id["title"])
}
