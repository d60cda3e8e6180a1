package buildantic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchemaValidator(t *testing.T) {
	v, err := NewSchemaValidator(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"q": map[string]any{"type": "string"},
			"n": map[string]any{"type": "integer"},
		},
		"required": []any{"q"},
	})
	require.NoError(t, err)

	out, err := v.ValidateValue(map[string]any{"q": "go", "n": 3})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"q": "go", "n": json.Number("3")}, out)

	_, err = v.ValidateValue(map[string]any{"n": 3})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestNewSchemaValidator_Errors(t *testing.T) {
	tests := []struct {
		name      string
		schemaMap map[string]any
	}{
		{"nil schema", nil},
		{"malformed type", map[string]any{"type": 12}},
		{"malformed properties", map[string]any{"type": "object", "properties": "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchemaValidator(tt.schemaMap)
			require.Error(t, err)
			assert.True(t, IsSchemaError(err))
		})
	}
}

func TestSchemaValidator_ValidateJSON(t *testing.T) {
	v, err := NewSchemaValidator(map[string]any{"type": "array", "items": map[string]any{"type": "integer"}})
	require.NoError(t, err)

	out, err := v.ValidateJSON([]byte(`[1, 2, 3]`))
	require.NoError(t, err)
	assert.Equal(t, []any{json.Number("1"), json.Number("2"), json.Number("3")}, out)

	_, err = v.ValidateJSON([]byte(`["a"]`))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = v.ValidateJSON([]byte(`[1,`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json parse error")
}

func TestSchemaValidator_LargeIntegerLossless(t *testing.T) {
	v, err := NewSchemaValidator(map[string]any{"type": "integer"})
	require.NoError(t, err)

	out, err := v.ValidateJSON([]byte(`9007199254740993`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), out)
}

func TestSchemaValidator_DoesNotMutateInput(t *testing.T) {
	in := map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$id":     "https://example.com/s.json",
		"type":    "string",
	}
	v, err := NewSchemaValidator(in)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/s.json", in["$id"], "caller map untouched")
	assert.NotContains(t, v.Schema(), "$id")
	assert.NotContains(t, v.Schema(), "$schema")
}
