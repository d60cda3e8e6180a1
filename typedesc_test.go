package buildantic

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type signupArgs struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func (s *signupArgs) Validate() error {
	if s.Age < 18 {
		return errors.New("age must be at least 18")
	}
	return nil
}

type bookingArgs struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (b bookingArgs) Validate() error {
	if b.From == b.To {
		return errors.New("from and to must differ")
	}
	return nil
}

func TestNewTypeDescriptor_Defaults(t *testing.T) {
	d, err := NewTypeDescriptor[searchArgs]()
	require.NoError(t, err)

	assert.Equal(t, "searchArgs", d.ID())
	assert.Empty(t, d.Description())

	schema := d.Schema()
	assert.Equal(t, "object", schema["type"])
	props := schema["properties"].(map[string]any)
	assert.Contains(t, props, "query")
	assert.Contains(t, props, "limit")
	assert.Equal(t, []any{"query"}, schema["required"])
}

func TestNewTypeDescriptor_Options(t *testing.T) {
	d, err := NewTypeDescriptor[searchArgs](WithID("search"), WithDescription("Search the catalog"))
	require.NoError(t, err)

	assert.Equal(t, "search", d.ID())
	assert.Equal(t, "Search the catalog", d.Description())
	assert.Equal(t, "Search the catalog", d.Schema()["description"])
}

func TestNewTypeDescriptor_AnonymousID(t *testing.T) {
	d, err := NewTypeDescriptor[struct {
		A string `json:"a"`
	}]()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d.ID(), "id_"), "got %q", d.ID())
}

func TestNewTypeDescriptor_Strict(t *testing.T) {
	d, err := NewTypeDescriptor[searchArgs](WithStrict())
	require.NoError(t, err)

	schema := d.Schema()
	assert.Equal(t, false, schema["additionalProperties"])
	assert.Equal(t, []any{"limit", "query"}, schema["required"])

	_, err = d.Parse(map[string]any{"query": "go"})
	require.Error(t, err, "strict mode requires every property")
	assert.True(t, IsValidationError(err))
}

func TestTypeDescriptor_Parse(t *testing.T) {
	d, err := NewTypeDescriptor[searchArgs]()
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   any
		want    searchArgs
		wantErr bool
	}{
		{"valid map", map[string]any{"query": "go", "limit": 5}, searchArgs{Query: "go", Limit: 5}, false},
		{"optional omitted", map[string]any{"query": "go"}, searchArgs{Query: "go"}, false},
		{"struct round-trip", searchArgs{Query: "go", Limit: 2}, searchArgs{Query: "go", Limit: 2}, false},
		{"missing required", map[string]any{"limit": 5}, searchArgs{}, true},
		{"wrong type", map[string]any{"query": "go", "limit": "five"}, searchArgs{}, true},
		{"unknown property", map[string]any{"query": "go", "page": 2}, searchArgs{}, true},
		{"not an object", "go", searchArgs{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err), "want ValidationError, got %T", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeDescriptor_ParseJSON(t *testing.T) {
	d, err := NewTypeDescriptor[searchArgs]()
	require.NoError(t, err)

	got, err := d.ParseJSON([]byte(`{"query":"go","limit":10}`))
	require.NoError(t, err)
	assert.Equal(t, searchArgs{Query: "go", Limit: 10}, got)

	_, err = d.ParseJSON([]byte(`{"query":`))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "json parse error")
}

func TestTypeDescriptor_Primitive(t *testing.T) {
	d, err := NewTypeDescriptor[int](WithID("set_count"))
	require.NoError(t, err)

	got, err := d.Parse(42)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = d.ParseJSON([]byte(`7`))
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	_, err = d.Parse("seven")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestTypeDescriptor_AcceptsWrappedInput(t *testing.T) {
	d, err := NewTypeDescriptor[int](WithID("set_count"))
	require.NoError(t, err)

	// Providers send non-object payloads wrapped as {"input": ...}; both the
	// wrapped and the bare form validate.
	got, err := d.Parse(map[string]any{"input": 42})
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = d.ParseJSON([]byte(`{"input": 42}`))
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	list, err := NewTypeDescriptor[[]string](WithID("set_tags"))
	require.NoError(t, err)
	tags, err := list.Parse(map[string]any{"input": []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tags)
}

func TestTypeDescriptor_Layer2PointerReceiver(t *testing.T) {
	d, err := NewTypeDescriptor[signupArgs]()
	require.NoError(t, err)

	got, err := d.Parse(map[string]any{"name": "ada", "age": 30})
	require.NoError(t, err)
	assert.Equal(t, signupArgs{Name: "ada", Age: 30}, got)

	_, err = d.Parse(map[string]any{"name": "kid", "age": 9})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "age must be at least 18")
}

func TestTypeDescriptor_Layer2ValueReceiver(t *testing.T) {
	d, err := NewTypeDescriptor[bookingArgs]()
	require.NoError(t, err)

	_, err = d.Parse(map[string]any{"from": "AMS", "to": "AMS"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "from and to must differ")
}

func TestTypeDescriptor_Enum(t *testing.T) {
	d, err := NewTypeDescriptor[weatherQuery]()
	require.NoError(t, err)

	got, err := d.Parse(map[string]any{"location": "Berlin", "unit": "celsius"})
	require.NoError(t, err)
	assert.Equal(t, weatherQuery{Location: "Berlin", Unit: "celsius"}, got)

	_, err = d.Parse(map[string]any{"location": "Berlin", "unit": "kelvin"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestTypeDescriptor_DescriptorInterface(t *testing.T) {
	d, err := NewTypeDescriptor[searchArgs](WithID("search"))
	require.NoError(t, err)

	out, err := d.ValidateValue(map[string]any{"query": "go"})
	require.NoError(t, err)
	assert.Equal(t, searchArgs{Query: "go"}, out)

	out, err = d.ValidateJSON([]byte(`{"query":"go"}`))
	require.NoError(t, err)
	assert.Equal(t, searchArgs{Query: "go"}, out)
}

func TestTypeDescriptor_SchemaCopy(t *testing.T) {
	d, err := NewTypeDescriptor[searchArgs]()
	require.NoError(t, err)

	s := d.Schema()
	s["type"] = "changed"
	assert.Equal(t, "object", d.Schema()["type"])
}
