package buildantic

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"slices"
	"sync"

	invopop "github.com/invopop/jsonschema"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

var (
	customTypesMu sync.RWMutex
	customTypes   = make(map[reflect.Type]*invopop.Schema)
)

// RegisterType registers a custom Go type to be mapped to a JSON Schema type/format in generated schemas.
// emptyInstance is a value of the type to register (e.g. uuid.UUID{}, or MyMoney{}); it must not be nil.
// jsonType is the JSON Schema type (e.g. "string", "number"); it must not be empty.
// format is optional (e.g. "uuid", "decimal"). Registration is by reflect.TypeOf(emptyInstance).
// Pointer fields (*T) use the same mapping as T; call RegisterType once for the value type.
// Call RegisterType at application startup before the first NewTypeDescriptor.
func RegisterType(emptyInstance any, jsonType, format string) {
	if emptyInstance == nil {
		panic("buildantic: RegisterType emptyInstance must not be nil")
	}
	if jsonType == "" {
		panic("buildantic: RegisterType jsonType must not be empty")
	}
	t := reflect.TypeOf(emptyInstance)
	customTypesMu.Lock()
	defer customTypesMu.Unlock()
	customTypes[t] = &invopop.Schema{Type: jsonType, Format: format}
}

// customTypeMapper returns a snapshot-backed Mapper for the invopop reflector.
// Caller holds no lock; safe for concurrent use with RegisterType.
func customTypeMapper() func(reflect.Type) *invopop.Schema {
	customTypesMu.RLock()
	defer customTypesMu.RUnlock()
	snapshot := make(map[reflect.Type]*invopop.Schema, len(customTypes))
	for t, s := range customTypes {
		if s != nil {
			cp := *s
			snapshot[t] = &cp
		}
	}
	return func(t reflect.Type) *invopop.Schema {
		if s, ok := snapshot[t]; ok {
			cp := *s
			return &cp
		}
		return nil
	}
}

// generateSchema produces a JSON Schema map and a compiled validator for type T.
// It is called once when building a TypeDescriptor. All definitions are inlined
// (DoNotReference), so the emitted schema carries no $defs or $ref. strict sets
// additionalProperties: false for all objects (OpenAI Structured Outputs).
func generateSchema[T any](strict bool) (map[string]any, *jsonschema.Schema, error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	r := &invopop.Reflector{
		DoNotReference: true,
		Mapper:         customTypeMapper(),
	}
	elem := typ
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	// ExpandedStruct requires a named struct root; the reflector panics on
	// primitives otherwise.
	if elem.Kind() == reflect.Struct && elem.Name() != "" {
		r.ExpandedStruct = true
	}
	schema, err := safeReflect(r, typ)
	if err != nil {
		return nil, nil, &SchemaError{Err: err}
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, nil, &SchemaError{Err: err}
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		return nil, nil, &SchemaError{Err: err}
	}
	stripSchemaIDs(schemaMap)
	if strict {
		applyStrictMode(schemaMap)
	}
	compiled, err := compileSchemaMap(schemaMap)
	if err != nil {
		return nil, nil, err
	}
	return schemaMap, compiled, nil
}

// safeReflect converts reflector panics (unsupported types like channels or
// functions) into errors.
func safeReflect(r *invopop.Reflector, typ reflect.Type) (s *invopop.Schema, err error) {
	defer func() {
		if p := recover(); p != nil {
			s = nil
			err = fmt.Errorf("schema reflection for %s: %v", typ, p)
		}
	}()
	s = r.ReflectFromType(typ)
	if s == nil {
		err = errNilSchema
	}
	return s, err
}

var errNilSchema = errors.New("schema reflection returned nil")

// typeID returns the default descriptor ID for T: the Go type name, or a
// generated id_<hex> for anonymous types.
func typeID[T any]() string {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if name := typ.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("id_%08x", rand.Uint32())
}

// walkSchema recursively visits every map node in the schema tree (including $defs and definitions).
func walkSchema(schemaMap map[string]any, visit func(map[string]any)) {
	if schemaMap == nil {
		return
	}
	visit(schemaMap)
	for _, val := range schemaMap {
		switch v := val.(type) {
		case map[string]any:
			walkSchema(v, visit)
		case []any:
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					walkSchema(m, visit)
				}
			}
		}
	}
}

// applyStrictMode sets additionalProperties: false and makes every property
// required for every object in the schema.
func applyStrictMode(schemaMap map[string]any) {
	walkSchema(schemaMap, func(n map[string]any) {
		props, isObj := n["properties"].(map[string]any)
		if !isObj {
			return
		}
		n["additionalProperties"] = false
		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		if len(keys) > 0 {
			required := make([]any, len(keys))
			for i, k := range keys {
				required[i] = k
			}
			n["required"] = required
		}
	})
}

// stripSchemaIDs removes $schema, id, and $id so the emitted schema is a bare
// document and resolution does not depend on them.
func stripSchemaIDs(schemaMap map[string]any) {
	delete(schemaMap, "$schema")
	walkSchema(schemaMap, func(n map[string]any) {
		delete(n, "id")
		delete(n, "$id")
	})
}

// dropTitles removes title keys recursively; function-calling dialects derive
// display names from the function name, not from schema titles.
func dropTitles(schemaMap map[string]any) {
	walkSchema(schemaMap, func(n map[string]any) {
		delete(n, "title")
	})
}

// compileSchemaMap compiles a raw JSON Schema map into a validator. The map is
// not mutated. Malformed schemas are reported as SchemaError.
func compileSchemaMap(schemaMap map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, &SchemaError{Err: err}
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &SchemaError{Err: err}
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, &SchemaError{Err: err}
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, &SchemaError{Err: err}
	}
	return compiled, nil
}

// copySchemaMap deep-copies a schema map so callers can hand out or mutate
// copies without sharing nested maps or slices. Scalar leaves are shared.
func copySchemaMap(schemaMap map[string]any) map[string]any {
	out, _ := copySchemaValue(schemaMap).(map[string]any)
	return out
}

func copySchemaValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = copySchemaValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copySchemaValue(item)
		}
		return out
	default:
		return v
	}
}
