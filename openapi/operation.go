package openapi

import (
	"slices"

	"github.com/synacktraa/buildantic"
)

// reservedOrder fixes the iteration order of parameter locations; collision
// handling depends on it (earlier locations win the flat namespace).
var reservedOrder = []string{
	KeyRequestPath,
	KeyRequestQuery,
	KeyRequestHeader,
	KeyRequestCookie,
	KeyRequestBody,
}

var reservedKeys = map[string]bool{
	KeyRequestPath:   true,
	KeyRequestQuery:  true,
	KeyRequestHeader: true,
	KeyRequestCookie: true,
	KeyRequestBody:   true,
}

// OperationDescriptor exposes one OpenAPI operation as a buildantic.Descriptor:
// a single flattened object schema for function calling, and validation that
// reassembles the payload into a Request.
type OperationDescriptor struct {
	op        Operation
	keyToLoc  map[string]string
	validator *buildantic.SchemaValidator
}

// NewOperationDescriptor flattens the operation's parameter locations into one
// object schema and compiles it. Parameters flatten to top-level properties
// unless a name collides with a reserved key or a parameter from another
// location; then the whole location nests under its reserved key and becomes
// required. The body always nests under requestBody.
func NewOperationDescriptor(op Operation) (*OperationDescriptor, error) {
	keyToLoc, schemaMap := flattenOperation(op)
	validator, err := buildantic.NewSchemaValidator(schemaMap)
	if err != nil {
		return nil, err
	}
	return &OperationDescriptor{
		op:        op,
		keyToLoc:  keyToLoc,
		validator: validator,
	}, nil
}

// Operation returns a copy of the described operation.
func (d *OperationDescriptor) Operation() Operation { return d.op }

// ID returns the operation identifier.
func (d *OperationDescriptor) ID() string { return d.op.ID }

// Description returns the operation summary or description.
func (d *OperationDescriptor) Description() string { return d.op.Description }

// Schema returns a shallow copy of the flattened JSON Schema (top-level keys
// only). Nested maps are shared; callers must not mutate them.
func (d *OperationDescriptor) Schema() map[string]any { return d.validator.Schema() }

// ValidateRequest validates an in-memory value against the operation schema
// and builds the Request. Failures are reported as *buildantic.ValidationError.
func (d *OperationDescriptor) ValidateRequest(v any) (*Request, error) {
	validated, err := d.validator.ValidateValue(v)
	if err != nil {
		return nil, err
	}
	return d.buildRequest(validated)
}

// ValidateRequestJSON validates raw JSON data against the operation schema
// and builds the Request.
func (d *OperationDescriptor) ValidateRequestJSON(data []byte) (*Request, error) {
	validated, err := d.validator.ValidateJSON(data)
	if err != nil {
		return nil, err
	}
	return d.buildRequest(validated)
}

// ValidateValue implements buildantic.Descriptor; the returned value is a *Request.
func (d *OperationDescriptor) ValidateValue(v any) (any, error) {
	return d.ValidateRequest(v)
}

// ValidateJSON implements buildantic.Descriptor; the returned value is a *Request.
func (d *OperationDescriptor) ValidateJSON(data []byte) (any, error) {
	return d.ValidateRequestJSON(data)
}

// flattenOperation merges the per-location metas into one object schema and
// records which top-level property belongs to which location.
func flattenOperation(op Operation) (map[string]string, map[string]any) {
	metas := map[string]*ParamMeta{
		KeyRequestPath:   op.PathMeta,
		KeyRequestQuery:  op.QueryMeta,
		KeyRequestHeader: op.HeaderMeta,
		KeyRequestCookie: op.CookieMeta,
		KeyRequestBody:   op.BodyMeta,
	}
	keyToLoc := make(map[string]string)
	properties := make(map[string]any)
	required := make([]any, 0, 4)

	for _, loc := range reservedOrder {
		meta := metas[loc]
		if meta == nil || meta.Schema == nil {
			continue
		}
		if loc == KeyRequestBody {
			body := copyJSONMap(meta.Schema)
			// An empty body schema means "no constraints declared"; keep
			// schemas that constrain without a "type" (anyOf etc.) as is.
			if len(body) == 0 {
				body["type"] = "object"
			}
			properties[loc] = body
			if op.BodyRequired {
				required = append(required, loc)
			}
			continue
		}
		props, _ := meta.Schema["properties"].(map[string]any)
		if collides(props, properties, keyToLoc, loc) {
			properties[loc] = copyJSONMap(meta.Schema)
			required = append(required, loc)
			continue
		}
		for _, key := range sortedKeys(props) {
			properties[key] = copyJSONValue(props[key])
			keyToLoc[key] = loc
		}
		for _, name := range stringList(meta.Schema["required"]) {
			required = append(required, name)
		}
	}

	schemaMap := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if op.Description != "" {
		schemaMap["description"] = op.Description
	}
	if len(required) > 0 {
		schemaMap["required"] = required
	}
	return keyToLoc, schemaMap
}

// collides reports whether any parameter name clashes with a reserved key or
// with a property already claimed by another location.
func collides(props map[string]any, properties map[string]any, keyToLoc map[string]string, loc string) bool {
	for key := range props {
		if reservedKeys[key] {
			return true
		}
		if _, taken := properties[key]; taken && keyToLoc[key] != loc {
			return true
		}
	}
	return false
}

// buildRequest routes validated top-level properties back to their locations
// and renders the path and query.
func (d *OperationDescriptor) buildRequest(validated any) (*Request, error) {
	obj, _ := validated.(map[string]any)
	params := map[string]map[string]any{}
	for _, loc := range reservedOrder {
		params[loc] = map[string]any{}
	}
	var body any
	for key, value := range obj {
		// The body nests whole and its schema may be non-object; pass the
		// validated value through unchanged.
		if key == KeyRequestBody {
			body = value
			continue
		}
		if reservedKeys[key] {
			if m, ok := value.(map[string]any); ok {
				for k, v := range m {
					params[key][k] = v
				}
			}
			continue
		}
		if loc, ok := d.keyToLoc[key]; ok {
			params[loc][key] = value
		}
	}

	path := d.op.Path
	if len(params[KeyRequestPath]) > 0 {
		formatted, err := FormatPath(path, params[KeyRequestPath], metaEncodings(d.op.PathMeta))
		if err != nil {
			return nil, err
		}
		path = formatted
	}

	var encodedQuery string
	if len(params[KeyRequestQuery]) > 0 {
		formatted, err := FormatQuery(params[KeyRequestQuery], metaEncodings(d.op.QueryMeta))
		if err != nil {
			return nil, err
		}
		encodedQuery = formatted
	}

	return &Request{
		Method:       d.op.Method,
		Path:         path,
		Query:        nilIfEmpty(params[KeyRequestQuery]),
		EncodedQuery: encodedQuery,
		Headers:      nilIfEmpty(params[KeyRequestHeader]),
		Cookies:      nilIfEmpty(params[KeyRequestCookie]),
		Body:         body,
	}, nil
}

func metaEncodings(meta *ParamMeta) map[string]Encoding {
	if meta == nil {
		return nil
	}
	return meta.Encodings
}

func nilIfEmpty(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return m
}

func stringList(v any) []string {
	switch val := v.(type) {
	case []string:
		return slices.Clone(val)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func copyJSONMap(m map[string]any) map[string]any {
	out, _ := copyJSONValue(m).(map[string]any)
	return out
}

func copyJSONValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = copyJSONValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyJSONValue(item)
		}
		return out
	default:
		return v
	}
}

var _ buildantic.Descriptor = (*OperationDescriptor)(nil)
