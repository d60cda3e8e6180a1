package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/hashicorp/go-multierror"

	"github.com/synacktraa/buildantic"
)

// Sentinel errors for document loading. Use errors.Is to check.
var (
	ErrInvalidDocument    = errors.New("invalid OpenAPI document")
	ErrUnsupportedVersion = errors.New("only OpenAPI v3 documents are supported")
)

// supportedMethods mirrors the methods an operation schema can be built for.
var supportedMethods = map[string]bool{
	"get": true, "post": true, "put": true, "delete": true,
	"patch": true, "head": true, "options": true,
}

// options hold Registry construction settings.
type options struct {
	includeHeaders bool
	includeCookies bool
}

// Option configures Registry construction (e.g. WithHeaders).
type Option func(*options)

// WithHeaders includes header parameters in operation schemas.
// Headers are excluded by default; they rarely belong in LLM-facing input.
func WithHeaders() Option {
	return func(o *options) {
		o.includeHeaders = true
	}
}

// WithCookies includes cookie parameters in operation schemas.
// Cookies are excluded by default.
func WithCookies() Option {
	return func(o *options) {
		o.includeCookies = true
	}
}

// Registry holds operation descriptors built from one OpenAPI v3 document,
// keyed by operation ID. It is immutable after construction and safe for
// concurrent use.
type Registry struct {
	descriptors map[string]*OperationDescriptor
}

// NewRegistry builds a Registry from a parsed document. Operations without an
// operationId are skipped; spaces in IDs are replaced with underscores. $refs
// inside the document are inlined into emitted schemas (the document is
// modified in place). Per-operation build failures are aggregated and returned
// together.
func NewRegistry(doc *openapi3.T, opts ...Option) (*Registry, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if doc == nil || doc.Paths == nil || doc.OpenAPI == "" {
		return nil, ErrInvalidDocument
	}
	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		return nil, fmt.Errorf("%w: document declares %s", ErrUnsupportedVersion, doc.OpenAPI)
	}

	r := &Registry{descriptors: make(map[string]*OperationDescriptor)}
	var merr error
	paths := doc.Paths.Map()
	for _, path := range sortedMapKeys(paths) {
		item := paths[path]
		if item == nil {
			continue
		}
		operations := item.Operations()
		for _, method := range sortedMapKeys(operations) {
			lower := strings.ToLower(method)
			if !supportedMethods[lower] {
				continue
			}
			src := operations[method]
			if src == nil || src.OperationID == "" {
				continue
			}
			op, err := buildOperation(path, lower, item, src, o)
			if err != nil {
				merr = multierror.Append(merr, fmt.Errorf("%s %s: %w", method, path, err))
				continue
			}
			desc, err := NewOperationDescriptor(*op)
			if err != nil {
				merr = multierror.Append(merr, fmt.Errorf("%s %s: %w", method, path, err))
				continue
			}
			r.descriptors[op.ID] = desc
		}
	}
	if merr != nil {
		return nil, merr
	}
	return r, nil
}

// LoadData builds a Registry from raw document bytes (JSON or YAML).
func LoadData(data []byte, opts ...Option) (*Registry, error) {
	doc, err := newLoader().LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return NewRegistry(doc, opts...)
}

// LoadFile builds a Registry from a document file (JSON or YAML).
func LoadFile(path string, opts ...Option) (*Registry, error) {
	doc, err := newLoader().LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return NewRegistry(doc, opts...)
}

// LoadURL fetches and builds a Registry from a document URL.
func LoadURL(rawURL string, opts ...Option) (*Registry, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", rawURL, err)
	}
	doc, err := newLoader().LoadFromURI(u)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", rawURL, err)
	}
	return NewRegistry(doc, opts...)
}

func newLoader() *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	return loader
}

// Get returns the descriptor for the given operation ID, or (nil, false).
func (r *Registry) Get(id string) (*OperationDescriptor, bool) {
	d, ok := r.descriptors[id]
	return d, ok
}

// Has reports whether an operation ID exists in the registry.
func (r *Registry) Has(id string) bool {
	_, ok := r.descriptors[id]
	return ok
}

// IDs returns all operation IDs, sorted for deterministic order.
func (r *Registry) IDs() []string {
	return sortedMapKeys(r.descriptors)
}

// Descriptors returns all operation descriptors, sorted by ID.
func (r *Registry) Descriptors() []*OperationDescriptor {
	out := make([]*OperationDescriptor, 0, len(r.descriptors))
	for _, id := range r.IDs() {
		out = append(out, r.descriptors[id])
	}
	return out
}

// Schemas returns the plain JSON Schemas of all operations, sorted by ID.
func (r *Registry) Schemas() []map[string]any {
	return r.collect(func(d *OperationDescriptor) map[string]any { return d.Schema() })
}

// OpenAISchemas returns all operation schemas in the OpenAI function-calling format, sorted by ID.
func (r *Registry) OpenAISchemas() []map[string]any {
	return r.collect(func(d *OperationDescriptor) map[string]any { return buildantic.OpenAISchema(d) })
}

// AnthropicSchemas returns all operation schemas in the Anthropic tool-use format, sorted by ID.
func (r *Registry) AnthropicSchemas() []map[string]any {
	return r.collect(func(d *OperationDescriptor) map[string]any { return buildantic.AnthropicSchema(d) })
}

// GeminiSchemas returns all operation schemas in the Gemini function-declaration format, sorted by ID.
func (r *Registry) GeminiSchemas() []map[string]any {
	return r.collect(func(d *OperationDescriptor) map[string]any { return buildantic.GeminiSchema(d) })
}

func (r *Registry) collect(export func(*OperationDescriptor) map[string]any) []map[string]any {
	descriptors := r.Descriptors()
	out := make([]map[string]any, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, export(d))
	}
	return out
}

// ValidateValue validates an in-memory value against the operation registered
// under id and builds its Request. Returns buildantic.ErrNotFound for unknown IDs.
func (r *Registry) ValidateValue(id string, v any) (*Request, error) {
	d, ok := r.descriptors[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, buildantic.ErrNotFound)
	}
	return d.ValidateRequest(v)
}

// ValidateJSON validates raw JSON data against the operation registered under
// id and builds its Request. Returns buildantic.ErrNotFound for unknown IDs.
func (r *Registry) ValidateJSON(id string, data []byte) (*Request, error) {
	d, ok := r.descriptors[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, buildantic.ErrNotFound)
	}
	return d.ValidateRequestJSON(data)
}

// paramBucket accumulates one location's parameters while scanning.
type paramBucket struct {
	props     map[string]any
	encodings map[string]Encoding
	required  []string
}

func newParamBucket() *paramBucket {
	return &paramBucket{
		props:     make(map[string]any),
		encodings: make(map[string]Encoding),
	}
}

// meta converts the bucket into a ParamMeta, or nil when no parameters were seen.
func (b *paramBucket) meta(withEncodings bool) *ParamMeta {
	if len(b.props) == 0 {
		return nil
	}
	schema := map[string]any{
		"type":       "object",
		"properties": b.props,
	}
	if len(b.required) > 0 {
		required := make([]any, len(b.required))
		for i, name := range b.required {
			required[i] = name
		}
		schema["required"] = required
	}
	meta := &ParamMeta{Schema: schema}
	if withEncodings {
		meta.Encodings = b.encodings
	}
	return meta
}

// buildOperation distills one kin-openapi operation into an Operation.
// Path-item level parameters apply first; operation-level ones follow and may
// override by name.
func buildOperation(path, method string, item *openapi3.PathItem, src *openapi3.Operation, o options) (*Operation, error) {
	description := src.Summary
	if description == "" {
		description = src.Description
	}

	buckets := map[string]*paramBucket{
		openapi3.ParameterInPath:   newParamBucket(),
		openapi3.ParameterInQuery:  newParamBucket(),
		openapi3.ParameterInHeader: newParamBucket(),
		openapi3.ParameterInCookie: newParamBucket(),
	}
	params := make(openapi3.Parameters, 0, len(item.Parameters)+len(src.Parameters))
	params = append(params, item.Parameters...)
	params = append(params, src.Parameters...)
	for _, ref := range params {
		if ref == nil || ref.Value == nil {
			continue
		}
		p := ref.Value
		bucket, ok := buckets[p.In]
		if !ok {
			continue
		}
		if (p.In == openapi3.ParameterInHeader && !o.includeHeaders) ||
			(p.In == openapi3.ParameterInCookie && !o.includeCookies) {
			continue
		}
		schemaMap, err := schemaRefToMap(p.Schema)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		if schemaMap == nil {
			schemaMap = map[string]any{}
		}
		if p.Description != "" {
			schemaMap["description"] = p.Description
		}
		bucket.props[p.Name] = schemaMap
		if p.In == openapi3.ParameterInPath || p.In == openapi3.ParameterInQuery {
			if sm, err := p.SerializationMethod(); err == nil && sm != nil {
				bucket.encodings[p.Name] = Encoding{Style: sm.Style, Explode: sm.Explode}
			}
		}
		if p.Required && !slices.Contains(bucket.required, p.Name) {
			bucket.required = append(bucket.required, p.Name)
		}
	}

	var bodyMeta *ParamMeta
	var bodyRequired bool
	if src.RequestBody != nil && src.RequestBody.Value != nil {
		rb := src.RequestBody.Value
		bodySchema, err := bodySchemaMap(rb)
		if err != nil {
			return nil, fmt.Errorf("request body: %w", err)
		}
		bodyMeta = &ParamMeta{Schema: bodySchema}
		bodyRequired = rb.Required
	}

	var headerMeta, cookieMeta *ParamMeta
	if o.includeHeaders {
		headerMeta = buckets[openapi3.ParameterInHeader].meta(false)
	}
	if o.includeCookies {
		cookieMeta = buckets[openapi3.ParameterInCookie].meta(false)
	}
	return &Operation{
		ID:           strings.ReplaceAll(src.OperationID, " ", "_"),
		Method:       method,
		Path:         path,
		Description:  description,
		PathMeta:     buckets[openapi3.ParameterInPath].meta(true),
		QueryMeta:    buckets[openapi3.ParameterInQuery].meta(true),
		HeaderMeta:   headerMeta,
		CookieMeta:   cookieMeta,
		BodyMeta:     bodyMeta,
		BodyRequired: bodyRequired,
	}, nil
}

// bodySchemaMap extracts the body schema from the request body content,
// preferring application/json, falling back to the lexicographically first
// media type, and defaulting to an open object when no schema is declared.
func bodySchemaMap(rb *openapi3.RequestBody) (map[string]any, error) {
	var schemaRef *openapi3.SchemaRef
	if mt, ok := rb.Content["application/json"]; ok && mt != nil {
		schemaRef = mt.Schema
	} else {
		for _, name := range sortedMapKeys(rb.Content) {
			if mt := rb.Content[name]; mt != nil {
				schemaRef = mt.Schema
				break
			}
		}
	}
	schemaMap, err := schemaRefToMap(schemaRef)
	if err != nil {
		return nil, err
	}
	if schemaMap == nil {
		schemaMap = map[string]any{"type": "object", "additionalProperties": true}
	}
	if rb.Description != "" {
		schemaMap["description"] = rb.Description
	}
	return schemaMap, nil
}

// schemaRefToMap renders a resolved schema with all $refs inlined. The schema
// tree is modified in place (refs blanked); shared nodes inline at every use
// site. Returns (nil, nil) for a nil ref.
func schemaRefToMap(ref *openapi3.SchemaRef) (map[string]any, error) {
	if ref == nil {
		return nil, nil
	}
	blankRefs(ref, make(map[*openapi3.Schema]bool), make(map[*openapi3.Schema]bool))
	data, err := json.Marshal(ref)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// blankRefs clears $ref markers so marshaling emits resolved values inline.
// Shared nodes inline at every use site; only a true cycle keeps its $ref at
// the backedge, otherwise marshaling would never terminate.
func blankRefs(ref *openapi3.SchemaRef, stack, done map[*openapi3.Schema]bool) {
	if ref == nil {
		return
	}
	s := ref.Value
	if s == nil {
		return
	}
	if stack[s] {
		return
	}
	ref.Ref = ""
	if done[s] {
		return
	}
	done[s] = true
	stack[s] = true
	defer delete(stack, s)
	for _, p := range s.Properties {
		blankRefs(p, stack, done)
	}
	blankRefs(s.Items, stack, done)
	blankRefs(s.Not, stack, done)
	for _, sub := range s.AllOf {
		blankRefs(sub, stack, done)
	}
	for _, sub := range s.AnyOf {
		blankRefs(sub, stack, done)
	}
	for _, sub := range s.OneOf {
		blankRefs(sub, stack, done)
	}
	if s.AdditionalProperties.Schema != nil {
		blankRefs(s.AdditionalProperties.Schema, stack, done)
	}
}

func sortedMapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
