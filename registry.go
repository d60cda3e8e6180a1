package buildantic

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Registry holds descriptors keyed by ID and exposes their schemas as lists
// in every supported function-calling dialect. Safe for concurrent use.
type Registry struct {
	descriptors map[string]Descriptor // wrapped with middlewares, used for validation
	raw         map[string]Descriptor // unwrapped, used by Use() to re-apply middlewares from scratch
	middlewares []Middleware
	mu          sync.Mutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]Descriptor),
		raw:         make(map[string]Descriptor),
	}
}

// Register adds a descriptor. Stored middlewares (see Use) are applied before
// registration. Registering a different descriptor under an already-taken ID
// returns ErrDuplicateID; re-registering the same descriptor is a no-op.
func (r *Registry) Register(d Descriptor) error {
	id := d.ID()
	if id == "" {
		return fmt.Errorf("descriptor id must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.raw[id]; ok {
		if sameDescriptor(existing, d) {
			return nil
		}
		return fmt.Errorf("%q: %w", id, ErrDuplicateID)
	}
	r.raw[id] = d
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		d = r.middlewares[i](d)
	}
	r.descriptors[id] = d
	return nil
}

// sameDescriptor reports whether a and b are the same descriptor. Comparing
// interface values panics for uncomparable dynamic types (struct values
// holding maps or funcs), so comparability is checked first.
func sameDescriptor(a, b Descriptor) bool {
	t := reflect.TypeOf(b)
	if t == nil || !t.Comparable() {
		return false
	}
	return a == b
}

// Get returns the descriptor with the given ID (after middlewares are applied),
// or (nil, false) if not found.
func (r *Registry) Get(id string) (Descriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.descriptors[id]
	return d, ok
}

// Has reports whether an ID exists in the registry.
func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.descriptors[id]
	return ok
}

// IDs returns all registered IDs, sorted for deterministic order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedIDs()
}

// sortedIDs returns registered IDs in sorted order. Caller must hold mu.
func (r *Registry) sortedIDs() []string {
	ids := make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Descriptors returns all registered descriptors (e.g. for exporting to LLM
// providers), sorted by ID for deterministic order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Descriptor, 0, len(r.descriptors))
	for _, id := range r.sortedIDs() {
		out = append(out, r.descriptors[id])
	}
	return out
}

// Schemas returns the plain JSON Schemas of all registered descriptors, sorted by ID.
func (r *Registry) Schemas() []map[string]any {
	return r.collect(func(d Descriptor) map[string]any { return d.Schema() })
}

// OpenAISchemas returns all schemas in the OpenAI function-calling format, sorted by ID.
func (r *Registry) OpenAISchemas() []map[string]any {
	return r.collect(func(d Descriptor) map[string]any { return OpenAISchema(d) })
}

// AnthropicSchemas returns all schemas in the Anthropic tool-use format, sorted by ID.
func (r *Registry) AnthropicSchemas() []map[string]any {
	return r.collect(func(d Descriptor) map[string]any { return AnthropicSchema(d) })
}

// GeminiSchemas returns all schemas in the Gemini function-declaration format, sorted by ID.
func (r *Registry) GeminiSchemas() []map[string]any {
	return r.collect(func(d Descriptor) map[string]any { return GeminiSchema(d) })
}

func (r *Registry) collect(export func(Descriptor) map[string]any) []map[string]any {
	descriptors := r.Descriptors()
	out := make([]map[string]any, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, export(d))
	}
	return out
}

// ValidateValue validates an in-memory value against the descriptor registered
// under id. Returns ErrNotFound for unknown IDs.
func (r *Registry) ValidateValue(id string, v any) (any, error) {
	d, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return d.ValidateValue(v)
}

// ValidateJSON validates raw JSON data against the descriptor registered
// under id. Returns ErrNotFound for unknown IDs.
func (r *Registry) ValidateJSON(id string, data []byte) (any, error) {
	d, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return d.ValidateJSON(data)
}
