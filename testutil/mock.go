// Package testutil provides test helpers for buildantic (e.g. MockDescriptor).
package testutil

import (
	"github.com/synacktraa/buildantic"
)

// MockDescriptor is a configurable Descriptor implementation for tests.
type MockDescriptor struct {
	IDVal           string
	DescVal         string
	SchemaVal       map[string]any
	ValidateValueFn func(v any) (any, error)
	ValidateJSONFn  func(data []byte) (any, error)
}

// ID returns the descriptor ID.
func (m *MockDescriptor) ID() string {
	if m.IDVal != "" {
		return m.IDVal
	}
	return "mock"
}

// Description returns the descriptor description.
func (m *MockDescriptor) Description() string {
	return m.DescVal
}

// Schema returns the schema map (or an empty object schema).
func (m *MockDescriptor) Schema() map[string]any {
	if m.SchemaVal != nil {
		return m.SchemaVal
	}
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

// ValidateValue runs ValidateValueFn if set, otherwise echoes the value.
func (m *MockDescriptor) ValidateValue(v any) (any, error) {
	if m.ValidateValueFn != nil {
		return m.ValidateValueFn(v)
	}
	return v, nil
}

// ValidateJSON runs ValidateJSONFn if set, otherwise echoes the raw data.
func (m *MockDescriptor) ValidateJSON(data []byte) (any, error) {
	if m.ValidateJSONFn != nil {
		return m.ValidateJSONFn(data)
	}
	return data, nil
}

// Ensure MockDescriptor implements Descriptor.
var _ buildantic.Descriptor = (*MockDescriptor)(nil)
