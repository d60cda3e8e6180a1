package testutil

import (
	"github.com/synacktraa/buildantic"
)

// NewTestRegistry returns a Registry with the given descriptors registered,
// suitable for tests. Panics on duplicate IDs; fix the test fixture instead.
func NewTestRegistry(descriptors ...buildantic.Descriptor) *buildantic.Registry {
	reg := buildantic.NewRegistry()
	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			panic(err)
		}
	}
	return reg
}
