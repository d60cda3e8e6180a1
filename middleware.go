package buildantic

import (
	"log/slog"
	"time"
)

// Middleware wraps a Descriptor with cross-cutting behavior (logging, metrics).
type Middleware func(Descriptor) Descriptor

// WithLogging returns a middleware that logs validations, durations, and failures.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Descriptor) Descriptor {
		return &loggingDescriptor{descriptorBase: descriptorBase{next: next}, logger: logger}
	}
}

// descriptorBase delegates the read-only half of Descriptor to the wrapped
// descriptor; used by middleware wrappers.
type descriptorBase struct{ next Descriptor }

func (b *descriptorBase) ID() string             { return b.next.ID() }
func (b *descriptorBase) Description() string    { return b.next.Description() }
func (b *descriptorBase) Schema() map[string]any { return b.next.Schema() }

type loggingDescriptor struct {
	descriptorBase
	logger *slog.Logger
}

func (l *loggingDescriptor) ValidateValue(v any) (any, error) {
	start := time.Now()
	out, err := l.next.ValidateValue(v)
	l.log("validate value", start, err)
	return out, err
}

func (l *loggingDescriptor) ValidateJSON(data []byte) (any, error) {
	start := time.Now()
	out, err := l.next.ValidateJSON(data)
	l.log("validate json", start, err)
	return out, err
}

func (l *loggingDescriptor) log(op string, start time.Time, err error) {
	dur := time.Since(start)
	if err != nil {
		l.logger.Error(op+" failed", "id", l.next.ID(), "duration", dur, "error", err)
		return
	}
	l.logger.Debug(op, "id", l.next.ID(), "duration", dur)
}

// Use stores the given middlewares and reapplies them from scratch to all registered
// descriptors (onion order: first middleware is outermost). Descriptors registered after
// Use will also get these middlewares applied. Calling Use multiple times replaces the
// middleware chain and rewraps from raw descriptors, avoiding double-wrapping.
func (r *Registry) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = middlewares
	for id, raw := range r.raw {
		d := raw
		for i := len(middlewares) - 1; i >= 0; i-- {
			d = middlewares[i](d)
		}
		r.descriptors[id] = d
	}
}
