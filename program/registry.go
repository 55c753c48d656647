package program

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Codec pairs the construct-from-document and serialize-to-document functions
// of one concrete variant. The Factory is passed through so codecs can recurse
// into child registries and reach the course lookup.
type Codec[D any, T any] struct {
	FromDocument func(ctx context.Context, f *Factory, doc D) (T, error)
	ToDocument   func(f *Factory, value T) (D, error)
}

// ComponentCodec is the codec shape of the Component family.
type ComponentCodec = Codec[ComponentDocument, Component]

// CourseEntryCodec is the codec shape of the CourseEntry family.
type CourseEntryCodec = Codec[CourseEntryDocument, CourseEntry]

// Registry maps type tags to codecs for a single variant family. Entries are
// never removed; registering an existing tag replaces the previous codec.
type Registry[D any, T any] struct {
	family string

	mu     sync.RWMutex
	codecs map[string]Codec[D, T]
}

// NewRegistry creates an empty registry. family is only used in error messages.
func NewRegistry[D any, T any](family string) *Registry[D, T] {
	return &Registry[D, T]{
		family: family,
		codecs: make(map[string]Codec[D, T]),
	}
}

// Register associates tag with codec.
func (r *Registry[D, T]) Register(tag string, codec Codec[D, T]) error {
	if tag == "" {
		return fmt.Errorf("%w: %s type tag must not be empty", ErrInvalidArgument, r.family)
	}
	if codec.FromDocument == nil || codec.ToDocument == nil {
		return fmt.Errorf("%w: %s codec for %q must define both directions", ErrInvalidArgument, r.family, tag)
	}

	r.mu.Lock()
	r.codecs[tag] = codec
	r.mu.Unlock()
	return nil
}

// Resolve returns the codec registered under tag.
func (r *Registry[D, T]) Resolve(tag string) (Codec[D, T], error) {
	r.mu.RLock()
	codec, ok := r.codecs[tag]
	r.mu.RUnlock()

	if !ok {
		return Codec[D, T]{}, fmt.Errorf("%w: %s type %q is not registered", ErrUnregisteredType, r.family, tag)
	}
	return codec, nil
}

// Registered reports whether tag has a codec.
func (r *Registry[D, T]) Registered(tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.codecs[tag]
	return ok
}

// Tags returns the registered tags in sorted order.
func (r *Registry[D, T]) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.codecs))
	for tag := range r.codecs {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Family returns the family name the registry was created with.
func (r *Registry[D, T]) Family() string {
	return r.family
}
