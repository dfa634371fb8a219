// Package registry maps PIX class discriminators to registered base
// behaviors.
//
// The PIX service tags payload objects with a "class" field. A Registry
// records, per class name, which behavior types should back promoted
// objects of that class. The factory asks the registry to synthesize a
// Class for each discriminator it encounters; unknown names fall back to
// the canonical object with no extra behaviors.
//
// A Registry is an explicit instance rather than process-wide state so
// tests and multiple sessions can hold independent registrations. It is
// not safe for concurrent mutation; registration is expected to happen
// up front, before any payload is promoted.
package registry

import (
	"fmt"
	"reflect"
)

// Base associates a behavior type with a binder that attaches an instance
// of that behavior to a promoted object. The owner passed to Bind is the
// *factory.Object being constructed; Base keeps it untyped so the registry
// stays a leaf package.
type Base struct {
	// Type identifies the behavior value produced by Bind. Used to prune
	// superseded registrations.
	Type reflect.Type

	// Bind builds the behavior for a freshly promoted object.
	Bind func(owner any) any
}

// Class is the synthesized result for one discriminator: the class name as
// reported by the service and the ordered base list backing it. Bases are
// ordered newest-registration-first; the canonical object contract is
// always present because every promoted object is a *factory.Object
// regardless of bases.
type Class struct {
	Name  string
	Bases []Base
}

// Registry holds per-discriminator base registrations. The zero value is
// ready to use.
type Registry struct {
	bases map[string][]Base
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{bases: make(map[string][]Base)}
}

// Register records base for the given class name and returns it unchanged
// so call sites can keep a reference to the binder they registered.
//
// Any earlier base that the new base specializes (same type, an interface
// the new type implements, or a struct the new type embeds) is removed
// first. The new base is inserted at the front: the newest registration
// has the highest dispatch priority.
func (r *Registry) Register(name string, base Base) Base {
	if base.Type == nil || base.Bind == nil {
		panic(fmt.Sprintf("registry: invalid base for class %q", name))
	}
	if r.bases == nil {
		r.bases = make(map[string][]Base)
	}
	kept := make([]Base, 0, len(r.bases[name])+1)
	kept = append(kept, base)
	for _, b := range r.bases[name] {
		if specializes(base.Type, b.Type) {
			continue
		}
		kept = append(kept, b)
	}
	r.bases[name] = kept
	return base
}

// Synthesize returns the Class for name. It never fails: a name with no
// registrations yields a Class backed by the canonical object alone.
func (r *Registry) Synthesize(name string) Class {
	bases := r.bases[name]
	if len(bases) == 0 {
		return Class{Name: name}
	}
	out := make([]Base, len(bases))
	copy(out, bases)
	return Class{Name: name, Bases: out}
}

// Len returns the number of class names with at least one registration.
func (r *Registry) Len() int {
	return len(r.bases)
}

// Names returns the registered class names in unspecified order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.bases))
	for name := range r.bases {
		names = append(names, name)
	}
	return names
}

// Reset clears all registrations. Intended for test isolation.
func (r *Registry) Reset() {
	r.bases = make(map[string][]Base)
}

// specializes reports whether t supersedes base: it is the same type,
// implements it (interface bases), or reaches it through embedded fields.
func specializes(t, base reflect.Type) bool {
	if t == nil || base == nil {
		return false
	}
	if t == base {
		return true
	}
	if base.Kind() == reflect.Interface && t.Implements(base) {
		return true
	}
	return embeds(t, base)
}

// embeds walks anonymous struct fields looking for base, unwrapping
// pointers on both sides.
func embeds(t, base reflect.Type) bool {
	t = deref(t)
	base = deref(base)
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := deref(f.Type)
		if ft == base {
			return true
		}
		if embeds(ft, base) {
			return true
		}
	}
	return false
}

func deref(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
