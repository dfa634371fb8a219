// Package factory promotes decoded PIX payloads into typed objects.
//
// The PIX service tags promotable structures with a "class" field. Promote
// walks arbitrarily nested decoded JSON and rebuilds it with every tagged
// mapping replaced by an *Object carrying the behaviors registered for
// that class, leaving untagged mappings, sequences and scalars intact
// apart from the same recursive treatment of their contents.
//
// Promotion is a pure, synchronous tree transformation: no I/O happens
// here, and errors propagate to the caller without retries.
package factory

import (
	"context"
	"fmt"
	"net/http"
	"reflect"

	"github.com/bitvfx/pix-go/registry"
)

// ClassKey is the reserved discriminator field in PIX payloads.
const ClassKey = "class"

type (
	// Session is the transport contract the factory and the domain
	// behaviors consume. GET responses are decoded and promoted; the
	// mutating verbs return the raw response so callers can inspect
	// status and reason. Download is a GET that skips promotion for
	// media endpoints.
	Session interface {
		Get(ctx context.Context, path string, opts ...RequestOption) (any, error)
		Put(ctx context.Context, path string, payload any, opts ...RequestOption) (*Response, error)
		Post(ctx context.Context, path string, payload any, opts ...RequestOption) (*Response, error)
		Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error)
		Download(ctx context.Context, path string, opts ...RequestOption) (*Response, error)

		// ActiveProject returns the project currently active on the
		// service side, or nil. Activate makes project the active one.
		ActiveProject() *Object
		Activate(ctx context.Context, project *Object) error
	}

	// Response carries the parts of an HTTP response the library exposes.
	Response struct {
		StatusCode int
		Status     string
		Header     http.Header
		Body       []byte
	}

	// RequestOptions collects per-request overrides.
	RequestOptions struct {
		Header http.Header
	}

	// RequestOption customizes a single request, scoped to that call only.
	RequestOption func(*RequestOptions)
)

// WithHeader sets a header for one request.
func WithHeader(key, value string) RequestOption {
	return func(o *RequestOptions) {
		if o.Header == nil {
			o.Header = make(http.Header)
		}
		o.Header.Set(key, value)
	}
}

// WithAccept sets the Accept header for one request.
func WithAccept(contentType string) RequestOption {
	return WithHeader("Accept", contentType)
}

// BuildRequestOptions folds opts into a RequestOptions value.
func BuildRequestOptions(opts []RequestOption) RequestOptions {
	var ro RequestOptions
	for _, opt := range opts {
		opt(&ro)
	}
	return ro
}

// Factory builds typed objects from the data returned by PIX endpoints.
// It is bound to exactly one session and one registry; every object it
// promotes keeps a back-reference so domain behaviors can issue further
// API calls against the same session.
type Factory struct {
	session  Session
	registry *registry.Registry
}

// New returns a Factory promoting through reg on behalf of session.
// A nil reg gets a fresh empty registry.
func New(session Session, reg *registry.Registry) *Factory {
	if reg == nil {
		reg = registry.New()
	}
	return &Factory{session: session, registry: reg}
}

// Registry returns the registry backing this factory.
func (f *Factory) Registry() *registry.Registry {
	return f.registry
}

// Session returns the session this factory promotes for.
func (f *Factory) Session() Session {
	return f.session
}

// Register records bind as a base for class name in reg and returns bind
// unchanged, so a package can register its constructor and keep using it.
// The behavior type T prunes any earlier registration it specializes and
// takes dispatch priority over the remainder.
func Register[T any](reg *registry.Registry, name string, bind func(*Object) T) func(*Object) T {
	reg.Register(name, registry.Base{
		Type: reflect.TypeOf((*T)(nil)).Elem(),
		Bind: func(owner any) any { return bind(owner.(*Object)) },
	})
	return bind
}

// Promote replaces every class-tagged mapping reachable from v with a
// typed *Object and returns the transformed value. Already-promoted
// objects are returned as-is, untagged mappings and sequences are rebuilt
// with their contents promoted (order preserved), and scalars pass
// through unchanged. JSON decoding never yields set containers in Go, so
// mappings, slices and scalars cover every input shape.
func (f *Factory) Promote(v any) (any, error) {
	switch data := v.(type) {
	case *Object:
		return data, nil
	case *Fields:
		name, tagged, err := discriminator(data)
		if err != nil {
			return nil, err
		}
		if tagged {
			return f.build(name, data)
		}
		out := NewFields()
		var werr error
		data.Range(func(k string, fv any) bool {
			pv, err := f.Promote(fv)
			if err != nil {
				werr = err
				return false
			}
			out.Set(k, pv)
			return true
		})
		if werr != nil {
			return nil, werr
		}
		return out, nil
	case []any:
		out := make([]any, len(data))
		for i, elem := range data {
			pv, err := f.Promote(elem)
			if err != nil {
				return nil, err
			}
			out[i] = pv
		}
		return out, nil
	default:
		return v, nil
	}
}

// build constructs the promoted object for a tagged mapping, promoting
// each field value and binding the registered behaviors newest-first.
func (f *Factory) build(name string, data *Fields) (*Object, error) {
	cls := f.registry.Synthesize(name)
	obj := &Object{factory: f, class: cls.Name, fields: NewFields()}
	var werr error
	data.Range(func(k string, fv any) bool {
		pv, err := f.Promote(fv)
		if err != nil {
			werr = err
			return false
		}
		obj.fields.Set(k, pv)
		return true
	})
	if werr != nil {
		return nil, werr
	}
	obj.behaviors = make([]any, 0, len(cls.Bases))
	for _, base := range cls.Bases {
		obj.behaviors = append(obj.behaviors, base.Bind(obj))
	}
	return obj, nil
}

// ChildrenOf yields the typed objects nested inside node's field values,
// excluding node itself. Discovery looks one level into each field value
// (and into the elements of sequence values); when recursive is set it
// repeats on the fields of every object found, accumulating depth-first
// in field order.
func (f *Factory) ChildrenOf(node any, recursive bool) ([]*Object, error) {
	var out []*Object
	for _, v := range contents(node) {
		found, err := f.Discover(v, recursive)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

// Discover is ChildrenOf including node itself: if node is tagged (or
// already promoted) it leads the result, followed by its discovered
// descendants when recursive is set. Container behaviors use it on
// fetched contents, where each top-level entry is itself a candidate.
func (f *Factory) Discover(node any, recursive bool) ([]*Object, error) {
	var out []*Object
	switch n := node.(type) {
	case *Object:
		out = append(out, n)
	case *Fields:
		name, tagged, err := discriminator(n)
		if err != nil {
			return nil, err
		}
		if tagged {
			obj, err := f.build(name, n)
			if err != nil {
				return nil, err
			}
			out = append(out, obj)
		}
	default:
		return nil, nil
	}
	if recursive {
		for _, v := range contents(node) {
			found, err := f.Discover(v, recursive)
			if err != nil {
				return nil, err
			}
			out = append(out, found...)
		}
	}
	return out, nil
}

// contents returns the mappings and objects sitting one level inside
// node's field values: direct values plus elements of sequence values.
// It does not recurse.
func contents(node any) []any {
	var out []any
	visit := func(v any) {
		switch elem := v.(type) {
		case *Fields, *Object:
			out = append(out, elem)
		case []any:
			for _, item := range elem {
				switch item.(type) {
				case *Fields, *Object:
					out = append(out, item)
				}
			}
		}
	}
	switch n := node.(type) {
	case *Fields:
		n.Range(func(_ string, v any) bool { visit(v); return true })
	case *Object:
		n.Range(func(_ string, v any) bool { visit(v); return true })
	}
	return out
}

// discriminator extracts the class tag from data. A present but
// non-string tag is a payload defect and is reported rather than
// silently promoted; empty and null tags mean untagged.
func discriminator(data *Fields) (string, bool, error) {
	v, ok := data.Get(ClassKey)
	if !ok || v == nil {
		return "", false, nil
	}
	name, ok := v.(string)
	if !ok {
		return "", false, &BadDiscriminatorError{Value: v}
	}
	if name == "" {
		return "", false, nil
	}
	return name, true, nil
}

// BadDiscriminatorError reports a "class" field whose value is not a
// string.
type BadDiscriminatorError struct {
	Value any
}

func (e *BadDiscriminatorError) Error() string {
	return fmt.Sprintf("field %q is %T (%v), want string", ClassKey, e.Value, e.Value)
}
