package factory

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Object is the canonical promoted object: an ordered field mapping tied
// to the factory (and therefore the session) that produced it. Behaviors
// registered for the object's class are bound at promotion time and
// looked up with As; the Object itself always satisfies the canonical
// contract regardless of what was registered.
//
// Objects hold no external resources. The HTTP connection belongs to the
// session, not the object.
type Object struct {
	factory   *Factory
	class     string
	fields    *Fields
	behaviors []any
}

// Class returns the discriminator this object was promoted under.
func (o *Object) Class() string {
	return o.class
}

// Factory returns the factory that built this object.
func (o *Object) Factory() *Factory {
	return o.factory
}

// Session returns the session owning this object, for further API calls.
func (o *Object) Session() Session {
	return o.factory.session
}

// Get returns the field value for key and whether it was present.
func (o *Object) Get(key string) (any, bool) {
	return o.fields.Get(key)
}

// Require returns the field value for key or an error naming the missing
// field. The factory never pre-validates payload shape; absence surfaces
// here, at the point of access.
func (o *Object) Require(key string) (any, error) {
	v, ok := o.fields.Get(key)
	if !ok {
		return nil, &MissingFieldError{Class: o.class, Key: key}
	}
	return v, nil
}

// GetString returns the field value for key rendered as a string, or ""
// when the field is absent or null.
func (o *Object) GetString(key string) string {
	v, ok := o.fields.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Set stores value under key.
func (o *Object) Set(key string, value any) {
	o.fields.Set(key, value)
}

// Delete removes key from the object's fields.
func (o *Object) Delete(key string) {
	o.fields.Delete(key)
}

// Len returns the number of fields.
func (o *Object) Len() int {
	return o.fields.Len()
}

// Keys returns the field names in payload order.
func (o *Object) Keys() []string {
	return o.fields.Keys()
}

// Range calls fn for each field in payload order until fn returns false.
func (o *Object) Range(fn func(key string, value any) bool) {
	o.fields.Range(fn)
}

// Identifier returns the object's human-readable label, falling back to
// its id. Empty when the payload carries neither.
func (o *Object) Identifier() string {
	if label := o.GetString("label"); label != "" {
		return label
	}
	return o.GetString("id")
}

// Equal reports whether other is a promoted object of the same class with
// the same identifier.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	return o.class == other.class && o.Identifier() == other.Identifier()
}

// String renders the object as <Class('identifier')>.
func (o *Object) String() string {
	return fmt.Sprintf("<%s('%s')>", o.class, o.Identifier())
}

// MarshalJSON encodes the object's fields in payload order. The "class"
// discriminator is an ordinary field and round-trips with the rest.
func (o *Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.fields)
}

// Children returns every typed descendant reachable through this object's
// fields, at any depth, excluding the object itself.
func (o *Object) Children() ([]*Object, error) {
	return o.factory.ChildrenOf(o, true)
}

// Behaviors returns the bound behaviors in dispatch order: newest
// registration first.
func (o *Object) Behaviors() []any {
	out := make([]any, len(o.behaviors))
	copy(out, o.behaviors)
	return out
}

// As resolves the behavior of type T bound to o, scanning in dispatch
// order so the newest registration wins when several behaviors satisfy T.
// T may be a concrete behavior type or an interface; *Object itself is a
// candidate of last resort so the canonical contract always resolves.
func As[T any](o *Object) (T, bool) {
	for _, b := range o.behaviors {
		if t, ok := b.(T); ok {
			return t, true
		}
	}
	var zero T
	if t, ok := any(o).(T); ok {
		return t, true
	}
	return zero, false
}

// MissingFieldError reports a field lookup failure on a promoted object.
type MissingFieldError struct {
	Class string
	Key   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing field %q", e.Class, e.Key)
}
