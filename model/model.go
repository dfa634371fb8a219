// Package model carries the pre-built behaviors for the PIX object
// classes the service returns: projects, users, folders and playlists,
// feed entries, attachments and notes.
//
// Behaviors are not constructed directly. Register them (Builtins does
// this for the whole set) and let the factory bind them when it promotes
// a tagged payload; resolve them afterwards with factory.As:
//
//	feeds, _ := project.Inbox(ctx, 0)
//	for _, feed := range feeds {
//		entry, _ := factory.As[*model.ShareFeedEntry](feed.Object())
//		_ = entry
//	}
package model

import (
	"github.com/bitvfx/pix-go/factory"
	"github.com/bitvfx/pix-go/registry"
)

// Builtins registers the standard PIX behaviors into reg. Attachment is
// deliberately absent: it is the embedded base for Clip and Image, which
// carry the service-facing class names.
func Builtins(reg *registry.Registry) {
	factory.Register(reg, "PIXProject", NewProject)
	factory.Register(reg, "PIXUser", NewUser)
	factory.Register(reg, "PIXFolder", NewContainer)
	factory.Register(reg, "PIXPlaylist", NewContainer)
	factory.Register(reg, "PIXShareFeedEntry", NewShareFeedEntry)
	factory.Register(reg, "PIXClip", NewClip)
	factory.Register(reg, "PIXImage", NewImage)
	factory.Register(reg, "PIXNote", NewNote)
}

// base ties a behavior to the promoted object it was bound to.
type base struct {
	obj *factory.Object
}

// Object returns the promoted object backing this behavior.
func (b base) Object() *factory.Object {
	return b.obj
}

// Session returns the session owning the backing object.
func (b base) Session() factory.Session {
	return b.obj.Session()
}

// ID returns the object's id field, empty when absent.
func (b base) ID() string {
	return b.obj.GetString("id")
}

// Label returns the object's label field, empty when absent.
func (b base) Label() string {
	return b.obj.GetString("label")
}

// lookup reads key from a nested mapping value, which may be an untagged
// mapping or a promoted object depending on how the service shaped it.
func lookup(v any, key string) (any, bool) {
	switch m := v.(type) {
	case *factory.Fields:
		return m.Get(key)
	case *factory.Object:
		return m.Get(key)
	default:
		return nil, false
	}
}

// objectList extracts the promoted objects from a {"list": [...]} wrapper
// the service uses for from/to/attachments fields.
func objectList(v any) []*factory.Object {
	items, _ := lookup(v, "list")
	seq, ok := items.([]any)
	if !ok {
		return nil
	}
	out := make([]*factory.Object, 0, len(seq))
	for _, item := range seq {
		if obj, ok := item.(*factory.Object); ok {
			out = append(out, obj)
		}
	}
	return out
}
