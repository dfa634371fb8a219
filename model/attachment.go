package model

import (
	"context"
	"fmt"

	"github.com/bitvfx/pix-go/factory"
)

// Attachment is the shared behavior for attached items. It is not
// registered itself; Clip and Image embed it under the service-facing
// class names.
type Attachment struct {
	base
}

// NewAttachment binds an Attachment behavior to obj.
func NewAttachment(obj *factory.Object) *Attachment {
	return &Attachment{base{obj}}
}

// AsAttachment lets embedding behaviors surface their attachment core.
func (a *Attachment) AsAttachment() *Attachment {
	return a
}

// attacher is satisfied by Attachment and everything embedding it.
type attacher interface {
	AsAttachment() *Attachment
}

// HasNotes reports whether the service flagged notes on this item.
func (a *Attachment) HasNotes() bool {
	notes, ok := a.obj.Get("notes")
	if !ok {
		return false
	}
	has, _ := lookup(notes, "has_notes")
	b, _ := has.(bool)
	return b
}

const notesPageSize = 50

// Notes fetches all notes for this item, paging through the notes
// endpoint until a short page arrives.
func (a *Attachment) Notes(ctx context.Context) ([]*Note, error) {
	if !a.HasNotes() {
		return nil, nil
	}
	var out []*Note
	for offset := 0; ; offset += notesPageSize {
		path := fmt.Sprintf("/items/%s/notes?limit=%d&offset=%d", a.ID(), notesPageSize, offset)
		result, err := a.Session().Get(ctx, path)
		if err != nil {
			return nil, err
		}
		batch, _ := result.([]any)
		for _, item := range batch {
			obj, ok := item.(*factory.Object)
			if !ok {
				continue
			}
			if note, ok := factory.As[*Note](obj); ok {
				out = append(out, note)
			} else {
				out = append(out, NewNote(obj))
			}
		}
		if len(batch) < notesPageSize {
			return out, nil
		}
	}
}

// Clip is the behavior bound to PIXClip objects.
type Clip struct {
	Attachment
}

// NewClip binds a Clip behavior to obj.
func NewClip(obj *factory.Object) *Clip {
	return &Clip{Attachment{base{obj}}}
}

// Image is the behavior bound to PIXImage objects.
type Image struct {
	Attachment
}

// NewImage binds an Image behavior to obj.
func NewImage(obj *factory.Object) *Image {
	return &Image{Attachment{base{obj}}}
}
