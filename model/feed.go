package model

import (
	"context"
	"fmt"

	"github.com/bitvfx/pix-go/factory"
)

// ShareFeedEntry is the behavior bound to PIXShareFeedEntry objects: an
// inbox item similar to an email message, carrying text and optionally
// attachments.
type ShareFeedEntry struct {
	base
}

// NewShareFeedEntry binds a ShareFeedEntry behavior to obj.
func NewShareFeedEntry(obj *factory.Object) *ShareFeedEntry {
	return &ShareFeedEntry{base{obj}}
}

// Sender returns the user the entry was shared by.
func (e *ShareFeedEntry) Sender() (*User, error) {
	from, err := e.obj.Require("from")
	if err != nil {
		return nil, err
	}
	senders := objectList(from)
	if len(senders) != 1 {
		return nil, fmt.Errorf("feed entry %s: %d senders, want 1", e.ID(), len(senders))
	}
	return asUser(senders[0]), nil
}

// Recipients returns the users the entry was shared with.
func (e *ShareFeedEntry) Recipients() ([]*User, error) {
	to, err := e.obj.Require("to")
	if err != nil {
		return nil, err
	}
	objs := objectList(to)
	users := make([]*User, 0, len(objs))
	for _, obj := range objs {
		users = append(users, asUser(obj))
	}
	return users, nil
}

// Message returns the entry's message text.
func (e *ShareFeedEntry) Message() string {
	return e.obj.GetString("text")
}

// Viewed reports whether the entry has been read. The service encodes
// the flag as the string "true" in some payloads and a boolean in others.
func (e *ShareFeedEntry) Viewed() bool {
	flags, ok := e.obj.Get("flags")
	if !ok {
		return false
	}
	v, _ := lookup(flags, "viewed")
	switch viewed := v.(type) {
	case bool:
		return viewed
	case string:
		return viewed == "true"
	default:
		return false
	}
}

// AttachmentCount returns how many attachments the entry references,
// without fetching container contents.
func (e *ShareFeedEntry) AttachmentCount() int {
	raw, ok := e.obj.Get("attachments")
	if !ok {
		return 0
	}
	return len(objectList(raw))
}

// MarkAsRead flags the entry as viewed in the inbox.
func (e *ShareFeedEntry) MarkAsRead(ctx context.Context) (*factory.Response, error) {
	return e.Session().Put(ctx, "/items/"+e.ID(),
		map[string]any{"flags": map[string]string{"viewed": "true"}})
}

// Attachments collects the entry's attachments. Containers among them are
// expanded through their contents fetch; plain attachments are returned
// directly.
func (e *ShareFeedEntry) Attachments(ctx context.Context) ([]*Attachment, error) {
	raw, ok := e.obj.Get("attachments")
	if !ok {
		return nil, nil
	}
	var out []*Attachment
	for _, obj := range objectList(raw) {
		if container, ok := factory.As[*Container](obj); ok {
			contents, err := container.Contents(ctx)
			if err != nil {
				return nil, err
			}
			for _, item := range contents {
				child, ok := item.(*factory.Object)
				if !ok {
					continue
				}
				if att, ok := factory.As[attacher](child); ok {
					out = append(out, att.AsAttachment())
				}
			}
			continue
		}
		if att, ok := factory.As[attacher](obj); ok {
			out = append(out, att.AsAttachment())
		}
	}
	return out, nil
}

func asUser(obj *factory.Object) *User {
	if u, ok := factory.As[*User](obj); ok {
		return u
	}
	return NewUser(obj)
}
