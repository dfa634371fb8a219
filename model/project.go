package model

import (
	"context"
	"fmt"

	"github.com/bitvfx/pix-go/factory"
)

// Project is the behavior bound to PIXProject objects.
//
// PIX scopes item and feed endpoints to the session's active project, so
// every operation here runs through WithActive: when the owning session's
// active project differs from this one, a single activation call is
// issued first. Types embedding Project get the same guarantee by
// wrapping their own operations with WithActive.
type Project struct {
	base
}

// NewProject binds a Project behavior to obj.
func NewProject(obj *factory.Object) *Project {
	return &Project{base{obj}}
}

// AsProject resolves the Project behavior bound to obj, binding a fresh
// one when obj was promoted without a PIXProject registration.
func AsProject(obj *factory.Object) *Project {
	if p, ok := factory.As[*Project](obj); ok {
		return p
	}
	return NewProject(obj)
}

// WithActive runs op with the owning session switched to project p. It is
// the single guard composed into every project-scoped operation: at most
// one activation call is issued, and none when p is already active.
func WithActive[T any](ctx context.Context, p *Project, op func(context.Context) (T, error)) (T, error) {
	if err := p.EnsureActive(ctx); err != nil {
		var zero T
		return zero, err
	}
	return op(ctx)
}

// EnsureActive activates p on the service when the session's active
// project is not already this one.
func (p *Project) EnsureActive(ctx context.Context) error {
	s := p.Session()
	if p.obj.Equal(s.ActiveProject()) {
		return nil
	}
	return s.Activate(ctx, p.obj)
}

// LoadItem fetches a single item by id. The result is nil when the
// service returns something other than a promoted object.
func (p *Project) LoadItem(ctx context.Context, itemID string) (*factory.Object, error) {
	return WithActive(ctx, p, func(ctx context.Context) (*factory.Object, error) {
		result, err := p.Session().Get(ctx, "/items/"+itemID)
		if err != nil {
			return nil, err
		}
		obj, _ := result.(*factory.Object)
		return obj, nil
	})
}

// Inbox loads the logged-in user's incoming share feed. A non-positive
// limit fetches the service default.
func (p *Project) Inbox(ctx context.Context, limit int) ([]*ShareFeedEntry, error) {
	return WithActive(ctx, p, func(ctx context.Context) ([]*ShareFeedEntry, error) {
		path := "/feeds/incoming"
		if limit > 0 {
			path = fmt.Sprintf("%s?limit=%d", path, limit)
		}
		result, err := p.Session().Get(ctx, path)
		if err != nil {
			return nil, err
		}
		items, _ := result.([]any)
		entries := make([]*ShareFeedEntry, 0, len(items))
		for _, item := range items {
			obj, ok := item.(*factory.Object)
			if !ok {
				continue
			}
			if entry, ok := factory.As[*ShareFeedEntry](obj); ok {
				entries = append(entries, entry)
			} else {
				entries = append(entries, NewShareFeedEntry(obj))
			}
		}
		return entries, nil
	})
}

// MarkAsRead flags an inbox item as viewed.
func (p *Project) MarkAsRead(ctx context.Context, itemID string) (*factory.Response, error) {
	return WithActive(ctx, p, func(ctx context.Context) (*factory.Response, error) {
		return p.Session().Put(ctx, "/items/"+itemID,
			map[string]any{"flags": map[string]string{"viewed": "true"}})
	})
}

// DeleteInboxItem removes an item from the inbox.
func (p *Project) DeleteInboxItem(ctx context.Context, itemID string) (*factory.Response, error) {
	return WithActive(ctx, p, func(ctx context.Context) (*factory.Response, error) {
		return p.Session().Delete(ctx, "/messages/inbox/"+itemID)
	})
}
