package model

import (
	"context"

	"github.com/bitvfx/pix-go/factory"
)

// Container is the behavior bound to PIXFolder and PIXPlaylist objects.
// Unlike most classes, a container's contents are not inlined in its
// payload and require a separate fetch.
type Container struct {
	base
}

// NewContainer binds a Container behavior to obj.
func NewContainer(obj *factory.Object) *Container {
	return &Container{base{obj}}
}

// Contents fetches the folder or playlist contents.
func (c *Container) Contents(ctx context.Context) ([]any, error) {
	result, err := c.Session().Get(ctx, "/items/"+c.ID()+"/contents")
	if err != nil {
		return nil, err
	}
	items, _ := result.([]any)
	return items, nil
}

// Children returns every typed object downstream of this container.
// Because contents live behind a separate endpoint this issues one fetch,
// then discovers recursively through what came back.
func (c *Container) Children(ctx context.Context) ([]*factory.Object, error) {
	contents, err := c.Contents(ctx)
	if err != nil {
		return nil, err
	}
	f := c.obj.Factory()
	var out []*factory.Object
	for _, item := range contents {
		found, err := f.Discover(item, true)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}
