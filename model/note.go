package model

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bitvfx/pix-go/factory"
)

// MediaKind selects which rendition of a note's media to download.
type MediaKind string

const (
	MediaOriginal  MediaKind = "original"
	MediaMarkup    MediaKind = "markup"
	MediaComposite MediaKind = "composite"
)

// Note is the behavior bound to PIXNote objects.
type Note struct {
	base
}

// NewNote binds a Note behavior to obj.
func NewNote(obj *factory.Object) *Note {
	return &Note{base{obj}}
}

// Media downloads the note's media. Requesting the original of a note
// annotated on a specific frame fetches that frame from the parent clip
// as PNG; everything else goes through the note's media endpoint as XML.
func (n *Note) Media(ctx context.Context, kind MediaKind) ([]byte, error) {
	var (
		path   string
		accept string
	)
	fields, _ := n.obj.Get("fields")
	startFrame, _ := lookup(fields, "start_frame")
	if kind == MediaOriginal && startFrame != nil {
		parent, _ := lookup(fields, "parent_id")
		path = fmt.Sprintf("/media/%v/frame/%v", parent, startFrame)
		accept = "image/png"
	} else {
		path = fmt.Sprintf("/media/%s/%s", n.ID(), kind)
		accept = "text/xml"
	}

	resp, err := n.Session().Download(ctx, path, factory.WithAccept(accept))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &factory.APIError{StatusCode: resp.StatusCode, Reason: resp.Status}
	}
	return resp.Body, nil
}
