package factory

import (
	"context"
	"errors"
	"reflect"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/bitvfx/pix-go/registry"
)

// stubSession satisfies Session for promotion tests; nothing here touches
// the network.
type stubSession struct {
	active *Object
}

func (s *stubSession) Get(context.Context, string, ...RequestOption) (any, error) {
	return nil, nil
}

func (s *stubSession) Put(context.Context, string, any, ...RequestOption) (*Response, error) {
	return &Response{StatusCode: 200}, nil
}

func (s *stubSession) Post(context.Context, string, any, ...RequestOption) (*Response, error) {
	return &Response{StatusCode: 200}, nil
}

func (s *stubSession) Delete(context.Context, string, ...RequestOption) (*Response, error) {
	return &Response{StatusCode: 200}, nil
}

func (s *stubSession) Download(context.Context, string, ...RequestOption) (*Response, error) {
	return &Response{StatusCode: 200}, nil
}

func (s *stubSession) ActiveProject() *Object { return s.active }

func (s *stubSession) Activate(_ context.Context, p *Object) error {
	s.active = p
	return nil
}

type folderBehavior struct {
	obj *Object
}

type fancyFolderBehavior struct {
	folderBehavior
}

type clipBehavior struct {
	obj *Object
}

func newTestFactory(t *testing.T) *Factory {
	t.Helper()
	reg := registry.New()
	Register(reg, "PIXFolder", func(o *Object) *folderBehavior {
		return &folderBehavior{obj: o}
	})
	Register(reg, "PIXClip", func(o *Object) *clipBehavior {
		return &clipBehavior{obj: o}
	})
	return New(&stubSession{}, reg)
}

func mustPromote(t *testing.T, f *Factory, doc string) any {
	t.Helper()
	v, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	out, err := f.Promote(v)
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}
	return out
}

func TestPromote_ScalarsPassThrough(t *testing.T) {
	f := newTestFactory(t)
	for _, in := range []any{"text", true, false, nil, json.Number("7")} {
		out, err := f.Promote(in)
		if err != nil {
			t.Fatalf("Promote(%#v): %v", in, err)
		}
		if out != in {
			t.Fatalf("Promote(%#v) = %#v, want unchanged", in, out)
		}
	}
}

func TestPromote_IdempotentOnObjects(t *testing.T) {
	f := newTestFactory(t)
	obj := mustPromote(t, f, `{"class": "PIXClip", "id": "c1"}`).(*Object)

	again, err := f.Promote(obj)
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if again != any(obj) {
		t.Fatalf("re-promotion returned a different object")
	}
}

func TestPromote_TaggedMapping(t *testing.T) {
	f := newTestFactory(t)
	out := mustPromote(t, f, `{"class": "PIXClip", "id": "c1", "label": "dailies"}`)

	obj, ok := out.(*Object)
	if !ok {
		t.Fatalf("promoted to %T, want *Object", out)
	}
	if obj.Class() != "PIXClip" {
		t.Fatalf("Class = %q, want PIXClip", obj.Class())
	}
	// the discriminator stays a readable field
	if v, _ := obj.Get(ClassKey); v != "PIXClip" {
		t.Fatalf("class field = %v", v)
	}
	if got := obj.Keys(); !reflect.DeepEqual(got, []string{"class", "id", "label"}) {
		t.Fatalf("Keys = %v", got)
	}
	if obj.Factory() != f {
		t.Fatalf("object is not bound to its factory")
	}
	if obj.Session() != f.Session() {
		t.Fatalf("object is not bound to the factory's session")
	}
}

func TestPromote_UnknownClass(t *testing.T) {
	f := newTestFactory(t)
	out := mustPromote(t, f, `{"class": "PIXNeverRegistered", "id": "x"}`)

	obj, ok := out.(*Object)
	if !ok {
		t.Fatalf("promoted to %T, want *Object", out)
	}
	if obj.Class() != "PIXNeverRegistered" {
		t.Fatalf("Class = %q", obj.Class())
	}
	if len(obj.Behaviors()) != 0 {
		t.Fatalf("unregistered class got behaviors: %v", obj.Behaviors())
	}
}

func TestPromote_UntaggedMapping(t *testing.T) {
	f := newTestFactory(t)
	out := mustPromote(t, f, `{"b": 1, "a": {"class": "PIXClip", "id": "c"}}`)

	fields, ok := out.(*Fields)
	if !ok {
		t.Fatalf("promoted to %T, want *Fields", out)
	}
	if got := fields.Keys(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("Keys = %v, want order preserved", got)
	}
	av, _ := fields.Get("a")
	if _, ok := av.(*Object); !ok {
		t.Fatalf("nested tagged mapping stayed %T", av)
	}
}

func TestPromote_UntaggedDiscriminators(t *testing.T) {
	f := newTestFactory(t)
	for _, doc := range []string{
		`{"class": "", "id": "x"}`,
		`{"class": null, "id": "x"}`,
		`{"id": "x"}`,
	} {
		out := mustPromote(t, f, doc)
		if _, ok := out.(*Fields); !ok {
			t.Fatalf("Promote(%s) = %T, want untagged *Fields", doc, out)
		}
	}
}

func TestPromote_SequencesRebuilt(t *testing.T) {
	f := newTestFactory(t)
	out := mustPromote(t, f, `[{"class": "PIXClip", "id": "1"}, "skip", {"plain": true}]`)

	list, ok := out.([]any)
	if !ok || len(list) != 3 {
		t.Fatalf("promoted to %#v, want a 3-element slice", out)
	}
	if _, ok := list[0].(*Object); !ok {
		t.Fatalf("list[0] is %T, want *Object", list[0])
	}
	if list[1] != "skip" {
		t.Fatalf("list[1] = %v", list[1])
	}
	if _, ok := list[2].(*Fields); !ok {
		t.Fatalf("list[2] is %T, want *Fields", list[2])
	}
}

func TestPromote_BadDiscriminator(t *testing.T) {
	f := newTestFactory(t)
	for _, doc := range []string{
		`{"class": 42}`,
		`{"outer": [{"class": 42}]}`,
	} {
		v, err := Decode([]byte(doc))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		_, err = f.Promote(v)
		var bad *BadDiscriminatorError
		if !errors.As(err, &bad) {
			t.Fatalf("Promote(%s) err = %v, want *BadDiscriminatorError", doc, err)
		}
		if bad.Value != json.Number("42") {
			t.Fatalf("bad value = %#v", bad.Value)
		}
	}
}

func TestPromote_DeepNesting(t *testing.T) {
	f := newTestFactory(t)
	doc := `{
		"class": "PIXFolder", "id": "root",
		"contents": {"list": [
			{"class": "PIXClip", "id": "leaf",
			 "meta": {"owner": {"class": "PIXUser", "id": "u1"}}}
		]}
	}`
	root := mustPromote(t, f, doc).(*Object)

	cv, _ := root.Get("contents")
	lv, _ := cv.(*Fields).Get("list")
	leaf := lv.([]any)[0].(*Object)
	if leaf.Class() != "PIXClip" {
		t.Fatalf("leaf class = %q", leaf.Class())
	}
	mv, _ := leaf.Get("meta")
	ov, _ := mv.(*Fields).Get("owner")
	owner, ok := ov.(*Object)
	if !ok || owner.Class() != "PIXUser" {
		t.Fatalf("owner = %#v, want promoted PIXUser", ov)
	}
}

func TestAs_NewestRegistrationWins(t *testing.T) {
	reg := registry.New()
	Register(reg, "PIXFolder", func(o *Object) *folderBehavior {
		return &folderBehavior{obj: o}
	})
	Register(reg, "PIXFolder", func(o *Object) *clipBehavior {
		return &clipBehavior{obj: o}
	})
	f := New(&stubSession{}, reg)
	obj := mustPromote(t, f, `{"class": "PIXFolder", "id": "f"}`).(*Object)

	if len(obj.Behaviors()) != 2 {
		t.Fatalf("Behaviors = %d, want 2", len(obj.Behaviors()))
	}
	// both behaviors are candidates for any; the newest must win
	b, ok := As[any](obj)
	if !ok {
		t.Fatalf("As[any] failed")
	}
	if _, isClip := b.(*clipBehavior); !isClip {
		t.Fatalf("As[any] = %T, want the newest registration", b)
	}
	// the older one is still reachable by its concrete type
	if _, ok := As[*folderBehavior](obj); !ok {
		t.Fatalf("older behavior no longer resolvable")
	}
}

func TestAs_SpecializationReplacesBase(t *testing.T) {
	reg := registry.New()
	Register(reg, "PIXFolder", func(o *Object) *folderBehavior {
		return &folderBehavior{obj: o}
	})
	Register(reg, "PIXFolder", func(o *Object) *fancyFolderBehavior {
		return &fancyFolderBehavior{folderBehavior{obj: o}}
	})
	f := New(&stubSession{}, reg)
	obj := mustPromote(t, f, `{"class": "PIXFolder", "id": "f"}`).(*Object)

	if len(obj.Behaviors()) != 1 {
		t.Fatalf("Behaviors = %d, want the embedding registration alone", len(obj.Behaviors()))
	}
	if _, ok := As[*fancyFolderBehavior](obj); !ok {
		t.Fatalf("specialized behavior not resolvable")
	}
}

func TestAs_ObjectFallback(t *testing.T) {
	f := newTestFactory(t)
	obj := mustPromote(t, f, `{"class": "PIXClip", "id": "c"}`).(*Object)

	got, ok := As[*Object](obj)
	if !ok || got != obj {
		t.Fatalf("As[*Object] = %v, %v", got, ok)
	}
	if _, ok := As[*folderBehavior](obj); ok {
		t.Fatalf("resolved a behavior that was never bound")
	}
}

func TestChildrenOf(t *testing.T) {
	f := newTestFactory(t)
	doc := `{
		"class": "PIXFolder", "id": "root",
		"cover": {"class": "PIXImage", "id": "img-1"},
		"items": [
			{"class": "PIXFolder", "id": "sub",
			 "clip": {"class": "PIXClip", "id": "clip-1"}},
			{"class": "PIXClip", "id": "clip-2"}
		],
		"note": "scalar",
		"meta": {"plain": true}
	}`
	root := mustPromote(t, f, doc).(*Object)

	kids, err := root.Children()
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	var ids []string
	for _, k := range kids {
		ids = append(ids, k.GetString("id"))
	}
	// the root itself, the scalar and the untagged mapping stay out
	want := []string{"img-1", "sub", "clip-1", "clip-2"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("Children = %v, want %v", ids, want)
	}

	shallow, err := f.ChildrenOf(root, false)
	if err != nil {
		t.Fatalf("ChildrenOf: %v", err)
	}
	ids = ids[:0]
	for _, k := range shallow {
		ids = append(ids, k.GetString("id"))
	}
	if !reflect.DeepEqual(ids, []string{"img-1", "sub", "clip-2"}) {
		t.Fatalf("shallow children = %v", ids)
	}
}

func TestDiscover_IncludesNode(t *testing.T) {
	f := newTestFactory(t)
	node := mustPromote(t, f, `{"class": "PIXClip", "id": "c"}`).(*Object)

	found, err := f.Discover(node, true)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(found) != 1 || found[0] != node {
		t.Fatalf("Discover = %v, want the node itself", found)
	}

	if found, _ := f.Discover("scalar", true); found != nil {
		t.Fatalf("Discover(scalar) = %v, want nothing", found)
	}
}

func TestRequestOptions(t *testing.T) {
	ro := BuildRequestOptions([]RequestOption{
		WithHeader("X-Custom", "1"),
		WithAccept("image/png"),
	})
	if got := ro.Header.Get("X-Custom"); got != "1" {
		t.Fatalf("X-Custom = %q", got)
	}
	if got := ro.Header.Get("Accept"); got != "image/png" {
		t.Fatalf("Accept = %q", got)
	}
}
