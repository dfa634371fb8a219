package factory

import (
	"errors"
	"testing"
)

func TestObject_Identifier(t *testing.T) {
	f := newTestFactory(t)
	cases := []struct {
		doc  string
		want string
	}{
		{`{"class": "PIXClip", "id": "42", "label": "dailies"}`, "dailies"},
		{`{"class": "PIXClip", "id": "42"}`, "42"},
		{`{"class": "PIXClip", "id": 42}`, "42"},
		{`{"class": "PIXClip"}`, ""},
	}
	for _, tc := range cases {
		obj := mustPromote(t, f, tc.doc).(*Object)
		if got := obj.Identifier(); got != tc.want {
			t.Fatalf("Identifier(%s) = %q, want %q", tc.doc, got, tc.want)
		}
	}
}

func TestObject_Equal(t *testing.T) {
	f := newTestFactory(t)
	a := mustPromote(t, f, `{"class": "PIXClip", "id": "1", "label": "x"}`).(*Object)
	b := mustPromote(t, f, `{"class": "PIXClip", "id": "9", "label": "x"}`).(*Object)
	c := mustPromote(t, f, `{"class": "PIXImage", "label": "x"}`).(*Object)
	d := mustPromote(t, f, `{"class": "PIXClip", "label": "y"}`).(*Object)

	if !a.Equal(b) {
		t.Fatalf("same class and identifier should be equal")
	}
	if a.Equal(c) {
		t.Fatalf("different class should not be equal")
	}
	if a.Equal(d) {
		t.Fatalf("different identifier should not be equal")
	}
	if a.Equal(nil) {
		t.Fatalf("nil comparand should not be equal")
	}
	var nilObj *Object
	if !nilObj.Equal(nil) {
		t.Fatalf("both nil should be equal")
	}
}

func TestObject_String(t *testing.T) {
	f := newTestFactory(t)
	obj := mustPromote(t, f, `{"class": "PIXClip", "label": "dailies"}`).(*Object)
	if got := obj.String(); got != `<PIXClip('dailies')>` {
		t.Fatalf("String = %s", got)
	}
}

func TestObject_Require(t *testing.T) {
	f := newTestFactory(t)
	obj := mustPromote(t, f, `{"class": "PIXClip", "id": "1"}`).(*Object)

	if v, err := obj.Require("id"); err != nil || v != "1" {
		t.Fatalf("Require(id) = %v, %v", v, err)
	}
	_, err := obj.Require("missing")
	var mf *MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("Require(missing) err = %v, want *MissingFieldError", err)
	}
	if mf.Class != "PIXClip" || mf.Key != "missing" {
		t.Fatalf("error carries %q/%q", mf.Class, mf.Key)
	}
}

func TestObject_MutateAndMarshal(t *testing.T) {
	f := newTestFactory(t)
	obj := mustPromote(t, f, `{"class": "PIXClip", "id": "1", "label": "x"}`).(*Object)

	obj.Set("label", "y")
	obj.Set("extra", true)
	obj.Delete("id")

	got, err := obj.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{"class":"PIXClip","label":"y","extra":true}`
	if string(got) != want {
		t.Fatalf("MarshalJSON = %s, want %s", got, want)
	}
	if obj.Len() != 3 {
		t.Fatalf("Len = %d, want 3", obj.Len())
	}
}

func TestObject_GetString(t *testing.T) {
	f := newTestFactory(t)
	obj := mustPromote(t, f, `{"class": "PIXClip", "n": 7, "s": "txt", "nul": null}`).(*Object)

	if got := obj.GetString("s"); got != "txt" {
		t.Fatalf("GetString(s) = %q", got)
	}
	if got := obj.GetString("n"); got != "7" {
		t.Fatalf("GetString(n) = %q", got)
	}
	if got := obj.GetString("nul"); got != "" {
		t.Fatalf("GetString(nul) = %q", got)
	}
	if got := obj.GetString("absent"); got != "" {
		t.Fatalf("GetString(absent) = %q", got)
	}
}

func TestResponse_Err(t *testing.T) {
	ok := &Response{StatusCode: 200, Status: "200 OK"}
	if err := ok.Err(); err != nil {
		t.Fatalf("Err on 200 = %v", err)
	}

	bad := &Response{StatusCode: 404, Status: "404 Not Found"}
	err := bad.Err()
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Err on 404 = %v, want *APIError", err)
	}
	if apiErr.StatusCode != 404 || apiErr.Reason != "404 Not Found" {
		t.Fatalf("APIError = %+v", apiErr)
	}
}
