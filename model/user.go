package model

import "github.com/bitvfx/pix-go/factory"

// User is the behavior bound to PIXUser objects.
type User struct {
	base
}

// NewUser binds a User behavior to obj.
func NewUser(obj *factory.Object) *User {
	return &User{base{obj}}
}

// Name returns the user's display name.
func (u *User) Name() string {
	return u.Label()
}
