// Package pix is a Go client for the PIX media-review REST API.
//
// The library authenticates a user, tracks the server-side session and
// active project, and promotes the JSON payloads PIX returns into typed
// objects with helper behaviors (marking items read, fetching notes,
// downloading media). Promotion is driven by the "class" discriminator
// the service tags payload objects with; see the factory and registry
// packages for the mechanism and model for the built-in behaviors.
//
// Typical use reads credentials from the PIX_* environment variables:
//
//	s, err := pix.Connect()
//	if err != nil {
//		return err
//	}
//	project, err := s.LoadProject(ctx, "FooBar")
//	if err != nil {
//		return err
//	}
//	feeds, err := project.Inbox(ctx, 0)
//
// Custom behaviors attach to any class name before payloads referencing
// it are promoted:
//
//	reg := registry.New()
//	model.Builtins(reg)
//	pix.Register(reg, "PIXNote", NewMyNote)
//	s, err := pix.Connect(session.WithRegistry(reg))
package pix

import (
	"github.com/bitvfx/pix-go/config"
	"github.com/bitvfx/pix-go/factory"
	"github.com/bitvfx/pix-go/registry"
	"github.com/bitvfx/pix-go/session"
)

type (
	// Object is the canonical promoted object.
	Object = factory.Object

	// Fields is the ordered mapping promoted payloads decode into.
	Fields = factory.Fields

	// Session issues authenticated calls against the PIX API.
	Session = session.Session

	// Config carries endpoint and credential settings.
	Config = config.Config

	// Registry maps class discriminators to registered behaviors.
	Registry = registry.Registry
)

// Connect builds a session from the PIX_* environment variables.
func Connect(opts ...session.Option) (*Session, error) {
	return session.New(config.FromEnv(), opts...)
}

// ConnectConfig builds a session from an explicit configuration.
func ConnectConfig(cfg Config, opts ...session.Option) (*Session, error) {
	return session.New(cfg, opts...)
}

// Register records bind as a behavior constructor for class name in reg.
// It returns bind unchanged so registration composes with assignment.
func Register[T any](reg *Registry, name string, bind func(*Object) T) func(*Object) T {
	return factory.Register(reg, name, bind)
}

// As resolves the behavior of type T bound to obj, newest registration
// first.
func As[T any](obj *Object) (T, bool) {
	return factory.As[T](obj)
}
