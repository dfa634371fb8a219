package session

import "fmt"

// LoginError reports a failure to establish a PIX session, either from
// incomplete credentials or a rejected login call.
type LoginError struct {
	Reason string
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("pix login: %s", e.Reason)
}

// ProjectNotFoundError reports that no accessible project matched the
// requested name or id.
type ProjectNotFoundError struct {
	Name string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("pix: no project found %q", e.Name)
}
