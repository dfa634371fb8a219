package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bitvfx/pix-go/factory"
	"github.com/bitvfx/pix-go/model"
)

// Projects returns every project the logged-in user can access. A
// non-positive limit fetches all of them.
func (s *Session) Projects(ctx context.Context, limit int) ([]*model.Project, error) {
	path := "/projects"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	result, err := s.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	// The service reports request-level failures as a payload rather
	// than a status code.
	if fields, ok := result.(*factory.Fields); ok {
		if kind, _ := fields.Get("type"); kind == "bad_request" {
			msg, _ := fields.Get("user_message")
			return nil, &factory.APIError{
				StatusCode: http.StatusBadRequest,
				Reason:     fmt.Sprintf("error fetching projects: %v", msg),
			}
		}
	}

	items, ok := result.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected projects payload %T", result)
	}
	projects := make([]*model.Project, 0, len(items))
	for _, item := range items {
		obj, ok := item.(*factory.Object)
		if !ok {
			return nil, fmt.Errorf("unexpected project entry %T", item)
		}
		projects = append(projects, model.AsProject(obj))
	}
	return projects, nil
}

// LoadProject activates the project matching nameOrID (label first, then
// id) and returns it.
func (s *Session) LoadProject(ctx context.Context, nameOrID string) (*model.Project, error) {
	projects, err := s.Projects(ctx, 0)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.Label() == nameOrID || p.ID() == nameOrID {
			if err := s.Activate(ctx, p.Object()); err != nil {
				return nil, err
			}
			return p, nil
		}
	}
	return nil, &ProjectNotFoundError{Name: nameOrID}
}

// ActiveProject returns the project currently active for this session,
// or nil when none has been activated yet.
func (s *Session) ActiveProject() *factory.Object {
	return s.active
}

// Activate makes project the session's active project on the service
// side. PIX scopes several item endpoints to the active project.
func (s *Session) Activate(ctx context.Context, project *factory.Object) error {
	id, err := project.Require("id")
	if err != nil {
		return err
	}
	resp, err := s.Put(ctx, activeProjectPath, map[string]any{"id": id})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &factory.APIError{StatusCode: resp.StatusCode, Reason: resp.Status}
	}
	s.active = project
	s.log.Info("activated project", "project", project.Identifier())
	return nil
}
