package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/kingrea/loomboard/internal/track"
)

// Projects lists every project visible to the session.
func (c *Client) Projects(ctx context.Context) ([]track.Project, error) {
	var projects []track.Project
	if err := c.do(ctx, "GET", "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Project fetches one project's metadata (display name for the board
// header).
func (c *Client) Project(ctx context.Context, id int64) (track.Project, error) {
	var project track.Project
	if err := c.do(ctx, "GET", fmt.Sprintf("/projects/%d", id), nil, &project); err != nil {
		return project, err
	}
	return project, nil
}

// CreateProject creates a project. Name is required; description optional.
func (c *Client) CreateProject(ctx context.Context, name, description string) (track.Project, error) {
	var project track.Project
	if strings.TrimSpace(name) == "" {
		return project, fmt.Errorf("project name is required")
	}
	body := struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}{Name: name, Description: description}
	if err := c.do(ctx, "POST", "/projects", body, &project); err != nil {
		return project, err
	}
	return project, nil
}

// DeleteProject removes a project and everything under it.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/projects/%d", id), nil, nil)
}
