package upsun

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// VariableRequest is the payload for variable creation and update. Name
// is required on create and ignored on update.
type VariableRequest struct {
	Name           string `json:"name,omitempty"`
	Value          string `json:"value"`
	IsJSON         bool   `json:"is_json,omitempty"`
	IsSensitive    bool   `json:"is_sensitive,omitempty"`
	IsEnabled      bool   `json:"is_enabled,omitempty"`
	VisibleBuild   bool   `json:"visible_build,omitempty"`
	VisibleRuntime bool   `json:"visible_runtime,omitempty"`
}

// variablesPath resolves to project-level variables when environmentID
// is empty and environment-level variables otherwise.
func variablesPath(projectID, environmentID string) string {
	if environmentID == "" {
		return "/projects/" + url.PathEscape(projectID) + "/variables"
	}
	return environmentPath(projectID, environmentID) + "/variables"
}

// ListVariables returns project-level variables, or environment-level
// ones when environmentID is non-empty.
func (c *Client) ListVariables(ctx context.Context, projectID, environmentID string) (json.RawMessage, error) {
	return c.get(ctx, variablesPath(projectID, environmentID))
}

// GetVariable returns one variable by name.
func (c *Client) GetVariable(ctx context.Context, projectID, environmentID, name string) (json.RawMessage, error) {
	return c.get(ctx, variablesPath(projectID, environmentID)+"/"+url.PathEscape(name))
}

// CreateVariable creates a variable.
func (c *Client) CreateVariable(ctx context.Context, projectID, environmentID string, req VariableRequest) (json.RawMessage, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("variable name is required")
	}
	return c.post(ctx, variablesPath(projectID, environmentID), req)
}

// UpdateVariable changes an existing variable's value or flags.
func (c *Client) UpdateVariable(ctx context.Context, projectID, environmentID, name string, req VariableRequest) (json.RawMessage, error) {
	req.Name = ""
	return c.patch(ctx, variablesPath(projectID, environmentID)+"/"+url.PathEscape(name), req)
}

// DeleteVariable removes a variable.
func (c *Client) DeleteVariable(ctx context.Context, projectID, environmentID, name string) (json.RawMessage, error) {
	return c.delete(ctx, variablesPath(projectID, environmentID)+"/"+url.PathEscape(name))
}
