package upsun

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"
)

func environmentPath(projectID, environmentID string) string {
	return "/projects/" + url.PathEscape(projectID) +
		"/environments/" + url.PathEscape(environmentID)
}

// ListEnvironments returns all environments of a project.
func (c *Client) ListEnvironments(ctx context.Context, projectID string) (json.RawMessage, error) {
	return c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/environments")
}

// GetEnvironment returns one environment.
func (c *Client) GetEnvironment(ctx context.Context, projectID, environmentID string) (json.RawMessage, error) {
	return c.get(ctx, environmentPath(projectID, environmentID))
}

// PauseEnvironment suspends a running environment.
func (c *Client) PauseEnvironment(ctx context.Context, projectID, environmentID string) (json.RawMessage, error) {
	return c.post(ctx, environmentPath(projectID, environmentID)+"/pause", nil)
}

// ResumeEnvironment resumes a paused environment.
func (c *Client) ResumeEnvironment(ctx context.Context, projectID, environmentID string) (json.RawMessage, error) {
	return c.post(ctx, environmentPath(projectID, environmentID)+"/resume", nil)
}

// RedeployEnvironment triggers a redeployment without a new commit.
func (c *Client) RedeployEnvironment(ctx context.Context, projectID, environmentID string) (json.RawMessage, error) {
	return c.post(ctx, environmentPath(projectID, environmentID)+"/redeploy", nil)
}

// DeleteEnvironment deletes an inactive environment.
func (c *Client) DeleteEnvironment(ctx context.Context, projectID, environmentID string) (json.RawMessage, error) {
	return c.delete(ctx, environmentPath(projectID, environmentID))
}

// MergeEnvironment merges the environment into its parent.
func (c *Client) MergeEnvironment(ctx context.Context, projectID, environmentID string) (json.RawMessage, error) {
	return c.post(ctx, environmentPath(projectID, environmentID)+"/merge", nil)
}

// BranchEnvironment creates a child environment branched off the given
// parent. name is the git branch name; title defaults to the name when
// empty.
func (c *Client) BranchEnvironment(ctx context.Context, projectID, parentID, name, title string) (json.RawMessage, error) {
	if name == "" {
		return nil, fmt.Errorf("branch name is required")
	}
	if title == "" {
		title = name
	}
	body := map[string]string{"name": name, "title": title}
	return c.post(ctx, environmentPath(projectID, parentID)+"/branch", body)
}

// EnvironmentURLs returns the public URLs of the environment's current
// deployment, primary route first.
func (c *Client) EnvironmentURLs(ctx context.Context, projectID, environmentID string) ([]string, error) {
	deployment, err := c.CurrentDeployment(ctx, projectID, environmentID)
	if err != nil {
		return nil, err
	}

	var primary []string
	var rest []string
	gjson.GetBytes(deployment, "routes").ForEach(func(key, value gjson.Result) bool {
		if value.Get("type").String() != "upstream" && value.Get("type").String() != "redirect" {
			return true
		}
		if value.Get("primary").Bool() {
			primary = append(primary, key.String())
		} else {
			rest = append(rest, key.String())
		}
		return true
	})

	return append(primary, rest...), nil
}
