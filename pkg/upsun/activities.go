package upsun

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
)

// ListActivities returns recent activities of a project, newest first.
// count limits the page size when positive.
func (c *Client) ListActivities(ctx context.Context, projectID string, count int) (json.RawMessage, error) {
	path := "/projects/" + url.PathEscape(projectID) + "/activities"
	if count > 0 {
		path += "?count=" + strconv.Itoa(count)
	}
	return c.get(ctx, path)
}

// GetActivity returns one activity.
func (c *Client) GetActivity(ctx context.Context, projectID, activityID string) (json.RawMessage, error) {
	return c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/activities/"+url.PathEscape(activityID))
}

// ActivityLog returns the build/deploy log text of an activity. The API
// answers newline-separated JSON entries; the message bodies are joined
// into plain text.
func (c *Client) ActivityLog(ctx context.Context, projectID, activityID string) (string, error) {
	raw, err := c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/activities/"+url.PathEscape(activityID)+"/log")
	if err != nil {
		return "", err
	}

	// Some deployments return a JSON array of log entries, others plain
	// text. Pass text through untouched.
	parsed := gjson.ParseBytes(raw)
	if !parsed.IsArray() {
		return string(raw), nil
	}

	var out []byte
	parsed.ForEach(func(_, entry gjson.Result) bool {
		out = append(out, entry.Get("data.message").String()...)
		return true
	})
	return string(out), nil
}

// CancelActivity cancels a running activity.
func (c *Client) CancelActivity(ctx context.Context, projectID, activityID string) (json.RawMessage, error) {
	return c.post(ctx, "/projects/"+url.PathEscape(projectID)+"/activities/"+url.PathEscape(activityID)+"/cancel", nil)
}
