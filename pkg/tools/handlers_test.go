package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upsun/upsun-mcp/pkg/auth"
	"github.com/upsun/upsun-mcp/pkg/upsun"
)

// newTestHandler builds a Handler backed by a fake management API.
func newTestHandler(t *testing.T, apiHandler http.HandlerFunc) *Handler {
	t.Helper()

	srv := httptest.NewServer(apiHandler)
	t.Cleanup(srv.Close)

	client, err := upsun.NewClient(srv.URL, srv.URL,
		auth.NewStore(auth.NewBearerCredential("test-token")),
		upsun.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	return NewHandler(client)
}

func TestListProjects(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/projects", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"p1","title":"One"},{"id":"p2","title":"Two"}]`))
	})

	result, err := h.ListProjects(context.Background(), callRequest("project-list", nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	sc, ok := result.StructuredContent.(map[string]any)
	require.True(t, ok)
	raw, ok := sc["projects"].(json.RawMessage)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"p1","title":"One"},{"id":"p2","title":"Two"}]`, string(raw))
}

func TestGetProjectBindsPathArgument(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/p1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"p1","title":"Demo"}`))
	})

	result, err := h.GetProject(context.Background(), callRequest("project-get", map[string]any{"project_id": "p1"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	sc, ok := result.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, sc, "project")
}

func TestCreateProjectSendsPayload(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/projects", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Demo", body["title"])
		assert.Equal(t, "eu-5.platform.sh", body["region"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"provisioning"}`))
	})

	result, err := h.CreateProject(context.Background(), callRequest("project-create", map[string]any{
		"title":  "Demo",
		"region": "eu-5.platform.sh",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
}

func TestDeleteProjectReportsStatus(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/projects/p1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	result, err := h.DeleteProject(context.Background(), callRequest("project-delete", map[string]any{"project_id": "p1"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, map[string]any{
		"status":  "deleted",
		"project": "p1",
	}, result.StructuredContent)
}

func TestAPIFailureBecomesErrorResult(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"insufficient permissions"}`))
	})

	result, err := h.GetProject(context.Background(), callRequest("project-get", map[string]any{"project_id": "p1"}))
	require.NoError(t, err, "API failures surface as error results, not handler errors")
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "failed to get project")
}

func TestBindFailureBecomesErrorResult(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("the API must not be called when argument binding fails")
	})

	result, err := h.GetProject(context.Background(), callRequest("project-get", map[string]any{"project_id": 42}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "failed to parse arguments")
}

func TestActivityLogReturnsText(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/p1/activities/a1/log", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"data":{"message":"building app\n"}},{"data":{"message":"deploy complete\n"}}]`))
	})

	result, err := h.ActivityLog(context.Background(), callRequest("activity-log", map[string]any{
		"project_id":  "p1",
		"activity_id": "a1",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "building app\ndeploy complete\n", resultText(t, result))
}

func TestListVariablesEnvironmentLevel(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/p1/environments/main/variables", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	result, err := h.ListVariables(context.Background(), callRequest("variable-list", map[string]any{
		"project_id":     "p1",
		"environment_id": "main",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
}

func TestBranchEnvironment(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/projects/p1/environments/main/branch", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "feature-x", body["name"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"pending"}`))
	})

	result, err := h.BranchEnvironment(context.Background(), callRequest("environment-branch", map[string]any{
		"project_id":     "p1",
		"environment_id": "main",
		"name":           "feature-x",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
}
