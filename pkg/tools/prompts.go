package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerPrompts adds the guided workflow prompts.
func registerPrompts(s *server.MCPServer, h *Handler) {
	s.AddPrompt(mcp.Prompt{
		Name:        "project-overview",
		Description: "Build a full status overview of one project: settings, environments, domains and recent activity.",
		Arguments: []mcp.PromptArgument{
			{Name: "project_id", Description: "Project ID to summarize", Required: true},
		},
	}, h.ProjectOverviewPrompt)

	s.AddPrompt(mcp.Prompt{
		Name:        "environment-troubleshoot",
		Description: "Diagnose a misbehaving environment from its state, recent activities and deploy logs.",
		Arguments: []mcp.PromptArgument{
			{Name: "project_id", Description: "Project ID", Required: true},
			{Name: "environment_id", Description: "Environment ID to troubleshoot", Required: true},
		},
	}, h.EnvironmentTroubleshootPrompt)

	s.AddPrompt(mcp.Prompt{
		Name:        "deployment-review",
		Description: "Review the live deployment of an environment: services, routes, TLS and exposure.",
		Arguments: []mcp.PromptArgument{
			{Name: "project_id", Description: "Project ID", Required: true},
			{Name: "environment_id", Description: "Environment ID to review", Required: true},
		},
	}, h.DeploymentReviewPrompt)
}

// ProjectOverviewPrompt walks the model through a project summary.
func (h *Handler) ProjectOverviewPrompt(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	projectID := request.Params.Arguments["project_id"]
	if projectID == "" {
		return nil, fmt.Errorf("'project_id' argument is required")
	}

	text := fmt.Sprintf(`Build a status overview of Upsun project %s.

1. Call project-get with project_id %q for the title, region, plan and repository URL.
2. Call environment-list with project_id %q and group the environments by status (active, paused, inactive) and type (production, staging, development).
3. Call domain-list with project_id %q to list the attached custom domains.
4. Call activity-list with project_id %q and count 10 to see what happened recently. Flag any activity that did not complete successfully.
5. For the production environment, call environment-urls to get the public URLs.

Present the result as a short report: project identity, environment table, domains, recent activity with failures highlighted, and the production URLs. Keep it factual; do not invent values the tools did not return.`,
		projectID, projectID, projectID, projectID, projectID)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Project overview: %s", projectID),
		Messages: []mcp.PromptMessage{
			{Role: "user", Content: mcp.NewTextContent(text)},
		},
	}, nil
}

// EnvironmentTroubleshootPrompt walks the model through a diagnosis.
func (h *Handler) EnvironmentTroubleshootPrompt(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	projectID := request.Params.Arguments["project_id"]
	environmentID := request.Params.Arguments["environment_id"]
	if projectID == "" || environmentID == "" {
		return nil, fmt.Errorf("'project_id' and 'environment_id' arguments are required")
	}

	text := fmt.Sprintf(`Troubleshoot environment %s of Upsun project %s.

1. Call environment-get with project_id %q and environment_id %q. Note the status: a paused environment only needs environment-resume, a dirty or inactive one needs a deeper look.
2. Call activity-list with project_id %q and count 10. Identify the most recent activity touching this environment that ended in failure.
3. For that failed activity, call activity-log and read the build and deploy output. Look for build errors, failed hooks, crashed services and resource limits.
4. Call deployment-current with project_id %q and environment_id %q to inspect what is actually running: services, application containers and their sizes.
5. If configuration looks suspect, call variable-list for the environment and check for missing or misconfigured variables.

Conclude with: the most likely root cause, the evidence from the logs that supports it, and the exact next step. If the fix is an available tool call (environment-resume, environment-redeploy, backup-restore), name it and the arguments to use, but do not execute a destructive action without the user's confirmation.`,
		environmentID, projectID, projectID, environmentID, projectID, projectID, environmentID)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Troubleshoot %s/%s", projectID, environmentID),
		Messages: []mcp.PromptMessage{
			{Role: "user", Content: mcp.NewTextContent(text)},
		},
	}, nil
}

// DeploymentReviewPrompt walks the model through a deployment audit.
func (h *Handler) DeploymentReviewPrompt(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	projectID := request.Params.Arguments["project_id"]
	environmentID := request.Params.Arguments["environment_id"]
	if projectID == "" || environmentID == "" {
		return nil, fmt.Errorf("'project_id' and 'environment_id' arguments are required")
	}

	text := fmt.Sprintf(`Review the live deployment of environment %s in Upsun project %s.

1. Call deployment-current with project_id %q and environment_id %q. Inventory the application containers, services and workers with their disk and resource allocations.
2. Call route-list for the environment and check how traffic is routed: which upstreams are exposed, which routes redirect, and whether anything unexpected is public.
3. Call domain-list and certificate-list with project_id %q. Verify every attached domain is covered by a valid certificate.
4. Call environment-urls and confirm the primary URL serves the intended application.

Report findings in three sections: topology (what runs and at what size), traffic (routes, domains, TLS coverage, anything publicly exposed that should not be), and recommendations (oversized or undersized services, missing certificates, stale routes). Flag anything that would break on the next deploy.`,
		environmentID, projectID, projectID, environmentID, projectID)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Deployment review: %s/%s", projectID, environmentID),
		Messages: []mcp.PromptMessage{
			{Role: "user", Content: mcp.NewTextContent(text)},
		},
	}, nil
}
