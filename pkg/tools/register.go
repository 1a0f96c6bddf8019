package tools

import (
	"github.com/mark3labs/mcp-go/server"
)

// RegisterAll wires every management tool and workflow prompt onto a
// session's MCP server. Each session gets its own server instance, so
// registration happens once per connected client.
func RegisterAll(s *server.MCPServer, h *Handler) {
	registerProjectTools(s, h)
	registerEnvironmentTools(s, h)
	registerOrganizationTools(s, h)
	registerDomainTools(s, h)
	registerCertificateTools(s, h)
	registerBackupTools(s, h)
	registerSSHKeyTools(s, h)
	registerRouteTools(s, h)
	registerVariableTools(s, h)
	registerActivityTools(s, h)
	registerDeploymentTools(s, h)
	registerAccessTools(s, h)
	registerSubscriptionTools(s, h)
	registerIntegrationTools(s, h)
	registerPrompts(s, h)
}
