package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/upsun/upsun-mcp/pkg/upsun"
)

func registerCertificateTools(s *server.MCPServer, h *Handler) {
	addTool(s, mcp.NewTool("certificate-list",
		mcp.WithDescription("List the TLS certificates of a project."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithTitleAnnotation("List certificates"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.ListCertificates)

	addTool(s, mcp.NewTool("certificate-get",
		mcp.WithDescription("Get one TLS certificate of a project."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("certificate_id", mcp.Required(), mcp.Description("Certificate ID")),
		mcp.WithTitleAnnotation("Get certificate"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.GetCertificate)

	addTool(s, mcp.NewTool("certificate-add",
		mcp.WithDescription("Upload a custom TLS certificate to a project."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("certificate", mcp.Required(), mcp.Description("PEM-encoded certificate")),
		mcp.WithString("key", mcp.Required(), mcp.Description("PEM-encoded private key")),
		mcp.WithString("chain", mcp.Description("PEM-encoded intermediate chain")),
		mcp.WithTitleAnnotation("Add certificate"),
	), h.AddCertificate)

	addTool(s, mcp.NewTool("certificate-delete",
		mcp.WithDescription("Delete a custom TLS certificate from a project."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("certificate_id", mcp.Required(), mcp.Description("Certificate ID")),
		mcp.WithTitleAnnotation("Delete certificate"),
		mcp.WithDestructiveHintAnnotation(true),
	), h.DeleteCertificate)
}

// ListCertificates lists a project's certificates.
func (h *Handler) ListCertificates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID string `json:"project_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.ListCertificates(ctx, args.ProjectID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list certificates", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"certificates": raw}), nil
}

// GetCertificate fetches one certificate.
func (h *Handler) GetCertificate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID     string `json:"project_id"`
		CertificateID string `json:"certificate_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.GetCertificate(ctx, args.ProjectID, args.CertificateID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to get certificate", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"certificate": raw}), nil
}

// AddCertificate uploads a certificate.
func (h *Handler) AddCertificate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID   string `json:"project_id"`
		Certificate string `json:"certificate"`
		Key         string `json:"key"`
		Chain       string `json:"chain"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	req := upsun.AddCertificateRequest{
		Certificate: args.Certificate,
		Key:         args.Key,
	}
	if args.Chain != "" {
		req.Chain = []string{args.Chain}
	}

	raw, err := h.client.AddCertificate(ctx, args.ProjectID, req)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to add certificate", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"result": raw}), nil
}

// DeleteCertificate deletes a certificate.
func (h *Handler) DeleteCertificate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID     string `json:"project_id"`
		CertificateID string `json:"certificate_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	if _, err := h.client.DeleteCertificate(ctx, args.ProjectID, args.CertificateID); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to delete certificate", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"status":      "deleted",
		"certificate": args.CertificateID,
	}), nil
}
