// SPDX-FileCopyrightText: Copyright 2025 Platform.sh
// SPDX-License-Identifier: Apache-2.0

package auth

import "strings"

// AuthorizationServerMetadata is the RFC 8414 authorization-server
// discovery document. The gateway republishes the upstream Upsun
// authorization server so MCP clients can bootstrap an OAuth flow
// without prior knowledge of the platform.
type AuthorizationServerMetadata struct {
	Issuer                            string   `json:"issuer"`
	AuthorizationEndpoint             string   `json:"authorization_endpoint"`
	TokenEndpoint                     string   `json:"token_endpoint"`
	RegistrationEndpoint              string   `json:"registration_endpoint,omitempty"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	GrantTypesSupported               []string `json:"grant_types_supported"`
	CodeChallengeMethodsSupported     []string `json:"code_challenge_methods_supported"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
	ScopesSupported                   []string `json:"scopes_supported,omitempty"`
}

// ProtectedResourceMetadata is the RFC 9728 protected-resource discovery
// document naming this server as the resource and the Upsun authorization
// server as its issuer.
type ProtectedResourceMetadata struct {
	Resource               string   `json:"resource"`
	AuthorizationServers   []string `json:"authorization_servers"`
	BearerMethodsSupported []string `json:"bearer_methods_supported"`
	ScopesSupported        []string `json:"scopes_supported,omitempty"`
}

// AuthorizationServerMetadataFor derives the RFC 8414 document from the
// configured auth server base URL and scope list.
func AuthorizationServerMetadataFor(authURL string, scopes []string) AuthorizationServerMetadata {
	issuer := strings.TrimRight(authURL, "/")
	return AuthorizationServerMetadata{
		Issuer:                issuer,
		AuthorizationEndpoint: issuer + "/oauth2/authorize",
		TokenEndpoint:         issuer + "/oauth2/token",
		ResponseTypesSupported: []string{
			"code",
		},
		GrantTypesSupported: []string{
			"authorization_code",
			"refresh_token",
			"api_token",
		},
		CodeChallengeMethodsSupported:     []string{"S256"},
		TokenEndpointAuthMethodsSupported: []string{"none"},
		ScopesSupported:                   scopes,
	}
}

// ProtectedResourceMetadataFor derives the RFC 9728 document. resourceURL
// is this server's public base URL; authURL names the upstream issuer.
func ProtectedResourceMetadataFor(resourceURL, authURL string, scopes []string) ProtectedResourceMetadata {
	return ProtectedResourceMetadata{
		Resource:               strings.TrimRight(resourceURL, "/"),
		AuthorizationServers:   []string{strings.TrimRight(authURL, "/")},
		BearerMethodsSupported: []string{"header"},
		ScopesSupported:        scopes,
	}
}
