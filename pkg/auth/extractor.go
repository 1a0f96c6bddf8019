// SPDX-FileCopyrightText: Copyright 2025 Platform.sh
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"net/http"
	"strings"
)

const (
	// HeaderAuthorization is the standard bearer-token header.
	HeaderAuthorization = "Authorization"

	// HeaderAPIToken is the legacy header carrying a raw Upsun API token.
	HeaderAPIToken = "upsun-api-token"

	bearerPrefix = "Bearer "
)

// FromRequest extracts the request credential. A non-empty
// "Authorization: Bearer <token>" wins; otherwise the legacy
// upsun-api-token header is consulted. When neither header carries a
// usable secret the zero Credential is returned; FromRequest never fails.
func FromRequest(r *http.Request) Credential {
	return FromHeader(r.Header)
}

// FromHeader is FromRequest for callers that only hold the header map.
func FromHeader(h http.Header) Credential {
	raw := strings.TrimSpace(h.Get(HeaderAuthorization))
	if len(raw) > len(bearerPrefix) && strings.EqualFold(raw[:len(bearerPrefix)], bearerPrefix) {
		if token := strings.TrimSpace(raw[len(bearerPrefix):]); token != "" {
			return NewBearerCredential(token)
		}
	}

	if key := strings.TrimSpace(h.Get(HeaderAPIToken)); key != "" {
		return NewAPIKeyCredential(key)
	}

	return Credential{}
}
