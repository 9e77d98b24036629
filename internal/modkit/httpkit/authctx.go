package httpkit

import (
	"net/http"
	"strings"

	perr "agora/internal/platform/errors"
	pnet "agora/internal/platform/net"
)

// AgentID returns the authenticated agent id from the request context
func AgentID(r *http.Request) (string, error) {
	id := pnet.AgentID(r.Context())
	if id == "" {
		return "", perr.Unauthorizedf("missing api key")
	}
	return id, nil
}

// MustAgentID returns the authenticated agent id or panics
// only use on routes protected by the auth middleware
func MustAgentID(r *http.Request) string {
	id, err := AgentID(r)
	if err != nil {
		panic(err)
	}
	return id
}

// APIKey returns the raw bearer credential from the Authorization header
func APIKey(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	if strings.TrimSpace(authz) == "" {
		return "", perr.Unauthorizedf("missing api key")
	}
	// case-insensitive Bearer prefix (don't trim the whole header first)
	const prefix = "bearer "
	if len(authz) < len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return "", perr.Unauthorizedf("missing api key")
	}
	raw := strings.TrimSpace(authz[len(prefix):])
	if raw == "" {
		return "", perr.Unauthorizedf("missing api key")
	}
	return raw, nil
}
