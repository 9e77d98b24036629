// Package http provides the terms of service endpoint
package http

import (
	stdhttp "net/http"

	"agora/internal/modkit/httpkit"
	"agora/internal/services/tos/domain"
)

type handlers struct {
	provider domain.ProviderPort
}

// Register mounts the tos routes
func Register(r httpkit.Router, provider domain.ProviderPort) {
	h := &handlers{provider: provider}

	httpkit.Get(r, "/", h.current)
}

func (h *handlers) current(r *stdhttp.Request) (any, error) {
	terms, err := h.provider.Current(r.Context())
	if err != nil {
		return nil, err
	}
	return terms, nil
}
