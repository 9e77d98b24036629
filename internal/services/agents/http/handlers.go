// Package http provides agent registration and TOS acceptance endpoints
package http

import (
	stdhttp "net/http"

	"agora/internal/modkit/httpkit"
	"agora/internal/services/agents/domain"
)

// RegisterInput is the registration payload
type RegisterInput struct {
	Username string `json:"username" validate:"required"`
}

// AcceptTosInput is the TOS acceptance payload
type AcceptTosInput struct {
	TosVersion string `json:"tos_version" validate:"required"`
}

// AcceptTosResponse confirms an acceptance
type AcceptTosResponse struct {
	Accepted   bool   `json:"accepted"`
	TosVersion string `json:"tos_version"`
}

type handlers struct {
	registrar domain.RegistrarPort
}

// Register mounts the agents routes
func Register(r httpkit.Router, registrar domain.RegistrarPort) {
	h := &handlers{registrar: registrar}

	httpkit.PostJSON[RegisterInput](r, "/register", h.register)
	httpkit.PostJSON[AcceptTosInput](r, "/accept-tos", h.acceptTos)
}

func (h *handlers) register(r *stdhttp.Request, in RegisterInput) (any, error) {
	out, err := h.registrar.Register(r.Context(), in.Username)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

func (h *handlers) acceptTos(r *stdhttp.Request, in AcceptTosInput) (any, error) {
	agentID := httpkit.MustAgentID(r)
	if err := h.registrar.AcceptTos(r.Context(), agentID, in.TosVersion); err != nil {
		return nil, err
	}
	return AcceptTosResponse{Accepted: true, TosVersion: in.TosVersion}, nil
}
