// Package module wires the meta endpoints
package module

import (
	"time"

	"agora/internal/modkit"
	"agora/internal/modkit/httpkit"
	metahttp "agora/internal/services/meta/http"
)

// Module implements modkit.Module
type Module struct {
	deps      modkit.Deps
	startedAt time.Time
}

// New constructs the meta module
func New(deps modkit.Deps) *Module {
	return &Module{deps: deps, startedAt: time.Now()}
}

// Name implements modkit.Module
func (m *Module) Name() string { return "meta" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return nil }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route("/meta", func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: "agora-api",
			StartedAt:   m.startedAt,
			PG:          m.deps.PG,
		})
	})
}
