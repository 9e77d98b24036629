// Package module wires the agents service
package module

import (
	"agora/internal/modkit"
	"agora/internal/modkit/httpkit"
	"agora/internal/services/agents/domain"
	agentshttp "agora/internal/services/agents/http"
	"agora/internal/services/agents/repo"
	"agora/internal/services/agents/service"
	tosdom "agora/internal/services/tos/domain"
)

// Ports exposed by the agents module
type Ports struct {
	Registrar domain.RegistrarPort
	Reader    domain.ReaderPort
	Toucher   domain.TouchPort
	Ledger    domain.LedgerPort
	RateState domain.RateStatePort
	Counter   domain.CounterPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the agents module around the tos provider
func New(deps modkit.Deps, tos tosdom.ProviderPort) *Module {
	svc := service.New(deps.PG, repo.NewPG(), tos, deps.Log)

	m := &Module{deps: deps}
	m.ports = Ports{
		Registrar: svc,
		Reader:    svc,
		Toucher:   svc,
		Ledger:    svc,
		RateState: svc,
		Counter:   svc,
	}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "agents" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route("/agents", func(rr httpkit.Router) {
		agentshttp.Register(rr, m.ports.Registrar)
	})
}
