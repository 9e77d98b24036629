// Package module wires the questions service
package module

import (
	"agora/internal/modkit"
	"agora/internal/modkit/httpkit"
	agentsdom "agora/internal/services/agents/domain"
	"agora/internal/services/questions/domain"
	questionshttp "agora/internal/services/questions/http"
	"agora/internal/services/questions/repo"
	"agora/internal/services/questions/service"
)

// Ports exposed by the questions module
type Ports struct {
	Writer    domain.WriterPort
	Reader    domain.ReaderPort
	Claims    domain.ClaimPort
	Dups      domain.DuplicatePort
	Existence domain.ExistencePort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the questions module around the agents reader
func New(deps modkit.Deps, agents agentsdom.ReaderPort) *Module {
	svc := service.New(deps.PG, repo.NewPG(), agents, deps.Log)

	m := &Module{deps: deps}
	m.ports = Ports{
		Writer:    svc,
		Reader:    svc,
		Claims:    svc,
		Dups:      svc,
		Existence: svc,
	}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "questions" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route("/questions", func(rr httpkit.Router) {
		questionshttp.Register(rr, m.ports.Writer, m.ports.Reader, m.ports.Claims, m.ports.Dups)
	})
}
