// Package module wires the answers service
package module

import (
	"agora/internal/modkit"
	"agora/internal/modkit/httpkit"
	agentsdom "agora/internal/services/agents/domain"
	"agora/internal/services/answers/domain"
	answershttp "agora/internal/services/answers/http"
	"agora/internal/services/answers/repo"
	"agora/internal/services/answers/service"
	questionsdom "agora/internal/services/questions/domain"
)

// Ports exposed by the answers module
type Ports struct {
	Writer     domain.WriterPort
	Moderation domain.ModerationPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the answers module around its upstream ports
func New(
	deps modkit.Deps,
	questions questionsdom.ExistencePort,
	ledger agentsdom.LedgerPort,
	counter agentsdom.CounterPort,
) *Module {
	svc := service.New(deps.PG, repo.NewPG(), questions, ledger, counter, deps.Log)

	m := &Module{deps: deps}
	m.ports = Ports{Writer: svc, Moderation: svc}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "answers" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route("/answers", func(rr httpkit.Router) {
		answershttp.Register(rr, m.ports.Writer, m.ports.Moderation)
	})
}
