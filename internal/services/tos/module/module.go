// Package module wires the terms of service provider and endpoint
package module

import (
	"agora/internal/modkit"
	"agora/internal/modkit/httpkit"
	"agora/internal/services/tos/domain"
	toshttp "agora/internal/services/tos/http"
	"agora/internal/services/tos/provider"
)

// Ports exposed by the tos module
type Ports struct {
	Provider domain.ProviderPort
}

// Module implements modkit.Module
type Module struct {
	deps     modkit.Deps
	provider *provider.File
	ports    Ports
}

// New constructs the tos module; TOS_PATH is required, TOS_VERSION optional
func New(deps modkit.Deps) *Module {
	cfg := deps.Cfg.Prefix("TOS_")
	p := provider.NewFile(provider.Config{
		Path:    cfg.MustString("PATH"),
		Version: cfg.MayString("VERSION", ""),
	}, deps.Log)

	m := &Module{deps: deps, provider: p}
	m.ports = Ports{Provider: p}
	return m
}

// Watcher returns the cache-invalidation loop for the run group
func (m *Module) Watcher() *provider.File { return m.provider }

// Name implements modkit.Module
func (m *Module) Name() string { return "tos" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route("/tos", func(rr httpkit.Router) {
		toshttp.Register(rr, m.provider)
	})
}
