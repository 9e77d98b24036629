// Package api assembles the HTTP API from the service modules
package api

import (
	"agora/internal/platform/config"
	"agora/internal/platform/logger"
	phttp "agora/internal/platform/net/http"
	"agora/internal/platform/store"

	"agora/internal/modkit"
	"agora/internal/modkit/httpkit"
	"agora/internal/modkit/module"

	agentsmod "agora/internal/services/agents/module"
	answersmod "agora/internal/services/answers/module"
	metamod "agora/internal/services/meta/module"
	questionsmod "agora/internal/services/questions/module"
	ratelimitsvc "agora/internal/services/ratelimit/service"
	tosmod "agora/internal/services/tos/module"
	"agora/internal/services/tos/provider"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        logger.Logger
	EnableSwagger bool
}

// Mount wires the modules in dependency order and mounts everything
// under /api/v1. It returns the tos watcher for the caller's run group
func Mount(r phttp.Router, opt Options) *provider.File {
	deps := modkit.Deps{
		Log: opt.Logger,
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	tos := tosmod.New(deps)
	tosPorts := module.MustPortsOf[tosmod.Ports](tos)

	agents := agentsmod.New(deps, tosPorts.Provider)
	agentsPorts := module.MustPortsOf[agentsmod.Ports](agents)

	gate := ratelimitsvc.New(agentsPorts.RateState, deps.Log)

	questions := questionsmod.New(deps, agentsPorts.Reader)
	questionsPorts := module.MustPortsOf[questionsmod.Ports](questions)

	answers := answersmod.New(deps, questionsPorts.Existence, agentsPorts.Ledger, agentsPorts.Counter)

	mods := []module.Module{
		metamod.New(deps),
		tos,
		agents,
		questions,
		answers,
	}

	g := &guard{
		reader:  agentsPorts.Reader,
		toucher: agentsPorts.Toucher,
		tos:     tosPorts.Provider,
		gate:    gate,
		log:     deps.Log,
	}

	r.Use(httpkit.CommonStack()...)

	phttp.MountSwagger(r, opt.EnableSwagger)

	r.Route(apiPrefix, func(api phttp.Router) {
		api.Use(g.authenticate, g.requireTos, g.answerQuota)

		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	return tos.Watcher()
}
