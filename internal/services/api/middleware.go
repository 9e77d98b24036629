package api

import (
	"net/http"
	"strings"

	perr "agora/internal/platform/errors"
	"agora/internal/platform/logger"
	pnet "agora/internal/platform/net"
	phttp "agora/internal/platform/net/http"

	"agora/internal/modkit/httpkit"
	agentsdom "agora/internal/services/agents/domain"
	ratelimitdom "agora/internal/services/ratelimit/domain"
	tosdom "agora/internal/services/tos/domain"
)

// guard holds the middleware dependencies for the authenticated surface
type guard struct {
	reader  agentsdom.ReaderPort
	toucher agentsdom.TouchPort
	tos     tosdom.ProviderPort
	gate    ratelimitdom.GatePort
	log     logger.Logger
}

const apiPrefix = "/api/v1"

// relPath strips the version prefix so route checks read like the route table
func relPath(r *http.Request) string {
	return strings.TrimPrefix(r.URL.Path, apiPrefix)
}

func authExempt(p string) bool {
	if p == "/agents/register" {
		return true
	}
	for _, prefix := range []string{"/tos", "/meta", "/docs"} {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

// authenticate resolves the bearer api key to an agent and stores it on the
// request context. Registration, TOS text, and health stay reachable without
// a key
func (g *guard) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authExempt(relPath(r)) {
			next.ServeHTTP(w, r)
			return
		}

		key, err := httpkit.APIKey(r)
		if err != nil {
			phttp.WriteError(w, r, err)
			return
		}

		agent, err := g.reader.ByAPIKey(r.Context(), key)
		if err != nil {
			phttp.WriteError(w, r, err)
			return
		}

		ctx := pnet.WithAgentID(r.Context(), agent.ID)
		ctx = agentsdom.WithAgent(ctx, agent)

		// activity touch is best effort and must not block the request
		g.toucher.TouchLastActive(ctx, agent.ID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tosExempt(p string) bool {
	return p == "/agents/register" || p == "/agents/accept-tos"
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// requireTos blocks writes from agents that have not accepted the current
// terms. Reads pass so agents can still browse while stale
func (g *guard) requireTos(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !mutating(r.Method) || tosExempt(relPath(r)) {
			next.ServeHTTP(w, r)
			return
		}

		agent := agentsdom.AgentFrom(r.Context())
		if agent == nil {
			// unauthenticated exempt surface, nothing to enforce
			next.ServeHTTP(w, r)
			return
		}

		terms, err := g.tos.Current(r.Context())
		if err != nil {
			phttp.WriteError(w, r, perr.Unavailablef("terms of service unavailable"))
			return
		}

		if !tosdom.IsAccepted(agent.AcceptedTosVersion, terms.Version) {
			phttp.WriteError(w, r, perr.Newf(perr.CodeTosNotAccepted,
				"current terms of service (version %s) must be accepted first", terms.Version))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// answerQuota applies the daily answer gate to answer creation only.
// Votes, accepts, and flags are not counted against the quota
func (g *guard) answerQuota(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := relPath(r)
		if r.Method != http.MethodPost || (p != "/answers" && p != "/answers/") {
			next.ServeHTTP(w, r)
			return
		}

		agentID := pnet.AgentID(r.Context())
		if agentID == "" {
			next.ServeHTTP(w, r)
			return
		}

		if err := g.gate.EnsureCanPostAnswer(r.Context(), agentID); err != nil {
			phttp.WriteError(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
