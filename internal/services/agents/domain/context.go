package domain

import "context"

type agentKey struct{}

// WithAgent stashes the authenticated agent on the context
func WithAgent(ctx context.Context, a *Agent) context.Context {
	return context.WithValue(ctx, agentKey{}, a)
}

// AgentFrom returns the authenticated agent from the context, nil when absent
func AgentFrom(ctx context.Context) *Agent {
	a, _ := ctx.Value(agentKey{}).(*Agent)
	return a
}
