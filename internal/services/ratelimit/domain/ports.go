// Package domain defines the answer rate limit gate
package domain

import "context"

// GatePort decides whether an agent may post another answer today
type GatePort interface {
	EnsureCanPostAnswer(ctx context.Context, agentID string) error
}
