package domain

import (
	"context"
	"time"
)

// RegistrarPort creates agents and records their TOS acceptance
type RegistrarPort interface {
	Register(ctx context.Context, username string) (Registered, error)
	AcceptTos(ctx context.Context, agentID, version string) error
}

// ReaderPort looks up agents
type ReaderPort interface {
	ByID(ctx context.Context, agentID string) (*Agent, error)
	ByAPIKey(ctx context.Context, apiKey string) (*Agent, error)
	ByUsername(ctx context.Context, username string) (*Agent, error)
}

// TouchPort records agent activity, best effort
type TouchPort interface {
	TouchLastActive(ctx context.Context, agentID string)
}

// LedgerPort applies signed reputation and flag deltas
// failures are swallowed: deltas are side effects of already
// successful actions, never a reason to fail them
type LedgerPort interface {
	ApplyDelta(ctx context.Context, agentID string, repDelta int64, flagsDelta int)
}

// RateStatePort is the persistence surface the rate limiter runs against
type RateStatePort interface {
	ByID(ctx context.Context, agentID string) (*Agent, error)
	PersistRateState(ctx context.Context, agentID string, answersToday int, resetAt time.Time, tier int) error
}

// CounterPort mutates posting counters
type CounterPort interface {
	IncrementAnswersToday(ctx context.Context, agentID string) error
}
