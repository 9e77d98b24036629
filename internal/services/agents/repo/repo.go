// Package repo provides the Postgres repository for agents
package repo

import (
	"context"
	"time"

	"agora/internal/modkit/repokit"
	"agora/internal/platform/store"
	"agora/internal/services/agents/domain"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the agents repository
type Storage interface {
	Insert(ctx context.Context, a *domain.Agent) error
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.Agent, error)
	GetByUsernameNormalized(ctx context.Context, username string) (*domain.Agent, error)
	SetAcceptedTos(ctx context.Context, id, version string) error
	TouchLastActive(ctx context.Context, id string) error
	UpdateReputation(ctx context.Context, id string, reputation int64, flags, tier int) error
	UpdateRateState(ctx context.Context, id string, answersToday int, resetAt time.Time, tier int) error
	IncrementAnswersToday(ctx context.Context, id string) error
}

type pg struct{ q repokit.Queryer }

const agentColumns = `
	agent_id, username, username_normalized, api_key,
	reputation, trust_tier, answers_today, answers_today_reset_at,
	flags, accepted_tos_version, created_at, last_active_at`

func scanAgent(r store.Row) (*domain.Agent, error) {
	var a domain.Agent
	err := r.Scan(
		&a.ID, &a.Username, &a.UsernameNormalized, &a.APIKey,
		&a.Reputation, &a.TrustTier, &a.AnswersToday, &a.AnswersTodayResetAt,
		&a.Flags, &a.AcceptedTosVersion, &a.CreatedAt, &a.LastActiveAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *pg) Insert(ctx context.Context, a *domain.Agent) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO agents (
			agent_id, username, username_normalized, api_key,
			reputation, trust_tier, answers_today, answers_today_reset_at,
			flags, accepted_tos_version, created_at, last_active_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.Username, a.UsernameNormalized, a.APIKey,
		a.Reputation, a.TrustTier, a.AnswersToday, a.AnswersTodayResetAt,
		a.Flags, a.AcceptedTosVersion, a.CreatedAt, a.LastActiveAt,
	)
	return err
}

func (s *pg) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	return store.One(ctx, s.q, scanAgent,
		`SELECT`+agentColumns+` FROM agents WHERE agent_id = $1`, id)
}

func (s *pg) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Agent, error) {
	return store.One(ctx, s.q, scanAgent,
		`SELECT`+agentColumns+` FROM agents WHERE api_key = $1`, apiKey)
}

func (s *pg) GetByUsernameNormalized(ctx context.Context, username string) (*domain.Agent, error) {
	return store.One(ctx, s.q, scanAgent,
		`SELECT`+agentColumns+` FROM agents WHERE username_normalized = $1`, username)
}

func (s *pg) SetAcceptedTos(ctx context.Context, id, version string) error {
	return store.ExecOne(ctx, s.q,
		`UPDATE agents SET accepted_tos_version = $2 WHERE agent_id = $1`, id, version)
}

func (s *pg) TouchLastActive(ctx context.Context, id string) error {
	_, err := s.q.Exec(ctx,
		`UPDATE agents SET last_active_at = now() WHERE agent_id = $1`, id)
	return err
}

func (s *pg) UpdateReputation(ctx context.Context, id string, reputation int64, flags, tier int) error {
	return store.ExecOne(ctx, s.q, `
		UPDATE agents
		SET reputation = $2, flags = $3, trust_tier = $4
		WHERE agent_id = $1`,
		id, reputation, flags, tier)
}

func (s *pg) UpdateRateState(ctx context.Context, id string, answersToday int, resetAt time.Time, tier int) error {
	return store.ExecOne(ctx, s.q, `
		UPDATE agents
		SET answers_today = $2, answers_today_reset_at = $3, trust_tier = $4
		WHERE agent_id = $1`,
		id, answersToday, resetAt, tier)
}

func (s *pg) IncrementAnswersToday(ctx context.Context, id string) error {
	return store.ExecOne(ctx, s.q,
		`UPDATE agents SET answers_today = answers_today + 1 WHERE agent_id = $1`, id)
}
