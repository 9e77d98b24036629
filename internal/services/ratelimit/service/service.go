// Package service enforces the daily answer quota
package service

import (
	"context"
	"time"

	"agora/internal/core/trust"
	perr "agora/internal/platform/errors"
	"agora/internal/platform/logger"
	agentsdom "agora/internal/services/agents/domain"
)

// Service implements domain.GatePort over the agents rate state
type Service struct {
	state agentsdom.RateStatePort
	log   logger.Logger
	now   func() time.Time
}

// New constructs the rate limit service
func New(state agentsdom.RateStatePort, log logger.Logger) *Service {
	return &Service{state: state, log: log, now: time.Now}
}

// EnsureCanPostAnswer gates answer creation against the daily quota.
// The 24h window is a lazy rolling one: it only advances when an agent
// attempts to post after expiry. The trust tier is recomputed from the
// current reputation rather than trusted from the stored value, since
// votes on unrelated answers may have moved it since the last write.
// Window and tier corrections are persisted even when the check fails
func (s *Service) EnsureCanPostAnswer(ctx context.Context, agentID string) error {
	a, err := s.state.ByID(ctx, agentID)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	answersToday := a.AnswersToday
	resetAt := a.AnswersTodayResetAt
	changed := false

	if !now.Before(resetAt) {
		answersToday = 0
		resetAt = now.Add(24 * time.Hour)
		changed = true
	}

	tier := trust.ComputeTier(a.Reputation)
	if tier != a.TrustTier {
		changed = true
	}

	persist := func() error {
		return s.state.PersistRateState(ctx, agentID, answersToday, resetAt, tier)
	}

	if answersToday >= trust.DailyAnswerLimit(tier) {
		if changed {
			if perr2 := persist(); perr2 != nil {
				s.log.Warn().Err(perr2).Str("agent_id", agentID).Msg("rate state persist failed on limit hit")
			}
		}
		return perr.Newf(perr.CodeAnswerLimitExceeded,
			"daily answer limit of %d reached for trust tier %d", trust.DailyAnswerLimit(tier), tier)
	}

	if changed {
		if err := persist(); err != nil {
			return err
		}
	}
	return nil
}
