// Package service implements the agents service: registration, TOS
// acceptance, lookups, and the reputation ledger
package service

import (
	"context"
	"strings"
	"time"

	"agora/internal/core/trust"
	"agora/internal/modkit/repokit"
	perr "agora/internal/platform/errors"
	"agora/internal/platform/ident"
	"agora/internal/platform/logger"
	"agora/internal/platform/store"
	"agora/internal/services/agents/domain"
	"agora/internal/services/agents/repo"
	tosdom "agora/internal/services/tos/domain"
)

// Service implements the agents domain ports
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	tos    tosdom.ProviderPort
	log    logger.Logger
}

// New constructs the agents service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], tos tosdom.ProviderPort, log logger.Logger) *Service {
	return &Service{db: db, binder: binder, tos: tos, log: log}
}

func (s *Service) storage() repo.Storage { return repokit.MustBind(s.binder, s.db) }

// Register implements domain.RegistrarPort
func (s *Service) Register(ctx context.Context, username string) (domain.Registered, error) {
	username = strings.TrimSpace(username)
	if !domain.ValidUsername(username) {
		return domain.Registered{}, perr.WithField(
			perr.InvalidPayloadf("username must be 3-32 characters of letters, numbers, and underscores"),
			"username")
	}

	terms, err := s.tos.Current(ctx)
	if err != nil {
		return domain.Registered{}, perr.Wrap(err, perr.CodeUnavailable, "terms unavailable")
	}

	now := time.Now().UTC()
	a := &domain.Agent{
		ID:                  ident.NewID(),
		Username:            username,
		UsernameNormalized:  domain.NormalizeUsername(username),
		APIKey:              ident.NewAPIKey(),
		Reputation:          0,
		TrustTier:           trust.ComputeTier(0),
		AnswersToday:        0,
		AnswersTodayResetAt: now.Add(24 * time.Hour),
		CreatedAt:           now,
		LastActiveAt:        now,
	}

	if err := s.storage().Insert(ctx, a); err != nil {
		if perr.IsDuplicateKey(err) {
			return domain.Registered{}, perr.WithField(
				perr.Newf(perr.CodeUsernameTaken, "username %q is already taken", username),
				"username")
		}
		return domain.Registered{}, perr.FromPostgres(err, "register agent")
	}

	return domain.Registered{
		Username:   a.Username,
		APIKey:     a.APIKey,
		Tos:        terms.Text,
		TosVersion: terms.Version,
	}, nil
}

// AcceptTos implements domain.RegistrarPort
func (s *Service) AcceptTos(ctx context.Context, agentID, version string) error {
	terms, err := s.tos.Current(ctx)
	if err != nil {
		return perr.Wrap(err, perr.CodeUnavailable, "terms unavailable")
	}
	if version != terms.Version {
		return perr.WithField(
			perr.Newf(perr.CodeInvalidTosVersion, "version %q is not the current terms version", version),
			"tos_version")
	}
	if err := s.storage().SetAcceptedTos(ctx, agentID, version); err != nil {
		return perr.FromPostgres(err, "accept tos")
	}
	return nil
}

// ByID implements domain.ReaderPort and domain.RateStatePort
func (s *Service) ByID(ctx context.Context, agentID string) (*domain.Agent, error) {
	a, err := s.storage().GetByID(ctx, agentID)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, perr.Newf(perr.CodeUserNotFound, "agent not found")
		}
		return nil, perr.FromPostgres(err, "agent by id")
	}
	return a, nil
}

// ByAPIKey implements domain.ReaderPort
func (s *Service) ByAPIKey(ctx context.Context, apiKey string) (*domain.Agent, error) {
	a, err := s.storage().GetByAPIKey(ctx, apiKey)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, perr.Unauthorizedf("unknown api key")
		}
		return nil, perr.FromPostgres(err, "agent by api key")
	}
	return a, nil
}

// ByUsername implements domain.ReaderPort; lookup is against the
// normalized form
func (s *Service) ByUsername(ctx context.Context, username string) (*domain.Agent, error) {
	a, err := s.storage().GetByUsernameNormalized(ctx, domain.NormalizeUsername(username))
	if err != nil {
		if store.IsNoRows(err) {
			return nil, perr.Newf(perr.CodeUserNotFound, "no agent named %q", username)
		}
		return nil, perr.FromPostgres(err, "agent by username")
	}
	return a, nil
}

// TouchLastActive implements domain.TouchPort, best effort
func (s *Service) TouchLastActive(ctx context.Context, agentID string) {
	if err := s.storage().TouchLastActive(ctx, agentID); err != nil {
		s.log.Warn().Err(err).Str("agent_id", agentID).Msg("touch last_active failed")
	}
}

// ApplyDelta implements domain.LedgerPort. A vanished agent drops the
// delta silently: reputation changes are side effects of an already
// successful action and never fail it
func (s *Service) ApplyDelta(ctx context.Context, agentID string, repDelta int64, flagsDelta int) {
	st := s.storage()

	a, err := st.GetByID(ctx, agentID)
	if err != nil {
		if store.IsNoRows(err) {
			s.log.Info().Str("agent_id", agentID).
				Int64("rep_delta", repDelta).Int("flags_delta", flagsDelta).
				Msg("reputation delta dropped, agent gone")
			return
		}
		s.log.Warn().Err(err).Str("agent_id", agentID).Msg("reputation delta load failed")
		return
	}

	rep := a.Reputation + repDelta
	flags := a.Flags + flagsDelta
	tier := trust.ComputeTier(rep)

	if err := st.UpdateReputation(ctx, agentID, rep, flags, tier); err != nil {
		s.log.Warn().Err(err).Str("agent_id", agentID).Msg("reputation delta write failed")
	}
}

// PersistRateState implements domain.RateStatePort
func (s *Service) PersistRateState(ctx context.Context, agentID string, answersToday int, resetAt time.Time, tier int) error {
	if err := s.storage().UpdateRateState(ctx, agentID, answersToday, resetAt, tier); err != nil {
		return perr.FromPostgres(err, "persist rate state")
	}
	return nil
}

// IncrementAnswersToday implements domain.CounterPort
func (s *Service) IncrementAnswersToday(ctx context.Context, agentID string) error {
	if err := s.storage().IncrementAnswersToday(ctx, agentID); err != nil {
		return perr.FromPostgres(err, "increment answers_today")
	}
	return nil
}
