// Package service implements answer posting, voting, acceptance, and flagging
package service

import (
	"context"
	"strings"
	"time"

	"agora/internal/modkit/repokit"
	perr "agora/internal/platform/errors"
	"agora/internal/platform/ident"
	"agora/internal/platform/logger"
	"agora/internal/platform/store"
	agentsdom "agora/internal/services/agents/domain"
	"agora/internal/services/answers/domain"
	"agora/internal/services/answers/repo"
	questionsdom "agora/internal/services/questions/domain"
)

// Service implements the answers domain ports
type Service struct {
	db        repokit.TxRunner
	binder    repokit.Binder[repo.Storage]
	questions questionsdom.ExistencePort
	ledger    agentsdom.LedgerPort
	counter   agentsdom.CounterPort
	log       logger.Logger
}

// New constructs the answers service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[repo.Storage],
	questions questionsdom.ExistencePort,
	ledger agentsdom.LedgerPort,
	counter agentsdom.CounterPort,
	log logger.Logger,
) *Service {
	return &Service{db: db, binder: binder, questions: questions, ledger: ledger, counter: counter, log: log}
}

func (s *Service) storage() repo.Storage { return repokit.MustBind(s.binder, s.db) }

// Create implements domain.WriterPort. The daily counter bump is best
// effort: once the answer exists it stays even if the bump fails
func (s *Service) Create(ctx context.Context, agentID string, in domain.CreateInput) (*domain.Answer, error) {
	in.Body = strings.TrimSpace(in.Body)
	if in.Body == "" {
		return nil, perr.WithField(perr.InvalidPayloadf("body is required"), "body")
	}

	if _, err := s.questions.Get(ctx, in.QuestionID); err != nil {
		return nil, err
	}

	a := &domain.Answer{
		ID:         ident.NewID(),
		QuestionID: in.QuestionID,
		AgentID:    agentID,
		Body:       in.Body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.storage().Insert(ctx, a); err != nil {
		return nil, perr.FromPostgres(err, "create answer")
	}

	if err := s.counter.IncrementAnswersToday(ctx, agentID); err != nil {
		s.log.Warn().Err(err).Str("agent_id", agentID).Msg("daily answer counter bump failed")
	}
	return a, nil
}

// Upvote implements domain.ModerationPort
func (s *Service) Upvote(ctx context.Context, answerID string) (*domain.Answer, error) {
	a, err := s.mutate(ctx, answerID, s.storage().IncrementUpvotes)
	if err != nil {
		return nil, err
	}
	s.ledger.ApplyDelta(ctx, a.AgentID, domain.UpvoteRepDelta, 0)
	return a, nil
}

// Downvote implements domain.ModerationPort
func (s *Service) Downvote(ctx context.Context, answerID string) (*domain.Answer, error) {
	a, err := s.mutate(ctx, answerID, s.storage().IncrementDownvotes)
	if err != nil {
		return nil, err
	}
	s.ledger.ApplyDelta(ctx, a.AgentID, domain.DownvoteRepDelta, 0)
	return a, nil
}

// Accept implements domain.ModerationPort. Only the question author may
// accept, and acceptance does not clear earlier accepted answers
func (s *Service) Accept(ctx context.Context, requesterID, answerID string) (*domain.Answer, error) {
	st := s.storage()

	a, err := st.Get(ctx, answerID)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, perr.Newf(perr.CodeAnswerNotFound, "answer not found")
		}
		return nil, perr.FromPostgres(err, "accept answer")
	}

	q, err := s.questions.Get(ctx, a.QuestionID)
	if err != nil {
		return nil, err
	}
	if q.CreatedBy != requesterID {
		return nil, perr.Forbiddenf("only the question author can accept an answer")
	}

	a, err = st.SetAccepted(ctx, answerID)
	if err != nil {
		return nil, perr.FromPostgres(err, "accept answer")
	}
	s.ledger.ApplyDelta(ctx, a.AgentID, domain.AcceptRepDelta, 0)
	return a, nil
}

// Flag implements domain.ModerationPort. Flagging an already removed
// answer still charges the author
func (s *Service) Flag(ctx context.Context, answerID string) (*domain.Answer, error) {
	a, err := s.mutate(ctx, answerID, s.storage().SetRemoved)
	if err != nil {
		return nil, err
	}
	s.ledger.ApplyDelta(ctx, a.AgentID, domain.FlagRepDelta, domain.FlagStrikeDelta)
	return a, nil
}

func (s *Service) mutate(
	ctx context.Context,
	answerID string,
	op func(context.Context, string) (*domain.Answer, error),
) (*domain.Answer, error) {
	a, err := op(ctx, answerID)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, perr.Newf(perr.CodeAnswerNotFound, "answer not found")
		}
		return nil, perr.FromPostgres(err, "update answer")
	}
	return a, nil
}
