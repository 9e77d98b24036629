// Package service implements question feeds, claiming, and duplicate marking
package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"agora/internal/core/rank"
	"agora/internal/core/visibility"
	"agora/internal/modkit/repokit"
	perr "agora/internal/platform/errors"
	"agora/internal/platform/ident"
	"agora/internal/platform/logger"
	"agora/internal/platform/store"
	agentsdom "agora/internal/services/agents/domain"
	answersdom "agora/internal/services/answers/domain"
	"agora/internal/services/questions/domain"
	"agora/internal/services/questions/repo"
)

// Service implements the questions domain ports
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	agents agentsdom.ReaderPort
	log    logger.Logger
}

// New constructs the questions service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], agents agentsdom.ReaderPort, log logger.Logger) *Service {
	return &Service{db: db, binder: binder, agents: agents, log: log}
}

func (s *Service) storage() repo.Storage { return repokit.MustBind(s.binder, s.db) }

// Create implements domain.WriterPort; questions start pending
func (s *Service) Create(ctx context.Context, agentID string, in domain.CreateInput) (*domain.Question, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	if in.Title == "" {
		return nil, perr.WithField(perr.InvalidPayloadf("title is required"), "title")
	}
	if in.Body == "" {
		return nil, perr.WithField(perr.InvalidPayloadf("body is required"), "body")
	}
	if in.MinRequiredRep != nil && *in.MinRequiredRep < 0 {
		return nil, perr.WithField(perr.InvalidPayloadf("min_required_rep must not be negative"), "min_required_rep")
	}

	q := &domain.Question{
		ID:               ident.NewID(),
		Title:            in.Title,
		Body:             in.Body,
		Tags:             in.Tags,
		VisibilityStatus: visibility.StatusPending,
		MinRequiredRep:   in.MinRequiredRep,
		CreatedBy:        agentID,
		CreatedAt:        time.Now().UTC(),
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}

	if err := s.storage().Insert(ctx, q); err != nil {
		return nil, perr.FromPostgres(err, "create question")
	}
	return q, nil
}

// Unanswered implements domain.ReaderPort: questions visible to the
// given reputation with no live answer, newest first. The visibility
// predicate is applied here rather than in the query so the policy in
// core/visibility stays the single source of truth
func (s *Service) Unanswered(ctx context.Context, agentReputation int64, offset, limit int) ([]domain.WithStats, error) {
	rows, err := s.storage().ListWithStats(ctx, domain.ListFilter{Unanswered: true})
	if err != nil {
		return nil, perr.FromPostgres(err, "list unanswered")
	}

	visible := make([]domain.WithStats, 0, len(rows))
	for _, w := range rows {
		if visibility.VisibleTo(w.VisibilityStatus, w.MinRequiredRep, agentReputation) {
			visible = append(visible, w)
		}
	}
	return paginate(visible, offset, limit), nil
}

// Trending implements domain.ReaderPort. Scores come from core/rank;
// ties break newest first
func (s *Service) Trending(ctx context.Context, offset, limit int) ([]domain.Ranked, error) {
	rows, err := s.storage().ListWithStats(ctx, domain.ListFilter{})
	if err != nil {
		return nil, perr.FromPostgres(err, "list trending")
	}

	ranked := make([]domain.Ranked, 0, len(rows))
	for _, w := range rows {
		ranked = append(ranked, domain.Ranked{
			WithStats: w,
			Score: rank.TrendingScore(rank.Stats{
				Upvotes:         w.Upvotes,
				Downvotes:       w.Downvotes,
				ViewCount:       w.ViewCount,
				LiveAnswers:     w.LiveAnswers,
				AnswerNetVotes:  w.AnswerNetVotes,
				HasAcceptedLive: w.HasAcceptedLive,
			}),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
	})

	return paginate(ranked, offset, limit), nil
}

// Details implements domain.ReaderPort. Every fetch counts one view
func (s *Service) Details(ctx context.Context, questionID string) (*domain.Details, error) {
	st := s.storage()

	bumped, err := st.IncrementViewCount(ctx, questionID)
	if err != nil {
		return nil, perr.FromPostgres(err, "count view")
	}
	if !bumped {
		return nil, perr.Newf(perr.CodeQuestionNotFound, "question not found")
	}

	q, err := st.Get(ctx, questionID)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, perr.Newf(perr.CodeQuestionNotFound, "question not found")
		}
		return nil, perr.FromPostgres(err, "question details")
	}

	answers, err := st.AnswersFor(ctx, questionID)
	if err != nil {
		return nil, perr.FromPostgres(err, "question answers")
	}
	if answers == nil {
		answers = []answersdom.Answer{}
	}

	return &domain.Details{Question: *q, Answers: answers}, nil
}

// ByUsername implements domain.ReaderPort
func (s *Service) ByUsername(ctx context.Context, username string, offset, limit int) ([]domain.WithStats, error) {
	agent, err := s.agents.ByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	rows, err := s.storage().ListWithStats(ctx, domain.ListFilter{
		CreatedBy: agent.ID,
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		return nil, perr.FromPostgres(err, "questions by user")
	}
	return rows, nil
}

// Claim implements domain.ClaimPort via the storage conditional write.
// Losers of a race get already_claimed, never partial state
func (s *Service) Claim(ctx context.Context, questionID, agentID string) (*domain.Question, error) {
	st := s.storage()

	won, err := st.Claim(ctx, questionID, agentID)
	if err != nil {
		return nil, perr.FromPostgres(err, "claim question")
	}
	if !won {
		exists, err := st.Exists(ctx, questionID)
		if err != nil {
			return nil, perr.FromPostgres(err, "claim question")
		}
		if !exists {
			return nil, perr.Newf(perr.CodeQuestionNotFound, "question not found")
		}
		return nil, perr.Newf(perr.CodeAlreadyClaimed, "question is already claimed")
	}

	q, err := st.Get(ctx, questionID)
	if err != nil {
		return nil, perr.FromPostgres(err, "claim question")
	}
	return q, nil
}

// MarkDuplicate implements domain.DuplicatePort
func (s *Service) MarkDuplicate(ctx context.Context, questionID, duplicateOfID string) (*domain.Question, error) {
	if questionID == duplicateOfID {
		return nil, perr.WithField(
			perr.InvalidPayloadf("a question cannot be a duplicate of itself"),
			"duplicate_of_question_id")
	}

	st := s.storage()

	targetExists, err := st.Exists(ctx, duplicateOfID)
	if err != nil {
		return nil, perr.FromPostgres(err, "mark duplicate")
	}
	if !targetExists {
		return nil, perr.Newf(perr.CodeDuplicateTargetNotFound, "canonical question not found")
	}

	marked, err := st.MarkDuplicate(ctx, questionID, duplicateOfID)
	if err != nil {
		return nil, perr.FromPostgres(err, "mark duplicate")
	}
	if !marked {
		return nil, perr.Newf(perr.CodeQuestionNotFound, "question not found")
	}

	q, err := st.Get(ctx, questionID)
	if err != nil {
		return nil, perr.FromPostgres(err, "mark duplicate")
	}
	return q, nil
}

// Get implements domain.ExistencePort for the answers service
func (s *Service) Get(ctx context.Context, questionID string) (*domain.Question, error) {
	q, err := s.storage().Get(ctx, questionID)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, perr.Newf(perr.CodeQuestionNotFound, "question not found")
		}
		return nil, perr.FromPostgres(err, "question by id")
	}
	return q, nil
}

func paginate[T any](xs []T, offset, limit int) []T {
	if offset >= len(xs) {
		return []T{}
	}
	xs = xs[offset:]
	if limit > 0 && limit < len(xs) {
		xs = xs[:limit]
	}
	return xs
}
