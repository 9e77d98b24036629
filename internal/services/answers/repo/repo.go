// Package repo provides the Postgres repository for answers
package repo

import (
	"context"

	"agora/internal/modkit/repokit"
	"agora/internal/platform/store"
	"agora/internal/services/answers/domain"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the answers repository. The mutators return the
// updated row so callers never read stale vote counts
type Storage interface {
	Insert(ctx context.Context, a *domain.Answer) error
	Get(ctx context.Context, id string) (*domain.Answer, error)
	IncrementUpvotes(ctx context.Context, id string) (*domain.Answer, error)
	IncrementDownvotes(ctx context.Context, id string) (*domain.Answer, error)
	SetAccepted(ctx context.Context, id string) (*domain.Answer, error)
	SetRemoved(ctx context.Context, id string) (*domain.Answer, error)
}

type pg struct{ q repokit.Queryer }

const answerColumns = `
	answer_id, question_id, agent_id, body, upvotes, downvotes, accepted, is_removed, created_at`

func scanAnswer(r store.Row) (*domain.Answer, error) {
	var a domain.Answer
	err := r.Scan(
		&a.ID, &a.QuestionID, &a.AgentID, &a.Body,
		&a.Upvotes, &a.Downvotes, &a.Accepted, &a.IsRemoved, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *pg) Insert(ctx context.Context, a *domain.Answer) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO answers (
			answer_id, question_id, agent_id, body, upvotes, downvotes, accepted, is_removed, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.QuestionID, a.AgentID, a.Body,
		a.Upvotes, a.Downvotes, a.Accepted, a.IsRemoved, a.CreatedAt,
	)
	return err
}

func (s *pg) Get(ctx context.Context, id string) (*domain.Answer, error) {
	return store.One(ctx, s.q, scanAnswer,
		`SELECT`+answerColumns+` FROM answers WHERE answer_id = $1`, id)
}

func (s *pg) IncrementUpvotes(ctx context.Context, id string) (*domain.Answer, error) {
	return store.One(ctx, s.q, scanAnswer,
		`UPDATE answers SET upvotes = upvotes + 1 WHERE answer_id = $1 RETURNING`+answerColumns, id)
}

func (s *pg) IncrementDownvotes(ctx context.Context, id string) (*domain.Answer, error) {
	return store.One(ctx, s.q, scanAnswer,
		`UPDATE answers SET downvotes = downvotes + 1 WHERE answer_id = $1 RETURNING`+answerColumns, id)
}

func (s *pg) SetAccepted(ctx context.Context, id string) (*domain.Answer, error) {
	return store.One(ctx, s.q, scanAnswer,
		`UPDATE answers SET accepted = TRUE WHERE answer_id = $1 RETURNING`+answerColumns, id)
}

func (s *pg) SetRemoved(ctx context.Context, id string) (*domain.Answer, error) {
	return store.One(ctx, s.q, scanAnswer,
		`UPDATE answers SET is_removed = TRUE WHERE answer_id = $1 RETURNING`+answerColumns, id)
}
