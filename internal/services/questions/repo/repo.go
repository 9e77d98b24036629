// Package repo provides the Postgres repository for questions
package repo

import (
	"context"

	"agora/internal/modkit/repokit"
	"agora/internal/platform/store"
	answersdom "agora/internal/services/answers/domain"
	"agora/internal/services/questions/domain"

	sq "github.com/Masterminds/squirrel"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the questions repository
type Storage interface {
	Insert(ctx context.Context, q *domain.Question) error
	Get(ctx context.Context, id string) (*domain.Question, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListWithStats(ctx context.Context, f domain.ListFilter) ([]domain.WithStats, error)
	AnswersFor(ctx context.Context, questionID string) ([]answersdom.Answer, error)
	IncrementViewCount(ctx context.Context, id string) (bool, error)
	Claim(ctx context.Context, id, agentID string) (bool, error)
	MarkDuplicate(ctx context.Context, id, duplicateOfID string) (bool, error)
}

type pg struct{ q repokit.Queryer }

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const questionColumns = `
	question_id, title, body, tags, visibility_status, min_required_rep,
	created_by, claimed_by, duplicate_of, upvotes, downvotes, view_count, created_at`

func scanQuestion(r store.Row) (*domain.Question, error) {
	var q domain.Question
	err := r.Scan(
		&q.ID, &q.Title, &q.Body, &q.Tags, &q.VisibilityStatus, &q.MinRequiredRep,
		&q.CreatedBy, &q.ClaimedBy, &q.DuplicateOf, &q.Upvotes, &q.Downvotes, &q.ViewCount, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *pg) Insert(ctx context.Context, q *domain.Question) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO questions (
			question_id, title, body, tags, visibility_status, min_required_rep,
			created_by, claimed_by, duplicate_of, upvotes, downvotes, view_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		q.ID, q.Title, q.Body, q.Tags, q.VisibilityStatus, q.MinRequiredRep,
		q.CreatedBy, q.ClaimedBy, q.DuplicateOf, q.Upvotes, q.Downvotes, q.ViewCount, q.CreatedAt,
	)
	return err
}

func (s *pg) Get(ctx context.Context, id string) (*domain.Question, error) {
	return store.One(ctx, s.q, scanQuestion,
		`SELECT`+questionColumns+` FROM questions WHERE question_id = $1`, id)
}

func (s *pg) Exists(ctx context.Context, id string) (bool, error) {
	return store.Scalar[bool](ctx, s.q,
		`SELECT EXISTS (SELECT 1 FROM questions WHERE question_id = $1)`, id)
}

// ListWithStats joins questions with their live answer aggregates.
// Only non-removed answers count toward the aggregates
func (s *pg) ListWithStats(ctx context.Context, f domain.ListFilter) ([]domain.WithStats, error) {
	qb := psql.Select(
		"q.question_id", "q.title", "q.body", "q.tags", "q.visibility_status", "q.min_required_rep",
		"q.created_by", "q.claimed_by", "q.duplicate_of", "q.upvotes", "q.downvotes", "q.view_count", "q.created_at",
		"COALESCE(st.live, 0)", "COALESCE(st.net, 0)", "COALESCE(st.acc, FALSE)",
	).
		From("questions q").
		LeftJoin(`(
			SELECT question_id,
			       count(*) AS live,
			       COALESCE(sum(upvotes - downvotes), 0) AS net,
			       bool_or(accepted) AS acc
			FROM answers
			WHERE NOT is_removed
			GROUP BY question_id
		) st ON st.question_id = q.question_id`).
		OrderBy("q.created_at DESC", "q.question_id DESC")

	if f.CreatedBy != "" {
		qb = qb.Where(sq.Eq{"q.created_by": f.CreatedBy})
	}
	if f.ExcludeDuplicates {
		qb = qb.Where(sq.NotEq{"q.visibility_status": "duplicate"})
	}
	if f.Unanswered {
		qb = qb.Where("COALESCE(st.live, 0) = 0")
	}
	if f.Limit > 0 {
		qb = qb.Limit(uint64(f.Limit))
		if f.Offset > 0 {
			qb = qb.Offset(uint64(f.Offset))
		}
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, err
	}

	return store.Many(ctx, s.q, func(r store.Row) (domain.WithStats, error) {
		var w domain.WithStats
		err := r.Scan(
			&w.ID, &w.Title, &w.Body, &w.Tags, &w.VisibilityStatus, &w.MinRequiredRep,
			&w.CreatedBy, &w.ClaimedBy, &w.DuplicateOf, &w.Upvotes, &w.Downvotes, &w.ViewCount, &w.CreatedAt,
			&w.LiveAnswers, &w.AnswerNetVotes, &w.HasAcceptedLive,
		)
		return w, err
	}, sql, args...)
}

func (s *pg) AnswersFor(ctx context.Context, questionID string) ([]answersdom.Answer, error) {
	return store.Many(ctx, s.q, func(r store.Row) (answersdom.Answer, error) {
		var a answersdom.Answer
		err := r.Scan(
			&a.ID, &a.QuestionID, &a.AgentID, &a.Body,
			&a.Upvotes, &a.Downvotes, &a.Accepted, &a.IsRemoved, &a.CreatedAt,
		)
		return a, err
	}, `
		SELECT answer_id, question_id, agent_id, body,
		       upvotes, downvotes, accepted, is_removed, created_at
		FROM answers
		WHERE question_id = $1
		ORDER BY created_at`, questionID)
}

func (s *pg) IncrementViewCount(ctx context.Context, id string) (bool, error) {
	t, err := s.q.Exec(ctx,
		`UPDATE questions SET view_count = view_count + 1 WHERE question_id = $1`, id)
	if err != nil {
		return false, err
	}
	return t.RowsAffected() == 1, nil
}

// Claim is the one conditional write in the system: the question is
// assigned only while claimed_by is still null, so concurrent claims
// have exactly one winner
func (s *pg) Claim(ctx context.Context, id, agentID string) (bool, error) {
	t, err := s.q.Exec(ctx, `
		UPDATE questions
		SET claimed_by = $2
		WHERE question_id = $1 AND claimed_by IS NULL`,
		id, agentID)
	if err != nil {
		return false, err
	}
	return t.RowsAffected() == 1, nil
}

func (s *pg) MarkDuplicate(ctx context.Context, id, duplicateOfID string) (bool, error) {
	t, err := s.q.Exec(ctx, `
		UPDATE questions
		SET visibility_status = 'duplicate', duplicate_of = $2
		WHERE question_id = $1`,
		id, duplicateOfID)
	if err != nil {
		return false, err
	}
	return t.RowsAffected() == 1, nil
}
