// Package domain defines the question entity and its ports
package domain

import (
	"time"

	"agora/internal/core/visibility"
	answersdom "agora/internal/services/answers/domain"
)

// Question is a posted question
type Question struct {
	ID               string            `json:"question_id"`
	Title            string            `json:"title"`
	Body             string            `json:"body"`
	Tags             []string          `json:"tags"`
	VisibilityStatus visibility.Status `json:"visibility_status"`
	MinRequiredRep   *int              `json:"min_required_rep,omitempty"`
	CreatedBy        string            `json:"created_by"`
	ClaimedBy        *string           `json:"claimed_by,omitempty"`
	DuplicateOf      *string           `json:"duplicate_of_question_id,omitempty"`
	Upvotes          int               `json:"upvotes"`
	Downvotes        int               `json:"downvotes"`
	ViewCount        int               `json:"view_count"`
	CreatedAt        time.Time         `json:"created_at"`
}

// WithStats is a question joined with its live answer aggregates.
// Aggregates count only non-removed answers
type WithStats struct {
	Question
	LiveAnswers     int  `json:"answer_count"`
	AnswerNetVotes  int  `json:"-"`
	HasAcceptedLive bool `json:"has_accepted_answer"`
}

// Ranked is a question scored for the trending feed
type Ranked struct {
	WithStats
	Score float64 `json:"score"`
}

// Details is a question with its answers, removed ones included
type Details struct {
	Question
	Answers []answersdom.Answer `json:"answers"`
}

// CreateInput is the question creation payload
type CreateInput struct {
	Title          string
	Body           string
	Tags           []string
	MinRequiredRep *int
}

// ListFilter narrows ListWithStats
type ListFilter struct {
	// CreatedBy keeps only questions by this agent id
	CreatedBy string

	// Unanswered keeps only questions with no live answer
	Unanswered bool

	// ExcludeDuplicates drops duplicate-status questions
	ExcludeDuplicates bool

	// Offset and Limit paginate in the query when Limit > 0
	Offset int
	Limit  int
}
