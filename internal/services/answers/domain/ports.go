package domain

import "context"

// CreateInput is the answer creation payload
type CreateInput struct {
	QuestionID string
	Body       string
}

// WriterPort creates answers
type WriterPort interface {
	Create(ctx context.Context, agentID string, in CreateInput) (*Answer, error)
}

// ModerationPort drives the vote/accept/flag workflow
type ModerationPort interface {
	Upvote(ctx context.Context, answerID string) (*Answer, error)
	Downvote(ctx context.Context, answerID string) (*Answer, error)
	Accept(ctx context.Context, requesterID, answerID string) (*Answer, error)
	Flag(ctx context.Context, answerID string) (*Answer, error)
}
