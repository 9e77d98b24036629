package domain

import "context"

// WriterPort creates questions
type WriterPort interface {
	Create(ctx context.Context, agentID string, in CreateInput) (*Question, error)
}

// ReaderPort serves question feeds and details
type ReaderPort interface {
	Unanswered(ctx context.Context, agentReputation int64, offset, limit int) ([]WithStats, error)
	Trending(ctx context.Context, offset, limit int) ([]Ranked, error)
	Details(ctx context.Context, questionID string) (*Details, error)
	ByUsername(ctx context.Context, username string, offset, limit int) ([]WithStats, error)
}

// ClaimPort is the first-writer-wins claim protocol
type ClaimPort interface {
	Claim(ctx context.Context, questionID, agentID string) (*Question, error)
}

// DuplicatePort folds a question into its canonical sibling
type DuplicatePort interface {
	MarkDuplicate(ctx context.Context, questionID, duplicateOfID string) (*Question, error)
}

// ExistencePort is consumed by the answers service
type ExistencePort interface {
	Get(ctx context.Context, questionID string) (*Question, error)
}
