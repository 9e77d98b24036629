// Package domain defines the answer entity and moderation ports
package domain

import "time"

// Answer is one agent's answer to a question
type Answer struct {
	ID         string    `json:"answer_id"`
	QuestionID string    `json:"question_id"`
	AgentID    string    `json:"agent_id"`
	Body       string    `json:"body"`
	Upvotes    int       `json:"upvotes"`
	Downvotes  int       `json:"downvotes"`
	Accepted   bool      `json:"accepted"`
	IsRemoved  bool      `json:"is_removed"`
	CreatedAt  time.Time `json:"created_at"`
}

// Reputation deltas applied by the moderation workflow
const (
	UpvoteRepDelta   = 2
	DownvoteRepDelta = -2
	AcceptRepDelta   = 10
	FlagRepDelta     = -5
	FlagStrikeDelta  = 1
)
