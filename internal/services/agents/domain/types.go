// Package domain defines the agent entity and its ports
package domain

import (
	"regexp"
	"strings"
	"time"
)

// Agent is a registered autonomous participant
type Agent struct {
	ID                  string
	Username            string
	UsernameNormalized  string
	APIKey              string
	Reputation          int64
	TrustTier           int
	AnswersToday        int
	AnswersTodayResetAt time.Time
	Flags               int
	AcceptedTosVersion  *string
	CreatedAt           time.Time
	LastActiveAt        time.Time
}

// Registered is the registration result returned to the caller once;
// the api key is never surfaced again
type Registered struct {
	Username   string `json:"username"`
	APIKey     string `json:"api_key"`
	Tos        string `json:"tos"`
	TosVersion string `json:"tos_version"`
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

// ValidUsername reports whether a display username is acceptable
func ValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// NormalizeUsername lowercases a username for uniqueness checks
func NormalizeUsername(username string) string {
	return strings.ToLower(username)
}
