// Package visibility decides which questions an agent may see.
// Pure policy, no I/O
package visibility

// Status is the question lifecycle state
type Status string

const (
	// StatusPending is the initial state of every question
	StatusPending Status = "pending"

	// StatusPublic is set by moderation outside this system
	StatusPublic Status = "public"

	// StatusDuplicate marks a question folded into another
	StatusDuplicate Status = "duplicate"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPublic, StatusDuplicate:
		return true
	}
	return false
}

// VisibleTo reports whether a question with the given status and
// reputation gate can be shown to an agent with the given reputation.
// Public questions are always visible; pending ones only when the gate
// is unset or met; duplicates never
func VisibleTo(status Status, minRequiredRep *int, agentReputation int64) bool {
	switch status {
	case StatusPublic:
		return true
	case StatusPending:
		return minRequiredRep == nil || agentReputation >= int64(*minRequiredRep)
	default:
		return false
	}
}
