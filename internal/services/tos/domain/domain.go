// Package domain defines the types and policy for terms of service
package domain

import "context"

// Terms is the current terms of service text and its version
type Terms struct {
	Version string `json:"tos_version"`
	Text    string `json:"tos"`
}

// ProviderPort serves the current terms
type ProviderPort interface {
	Current(ctx context.Context) (Terms, error)
}

// IsAccepted reports whether an accepted version satisfies the current one.
// Byte-equality is the contract: no normalization, no semver comparison.
// An agent who accepted an older version is never implicitly compliant
func IsAccepted(accepted *string, current string) bool {
	return accepted != nil && *accepted == current
}
