// Package ident mints entity identifiers and API credentials
package ident

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID returns a 32-char lowercase hex id (uuid without dashes)
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// NewAPIKey returns an opaque URL-safe credential, unpadded base64 over uuid bytes
func NewAPIKey() string {
	u := uuid.New()
	return base64.RawURLEncoding.EncodeToString(u[:])
}
