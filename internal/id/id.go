// Package id generates the prefixed identifiers and opaque tokens used across the server.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Entity prefixes.
const (
	PrefixHousehold      = "hh"
	PrefixMember         = "mem"
	PrefixInvitation     = "inv"
	PrefixShow           = "show"
	PrefixTag            = "tag"
	PrefixRecommendation = "rec"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "show-V1StGXR8_Z5jdHi6B-myT").
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// NewToken returns a random token for invitation links.
func NewToken() string {
	return uuid.NewString()
}
