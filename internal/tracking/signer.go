// Package tracking implements signed tracking-link generation and
// verification for simulation campaigns. A link binds a campaign id and
// a recipient id with an HMAC so it cannot be forged or reassigned to a
// different recipient.
package tracking

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signer produces and verifies the MAC carried in tracking URLs.
// It is a pure function of its inputs plus the configured secret;
// safe for concurrent use.
//
// An empty or short secret is a configuration error that must be caught
// before construction (config.Validate does this) — the Signer itself
// never fails open.
type Signer struct {
	key []byte
}

// NewSigner creates a signer with the given process-wide secret.
func NewSigner(secret string) *Signer {
	return &Signer{key: []byte(secret)}
}

// Sign computes the lowercase hex HMAC-SHA256 over "{cid}|{rid}".
// Deterministic: the same inputs always yield the same signature, so a
// regenerated link never invalidates a previously-sent one.
func (s *Signer) Sign(campaignID, recipientID string) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(campaignID + "|" + recipientID))
	return hex.EncodeToString(h.Sum(nil))
}

// Verify recomputes the signature and compares in constant time.
// Returns false for malformed input, never an error.
func (s *Signer) Verify(campaignID, recipientID, signature string) bool {
	expected := s.Sign(campaignID, recipientID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
