// Package recorder implements click attribution and quiz-completion
// recording for tracking links.
//
// Both operations follow the same shape: verify, look up, append an
// immutable event, apply an idempotent status transition, persist the
// snapshot before acknowledging. The recorder never mutates campaign
// state on a failed signature, an unknown target, or an invalid
// transition, and a failed persist means the operation did not happen.
//
// Concurrent recordings against the same campaign are serialized with a
// Locker keyed by campaign id; the storage gateway is whole-snapshot
// load/replace and would otherwise lose updates.
package recorder
