package recorder

import "errors"

// Sentinel errors for the recorder service. All of them mean "no state
// was mutated"; persistence failures are wrapped separately and carry
// their cause.
var (
	// ErrInvalidSignature marks a tampered or cross-assigned tracking
	// URL. Security-relevant: hosts should log it distinctly and never
	// retry.
	ErrInvalidSignature = errors.New("invalid tracking signature")

	// ErrUnknownTarget marks a campaign or recipient id that does not
	// exist, typically a stale link.
	ErrUnknownTarget = errors.New("unknown campaign or recipient")

	// ErrInvalidState marks a transition the state machine forbids,
	// e.g. quiz completion for a target that never clicked. It can
	// indicate signature reuse and deserves distinct logging.
	ErrInvalidState = errors.New("invalid target state for transition")

	// ErrInvalidScore marks a quiz score outside [0, max].
	ErrInvalidScore = errors.New("quiz score out of range")
)
