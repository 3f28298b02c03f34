package campaign

import "errors"

// Sentinel errors for the campaign service layer.
var (
	ErrNotFound          = errors.New("campaign not found")
	ErrTargetNotFound    = errors.New("target not found")
	ErrInvalidTransition = errors.New("invalid target status transition")
	ErrNoTargets         = errors.New("campaign has no targets")
)
