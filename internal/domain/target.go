package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TargetStatus enumerates the lifecycle of a single simulation recipient.
//
// The happy path is queued -> sent -> clicked -> completed-quiz. Bounced
// and failed are terminal side-branches reachable only from queued/sent,
// assigned by the sending collaborator, never by the recorders.
type TargetStatus string

const (
	TargetQueued        TargetStatus = "queued"
	TargetSent          TargetStatus = "sent"
	TargetBounced       TargetStatus = "bounced"
	TargetClicked       TargetStatus = "clicked"
	TargetCompletedQuiz TargetStatus = "completed-quiz"
	TargetFailed        TargetStatus = "failed"
)

// transitions is the single source of truth for allowed status moves.
var transitions = map[TargetStatus][]TargetStatus{
	TargetQueued:  {TargetSent, TargetBounced, TargetClicked, TargetFailed},
	TargetSent:    {TargetBounced, TargetClicked, TargetFailed},
	TargetClicked: {TargetCompletedQuiz},
}

// Valid reports whether s is a known target status.
func (s TargetStatus) Valid() bool {
	switch s {
	case TargetQueued, TargetSent, TargetBounced, TargetClicked, TargetCompletedQuiz, TargetFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the move s -> next is allowed.
func (s TargetStatus) CanTransitionTo(next TargetStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SentOrLater reports whether the email for this target reached the
// recipient: sent, clicked, or completed-quiz.
func (s TargetStatus) SentOrLater() bool {
	return s == TargetSent || s == TargetClicked || s == TargetCompletedQuiz
}

// ClickedOrLater reports whether the target clicked the tracking link.
func (s TargetStatus) ClickedOrLater() bool {
	return s == TargetClicked || s == TargetCompletedQuiz
}

// Target is one simulated-phishing recipient within a campaign.
type Target struct {
	ID     string       `json:"id"`
	Email  string       `json:"email"`
	Status TargetStatus `json:"status"`

	// SendTS and ClickTS are epoch seconds, each set exactly once.
	SendTS  *int64 `json:"send_ts,omitempty"`
	ClickTS *int64 `json:"click_ts,omitempty"`

	// TrackURL is the signed tracking URL issued for this target.
	// Generated once at campaign creation, stable for the target's life.
	TrackURL string `json:"track_url,omitempty"`

	// MessageID is the provider message id reported by the sender.
	MessageID string `json:"message_id,omitempty"`

	QuizScore *int   `json:"quiz_score,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewTarget creates a queued target with a fresh id and a validated,
// normalized email address.
func NewTarget(email string) (*Target, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	return &Target{
		ID:     uuid.New().String(),
		Email:  normalized,
		Status: TargetQueued,
	}, nil
}

// NormalizeEmail validates an address and lower-cases its domain part.
// The local part is preserved as given (it can be case-sensitive).
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if len(email) < 3 || len(email) > 254 {
		return "", fmt.Errorf("invalid email %q", email)
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", fmt.Errorf("invalid email %q", email)
	}
	local, dom := email[:at], strings.ToLower(email[at+1:])
	if len(local) > 64 || !strings.Contains(dom, ".") || strings.ContainsAny(email, " \t") {
		return "", fmt.Errorf("invalid email %q", email)
	}
	return local + "@" + dom, nil
}
