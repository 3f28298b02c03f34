package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// EventType tags entries in a campaign's event log.
type EventType string

const (
	EventClick          EventType = "click"
	EventQuizCompletion EventType = "quiz_completion"
)

// Event is an immutable audit record of recipient engagement. Click and
// quiz-completion events share the log; the Type field discriminates and
// the payload fields below it apply per type.
//
// Multiple click events may exist for one target (repeat visits). The
// target's status and click_ts reflect only the first accepted click.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"event_type"`
	TS          int64     `json:"ts"`
	CampaignID  string    `json:"campaign_id"`
	RecipientID string    `json:"recipient_id"`

	// Click payload. The raw IP is never stored, only its SHA-256.
	IPHash    string `json:"ip_hash,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`

	// Quiz payload.
	QuizScore *int              `json:"quiz_score,omitempty"`
	Answers   map[string]string `json:"quiz_answers,omitempty"`
}

// NewClickEvent builds a click event at time ts. ip may be empty.
func NewClickEvent(campaignID, recipientID, ip, userAgent string, ts time.Time) Event {
	e := Event{
		ID:          uuid.New().String(),
		Type:        EventClick,
		TS:          ts.Unix(),
		CampaignID:  campaignID,
		RecipientID: recipientID,
		UserAgent:   userAgent,
	}
	if ip != "" {
		e.IPHash = HashIP(ip)
	}
	return e
}

// NewQuizEvent builds a quiz-completion event at time ts.
func NewQuizEvent(campaignID, recipientID string, score int, answers map[string]string, ts time.Time) Event {
	return Event{
		ID:          uuid.New().String(),
		Type:        EventQuizCompletion,
		TS:          ts.Unix(),
		CampaignID:  campaignID,
		RecipientID: recipientID,
		QuizScore:   &score,
		Answers:     answers,
	}
}

// HashIP returns the hex SHA-256 of an IP address for privacy-safe
// storage in click events.
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// FirstClickTS returns the timestamp of the earliest click event for the
// given recipient, or nil if none exists. The event log is append-only
// and insertion-ordered, so the first match wins.
func (c *Campaign) FirstClickTS(recipientID string) *int64 {
	for i := range c.Events {
		e := &c.Events[i]
		if e.Type == EventClick && e.RecipientID == recipientID {
			ts := e.TS
			return &ts
		}
	}
	return nil
}

// ClicksFor returns all click events for the given recipient, in order.
func (c *Campaign) ClicksFor(recipientID string) []Event {
	var out []Event
	for _, e := range c.Events {
		if e.Type == EventClick && e.RecipientID == recipientID {
			out = append(out, e)
		}
	}
	return out
}

// QuizCompletionFor returns the most recent quiz-completion event for
// the given recipient, or nil.
func (c *Campaign) QuizCompletionFor(recipientID string) *Event {
	for i := len(c.Events) - 1; i >= 0; i-- {
		if c.Events[i].Type == EventQuizCompletion && c.Events[i].RecipientID == recipientID {
			e := c.Events[i]
			return &e
		}
	}
	return nil
}
