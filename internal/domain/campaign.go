package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CampaignStatus enumerates the lifecycle states of a campaign.
// Campaign-level status is informational for the tracking core; it is
// driven by the hosting/sending layer, never by the recorders.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// Valid reports whether s is a known campaign status.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignDraft, CampaignActive, CampaignCompleted, CampaignCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if the campaign is in a final state.
func (c *Campaign) IsTerminal() bool {
	return c.Status == CampaignCompleted || c.Status == CampaignCancelled
}

// CompanyInfo describes the organization being impersonated in a
// simulation. It is content metadata only; nothing in the core branches
// on it.
type CompanyInfo struct {
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
	News    string `json:"news,omitempty"`
}

// Scenario template keys.
const (
	ScenarioCredentialTheft = "credential-theft"
	ScenarioInvoice         = "invoice"
	ScenarioShipping        = "shipping"
	ScenarioOAuthConsent    = "oauth-consent"
)

// ScenarioInfo describes the phishing pretext used for a campaign.
type ScenarioInfo struct {
	// Type is the scenario template key, one of the Scenario* constants.
	Type string `json:"type"`
	// Difficulty is a 1-5 scale used when rendering content.
	Difficulty int `json:"difficulty"`
}

// EmailContent holds the rendered simulation email for a campaign.
type EmailContent struct {
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	BodyText string `json:"body_text,omitempty"`
}

// Campaign is one phishing-simulation exercise: a target list plus the
// append-only event log recorded against it.
type Campaign struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Status   CampaignStatus `json:"status"`
	Company  CompanyInfo    `json:"company_info"`
	Scenario ScenarioInfo   `json:"scenario_info"`
	Email    *EmailContent  `json:"email_content,omitempty"`

	// Targets is ordered and unique by Target.ID. Targets are never
	// removed individually; they go away only with the campaign.
	Targets []*Target `json:"targets"`

	// Events is append-only. Insertion order is meaningful: first-click
	// queries rely on it.
	Events []Event `json:"events"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCampaign builds a draft campaign with freshly-created targets for
// the given addresses. Duplicate addresses (after normalization) are
// rejected so that target ids stay unique within the campaign.
func NewCampaign(name string, company CompanyInfo, scenario ScenarioInfo, emails []string) (*Campaign, error) {
	if name == "" {
		return nil, fmt.Errorf("campaign name is required")
	}
	now := time.Now().UTC()
	c := &Campaign{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    CampaignDraft,
		Company:   company,
		Scenario:  scenario,
		CreatedAt: now,
		UpdatedAt: now,
	}
	seen := make(map[string]bool, len(emails))
	for _, email := range emails {
		t, err := NewTarget(email)
		if err != nil {
			return nil, err
		}
		// Dedupe case-insensitively across the whole address: local
		// parts are case-sensitive per RFC but the same mailbox in
		// practice, and one recipient must not get two links.
		key := strings.ToLower(t.Email)
		if seen[key] {
			return nil, fmt.Errorf("duplicate target %s", t.Email)
		}
		seen[key] = true
		c.Targets = append(c.Targets, t)
	}
	return c, nil
}

// Target returns the target with the given id, or nil.
func (c *Campaign) Target(id string) *Target {
	for _, t := range c.Targets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// AppendEvent adds an immutable event to the end of the log.
func (c *Campaign) AppendEvent(e Event) {
	c.Events = append(c.Events, e)
}

// Touch bumps the modification timestamp.
func (c *Campaign) Touch() {
	c.UpdatedAt = time.Now().UTC()
}
