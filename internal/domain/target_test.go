package domain

import (
	"testing"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to TargetStatus
		want     bool
	}{
		{TargetQueued, TargetSent, true},
		{TargetQueued, TargetClicked, true},
		{TargetQueued, TargetBounced, true},
		{TargetQueued, TargetFailed, true},
		{TargetQueued, TargetCompletedQuiz, false},
		{TargetSent, TargetClicked, true},
		{TargetSent, TargetBounced, true},
		{TargetSent, TargetQueued, false},
		{TargetClicked, TargetCompletedQuiz, true},
		{TargetClicked, TargetClicked, false},
		{TargetCompletedQuiz, TargetClicked, false},
		{TargetBounced, TargetClicked, false},
		{TargetFailed, TargetClicked, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"alice@Example.COM", "alice@example.com", false},
		{"  bob@corp.io ", "bob@corp.io", false},
		{"MixedCase@Domain.Org", "MixedCase@domain.org", false},
		{"bad", "", true},
		{"@domain.com", "", true},
		{"user@", "", true},
		{"user@nodot", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeEmail(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeEmail(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewCampaignRejectsDuplicateTargets(t *testing.T) {
	dupes := [][]string{
		{"a@example.com", "a@example.com"},
		{"a@example.com", "A@EXAMPLE.COM"},
		// Local-part case difference only: same mailbox in practice.
		{"a@example.com", "A@example.com"},
	}
	for _, emails := range dupes {
		_, err := NewCampaign("Q3 drill", CompanyInfo{Name: "Acme"}, ScenarioInfo{Type: "invoice"}, emails)
		if err == nil {
			t.Errorf("expected duplicate target error for %v", emails)
		}
	}
}

func TestNewCampaignTargetsQueued(t *testing.T) {
	c, err := NewCampaign("Q3 drill", CompanyInfo{Name: "Acme"}, ScenarioInfo{Type: "invoice"},
		[]string{"a@example.com", "b@example.com"})
	if err != nil {
		t.Fatalf("NewCampaign: %v", err)
	}
	if c.Status != CampaignDraft {
		t.Fatalf("expected draft, got %s", c.Status)
	}
	if len(c.Targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(c.Targets))
	}
	ids := map[string]bool{}
	for _, tgt := range c.Targets {
		if tgt.Status != TargetQueued {
			t.Errorf("target %s status = %s, want queued", tgt.Email, tgt.Status)
		}
		if ids[tgt.ID] {
			t.Errorf("duplicate target id %s", tgt.ID)
		}
		ids[tgt.ID] = true
	}
}
