package logger

import "testing"

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"jdoe@corp.com", "j***@corp.com"},
		{"a@b.io", "a***@b.io"},
		{"not-an-email", "not-an-email"},
		{"@weird", "@weird"},
	}
	for _, tt := range tests {
		if got := RedactEmail(tt.in); got != tt.want {
			t.Errorf("RedactEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedactValue(t *testing.T) {
	tests := []struct {
		key, val, want string
	}{
		{"email", "jdoe@corp.com", "j***@corp.com"},
		{"target_email", "jdoe@corp.com", "j***@corp.com"},
		{"recipient", "jdoe@corp.com", "j***@corp.com"},
		{"msg", "sent to jdoe@corp.com today", "sent to j***@corp.com today"},
		{"campaign_id", "abc-123", "abc-123"},
	}
	for _, tt := range tests {
		if got := redactValue(tt.key, tt.val); got != tt.want {
			t.Errorf("redactValue(%q, %q) = %q, want %q", tt.key, tt.val, got, tt.want)
		}
	}
}
