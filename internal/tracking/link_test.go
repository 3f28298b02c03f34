package tracking

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerateCanonicalFormat(t *testing.T) {
	s := NewSigner("k")
	g := NewLinkGenerator(s, "http://x/track")

	got, err := g.Generate("C1", "T1", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := "http://x/track?track=1&cid=C1&rid=T1&sig=" + s.Sign("C1", "T1")
	if got != want {
		t.Fatalf("Generate = %s, want %s", got, want)
	}
}

func TestGenerateStable(t *testing.T) {
	g := NewLinkGenerator(NewSigner("secret"), "https://phish.example.com/t")
	a, err := g.Generate("C1", "T1", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, _ := g.Generate("C1", "T1", nil)
	if a != b {
		t.Fatalf("regenerated link differs: %s vs %s", a, b)
	}
}

func TestGenerateExtraParams(t *testing.T) {
	g := NewLinkGenerator(NewSigner("k"), "http://x/track")
	got, err := g.Generate("C1", "T1", map[string]string{
		"utm_source":   "email",
		"utm_campaign": "q3 drill",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// Extras follow the signature, sorted, query-encoded.
	if !strings.Contains(got, "&sig=") {
		t.Fatalf("missing sig: %s", got)
	}
	tail := got[strings.Index(got, "&sig=")+5+64:]
	if tail != "&utm_campaign=q3+drill&utm_source=email" {
		t.Fatalf("unexpected extras tail %q", tail)
	}
}

func TestGenerateInvalidIdentifiers(t *testing.T) {
	g := NewLinkGenerator(NewSigner("k"), "http://x/track")
	bad := []struct{ cid, rid string }{
		{"", "T1"},
		{"C1", ""},
		{"C 1", "T1"},
		{"C1", "T/1"},
		{"C1|x", "T1"},
		{"C1&rid=evil", "T1"},
		{"C1", "T1#frag"},
	}
	for _, tt := range bad {
		_, err := g.Generate(tt.cid, tt.rid, nil)
		if !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("Generate(%q, %q) error = %v, want ErrInvalidIdentifier", tt.cid, tt.rid, err)
		}
	}
}

func TestValidIdentifier(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"9c55a79d-6a4e-4b2b-9f0e-1a2b3c4d5e6f", true},
		{"abc.DEF_123~x-", true},
		{"", false},
		{"has space", false},
		{"pipe|pipe", false},
		{"slash/slash", false},
	}
	for _, tt := range tests {
		if got := ValidIdentifier(tt.id); got != tt.want {
			t.Errorf("ValidIdentifier(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
