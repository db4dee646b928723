package domain

import "testing"

func TestNormalizeUserID(t *testing.T) {
	cases := map[string]string{
		"":         "guest",
		"   ":      "guest",
		" alice ":  "alice",
		"bob":      "bob",
		"\tcarl\n": "carl",
	}
	for in, want := range cases {
		if got := NormalizeUserID(in); got != want {
			t.Fatalf("NormalizeUserID(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestErrorBubbleText(t *testing.T) {
	if got := ErrorBubbleText("Empty message"); got != "Error: Empty message" {
		t.Fatalf("expected server reason, got %q", got)
	}
	if got := ErrorBubbleText(""); got != "Error: Unknown" {
		t.Fatalf("expected Unknown fallback, got %q", got)
	}
}

func TestSenderIsUser(t *testing.T) {
	if !SenderUser.IsUser() {
		t.Fatalf("expected user sender to be user")
	}
	for _, s := range []Sender{SenderBot, "", "system", "USER"} {
		if s.IsUser() {
			t.Fatalf("expected %q to render as bot", s)
		}
	}
}
