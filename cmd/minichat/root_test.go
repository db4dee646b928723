package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newStubServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/message", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true,"reply":"Hello! 👋 How can I help you today?"}`))
	})
	mux.HandleFunc("/api/history", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("user_id") != "ana" {
			w.Write([]byte(`{"ok":true,"history":[]}`))
			return
		}
		w.Write([]byte(`{"ok":true,"history":[{"text":"hi","sender":"user"},{"text":"hello","sender":"bot"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("MINICHAT_LOG_FILE", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return out.String()
}

func TestSendCommand(t *testing.T) {
	srv := newStubServer(t)
	out := runCLI(t, "send", "--base-url", srv.URL, "hi", "there")

	want := "you > hi there\nbot > Hello! 👋 How can I help you today?\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestHistoryCommand(t *testing.T) {
	srv := newStubServer(t)

	out := runCLI(t, "history", "--base-url", srv.URL, "--user", "ana")
	if out != "you > hi\nbot > hello\n" {
		t.Fatalf("unexpected history output %q", out)
	}

	out = runCLI(t, "history", "--base-url", srv.URL)
	if out != "bot > No history yet. Say hi! 👋\n" {
		t.Fatalf("unexpected empty history output %q", out)
	}
}

func TestSendCommand_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	out := runCLI(t, "send", "--base-url", url, "hi")
	if out != "you > hi\nbot > Network error. Please try again.\n" {
		t.Fatalf("unexpected output %q", out)
	}
}
