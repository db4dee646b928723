package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"minichat/internal/chatapi"
	"minichat/internal/domain"
	"minichat/internal/repository"
	"minichat/internal/service"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewMessageService(repository.NewMemoryMessageRepository())
	return NewRouter(zap.NewNop(), NewChatHandler(zap.NewNop(), svc))
}

func postMessage(t *testing.T, r http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/message", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return rec, out
}

func TestPostMessage_Echo(t *testing.T) {
	r := setupRouter()
	rec, out := postMessage(t, r, `{"message":"  hi  ","user_id":"ana"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if out["ok"] != true || out["reply"] != "You said: hi" {
		t.Fatalf("unexpected body %+v", out)
	}
	if ct := rec.Header().Get("Content-Type"); ct == "" {
		t.Fatalf("expected content type")
	}
}

func TestPostMessage_EmptyMessage(t *testing.T) {
	r := setupRouter()
	rec, out := postMessage(t, r, `{"message":"   ","user_id":"ana"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if out["ok"] != false || out["error"] != "Empty message" {
		t.Fatalf("unexpected body %+v", out)
	}
}

func TestPostMessage_InvalidJSON(t *testing.T) {
	r := setupRouter()
	rec, out := postMessage(t, r, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if out["ok"] != false || out["error"] != "Invalid JSON" {
		t.Fatalf("unexpected body %+v", out)
	}
}

func TestGetHistory(t *testing.T) {
	r := setupRouter()
	postMessage(t, r, `{"message":"hi","user_id":" ana "}`)
	postMessage(t, r, `{"message":"other","user_id":""}`)

	req := httptest.NewRequest(http.MethodGet, "/api/history?user_id=ana", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out struct {
		OK      bool           `json:"ok"`
		History []historyEntry `json:"history"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !out.OK || len(out.History) != 2 {
		t.Fatalf("unexpected history %+v", out)
	}
	if out.History[0].Sender != domain.SenderUser || out.History[0].Text != "hi" {
		t.Fatalf("unexpected first entry %+v", out.History[0])
	}
	if out.History[1].Sender != domain.SenderBot || out.History[1].Text != "You said: hi" {
		t.Fatalf("unexpected second entry %+v", out.History[1])
	}
	if out.History[0].TS == "" {
		t.Fatalf("expected timestamp")
	}
}

func TestGetHistory_EmptyIsList(t *testing.T) {
	r := setupRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Body.String() != `{"history":[],"ok":true}` {
		t.Fatalf("expected empty history list, got %s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	r := setupRouter()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

type recordingWindow struct {
	bubbles []domain.ChatMessage
}

func (w *recordingWindow) Append(msg domain.ChatMessage) { w.bubbles = append(w.bubbles, msg) }
func (w *recordingWindow) Clear() { w.bubbles = nil }

type fixedForm struct {
	message string
	userID  string
}

func (f *fixedForm) Message() string { return f.message }
func (f *fixedForm) ClearMessage() { f.message = "" }
func (f *fixedForm) UserID() string { return f.userID }

func TestClientAgainstStubServer(t *testing.T) {
	srv := httptest.NewServer(setupRouter())
	defer srv.Close()

	win := &recordingWindow{}
	form := &fixedForm{userID: "e2e"}
	ctrl := service.NewChatController(chatapi.NewHTTPClient(srv.URL, 0, nil), win, form, func(work func() func()) { work()() }, nil)
	ctx := context.Background()

	ctrl.LoadHistory(ctx)
	if len(win.bubbles) != 1 || win.bubbles[0].Text != domain.EmptyHistoryText {
		t.Fatalf("expected placeholder, got %+v", win.bubbles)
	}

	form.message = "hello"
	ctrl.SendMessage(ctx)
	if len(win.bubbles) != 3 || win.bubbles[2].Text != "You said: hello" {
		t.Fatalf("expected echo reply, got %+v", win.bubbles)
	}

	ctrl.LoadHistory(ctx)
	want := []domain.ChatMessage{
		{Text: "hello", Sender: domain.SenderUser},
		{Text: "You said: hello", Sender: domain.SenderBot},
	}
	if len(win.bubbles) != len(want) {
		t.Fatalf("expected %d bubbles, got %+v", len(want), win.bubbles)
	}
	for i := range want {
		if win.bubbles[i] != want[i] {
			t.Fatalf("bubble %d: expected %+v, got %+v", i, want[i], win.bubbles[i])
		}
	}
}
