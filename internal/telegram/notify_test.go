package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestNotifier creates a Notifier pointing at a test HTTP server.
func newTestNotifier(server *httptest.Server) *Notifier {
	return &Notifier{
		token:      "bot-token",
		chatID:     "chat-1",
		baseURL:    server.URL,
		httpClient: server.Client(),
	}
}

func TestNotifySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/botbot-token/sendMessage") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var req sendMessageRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("body is not JSON: %v", err)
		}
		if req.ChatID != "chat-1" || req.Text != "hola" || req.ParseMode != "HTML" {
			t.Errorf("unexpected payload: %+v", req)
		}
		if !req.DisableWebPagePreview {
			t.Error("expected disable_web_page_preview")
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	if !newTestNotifier(server).Notify(context.Background(), "hola") {
		t.Error("expected Notify to report success")
	}
}

func TestNotifyRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusForbidden)
	}))
	defer server.Close()

	if newTestNotifier(server).Notify(context.Background(), "hola") {
		t.Error("expected Notify to report failure on 403")
	}
}

func TestNotifyUnconfigured(t *testing.T) {
	if NewNotifier("", "").Notify(context.Background(), "hola") {
		t.Error("unconfigured notifier must report false")
	}
	var nilNotifier *Notifier
	if nilNotifier.Notify(context.Background(), "hola") {
		t.Error("nil notifier must report false")
	}
}

func TestEscapeHTML(t *testing.T) {
	got := EscapeHTML(`<b>a & b</b>`)
	want := "&lt;b&gt;a &amp; b&lt;/b&gt;"
	if got != want {
		t.Errorf("EscapeHTML = %q, want %q", got, want)
	}
}
