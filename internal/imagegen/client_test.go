package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestClient creates a Client pointing at a test HTTP server.
func newTestClient(server *httptest.Server) *Client {
	return &Client{
		accountID:  "acct-1",
		apiToken:   "test-token",
		model:      defaultModel,
		baseURL:    server.URL,
		httpClient: server.Client(),
	}
}

func TestGenerateRawBytes(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/accounts/acct-1/ai/run/"+defaultModel) {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected Authorization header: %s", got)
		}
		body, _ := io.ReadAll(r.Body)
		var req runRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		if req.Prompt != "minimalist illustration" {
			t.Errorf("unexpected prompt: %q", req.Prompt)
		}

		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}))
	defer server.Close()

	data, err := newTestClient(server).Generate(context.Background(), "minimalist illustration")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, png) {
		t.Errorf("image bytes altered in transit")
	}
}

func TestGenerateBase64Envelope(t *testing.T) {
	img := []byte("fake-image-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"result":  map[string]string{"image": base64.StdEncoding.EncodeToString(img)},
		})
	}))
	defer server.Close()

	data, err := newTestClient(server).Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, img) {
		t.Errorf("decoded image does not match original")
	}
}

func TestGenerateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"success":false,"errors":[{"code":10000,"message":"bad token"}]}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server).Generate(context.Background(), "p")
	if err == nil {
		t.Fatal("expected error for HTTP 401")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error should carry the status code, got %v", err)
	}
}

func TestGenerateErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"errors":  []map[string]any{{"code": 3030, "message": "prompt rejected"}},
		})
	}))
	defer server.Close()

	_, err := newTestClient(server).Generate(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "prompt rejected") {
		t.Fatalf("expected envelope error detail, got %v", err)
	}
}

func TestGenerateEmptyImageBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
	}))
	defer server.Close()

	if _, err := newTestClient(server).Generate(context.Background(), "p"); err == nil {
		t.Fatal("expected error for empty image body")
	}
}
