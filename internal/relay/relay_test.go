package relay

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"autoposts/internal/store"
)

type failingStore struct{ err error }

func (f *failingStore) Put(context.Context, string, []byte) error { return f.err }
func (f *failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, f.err
}

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRelayServesStoredBytes(t *testing.T) {
	mem := store.NewMemory()
	img := []byte{0x89, 'P', 'N', 'G', 0, 1, 2, 3}
	if err := mem.Put(context.Background(), "img/1700000000", img); err != nil {
		t.Fatal(err)
	}

	rec := serve(NewHandler(mem), "/image/img/1700000000")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("unexpected content type: %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), img) {
		t.Errorf("body differs from stored bytes: %v", rec.Body.Bytes())
	}
}

func TestRelayEmptyKey(t *testing.T) {
	rec := serve(NewHandler(store.NewMemory()), "/image/")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRelayNilStore(t *testing.T) {
	rec := serve(NewHandler(nil), "/image/img/123")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestRelayMissingKey(t *testing.T) {
	rec := serve(NewHandler(store.NewMemory()), "/image/img/999")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestRelayStoreError(t *testing.T) {
	h := NewHandler(&failingStore{err: errors.New("connection reset")})
	rec := serve(h, "/image/img/123")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
