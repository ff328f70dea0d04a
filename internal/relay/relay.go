// Package relay serves stored images over HTTP so the Meta crawlers can
// fetch them by public URL.
package relay

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"autoposts/internal/metrics"
	"autoposts/internal/store"
)

const contentType = "image/png"

// Handler relays blobs from the store, keyed by URL path. It holds no
// per-request state and is safe for concurrent use.
type Handler struct {
	store store.Store
}

func NewHandler(s store.Store) *Handler {
	return &Handler{store: s}
}

// ServeHTTP handles GET /image/<key>. The key is everything after the
// prefix, taken verbatim.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/image/")
	if key == "" {
		metrics.RelayRequests.WithLabelValues("bad_request").Inc()
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if h.store == nil {
		metrics.RelayRequests.WithLabelValues("unavailable").Inc()
		http.Error(w, "Storage not configured", http.StatusServiceUnavailable)
		return
	}

	data, err := h.store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RelayRequests.WithLabelValues("not_found").Inc()
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		metrics.RelayRequests.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("key", key).Msg("Failed to read image from store")
		http.Error(w, "Error reading image", http.StatusInternalServerError)
		return
	}

	metrics.RelayRequests.WithLabelValues("ok").Inc()
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
