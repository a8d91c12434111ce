package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/benvon/roda-da-vida/internal/request"
)

// ClientID resolves the X-Client-ID header. A missing or malformed id is
// replaced by a fresh UUID; the id in use is always echoed back.
func ClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get(request.ClientIDHeader))
		if err != nil {
			id = uuid.New()
		}
		w.Header().Set(request.ClientIDHeader, id.String())
		next.ServeHTTP(w, r.WithContext(request.WithClientID(r.Context(), id.String())))
	})
}
