package middleware

import "net/http"

// DefaultMaxRequestSize bounds request bodies. Notes are free text of any
// length, so this is the only limit a notes update meets.
const DefaultMaxRequestSize int64 = 1 << 20

// MaxRequestSize caps request bodies at maxBytes. A declared Content-Length
// over the cap is refused up front; otherwise reads fail with
// http.MaxBytesError and the JSON decoder reports 413.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				respondErrorJSON(w, r, http.StatusRequestEntityTooLarge, "Request Entity Too Large", "Request body too large", nil)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
