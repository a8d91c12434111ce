package middleware

import (
	"mime"
	"net/http"
)

// ContentType rejects request bodies that are not JSON. Several POST routes
// (start analysis, continue setup, confirm tour) carry no body and pass
// without a Content-Type.
func ContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hasBody(r) {
			ct := r.Header.Get("Content-Type")
			if ct == "" {
				respondErrorJSON(w, r, http.StatusBadRequest, "Bad Request", "Content-Type header is required", nil)
				return
			}
			if mediaType, _, err := mime.ParseMediaType(ct); err != nil || mediaType != "application/json" {
				respondErrorJSON(w, r, http.StatusUnsupportedMediaType, "Unsupported Media Type", "Content-Type must be application/json", nil)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}
	return r.ContentLength > 0 || (r.ContentLength == -1 && len(r.TransferEncoding) > 0)
}
