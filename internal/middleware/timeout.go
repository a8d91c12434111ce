package middleware

import (
	"net/http"
	"time"
)

// DefaultRequestTimeout applies when Timeout is given a non-positive duration
const DefaultRequestTimeout = 30 * time.Second

const timeoutBody = `{"success":false,"error":"Service Unavailable","message":"Request timed out"}`

// Timeout bounds each request. The handler's context is cancelled at the
// deadline, which aborts any in-flight LLM call; the caller gets a 503.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, timeoutBody)
	}
}
