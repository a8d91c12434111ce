package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrRateLimited indicates the API rate limit was exceeded
	ErrRateLimited = errors.New("rate limited")
	// ErrQuotaExceeded indicates the API quota was exceeded
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrNoCandidates is returned when the API answers without any choice or candidate
	ErrNoCandidates = errors.New("no candidates in response")
)

// APIError is a provider failure with the details both SDKs put in their
// error strings. The analysis falls back to the copyable prompt on any of
// these, so the fields only feed logs and metrics.
type APIError struct {
	Provider   string
	StatusCode int
	Status     string // gemini status, e.g. RESOURCE_EXHAUSTED
	Type       string // openai error type
	Code       string // openai error code
	Message    string
	// IsPermanent marks quota exhaustion, which no retry will fix
	IsPermanent bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d, type %s): %s", e.Provider, e.StatusCode, e.kind(), e.Message)
}

func (e *APIError) kind() string {
	switch {
	case e.Type != "":
		return e.Type
	case e.Status != "":
		return e.Status
	default:
		return "unknown"
	}
}

// IsRateLimitError reports a 429 from either provider. Quota exhaustion
// arrives as a 429 too and counts here as well unless already classified
// as permanent.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 && !apiErr.IsPermanent
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "resource_exhausted")
}

// IsQuotaError reports exhausted credits or billing problems
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsPermanent || apiErr.Code == "insufficient_quota"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "insufficient_quota") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "billing")
}

var (
	// openai-go: `POST "https://...": 429 Too Many Requests {...}`
	openAIStatus = regexp.MustCompile(`": (\d{3}) `)
	// genai: `Error 429, Message: ..., Status: RESOURCE_EXHAUSTED, Details: [...]`
	geminiError = regexp.MustCompile(`Error (\d{3}), Message: (.*?), Status: ([A-Z_]+)`)
)

// ExtractAPIError parses a rate limit or quota failure out of an SDK error.
// It returns nil for anything else, leaving the original error as is.
func ExtractAPIError(provider string, err error) *APIError {
	if err == nil {
		return nil
	}
	msg := err.Error()
	apiErr := &APIError{Provider: provider, Message: msg}

	if m := geminiError.FindStringSubmatch(msg); m != nil {
		apiErr.StatusCode, _ = strconv.Atoi(m[1])
		apiErr.Message = m[2]
		apiErr.Status = m[3]
		apiErr.IsPermanent = strings.Contains(strings.ToLower(m[2]), "quota")
	} else {
		if m := openAIStatus.FindStringSubmatch(msg); m != nil {
			apiErr.StatusCode, _ = strconv.Atoi(m[1])
		} else if strings.Contains(msg, "429") {
			apiErr.StatusCode = 429
		}
		if start, end := strings.Index(msg, "{"), strings.LastIndex(msg, "}"); start != -1 && end > start {
			var body struct {
				Message string `json:"message"`
				Type    string `json:"type"`
				Code    string `json:"code"`
			}
			if json.Unmarshal([]byte(msg[start:end+1]), &body) == nil {
				apiErr.Message = body.Message
				apiErr.Type = body.Type
				apiErr.Code = body.Code
				apiErr.IsPermanent = body.Code == "insufficient_quota"
			}
		}
	}

	if apiErr.StatusCode != 429 {
		return nil
	}
	return apiErr
}
