package request

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		wantIP  string
	}{
		{"x-forwarded-for", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "", "1.2.3.4"},
		{"x-forwarded-for first", map[string]string{"X-Forwarded-For": " 1.2.3.4 , 5.6.7.8 "}, "", "1.2.3.4"},
		{"x-real-ip", map[string]string{"X-Real-IP": "9.9.9.9"}, "", "9.9.9.9"},
		{"remote addr", nil, "10.0.0.1:12345", "10.0.0.1:12345"},
		{"xff over xri", map[string]string{"X-Forwarded-For": "1.2.3.4", "X-Real-IP": "9.9.9.9"}, "", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if tt.remote != "" {
				r.RemoteAddr = tt.remote
			}
			got := ClientIP(r)
			if got != tt.wantIP {
				t.Errorf("ClientIP() = %q, want %q", got, tt.wantIP)
			}
		})
	}
}

func TestClientIDFromContext(t *testing.T) {
	t.Parallel()
	ctx := WithClientID(context.Background(), "3f0c9a8e-5a53-4c4e-a8b8-f3a9a4c1d2e7")
	r := httptest.NewRequest("GET", "/", nil).WithContext(ctx)
	if got := ClientIDFromContext(r); got != "3f0c9a8e-5a53-4c4e-a8b8-f3a9a4c1d2e7" {
		t.Errorf("ClientIDFromContext() = %q", got)
	}
}

func TestClientIDFromContext_Missing(t *testing.T) {
	t.Parallel()
	r := httptest.NewRequest("GET", "/", nil)
	if got := ClientIDFromContext(r); got != "" {
		t.Errorf("ClientIDFromContext() = %q, want empty", got)
	}
}

func TestClientIDFromContext_WrongType(t *testing.T) {
	t.Parallel()
	ctx := context.WithValue(context.Background(), ClientIDContextKey(), 42)
	r := httptest.NewRequest("GET", "/", nil).WithContext(ctx)
	if got := ClientIDFromContext(r); got != "" {
		t.Errorf("ClientIDFromContext() = %q, want empty when wrong type", got)
	}
}
