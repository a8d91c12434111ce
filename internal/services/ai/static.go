package ai

import (
	"context"
	"sync"
)

// StaticProvider answers every request with the same text. It backs the
// offline "static" provider and tests.
type StaticProvider struct {
	Text string
	// JSONText, when set, answers JSON-mode requests instead of Text
	JSONText string
	Err      error

	mu       sync.Mutex
	requests []Request
}

// Generate returns Text or Err
func (p *StaticProvider) Generate(ctx context.Context, req Request) (string, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.Err != nil {
		return "", p.Err
	}
	if req.JSON && p.JSONText != "" {
		return p.JSONText, nil
	}
	return p.Text, nil
}

// Requests returns the requests seen so far
func (p *StaticProvider) Requests() []Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Request(nil), p.requests...)
}

// offlineText is served by the static provider so the app works without keys
const offlineText = "Modo offline: nenhuma IA configurada. Copie o prompt e use no ChatGPT ou Claude."

// RegisterStatic registers the offline provider with the registry
func RegisterStatic(registry *ProviderRegistry) {
	registry.Register("static", func(ProviderConfig) (TextGenerator, error) {
		return &StaticProvider{Text: offlineText, JSONText: "[]"}, nil
	})
}
