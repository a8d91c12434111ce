package ai

import (
	"context"

	"go.uber.org/zap"
)

// Request is a single-turn generation request
type Request struct {
	Prompt            string
	SystemInstruction string
	Temperature       *float64
	// JSON asks the provider to answer with JSON only
	JSON bool
}

// TextGenerator is the interface for AI providers
type TextGenerator interface {
	// Generate sends one prompt and returns the model's text. An empty string
	// is a valid answer.
	Generate(ctx context.Context, req Request) (string, error)
}

// ProviderConfig carries what a factory needs to build a provider
type ProviderConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	Logger    *zap.Logger
	DebugMode bool
}

// ProviderFactory creates an AI provider based on the provider type
type ProviderFactory func(cfg ProviderConfig) (TextGenerator, error)

// ProviderRegistry stores available AI providers
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]ProviderFactory),
	}
}

// DefaultRegistry has every built-in provider registered
func DefaultRegistry() *ProviderRegistry {
	r := NewProviderRegistry()
	RegisterGemini(r)
	RegisterOpenAI(r)
	RegisterStatic(r)
	return r
}

// Register registers a provider factory
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// GetProvider gets a provider by name
func (r *ProviderRegistry) GetProvider(name string, cfg ProviderConfig) (TextGenerator, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}

	return factory(cfg)
}

// ErrProviderNotFound is returned when a provider is not found
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "AI provider not found: " + e.Name
}

// Float returns a pointer to v, for Request.Temperature
func Float(v float64) *float64 {
	return &v
}
