package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultGeminiModel is the model the web app was built against
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider implements TextGenerator using the Gemini API
type GeminiProvider struct {
	client    *genai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewGeminiProvider creates a Gemini provider. baseURL is only needed to
// point at a proxy or a test server.
func NewGeminiProvider(ctx context.Context, apiKey, baseURL, model string, logger *zap.Logger, debugMode bool) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api_key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}, nil
}

// Generate sends req with its system instruction and returns the joined text parts
func (p *GeminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	config := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}

	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_request",
			zap.String("provider", "gemini"),
			zap.String("model", p.model),
			zap.Bool("json_mode", req.JSON),
			zap.Int("prompt_length", len(req.Prompt)),
			zap.String("prompt_preview", SanitizePrompt(req.Prompt, true)),
			zap.String("client_id", ExtractClientID(ctx)),
			zap.String("request_id", ExtractRequestID(ctx)),
		)
	}

	start := time.Now()
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), config)
	latency := time.Since(start)
	if err != nil {
		if p.logger != nil && p.debugMode {
			p.logger.Debug("llm_api_error",
				zap.String("provider", "gemini"),
				zap.String("model", p.model),
				zap.Error(err),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		if apiErr := ExtractAPIError("gemini", err); apiErr != nil {
			return "", fmt.Errorf("gemini generate: %w", apiErr)
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}

	text := resp.Text()
	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("provider", "gemini"),
			zap.String("model", p.model),
			zap.Int("response_length", len(text)),
			zap.String("response_preview", SanitizeResponse(text, true)),
			zap.String("client_id", ExtractClientID(ctx)),
			zap.String("request_id", ExtractRequestID(ctx)),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}
	return text, nil
}

// RegisterGemini registers the Gemini provider with the registry
func RegisterGemini(registry *ProviderRegistry) {
	registry.Register("gemini", func(cfg ProviderConfig) (TextGenerator, error) {
		return NewGeminiProvider(context.Background(), cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Logger, cfg.DebugMode)
	})
}
