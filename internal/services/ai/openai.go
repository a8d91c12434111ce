package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 60 * time.Second
)

// OpenAIProvider implements TextGenerator using OpenAI's chat completions API
type OpenAIProvider struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string, model string) *OpenAIProvider {
	return NewOpenAIProviderWithLogger(apiKey, DefaultOpenAIBaseURL, model, nil, false)
}

// NewOpenAIProviderWithLogger creates a new OpenAI provider with logger support
func NewOpenAIProviderWithLogger(apiKey string, baseURL string, model string, logger *zap.Logger, debugMode bool) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &OpenAIProvider{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}
}

// Generate sends req as a system + user message pair
func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemInstruction != "" {
		messages = append(messages, openai.SystemMessage(req.SystemInstruction))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.model),
		Messages: messages,
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	p.logRequest(ctx, req)
	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params)
	latency := time.Since(start)
	if err != nil {
		p.logError(ctx, err, latency)
		if apiErr := ExtractAPIError("openai", err); apiErr != nil {
			return "", fmt.Errorf("openai generate: %w", apiErr)
		}
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoCandidates
	}
	content := resp.Choices[0].Message.Content
	p.logResponse(ctx, content, latency)
	return content, nil
}

func (p *OpenAIProvider) logRequest(ctx context.Context, req Request) {
	if p.logger == nil || !p.debugMode {
		return
	}
	p.logger.Debug("llm_api_request",
		zap.String("provider", "openai"),
		zap.String("model", p.model),
		zap.Bool("json_mode", req.JSON),
		zap.Int("prompt_length", len(req.Prompt)),
		zap.String("prompt_preview", SanitizePrompt(req.Prompt, true)),
		zap.String("client_id", ExtractClientID(ctx)),
		zap.String("request_id", ExtractRequestID(ctx)),
	)
}

func (p *OpenAIProvider) logError(ctx context.Context, err error, latency time.Duration) {
	if p.logger == nil || !p.debugMode {
		return
	}
	p.logger.Debug("llm_api_error",
		zap.String("provider", "openai"),
		zap.String("model", p.model),
		zap.Error(err),
		zap.String("client_id", ExtractClientID(ctx)),
		zap.String("request_id", ExtractRequestID(ctx)),
		zap.Int64("latency_ms", latency.Milliseconds()),
	)
}

func (p *OpenAIProvider) logResponse(ctx context.Context, content string, latency time.Duration) {
	if p.logger == nil || !p.debugMode {
		return
	}
	p.logger.Debug("llm_api_response",
		zap.String("provider", "openai"),
		zap.String("model", p.model),
		zap.Int("response_length", len(content)),
		zap.String("response_preview", SanitizeResponse(content, true)),
		zap.String("client_id", ExtractClientID(ctx)),
		zap.String("request_id", ExtractRequestID(ctx)),
		zap.Int64("latency_ms", latency.Milliseconds()),
	)
}

// RegisterOpenAI registers the OpenAI provider with the registry
func RegisterOpenAI(registry *ProviderRegistry) {
	registry.Register("openai", func(cfg ProviderConfig) (TextGenerator, error) {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai api_key is required")
		}
		return NewOpenAIProviderWithLogger(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Logger, cfg.DebugMode), nil
	})
}
