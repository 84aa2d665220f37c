package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"filerepo/internal/apperr"
	"filerepo/internal/config"
)

// GenAIProvider embeds text through the google.golang.org/genai SDK.
type GenAIProvider struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
	timeout time.Duration
	log     *zap.Logger
}

// NewGenAI creates a Gemini API client. BaseURL, when set, overrides the
// SDK endpoint.
func NewGenAI(ctx context.Context, cfg config.EmbeddingConfig, log *zap.Logger) (*GenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embedding api key is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	if cfg.GenAIBaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.GenAIBaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}
	return &GenAIProvider{
		client:  client,
		model:   cfg.Model,
		limiter: newLimiter(cfg),
		timeout: timeoutOf(cfg),
		log:     log,
	}, nil
}

func (p *GenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, apperr.Provider("rate_limit", 0, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	res, err := p.client.Models.EmbedContent(ctx, p.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, apperr.Provider("embed", apiErr.Code, err)
		}
		return nil, apperr.Provider("embed", 0, err)
	}
	if res == nil || len(res.Embeddings) == 0 || res.Embeddings[0] == nil || len(res.Embeddings[0].Values) == 0 {
		return nil, apperr.Provider("decode", 0, errors.New("no embedding returned"))
	}
	return res.Embeddings[0].Values, nil
}
