// Package embedding turns text into vectors through a remote model.
package embedding

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"filerepo/internal/config"
)

// Provider embeds one text chunk into one vector.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewProvider builds the provider named by cfg.Provider.
func NewProvider(ctx context.Context, cfg config.EmbeddingConfig, log *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case "", "rest":
		return NewREST(cfg, &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}, log)
	case "genai":
		return NewGenAI(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

func newLimiter(cfg config.EmbeddingConfig) *rate.Limiter {
	if cfg.RateLimit <= 0 {
		return nil
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
}

func timeoutOf(cfg config.EmbeddingConfig) time.Duration {
	if cfg.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(cfg.TimeoutSec) * time.Second
}
