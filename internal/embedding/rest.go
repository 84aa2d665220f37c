package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"filerepo/internal/apperr"
	"filerepo/internal/config"
)

const maxErrorBody = 512

// RESTProvider calls the Gemini embedContent endpoint directly.
type RESTProvider struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	timeout time.Duration
	log     *zap.Logger
}

// NewREST returns a provider posting to {BaseURL}/models/{Model}:embedContent.
func NewREST(cfg config.EmbeddingConfig, client *http.Client, log *zap.Logger) (*RESTProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embedding api key is required")
	}
	if cfg.BaseURL == "" || cfg.Model == "" {
		return nil, fmt.Errorf("embedding base url and model are required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RESTProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   strings.TrimPrefix(cfg.Model, "models/"),
		apiKey:  cfg.APIKey,
		client:  client,
		limiter: newLimiter(cfg),
		timeout: timeoutOf(cfg),
		log:     log,
	}, nil
}

type embedRequest struct {
	Model   string       `json:"model"`
	Content embedContent `json:"content"`
}

type embedContent struct {
	Parts []embedPart `json:"parts"`
}

type embedPart struct {
	Text string `json:"text"`
}

type embedValues struct {
	Values []float32 `json:"values"`
}

// embedResponse accepts the current batch shape and the legacy single shape.
type embedResponse struct {
	Embeddings []embedValues `json:"embeddings"`
	Embedding  *embedValues  `json:"embedding"`
}

func (p *RESTProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, apperr.Provider("rate_limit", 0, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	body, err := json.Marshal(embedRequest{
		Model:   "models/" + p.model,
		Content: embedContent{Parts: []embedPart{{Text: text}}},
	})
	if err != nil {
		return nil, apperr.Provider("encode", 0, err)
	}

	url := fmt.Sprintf("%s/models/%s:embedContent", p.baseURL, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Provider("request", 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperr.Provider("embed", 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Provider("embed", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.log.Warn("embedding request rejected",
			zap.Int("status", resp.StatusCode),
			zap.Duration("latency", time.Since(start)))
		return nil, apperr.Provider("embed", resp.StatusCode, errors.New(truncate(string(raw), maxErrorBody)))
	}

	var out embedResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperr.Provider("decode", resp.StatusCode, err)
	}
	switch {
	case len(out.Embeddings) > 0 && len(out.Embeddings[0].Values) > 0:
		return out.Embeddings[0].Values, nil
	case out.Embedding != nil && len(out.Embedding.Values) > 0:
		return out.Embedding.Values, nil
	default:
		return nil, apperr.Provider("decode", resp.StatusCode, errors.New("unrecognized embedding response"))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
