// Package index builds and queries the page-level embedding index of a file.
package index

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"filerepo/internal/apperr"
	"filerepo/internal/embedding"
	"filerepo/internal/metrics"
	"filerepo/internal/model"
	"filerepo/internal/repository"
	"filerepo/internal/vector"
)

const tracerName = "filerepo/internal/index"

// GenerateOptions tunes a Generate run.
type GenerateOptions struct {
	// Resume skips pages that already have a stored record.
	Resume bool
}

// GenerateResult reports how far a Generate run got. LastPage is the index
// of the last page persisted by this run, 0 if none.
type GenerateResult struct {
	Embedded int `json:"embedded"`
	Skipped  int `json:"skipped"`
	LastPage int `json:"last_page"`
}

// Index embeds page text and persists one vector per page.
type Index struct {
	provider embedding.Provider
	repo     repository.EmbeddingRepository
	metrics  *metrics.Metrics
	log      *zap.Logger
	tracer   trace.Tracer
}

// New wires an Index. m may be nil.
func New(provider embedding.Provider, repo repository.EmbeddingRepository, m *metrics.Metrics, log *zap.Logger) *Index {
	if log == nil {
		log = zap.NewNop()
	}
	return &Index{
		provider: provider,
		repo:     repo,
		metrics:  m,
		log:      log.With(zap.String("component", "index")),
		tracer:   otel.Tracer(tracerName),
	}
}

// Generate embeds pages one at a time, in order. Blank pages are skipped.
// On failure the pages persisted so far are kept and the result says how far it got.
func (ix *Index) Generate(ctx context.Context, fileID string, pages []model.PageText, opts GenerateOptions) (res GenerateResult, err error) {
	ctx, span := ix.tracer.Start(ctx, "index.generate", trace.WithAttributes(
		attribute.String("file.id", fileID),
		attribute.Int("pages", len(pages)),
		attribute.Bool("resume", opts.Resume),
	))
	defer func() {
		span.SetAttributes(attribute.Int("embedded", res.Embedded), attribute.Int("last_page", res.LastPage))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var existing map[int]struct{}
	if opts.Resume {
		existing, err = ix.repo.PageIndexes(ctx, fileID)
		if err != nil {
			return res, apperr.Storage("list_pages", fileID, err)
		}
	}

	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		text := strings.TrimSpace(p.Text)
		if text == "" {
			res.Skipped++
			continue
		}
		if _, done := existing[p.PageIndex]; done {
			res.Skipped++
			continue
		}

		vec, err := ix.embed(ctx, text)
		if err != nil {
			ix.log.Warn("embedding failed",
				zap.String("file_id", fileID),
				zap.Int("page", p.PageIndex),
				zap.Int("last_page", res.LastPage),
				zap.Error(err),
			)
			return res, fmt.Errorf("page %d: %w", p.PageIndex, err)
		}

		rec := &model.EmbeddingRecord{
			FileID:    fileID,
			PageIndex: p.PageIndex,
			OCRText:   text,
			Vector:    vector.Truncate(vec),
		}
		if err := ix.repo.Upsert(ctx, rec); err != nil {
			return res, fmt.Errorf("page %d: %w", p.PageIndex, apperr.Storage("upsert_embedding", fileID, err))
		}
		res.Embedded++
		res.LastPage = p.PageIndex
		ix.metrics.PageEmbedded()
	}

	ix.log.Info("embeddings generated",
		zap.String("file_id", fileID),
		zap.Int("embedded", res.Embedded),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

func (ix *Index) embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vec, err := ix.provider.Embed(ctx, text)
	if err == nil && len(vec) == 0 {
		err = apperr.Provider("embed", 0, errors.New("empty embedding"))
	}
	ix.metrics.ProviderCall(err, time.Since(start))
	return vec, err
}

// Get returns the stored records of a file ordered by page.
func (ix *Index) Get(ctx context.Context, fileID string) ([]model.EmbeddingRecord, error) {
	recs, err := ix.repo.ListByFile(ctx, fileID)
	if err != nil {
		return nil, apperr.Storage("list_embeddings", fileID, err)
	}
	return recs, nil
}

// Delete drops every record of a file.
func (ix *Index) Delete(ctx context.Context, fileID string) error {
	if err := ix.repo.DeleteByFile(ctx, fileID); err != nil {
		return apperr.Storage("delete_embeddings", fileID, err)
	}
	return nil
}
