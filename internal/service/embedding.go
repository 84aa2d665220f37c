package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"filerepo/internal/apperr"
	"filerepo/internal/extract"
	"filerepo/internal/index"
	"filerepo/internal/model"
)

const pdfMediaType = "application/pdf"

// EmbeddingIndex is the page vector store used by EmbeddingService.
type EmbeddingIndex interface {
	Generate(ctx context.Context, fileID string, pages []model.PageText, opts index.GenerateOptions) (index.GenerateResult, error)
	Get(ctx context.Context, fileID string) ([]model.EmbeddingRecord, error)
}

// Searcher ranks the pages of one file against a query.
type Searcher interface {
	Search(ctx context.Context, fileID, query string, topK int) ([]model.SearchHit, error)
}

// EmbeddingService generates and queries page embeddings of tenant files.
type EmbeddingService interface {
	// Generate extracts the pages of a PDF file and embeds them.
	Generate(ctx context.Context, tenantID int64, fileID string, opts index.GenerateOptions) (*index.GenerateResult, error)
	// List returns the stored page records of a file.
	List(ctx context.Context, tenantID int64, fileID string) ([]model.EmbeddingRecord, error)
	// Search returns the top pages of a file for query.
	Search(ctx context.Context, tenantID int64, fileID, query string) ([]model.SearchHit, error)
}

type embeddingService struct {
	files     FileService
	index     EmbeddingIndex
	searcher  Searcher
	extractor extract.PageExtractor
	jobs      *semaphore.Weighted
	log       *zap.Logger
}

// NewEmbeddingService constructs a new EmbeddingService. At most maxJobs
// Generate calls run at once.
func NewEmbeddingService(files FileService, ix EmbeddingIndex, searcher Searcher, extractor extract.PageExtractor, maxJobs int, log *zap.Logger) EmbeddingService {
	if maxJobs <= 0 {
		maxJobs = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &embeddingService{
		files:     files,
		index:     ix,
		searcher:  searcher,
		extractor: extractor,
		jobs:      semaphore.NewWeighted(int64(maxJobs)),
		log:       log.With(zap.String("component", "embeddings")),
	}
}

func (s *embeddingService) Generate(ctx context.Context, tenantID int64, fileID string, opts index.GenerateOptions) (*index.GenerateResult, error) {
	content, err := s.files.Open(ctx, tenantID, fileID)
	if err != nil {
		return nil, err
	}
	if content.MediaType != pdfMediaType {
		return nil, apperr.Validation(apperr.RuleUnsupportedMediaType, content.MediaType,
			"embeddings are only supported for %s, got %s", pdfMediaType, content.MediaType)
	}

	if err := s.jobs.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("wait for index slot: %w", err)
	}
	defer s.jobs.Release(1)

	pages, err := s.extractor.Pages(ctx, content.Data)
	if err != nil {
		return nil, err
	}

	res, err := s.index.Generate(ctx, fileID, pages, opts)
	if err != nil {
		s.log.Error("embedding generation stopped",
			zap.Int64("tenant_id", tenantID),
			zap.String("file_id", fileID),
			zap.Int("embedded", res.Embedded),
			zap.Int("last_page", res.LastPage),
			zap.Error(err),
		)
		return &res, err
	}
	return &res, nil
}

func (s *embeddingService) List(ctx context.Context, tenantID int64, fileID string) ([]model.EmbeddingRecord, error) {
	if _, err := s.files.Get(ctx, tenantID, fileID); err != nil {
		return nil, err
	}
	return s.index.Get(ctx, fileID)
}

func (s *embeddingService) Search(ctx context.Context, tenantID int64, fileID, query string) ([]model.SearchHit, error) {
	if _, err := s.files.Get(ctx, tenantID, fileID); err != nil {
		return nil, err
	}
	return s.searcher.Search(ctx, fileID, query, index.DefaultTopK)
}
