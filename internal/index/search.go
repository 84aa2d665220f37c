package index

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"filerepo/internal/apperr"
	"filerepo/internal/model"
	"filerepo/internal/vector"
)

const (
	// DefaultTopK is the number of hits a search returns.
	DefaultTopK = 5
	// PreviewRunes bounds SearchHit.Preview.
	PreviewRunes = 200
)

// Searcher ranks the pages of one file against a query.
type Searcher struct {
	ix *Index
}

// NewSearcher returns a Searcher reading from ix.
func NewSearcher(ix *Index) *Searcher {
	return &Searcher{ix: ix}
}

// Search embeds query once and returns up to topK pages of fileID by
// descending cosine similarity. Ties go to the lower page index.
func (s *Searcher) Search(ctx context.Context, fileID, query string, topK int) ([]model.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation(apperr.RuleQueryRequired, "", "query text is required")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	ctx, span := s.ix.tracer.Start(ctx, "index.search", trace.WithAttributes(
		attribute.String("file.id", fileID),
		attribute.Int("top_k", topK),
	))
	defer span.End()

	qv, err := s.ix.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	recs, err := s.ix.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	hits := Rank(qv, recs, topK)
	span.SetAttributes(attribute.Int("candidates", len(recs)), attribute.Int("hits", len(hits)))
	s.ix.log.Debug("search ranked",
		zap.String("file_id", fileID),
		zap.Int("candidates", len(recs)),
		zap.Duration("took", time.Since(start)),
	)
	s.ix.metrics.Search()
	return hits, nil
}

// Rank scores recs against q and keeps the best topK.
func Rank(q []float32, recs []model.EmbeddingRecord, topK int) []model.SearchHit {
	hits := make([]model.SearchHit, 0, len(recs))
	for _, r := range recs {
		hits = append(hits, model.SearchHit{
			PageIndex:  r.PageIndex,
			Similarity: vector.Cosine(q, r.Vector),
			Preview:    Preview(r.OCRText, PreviewRunes),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].PageIndex < hits[j].PageIndex
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// Preview returns at most n runes of s.
func Preview(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
