package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"filerepo/internal/model"
	"filerepo/internal/repository"
	"filerepo/internal/vector"
)

// EmbeddingStore is the SQL implementation of repository.EmbeddingRepository.
// Vectors are stored with vector.Encode.
type EmbeddingStore struct {
	db  *sql.DB
	now clock
}

// NewEmbeddingStore creates a new EmbeddingStore.
func NewEmbeddingStore(db *sql.DB) *EmbeddingStore {
	return &EmbeddingStore{db: db, now: utcNow}
}

var _ repository.EmbeddingRepository = (*EmbeddingStore)(nil)

// Upsert inserts the record or replaces text and vector of an existing one.
func (s *EmbeddingStore) Upsert(ctx context.Context, rec *model.EmbeddingRecord) error {
	blob, err := vector.Encode(rec.Vector)
	if err != nil {
		return fmt.Errorf("encode vector of page %d: %w", rec.PageIndex, err)
	}
	now := s.now()
	const q = `
		INSERT INTO embeddings (file_id, page_index, ocr_text, vector, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (file_id, page_index) DO UPDATE
		SET ocr_text = excluded.ocr_text, vector = excluded.vector, updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, q, rec.FileID, rec.PageIndex, rec.OCRText, blob, now, now)
	return err
}

// ListByFile returns a file's records ordered by page index.
func (s *EmbeddingStore) ListByFile(ctx context.Context, fileID string) ([]model.EmbeddingRecord, error) {
	const q = `
		SELECT file_id, page_index, ocr_text, vector, created_at, updated_at
		FROM embeddings
		WHERE file_id = $1
		ORDER BY page_index
	`
	rows, err := s.db.QueryContext(ctx, q, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.EmbeddingRecord, 0)
	for rows.Next() {
		var (
			rec  model.EmbeddingRecord
			blob []byte
		)
		if err := rows.Scan(&rec.FileID, &rec.PageIndex, &rec.OCRText, &blob, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		if rec.Vector, err = vector.Decode(blob); err != nil {
			return nil, fmt.Errorf("decode vector of %s page %d: %w", fileID, rec.PageIndex, err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// PageIndexes returns the set of pages that already have a record.
func (s *EmbeddingStore) PageIndexes(ctx context.Context, fileID string) (map[int]struct{}, error) {
	const q = `SELECT page_index FROM embeddings WHERE file_id = $1`
	rows, err := s.db.QueryContext(ctx, q, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]struct{})
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, err
		}
		out[idx] = struct{}{}
	}
	return out, rows.Err()
}

// DeleteByFile removes every record of a file.
func (s *EmbeddingStore) DeleteByFile(ctx context.Context, fileID string) error {
	const q = `DELETE FROM embeddings WHERE file_id = $1`
	_, err := s.db.ExecContext(ctx, q, fileID)
	return err
}
