package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"filerepo/internal/apperr"
	"filerepo/internal/model"
	"filerepo/internal/repository"
)

// FileStore is the SQL implementation of repository.FileRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type FileStore struct {
	db *sql.DB
}

// NewFileStore creates a new FileStore.
func NewFileStore(db *sql.DB) *FileStore {
	return &FileStore{db: db}
}

var _ repository.FileRepository = (*FileStore)(nil)

const fileColumns = `id, tenant_id, file_name, storage_path, media_type, size_bytes, tag, metadata, created_at, modified_at`

func scanFile(row rowScanner) (*model.FileRecord, error) {
	var (
		f    model.FileRecord
		tag  sql.NullString
		meta sql.NullString
	)
	if err := row.Scan(
		&f.ID,
		&f.TenantID,
		&f.FileName,
		&f.StoragePath,
		&f.MediaType,
		&f.SizeBytes,
		&tag,
		&meta,
		&f.CreatedAt,
		&f.ModifiedAt,
	); err != nil {
		return nil, err
	}
	f.Tag = tag.String
	if meta.Valid && meta.String != "" {
		if err := json.Unmarshal([]byte(meta.String), &f.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata of %s: %w", f.ID, err)
		}
	}
	return &f, nil
}

func fileArgs(f *model.FileRecord) (tag, meta sql.NullString, err error) {
	if f.Tag != "" {
		tag = sql.NullString{String: f.Tag, Valid: true}
	}
	if len(f.Metadata) > 0 {
		b, err := json.Marshal(f.Metadata)
		if err != nil {
			return tag, meta, fmt.Errorf("encode metadata: %w", err)
		}
		meta = sql.NullString{String: string(b), Valid: true}
	}
	return tag, meta, nil
}

// Create inserts a new file row and returns the stored record.
func (r *FileStore) Create(ctx context.Context, f *model.FileRecord) (*model.FileRecord, error) {
	tag, meta, err := fileArgs(f)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO files (id, tenant_id, file_name, storage_path, media_type, size_bytes, tag, metadata, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + fileColumns
	return scanFile(r.db.QueryRowContext(ctx, q,
		f.ID,
		f.TenantID,
		f.FileName,
		f.StoragePath,
		f.MediaType,
		f.SizeBytes,
		tag,
		meta,
		f.CreatedAt,
		f.ModifiedAt,
	))
}

// FindByID fetches a single file by its ID.
func (r *FileStore) FindByID(ctx context.Context, id string) (*model.FileRecord, error) {
	const q = `SELECT ` + fileColumns + ` FROM files WHERE id = $1`
	f, err := scanFile(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("file", id)
		}
		return nil, err
	}
	return f, nil
}

// buildFilter renders the WHERE clause for a tenant's listing.
func buildFilter(tenantID int64, f model.FileFilter) (string, []any) {
	conds := []string{"tenant_id = $1"}
	args := []any{tenantID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.FileName != "" {
		add(`LOWER(file_name) LIKE $%d ESCAPE '\'`, containsPattern(f.FileName))
	}
	if f.Tag != "" {
		add(`LOWER(tag) LIKE $%d ESCAPE '\'`, containsPattern(f.Tag))
	}
	if f.MediaType != "" {
		add(`LOWER(media_type) = $%d`, strings.ToLower(f.MediaType))
	}
	if f.MinSizeBytes != nil {
		add(`size_bytes >= $%d`, *f.MinSizeBytes)
	}
	if f.MaxSizeBytes != nil {
		add(`size_bytes <= $%d`, *f.MaxSizeBytes)
	}
	if f.From != nil && f.To != nil {
		add(`modified_at >= $%d`, f.From.UTC())
		add(`modified_at <= $%d`, f.To.UTC())
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns files using LIMIT/OFFSET pagination and a total count.
func (r *FileStore) List(ctx context.Context, tenantID int64, filter model.FileFilter, pq repository.PageQuery) (*repository.PageResult[model.FileRecord], error) {
	where, args := buildFilter(tenantID, filter)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	n := len(args)
	qList := `SELECT ` + fileColumns + ` FROM files` + where +
		fmt.Sprintf(` ORDER BY modified_at DESC, id DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.FileRecord, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.FileRecord]{
		Items: items,
		Total: total,
	}, nil
}

// Update writes the tag, metadata and modification time of f.
func (r *FileStore) Update(ctx context.Context, f *model.FileRecord) (*model.FileRecord, error) {
	tag, meta, err := fileArgs(f)
	if err != nil {
		return nil, err
	}
	const q = `
		UPDATE files SET tag = $1, metadata = $2, modified_at = $3
		WHERE id = $4
		RETURNING ` + fileColumns
	out, err := scanFile(r.db.QueryRowContext(ctx, q, tag, meta, f.ModifiedAt, f.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("file", f.ID)
		}
		return nil, err
	}
	return out, nil
}

// Delete removes a file by ID. It does not return an error if the row does not exist.
func (r *FileStore) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM files WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
