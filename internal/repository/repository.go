// Package repository declares the persistence contracts. SQL
// implementations live in the sqlstore subpackage.
package repository

import (
	"context"

	"filerepo/internal/model"
)

// TenantRepository persists tenant policies.
type TenantRepository interface {
	// Create inserts p and assigns its id and generated tenant code.
	Create(ctx context.Context, p *model.TenantPolicy) (*model.TenantPolicy, error)
	// FindByID returns *apperr.NotFoundError when the tenant does not exist.
	FindByID(ctx context.Context, id int64) (*model.TenantPolicy, error)
	List(ctx context.Context) ([]model.TenantPolicy, error)
	// Update replaces the policy wholesale.
	Update(ctx context.Context, p *model.TenantPolicy) (*model.TenantPolicy, error)
	Delete(ctx context.Context, id int64) error
}

// FileRepository persists file records.
type FileRepository interface {
	Create(ctx context.Context, f *model.FileRecord) (*model.FileRecord, error)
	// FindByID returns *apperr.NotFoundError when the record does not exist.
	FindByID(ctx context.Context, id string) (*model.FileRecord, error)
	// List returns one page of a tenant's files matching filter, newest first.
	List(ctx context.Context, tenantID int64, filter model.FileFilter, pq PageQuery) (*PageResult[model.FileRecord], error)
	Update(ctx context.Context, f *model.FileRecord) (*model.FileRecord, error)
	// Delete returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}

// EmbeddingRepository persists page vectors keyed by (file id, page index).
type EmbeddingRepository interface {
	// Upsert inserts or replaces the record for its key.
	Upsert(ctx context.Context, rec *model.EmbeddingRecord) error
	// ListByFile returns a file's records ordered by page index.
	ListByFile(ctx context.Context, fileID string) ([]model.EmbeddingRecord, error)
	// PageIndexes returns the pages that already have a record.
	PageIndexes(ctx context.Context, fileID string) (map[int]struct{}, error)
	DeleteByFile(ctx context.Context, fileID string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
