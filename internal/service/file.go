package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"filerepo/internal/apperr"
	"filerepo/internal/ingest"
	"filerepo/internal/metrics"
	"filerepo/internal/model"
	"filerepo/internal/repository"
	"filerepo/internal/storage"
	"filerepo/internal/validator"
)

const archiveExt = ".zip"

// UploadInput is one uploaded file as received from a client.
type UploadInput struct {
	TenantID int64
	FileName string
	Tag      string
	Content  io.Reader
}

// FileListResult is the service-level DTO for paginated files.
type FileListResult struct {
	Items []model.FileRecord `json:"data"`
	Total int                `json:"total"`
}

// FileContent is a stored file read back for download.
type FileContent struct {
	Record    *model.FileRecord
	MediaType string
	Data      []byte
}

// FileService defines the use cases for handling tenant files.
type FileService interface {
	// Upload validates the content against the tenant policy, stores it and
	// records it. Names ending in .zip are ingested all-or-nothing.
	Upload(ctx context.Context, in UploadInput) (*model.FileRecord, error)

	// Get returns a file of the tenant.
	Get(ctx context.Context, tenantID int64, fileID string) (*model.FileRecord, error)

	// List returns the tenant's files matching filter using limit/offset and a total count.
	List(ctx context.Context, tenantID int64, filter model.FileFilter, limit, offset int) (*FileListResult, error)

	// Update sets the tag and replaces the metadata.
	Update(ctx context.Context, tenantID int64, fileID string, upd model.FileUpdate) (*model.FileRecord, error)

	// Delete removes the stored bytes, the page embeddings and the record.
	Delete(ctx context.Context, tenantID int64, fileID string) error

	// Open reads the stored bytes back. MediaType is detected from the bytes.
	Open(ctx context.Context, tenantID int64, fileID string) (*FileContent, error)
}

// EmbeddingRemover drops the page vectors of a file.
type EmbeddingRemover interface {
	Delete(ctx context.Context, fileID string) error
}

type fileService struct {
	tenants    repository.TenantRepository
	files      repository.FileRepository
	store      storage.Storage
	ingestor   *ingest.Ingestor
	embeddings EmbeddingRemover
	metrics    *metrics.Metrics
	log        *zap.Logger
	now        func() time.Time
}

// NewFileService constructs a new FileService. m may be nil.
func NewFileService(
	tenants repository.TenantRepository,
	files repository.FileRepository,
	store storage.Storage,
	ingestor *ingest.Ingestor,
	embeddings EmbeddingRemover,
	m *metrics.Metrics,
	log *zap.Logger,
) FileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &fileService{
		tenants:    tenants,
		files:      files,
		store:      store,
		ingestor:   ingestor,
		embeddings: embeddings,
		metrics:    m,
		log:        log.With(zap.String("component", "files")),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *fileService) Upload(ctx context.Context, in UploadInput) (*model.FileRecord, error) {
	if in.Content == nil {
		return nil, apperr.Validation(apperr.RuleInvalidInput, "file", "file content is required")
	}
	if in.FileName == "" {
		return nil, apperr.Validation(apperr.RuleInvalidInput, "file", "file name is required")
	}

	policy, err := s.tenants.FindByID(ctx, in.TenantID)
	if err != nil {
		return nil, storageErr("get_tenant", strconv.FormatInt(in.TenantID, 10), err)
	}

	// Read one byte past the limit so oversized uploads fail validation
	// without buffering the rest.
	content, err := io.ReadAll(io.LimitReader(in.Content, policy.MaxFileSizeBytes+1))
	if err != nil {
		return nil, apperr.Validation(apperr.RuleInvalidInput, in.FileName, "cannot read upload: %v", err)
	}

	kind := "file"
	var rec *model.FileRecord
	if validator.Extension(in.FileName) == archiveExt {
		kind = "archive"
		rec, err = s.ingestor.Ingest(ctx, content, policy.TenantCode, *policy, func(ctx context.Context) (*model.FileRecord, error) {
			return s.persist(ctx, policy, in, content)
		})
	} else {
		if err = validator.Validate(content, in.FileName, *policy); err == nil {
			rec, err = s.persist(ctx, policy, in, content)
		}
	}

	if err != nil {
		var ve *apperr.ValidationError
		if errors.As(err, &ve) {
			s.metrics.Upload(kind, "rejected")
			s.metrics.Rejected(ve.Rule)
			s.log.Warn("upload rejected",
				zap.Int64("tenant_id", in.TenantID),
				zap.String("file_name", in.FileName),
				zap.String("rule", ve.Rule),
				zap.String("value", ve.Value),
			)
			return nil, err
		}
		s.metrics.Upload(kind, "error")
		s.log.Error("upload failed",
			zap.Int64("tenant_id", in.TenantID),
			zap.String("file_name", in.FileName),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.Upload(kind, "accepted")
	s.log.Info("file stored",
		zap.Int64("tenant_id", in.TenantID),
		zap.String("file_id", rec.ID),
		zap.String("storage_path", rec.StoragePath),
		zap.Int64("size_bytes", rec.SizeBytes),
	)
	return rec, nil
}

// persist saves the bytes and inserts the record, deleting the bytes again
// if the insert fails.
func (s *fileService) persist(ctx context.Context, policy *model.TenantPolicy, in UploadInput, content []byte) (*model.FileRecord, error) {
	rec := model.NewFileRecord(policy.TenantID, in.FileName, validator.DetectMIME(content), int64(len(content)), s.now())
	rec.Tag = in.Tag

	rel, err := s.store.Save(ctx, bytes.NewReader(content), rec.SizeBytes, policy.TenantCode, rec.ID, in.FileName)
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	rec.StoragePath = rel

	stored, err := s.files.Create(ctx, rec)
	if err != nil {
		// Rollback: delete the stored bytes
		if delErr := s.store.Delete(ctx, rel); delErr != nil {
			return nil, apperr.Storage("create_record", rel, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr))
		}
		return nil, apperr.Storage("create_record", rel, fmt.Errorf("db save failed: %w", err))
	}
	return stored, nil
}

func (s *fileService) Get(ctx context.Context, tenantID int64, fileID string) (*model.FileRecord, error) {
	if fileID == "" {
		return nil, apperr.Validation(apperr.RuleInvalidInput, "file_id", "file id is required")
	}
	rec, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		return nil, storageErr("get_file", fileID, err)
	}
	if rec.TenantID != tenantID {
		return nil, apperr.Validation(apperr.RuleTenantMismatch, fileID,
			"file %s does not belong to tenant %d", fileID, tenantID)
	}
	return rec, nil
}

// List returns paginated files without exposing repository types.
func (s *fileService) List(ctx context.Context, tenantID int64, filter model.FileFilter, limit, offset int) (*FileListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.files.List(ctx, tenantID, filter, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, storageErr("list_files", "", err)
	}
	return &FileListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *fileService) Update(ctx context.Context, tenantID int64, fileID string, upd model.FileUpdate) (*model.FileRecord, error) {
	rec, err := s.Get(ctx, tenantID, fileID)
	if err != nil {
		return nil, err
	}
	rec.Tag = upd.Tag
	rec.Metadata = upd.Metadata
	rec.ModifiedAt = s.now()

	out, err := s.files.Update(ctx, rec)
	if err != nil {
		return nil, storageErr("update_file", fileID, err)
	}
	return out, nil
}

// Delete removes the stored bytes first; if this fails the record is kept
// so the bytes stay reachable.
func (s *fileService) Delete(ctx context.Context, tenantID int64, fileID string) error {
	rec, err := s.Get(ctx, tenantID, fileID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, rec.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.embeddings.Delete(ctx, fileID); err != nil {
		return err
	}
	if err := s.files.Delete(ctx, fileID); err != nil {
		return storageErr("delete_file", fileID, err)
	}
	s.log.Info("file deleted", zap.Int64("tenant_id", tenantID), zap.String("file_id", fileID))
	return nil
}

func (s *fileService) Open(ctx context.Context, tenantID int64, fileID string) (*FileContent, error) {
	rec, err := s.Get(ctx, tenantID, fileID)
	if err != nil {
		return nil, err
	}
	rc, err := s.store.Load(ctx, rec.StoragePath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, apperr.Storage("load", rec.StoragePath, err)
	}
	return &FileContent{Record: rec, MediaType: validator.DetectMIME(data), Data: data}, nil
}
