package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileRecord is the metadata of one stored file.
// StoragePath is relative to the storage root.
type FileRecord struct {
	ID          string         `json:"id"`
	TenantID    int64          `json:"tenant_id"`
	FileName    string         `json:"file_name"`
	StoragePath string         `json:"storage_path"`
	MediaType   string         `json:"media_type"`
	SizeBytes   int64          `json:"size_bytes"`
	Tag         string         `json:"tag,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	ModifiedAt  time.Time      `json:"modified_at"`
}

// NewFileID returns CF_FR_<tenantId>_<yyyyMMdd_HHmmss>_<6 hex>.
func NewFileID(tenantID int64, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("CF_FR_%d_%s_%s", tenantID, now.Format("20060102_150405"), suffix)
}

// NewFileRecord returns a record with a fresh id. StoragePath is set once
// the bytes are saved.
func NewFileRecord(tenantID int64, fileName, mediaType string, size int64, now time.Time) *FileRecord {
	return &FileRecord{
		ID:         NewFileID(tenantID, now),
		TenantID:   tenantID,
		FileName:   fileName,
		MediaType:  mediaType,
		SizeBytes:  size,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// FileFilter narrows a tenant's file listing. Zero values are ignored.
// The date range applies to ModifiedAt and only when both bounds are set.
type FileFilter struct {
	FileName     string
	Tag          string
	MediaType    string
	MinSizeBytes *int64
	MaxSizeBytes *int64
	From         *time.Time
	To           *time.Time
}

// FileUpdate carries the mutable parts of a FileRecord.
type FileUpdate struct {
	Tag      string         `json:"tag"`
	Metadata map[string]any `json:"metadata"`
}
